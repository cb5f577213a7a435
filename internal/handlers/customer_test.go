package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"contabilitate/internal/models"
	"contabilitate/internal/services"
)

func TestCustomerCreateAndScopedList(t *testing.T) {
	d := setupHandlerTestDB(t)
	svc := services.NewLedger(d)
	h := NewCustomerHandler(d, svc)

	c1 := models.Company{Name: "Firma Unu", CUI: "RO1", Series: "INV"}
	c2 := models.Company{Name: "Firma Doi", CUI: "RO2", Series: "A"}
	if err := svc.CreateCompany(&c1); err != nil {
		t.Fatalf("company: %v", err)
	}
	if err := svc.CreateCompany(&c2); err != nil {
		t.Fatalf("company: %v", err)
	}

	body := fmt.Sprintf(`{"company_id":%d,"name":"Client SA","cui":"RO99","address":"Str. Lunga 1"}`, c1.ID)
	w := postJSON(t, h.Create, "/customers", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var created models.Customer
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.CUI == nil || *created.CUI != "RO99" {
		t.Fatalf("optional cui not persisted: %+v", created)
	}

	// list scoped to the other company is empty
	listReq := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/customers?company_id=%d", c2.ID), nil)
	listW := httptest.NewRecorder()
	h.List(listW, listReq)
	var list struct {
		Items []models.Customer `json:"items"`
		Total int               `json:"total"`
	}
	if err := json.Unmarshal(listW.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if list.Total != 0 {
		t.Fatalf("expected empty list for other company, got %#v", list)
	}
}

func TestCustomerCreateUnknownCompany(t *testing.T) {
	d := setupHandlerTestDB(t)
	h := NewCustomerHandler(d, services.NewLedger(d))

	w := postJSON(t, h.Create, "/customers", `{"company_id":42,"name":"Client"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "referential_violation") {
		t.Fatalf("expected referential_violation, got %s", w.Body.String())
	}
}

func TestCustomerDeleteRestricted(t *testing.T) {
	d := setupHandlerTestDB(t)
	svc := services.NewLedger(d)
	h := NewCustomerHandler(d, svc)

	company := models.Company{Name: "Firma", CUI: "RO1", Series: "INV"}
	if err := svc.CreateCompany(&company); err != nil {
		t.Fatalf("company: %v", err)
	}
	customer := models.Customer{CompanyID: company.ID, Name: "Client"}
	if err := svc.CreateCustomer(&customer); err != nil {
		t.Fatalf("customer: %v", err)
	}
	inv := models.Invoice{CompanyID: company.ID, Number: 1, Series: "INV", CustomerID: &customer.ID}
	if err := svc.IssueInvoice(&inv); err != nil {
		t.Fatalf("invoice: %v", err)
	}

	w := postJSON(t, h.Delete, fmt.Sprintf("/customers/delete?id=%d", customer.ID), "")
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 while referenced, got %d body=%s", w.Code, w.Body.String())
	}

	if err := svc.DeleteInvoice(inv.ID); err != nil {
		t.Fatalf("delete invoice: %v", err)
	}
	w = postJSON(t, h.Delete, fmt.Sprintf("/customers/delete?id=%d", customer.ID), "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 after invoice removed, got %d body=%s", w.Code, w.Body.String())
	}
}
