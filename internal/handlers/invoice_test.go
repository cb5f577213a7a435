package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"contabilitate/internal/models"
	"contabilitate/internal/services"
)

// seed minimal company/customer for invoices
func seedInvoiceFixtures(t *testing.T, d *gorm.DB) (models.Company, models.Customer) {
	t.Helper()
	svc := services.NewLedger(d)
	company := models.Company{Name: "Firma SRL", CUI: "RO123", Series: "INV"}
	if err := svc.CreateCompany(&company); err != nil {
		t.Fatalf("company: %v", err)
	}
	customer := models.Customer{CompanyID: company.ID, Name: "Client SA"}
	if err := svc.CreateCustomer(&customer); err != nil {
		t.Fatalf("customer: %v", err)
	}
	return company, customer
}

func TestInvoiceCreateAndListJSON(t *testing.T) {
	d := setupHandlerTestDB(t)
	company, customer := seedInvoiceFixtures(t, d)
	h := NewInvoiceHandler(d, services.NewLedger(d))

	body := fmt.Sprintf(`{"company_id":%d,"number":1,"series":"INV","customer_id":%d,"lines":[{"name":"Consultanta","qty":2,"unit_price":100}]}`, company.ID, customer.ID)
	w := postJSON(t, h.Create, "/invoices", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var created models.Invoice
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == 0 || created.Currency != "RON" {
		t.Fatalf("unexpected invoice: %+v", created)
	}
	// 2 × 100 × 1.19
	if !created.Total.Equal(decimal.NewFromInt(238)) {
		t.Fatalf("total = %s, want 238", created.Total)
	}

	listReq := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/invoices?company_id=%d", company.ID), nil)
	listW := httptest.NewRecorder()
	h.List(listW, listReq)
	if listW.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", listW.Code)
	}
	var list struct {
		Items []models.Invoice `json:"items"`
		Total int64            `json:"total"`
	}
	if err := json.Unmarshal(listW.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Items) != 1 || list.Total != 1 {
		t.Fatalf("unexpected list: %#v", list)
	}
	if len(list.Items[0].Lines) != 1 {
		t.Fatalf("lines not preloaded: %#v", list.Items[0])
	}
}

func TestInvoiceCreateDuplicateNumber(t *testing.T) {
	d := setupHandlerTestDB(t)
	company, _ := seedInvoiceFixtures(t, d)
	h := NewInvoiceHandler(d, services.NewLedger(d))

	body := fmt.Sprintf(`{"company_id":%d,"number":1,"series":"INV"}`, company.ID)
	if w := postJSON(t, h.Create, "/invoices", body); w.Code != http.StatusCreated {
		t.Fatalf("first create: %d body=%s", w.Code, w.Body.String())
	}
	w := postJSON(t, h.Create, "/invoices", body)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d body=%s", w.Code, w.Body.String())
	}

	// different series passes
	other := fmt.Sprintf(`{"company_id":%d,"number":1,"series":"OTHER"}`, company.ID)
	if w := postJSON(t, h.Create, "/invoices", other); w.Code != http.StatusCreated {
		t.Fatalf("other series: %d body=%s", w.Code, w.Body.String())
	}
}

func TestInvoiceCreateUnknownCustomer(t *testing.T) {
	d := setupHandlerTestDB(t)
	company, _ := seedInvoiceFixtures(t, d)
	h := NewInvoiceHandler(d, services.NewLedger(d))

	body := fmt.Sprintf(`{"company_id":%d,"number":1,"series":"INV","customer_id":999}`, company.ID)
	w := postJSON(t, h.Create, "/invoices", body)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "referential_violation") {
		t.Fatalf("expected referential_violation, got %s", w.Body.String())
	}
	var count int64
	d.Model(&models.Invoice{}).Count(&count)
	if count != 0 {
		t.Fatalf("invoice written despite rejection, count=%d", count)
	}
}

func TestInvoiceGetAndBadIssueDate(t *testing.T) {
	d := setupHandlerTestDB(t)
	company, _ := seedInvoiceFixtures(t, d)
	h := NewInvoiceHandler(d, services.NewLedger(d))

	body := fmt.Sprintf(`{"company_id":%d,"number":1,"series":"INV","issue_date":"2026-08-01"}`, company.ID)
	w := postJSON(t, h.Create, "/invoices", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d body=%s", w.Code, w.Body.String())
	}
	var created models.Invoice
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	getReq := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/invoices/get?id=%d", created.ID), nil)
	getW := httptest.NewRecorder()
	h.Get(getW, getReq)
	if getW.Code != http.StatusOK {
		t.Fatalf("get: %d", getW.Code)
	}

	bad := fmt.Sprintf(`{"company_id":%d,"number":2,"series":"INV","issue_date":"01/08/2026"}`, company.ID)
	if w := postJSON(t, h.Create, "/invoices", bad); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad issue_date got %d", w.Code)
	}
}

func TestInvoiceAddLineEndpoint(t *testing.T) {
	d := setupHandlerTestDB(t)
	company, _ := seedInvoiceFixtures(t, d)
	svc := services.NewLedger(d)
	h := NewInvoiceHandler(d, svc)

	inv := models.Invoice{CompanyID: company.ID, Number: 1, Series: "INV"}
	if err := svc.IssueInvoice(&inv); err != nil {
		t.Fatalf("seed invoice: %v", err)
	}

	body := fmt.Sprintf(`{"invoice_id":%d,"name":"Transport","unit_price":50}`, inv.ID)
	w := postJSON(t, h.AddLine, "/invoices/lines", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var line models.InvoiceLine
	if err := json.Unmarshal(w.Body.Bytes(), &line); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if line.Unit != "buc" || !line.VATRate.Equal(decimal.NewFromInt(19)) {
		t.Fatalf("defaults not applied: %+v", line)
	}

	var got models.Invoice
	if err := d.First(&got, inv.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	// 1 × 50 × 1.19
	if !got.Total.Equal(decimal.NewFromFloat(59.5)) {
		t.Fatalf("total = %s, want 59.5", got.Total)
	}

	// deleting the line brings the total back to zero
	delW := postJSON(t, h.DeleteLine, fmt.Sprintf("/invoices/lines/delete?id=%d", line.ID), "")
	if delW.Code != http.StatusOK {
		t.Fatalf("delete line: %d", delW.Code)
	}
	if err := d.First(&got, inv.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !got.Total.IsZero() {
		t.Fatalf("total = %s, want 0", got.Total)
	}
}
