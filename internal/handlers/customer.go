package handlers

import (
	"encoding/json"
	"net/http"

	"gorm.io/gorm"

	"contabilitate/internal/httpx"
	"contabilitate/internal/models"
	"contabilitate/internal/services"
	"contabilitate/internal/validation"
)

type CustomerHandler struct {
	DB  *gorm.DB
	Svc *services.Ledger
}

func NewCustomerHandler(db *gorm.DB, svc *services.Ledger) *CustomerHandler {
	return &CustomerHandler{DB: db, Svc: svc}
}

// List: GET /customers?company_id=N
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	dbq := h.DB.Order("id")
	if cid := r.URL.Query().Get("company_id"); cid != "" {
		dbq = dbq.Where("company_id = ?", cid)
	}
	var customers []models.Customer
	if err := dbq.Find(&customers).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_customers", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": customers, "total": len(customers)})
}

// Create: POST /customers
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	type createReq struct {
		CompanyID uint    `json:"company_id"`
		Name      string  `json:"name"`
		CUI       *string `json:"cui"`
		Address   *string `json:"address"`
	}
	var req createReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.RequiredID("company_id", req.CompanyID, v)
	validation.Required("name", req.Name, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	customer := models.Customer{
		CompanyID: req.CompanyID,
		Name:      req.Name,
		CUI:       req.CUI,
		Address:   req.Address,
	}
	if err := h.Svc.CreateCustomer(&customer); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, customer)
}

// Delete: POST /customers/delete – rejected while invoices reference the customer.
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := parseID(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"id": "required"})
		return
	}
	if err := h.Svc.DeleteCustomer(id); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}
