package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"contabilitate/internal/httpx"
	"contabilitate/internal/models"
	"contabilitate/internal/services"
	"contabilitate/internal/validation"
)

type InvoiceHandler struct {
	DB  *gorm.DB
	Svc *services.Ledger
}

func NewInvoiceHandler(db *gorm.DB, svc *services.Ledger) *InvoiceHandler {
	return &InvoiceHandler{DB: db, Svc: svc}
}

type lineReq struct {
	Name      string          `json:"name"`
	Qty       decimal.Decimal `json:"qty"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	VATRate   decimal.Decimal `json:"vat_rate"`
}

func (lr lineReq) model() models.InvoiceLine {
	return models.InvoiceLine{
		Name:      lr.Name,
		Qty:       lr.Qty,
		Unit:      lr.Unit,
		UnitPrice: lr.UnitPrice,
		VATRate:   lr.VATRate,
	}
}

// List: GET /invoices?company_id=N&page=P&limit=L
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	offset := 0
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			offset = (n - 1) * limit
		}
	}
	dbq := h.DB.Model(&models.Invoice{})
	if cid := r.URL.Query().Get("company_id"); cid != "" {
		dbq = dbq.Where("company_id = ?", cid)
	}
	var total int64
	dbq.Count(&total)
	var invs []models.Invoice
	if err := dbq.Preload("Lines").Order("id desc").Limit(limit).Offset(offset).Find(&invs).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_invoices", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": invs, "total": total, "limit": limit, "offset": offset})
}

// Get: GET /invoices/get?id=N
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := parseID(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"id": "required"})
		return
	}
	var inv models.Invoice
	if err := h.DB.Preload("Lines").Preload("Customer").First(&inv, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

// Create: POST /invoices
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	type createReq struct {
		CompanyID  uint      `json:"company_id"`
		Number     int       `json:"number"`
		Series     string    `json:"series"`
		IssueDate  string    `json:"issue_date"`
		CustomerID *uint     `json:"customer_id"`
		Currency   string    `json:"currency"`
		Lines      []lineReq `json:"lines"`
	}
	var req createReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.RequiredID("company_id", req.CompanyID, v)
	validation.PositiveInt("number", req.Number, v)
	for _, l := range req.Lines {
		validation.Required("lines.name", l.Name, v)
		validation.NonNegativeDecimal("lines.unit_price", l.UnitPrice, v)
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	inv := models.Invoice{
		CompanyID:  req.CompanyID,
		Number:     req.Number,
		Series:     req.Series,
		CustomerID: req.CustomerID,
		Currency:   req.Currency,
	}
	if req.IssueDate != "" {
		d, err := time.Parse("2006-01-02", req.IssueDate)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"issue_date": "expected YYYY-MM-DD"})
			return
		}
		inv.IssueDate = d
	}
	for _, l := range req.Lines {
		inv.Lines = append(inv.Lines, l.model())
	}
	if err := h.Svc.IssueInvoice(&inv); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, inv)
}

// Delete: POST /invoices/delete
func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := parseID(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"id": "required"})
		return
	}
	if err := h.Svc.DeleteInvoice(id); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// AddLine: POST /invoices/lines
func (h *InvoiceHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	type addReq struct {
		InvoiceID uint `json:"invoice_id"`
		lineReq
	}
	var req addReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.RequiredID("invoice_id", req.InvoiceID, v)
	validation.Required("name", req.Name, v)
	validation.NonNegativeDecimal("unit_price", req.UnitPrice, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	line := req.model()
	if err := h.Svc.AddLine(req.InvoiceID, &line); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, line)
}

// DeleteLine: POST /invoices/lines/delete
func (h *InvoiceHandler) DeleteLine(w http.ResponseWriter, r *http.Request) {
	id := parseID(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"id": "required"})
		return
	}
	if err := h.Svc.DeleteLine(id); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}
