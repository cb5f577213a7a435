package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"contabilitate/internal/httpx"
	"contabilitate/internal/models"
	"contabilitate/internal/services"
	"contabilitate/internal/validation"
)

type CompanyHandler struct {
	DB  *gorm.DB
	Svc *services.Ledger
}

func NewCompanyHandler(db *gorm.DB, svc *services.Ledger) *CompanyHandler {
	return &CompanyHandler{DB: db, Svc: svc}
}

// List: GET /companies
func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	var companies []models.Company
	if err := h.DB.Order("id").Find(&companies).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_companies", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": companies, "total": len(companies)})
}

// Create: POST /companies
func (h *CompanyHandler) Create(w http.ResponseWriter, r *http.Request) {
	type createReq struct {
		Name   string `json:"name"`
		CUI    string `json:"cui"`
		Series string `json:"series"`
	}
	var req createReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("name", req.Name, v)
	validation.Required("cui", req.CUI, v)
	validation.Required("series", req.Series, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	company := models.Company{Name: req.Name, CUI: req.CUI, Series: req.Series}
	if err := h.Svc.CreateCompany(&company); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, company)
}

// Delete: POST /companies/delete – cascades to customers, invoices and lines.
func (h *CompanyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := parseID(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"id": "required"})
		return
	}
	if err := h.Svc.DeleteCompany(id); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// parseID reads an id from query or form value.
func parseID(r *http.Request) uint {
	val := r.URL.Query().Get("id")
	if val == "" {
		if err := r.ParseForm(); err == nil {
			val = r.Form.Get("id")
		}
	}
	if val == "" {
		return 0
	}
	n, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return 0
	}
	return uint(n)
}
