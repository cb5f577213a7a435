package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultCurrency is applied when an invoice is created without one.
const DefaultCurrency = "RON"

// DefaultUnit is the unit-of-measure applied to lines created without one ("buc" = bucată, piece).
const DefaultUnit = "buc"

// DefaultVATRate is the standard Romanian VAT percentage.
var DefaultVATRate = decimal.NewFromInt(19)

// Invoice is a billing document issued by a Company, optionally to a Customer.
//
// (company_id, series, number) is the document's real-world identity: invoice
// numbers are sequential and non-reusable per series, so the triple carries a
// composite unique index.
type Invoice struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	CompanyID uint    `gorm:"not null;uniqueIndex:idx_invoices_company_series_number" json:"company_id"`
	Company   Company `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"-"`

	Number int    `gorm:"not null;uniqueIndex:idx_invoices_company_series_number" json:"number"`
	Series string `gorm:"size:20;not null;uniqueIndex:idx_invoices_company_series_number" json:"series"`

	// IssueDate defaults to the date of creation.
	IssueDate time.Time `gorm:"not null" json:"issue_date"`

	// CustomerID is optional; deleting a referenced Customer is restricted.
	CustomerID *uint     `gorm:"index" json:"customer_id,omitempty"`
	Customer   *Customer `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT" json:"customer,omitempty"`

	Currency string `gorm:"size:3;not null;default:'RON'" json:"currency"`
	// Total is maintained as the sum of the lines' LineTotal; it is recomputed
	// transactionally on every line write, never trusted from callers.
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total"`
	CreatedAt time.Time       `json:"created_at"`

	Lines []InvoiceLine `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"lines,omitempty"`
}

// BeforeCreate fills storage-level defaults so any writer gets them,
// matching the DDL DEFAULT clauses in migrations/.
func (inv *Invoice) BeforeCreate(tx *gorm.DB) error {
	if inv.Currency == "" {
		inv.Currency = DefaultCurrency
	}
	if inv.IssueDate.IsZero() {
		now := tx.NowFunc()
		inv.IssueDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	}
	return nil
}

// InvoiceLine is one priced item within an Invoice.
type InvoiceLine struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	InvoiceID uint     `gorm:"not null;index" json:"invoice_id"`
	Invoice   *Invoice `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"-"`

	Name      string          `gorm:"size:255;not null" json:"name"`
	Qty       decimal.Decimal `gorm:"type:decimal(12,3);not null;default:1" json:"qty"`
	Unit      string          `gorm:"size:20;not null;default:'buc'" json:"unit"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"unit_price"`
	// VATRate is a percentage (19 = 19%), not a fraction.
	VATRate   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:19" json:"vat_rate"`
	LineTotal decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"line_total"`
}

// BeforeCreate fills storage-level defaults for omitted fields.
func (l *InvoiceLine) BeforeCreate(_ *gorm.DB) error {
	if l.Qty.IsZero() {
		l.Qty = decimal.NewFromInt(1)
	}
	if l.Unit == "" {
		l.Unit = DefaultUnit
	}
	if l.VATRate.IsZero() {
		l.VATRate = DefaultVATRate
	}
	if l.LineTotal.IsZero() {
		l.LineTotal = l.ComputeTotal()
	}
	return nil
}

// ComputeTotal returns qty × unit_price × (1 + vat_rate/100) rounded to 2 decimals.
func (l *InvoiceLine) ComputeTotal() decimal.Decimal {
	qty := l.Qty
	if qty.IsZero() {
		qty = decimal.NewFromInt(1)
	}
	rate := l.VATRate
	if rate.IsZero() {
		rate = DefaultVATRate
	}
	net := qty.Mul(l.UnitPrice)
	gross := net.Add(net.Mul(rate).Div(decimal.NewFromInt(100)))
	return gross.Round(2)
}
