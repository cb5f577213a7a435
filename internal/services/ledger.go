package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"contabilitate/internal/models"
)

// Ledger encapsulates every write against the invoicing schema.
// All multi-row writes run in a single transaction so a reader never
// observes a half-applied cascade or a partially issued invoice.
type Ledger struct {
	DB *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger { return &Ledger{DB: db} }

// CreateCompany registers a company. CUI must be globally unique.
func (s *Ledger) CreateCompany(c *models.Company) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name", ErrRequired)
	}
	if strings.TrimSpace(c.CUI) == "" {
		return fmt.Errorf("%w: cui", ErrRequired)
	}
	if strings.TrimSpace(c.Series) == "" {
		return fmt.Errorf("%w: series", ErrRequired)
	}
	return classify(s.DB.Create(c).Error)
}

// DeleteCompany removes a company and everything it owns: customers,
// invoices and their lines, all in one transaction. The explicit
// child-before-parent order keeps behavior identical on engines where
// native cascades are off (sqlite without the FK pragma).
func (s *Ledger) DeleteCompany(id uint) error {
	return classify(s.DB.Transaction(func(tx *gorm.DB) error {
		var company models.Company
		if err := tx.First(&company, id).Error; err != nil {
			return err
		}
		if err := tx.Where("invoice_id IN (?)",
			tx.Model(&models.Invoice{}).Select("id").Where("company_id = ?", id),
		).Delete(&models.InvoiceLine{}).Error; err != nil {
			return err
		}
		if err := tx.Where("company_id = ?", id).Delete(&models.Invoice{}).Error; err != nil {
			return err
		}
		if err := tx.Where("company_id = ?", id).Delete(&models.Customer{}).Error; err != nil {
			return err
		}
		return tx.Delete(&company).Error
	}))
}

// CreateCustomer registers a customer under an existing company.
func (s *Ledger) CreateCustomer(c *models.Customer) error {
	if c.CompanyID == 0 {
		return fmt.Errorf("%w: company_id", ErrRequired)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name", ErrRequired)
	}
	return classify(s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Company{}).Where("id = ?", c.CompanyID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrForeignKey
		}
		return tx.Create(c).Error
	}))
}

// DeleteCustomer removes a customer. Deletion is restricted while any
// invoice still references the customer; callers must reassign or delete
// those invoices first.
func (s *Ledger) DeleteCustomer(id uint) error {
	return classify(s.DB.Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, id).Error; err != nil {
			return err
		}
		var refs int64
		if err := tx.Model(&models.Invoice{}).Where("customer_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return ErrForeignKey
		}
		return tx.Delete(&customer).Error
	}))
}

// IssueInvoice creates an invoice, optionally with inline lines. An empty
// series falls back to the issuing company's default series. Line totals and
// the invoice total are computed here; values supplied by the caller are
// overwritten.
func (s *Ledger) IssueInvoice(inv *models.Invoice) error {
	if inv.CompanyID == 0 {
		return fmt.Errorf("%w: company_id", ErrRequired)
	}
	if inv.Number <= 0 {
		return fmt.Errorf("%w: number", ErrRequired)
	}
	return classify(s.DB.Transaction(func(tx *gorm.DB) error {
		var company models.Company
		if err := tx.First(&company, inv.CompanyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrForeignKey
			}
			return err
		}
		if strings.TrimSpace(inv.Series) == "" {
			inv.Series = company.Series
		}
		if inv.CustomerID != nil {
			var count int64
			if err := tx.Model(&models.Customer{}).
				Where("id = ? AND company_id = ?", *inv.CustomerID, inv.CompanyID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrForeignKey
			}
		}
		total := decimal.Zero
		for i := range inv.Lines {
			if strings.TrimSpace(inv.Lines[i].Name) == "" {
				return fmt.Errorf("%w: lines[%d].name", ErrRequired, i)
			}
			inv.Lines[i].LineTotal = inv.Lines[i].ComputeTotal()
			total = total.Add(inv.Lines[i].LineTotal)
		}
		inv.Total = total
		return tx.Create(inv).Error
	}))
}

// DeleteInvoice removes an invoice and its lines in one transaction.
func (s *Ledger) DeleteInvoice(id uint) error {
	return classify(s.DB.Transaction(func(tx *gorm.DB) error {
		var inv models.Invoice
		if err := tx.First(&inv, id).Error; err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", id).Delete(&models.InvoiceLine{}).Error; err != nil {
			return err
		}
		return tx.Delete(&inv).Error
	}))
}

// AddLine appends a line to an existing invoice and recomputes the invoice
// total in the same transaction.
func (s *Ledger) AddLine(invoiceID uint, line *models.InvoiceLine) error {
	if strings.TrimSpace(line.Name) == "" {
		return fmt.Errorf("%w: name", ErrRequired)
	}
	return classify(s.DB.Transaction(func(tx *gorm.DB) error {
		var inv models.Invoice
		if err := tx.First(&inv, invoiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrForeignKey
			}
			return err
		}
		line.InvoiceID = invoiceID
		line.LineTotal = line.ComputeTotal()
		if err := tx.Create(line).Error; err != nil {
			return err
		}
		return s.recomputeTotal(tx, invoiceID)
	}))
}

// DeleteLine removes a line and recomputes the invoice total.
func (s *Ledger) DeleteLine(lineID uint) error {
	return classify(s.DB.Transaction(func(tx *gorm.DB) error {
		var line models.InvoiceLine
		if err := tx.First(&line, lineID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&line).Error; err != nil {
			return err
		}
		return s.recomputeTotal(tx, line.InvoiceID)
	}))
}

// recomputeTotal sets Invoice.Total to the sum of its lines' LineTotal.
func (s *Ledger) recomputeTotal(tx *gorm.DB, invoiceID uint) error {
	var lines []models.InvoiceLine
	if err := tx.Where("invoice_id = ?", invoiceID).Find(&lines).Error; err != nil {
		return err
	}
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal)
	}
	return tx.Model(&models.Invoice{}).Where("id = ?", invoiceID).
		Update("total", total).Error
}
