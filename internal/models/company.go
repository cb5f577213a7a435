package models

import "time"

// Company represents a business entity (firmă) issuing invoices.
type Company struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:255;not null" json:"name"`
	// CUI is the Romanian fiscal identification code, unique across all companies.
	CUI string `gorm:"size:20;not null;uniqueIndex" json:"cui"`
	// Series is the default invoice numbering series for this company (e.g. "INV").
	Series    string    `gorm:"size:20;not null" json:"series"`
	CreatedAt time.Time `json:"created_at"`

	Customers []Customer `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"customers,omitempty"`
	Invoices  []Invoice  `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"invoices,omitempty"`
}

// Customer is a billing counterpart owned by exactly one Company.
type Customer struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	CompanyID uint    `gorm:"not null;index" json:"company_id"`
	Company   Company `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"-"`
	Name      string  `gorm:"size:255;not null" json:"name"`
	// CUI is optional: retail customers have no fiscal code.
	CUI       *string   `gorm:"size:20" json:"cui,omitempty"`
	Address   *string   `gorm:"size:500" json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
