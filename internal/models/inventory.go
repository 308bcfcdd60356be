package models

import (
	"time"
)

// MedicationInventory is one lot of a medication held at a location.
// Quantity is a continuous volume in mL (or equivalent) and must never go
// negative; decrements are guarded by a conditional update in the inventory
// service.
type MedicationInventory struct {
	BaseModel
	MedicationID   string    `gorm:"size:36;index;not null" json:"medication_id"`
	LocationID     string    `gorm:"size:36;index;not null" json:"location_id"`
	Quantity       float64   `json:"quantity"`
	LotNumber      string    `gorm:"size:64" json:"lot_number"`
	ExpirationDate time.Time `json:"expiration_date"`
	Supplier       string    `gorm:"size:255" json:"supplier"`
	InvoiceNumber  string    `gorm:"size:64" json:"invoice_number"`
	DateReceived   time.Time `json:"date_received"`

	Medication Medication `gorm:"foreignKey:MedicationID" json:"-"`
	Location   Location   `gorm:"foreignKey:LocationID" json:"-"`
}
