package models

// Location represents a site where procedures are performed. Each location
// carries its own medication inventory.
type Location struct {
	BaseModel
	Name    string `gorm:"uniqueIndex;size:255;not null" json:"name"`
	Address string `gorm:"size:255" json:"address"`

	Inventories []MedicationInventory `gorm:"foreignKey:LocationID" json:"-"`
	Records     []AnesthesiaRecord    `gorm:"foreignKey:LocationID" json:"-"`
}

// Provider is a clinical staff member. Role is free text (Anesthetist,
// Surgeon, Assistant, Circulator); no role enforcement happens at write time.
type Provider struct {
	BaseModel
	Name          string `gorm:"size:255;index" json:"name"`
	Role          string `gorm:"size:50" json:"role"`
	LicenseNumber string `gorm:"size:64" json:"license_number"`
}

// Medication is reference data, seeded with a fixed default set at startup.
// Name is the dedup key for seeding.
type Medication struct {
	BaseModel
	Name          string `gorm:"uniqueIndex;size:255;not null" json:"name"`
	Concentration string `gorm:"size:50" json:"concentration"`
	UnitDose      string `gorm:"size:50" json:"unit_dose"`
	DEASchedule   string `gorm:"size:20" json:"dea_schedule"`
	HowSupplied   string `gorm:"size:100" json:"how_supplied"`

	Inventories     []MedicationInventory      `gorm:"foreignKey:MedicationID" json:"-"`
	Administrations []MedicationAdministration `gorm:"foreignKey:MedicationID" json:"-"`
}
