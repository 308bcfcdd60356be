package models

import (
	"time"
)

// Patient holds the demographics for a person undergoing a procedure. The
// OpenDentalID is the external identifier used to look patients up from the
// practice management system; it is the unique key for patient fetches.
type Patient struct {
	BaseModel
	OpenDentalID        string    `gorm:"uniqueIndex;size:64;not null" json:"open_dental_id"`
	FirstName           string    `gorm:"size:100" json:"first_name"`
	LastName            string    `gorm:"size:100" json:"last_name"`
	DateOfBirth         time.Time `json:"date_of_birth"`
	MedicalRecordNumber string    `gorm:"size:64" json:"medical_record_number"`

	Records []AnesthesiaRecord `gorm:"foreignKey:PatientID" json:"-"`
}
