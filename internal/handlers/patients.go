package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"anesthesia-record-server/internal/models"
	"anesthesia-record-server/internal/utils"
)

// PatientHandler handles patient demographic requests.
type PatientHandler struct {
	DB *gorm.DB
}

// NewPatientHandler creates a new PatientHandler.
func NewPatientHandler(db *gorm.DB) *PatientHandler {
	return &PatientHandler{DB: db}
}

// CreatePatientRequest represents the request body for creating a patient.
type CreatePatientRequest struct {
	OpenDentalID        string    `json:"open_dental_id" binding:"required"`
	FirstName           string    `json:"first_name" binding:"required"`
	LastName            string    `json:"last_name" binding:"required"`
	DateOfBirth         time.Time `json:"date_of_birth" binding:"required"`
	MedicalRecordNumber string    `json:"medical_record_number"`
}

// CreatePatient handles creating a new patient. Creation is unconditional:
// there is no upsert against an existing external identifier.
func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var req CreatePatientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patient := models.Patient{
		OpenDentalID:        req.OpenDentalID,
		FirstName:           req.FirstName,
		LastName:            req.LastName,
		DateOfBirth:         req.DateOfBirth,
		MedicalRecordNumber: req.MedicalRecordNumber,
	}
	if err := h.DB.Create(&patient).Error; err != nil {
		utils.InternalServerError(c, "Failed to create patient: "+err.Error())
		return
	}

	utils.Created(c, "Patient created successfully", patient)
}

// GetPatientByOpenDentalID fetches a patient by external identifier.
func (h *PatientHandler) GetPatientByOpenDentalID(c *gin.Context) {
	openDentalID := c.Param("openDentalId")

	var patient models.Patient
	if err := h.DB.First(&patient, "open_dental_id = ?", openDentalID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	utils.Success(c, "Patient fetched successfully", patient)
}
