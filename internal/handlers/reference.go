package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"anesthesia-record-server/internal/models"
	"anesthesia-record-server/internal/utils"
)

// ReferenceHandler handles the slowly-changing reference data: locations,
// providers and medications.
type ReferenceHandler struct {
	DB *gorm.DB
}

// NewReferenceHandler creates a new ReferenceHandler.
func NewReferenceHandler(db *gorm.DB) *ReferenceHandler {
	return &ReferenceHandler{DB: db}
}

// GetLocations lists every location.
func (h *ReferenceHandler) GetLocations(c *gin.Context) {
	var locations []models.Location
	if err := h.DB.Find(&locations).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch locations: "+err.Error())
		return
	}
	utils.Success(c, "Locations fetched successfully", locations)
}

// CreateLocationRequest represents the request body for creating a location.
type CreateLocationRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

// CreateLocation handles creating a new location.
func (h *ReferenceHandler) CreateLocation(c *gin.Context) {
	var req CreateLocationRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	location := models.Location{Name: req.Name, Address: req.Address}
	if err := h.DB.Create(&location).Error; err != nil {
		utils.InternalServerError(c, "Failed to create location: "+err.Error())
		return
	}
	utils.Created(c, "Location created successfully", location)
}

// GetProviders lists providers, optionally filtered by exact role
// (case-sensitive, e.g. ?role=Anesthetist).
func (h *ReferenceHandler) GetProviders(c *gin.Context) {
	query := h.DB.Model(&models.Provider{})
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var providers []models.Provider
	if err := query.Find(&providers).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch providers: "+err.Error())
		return
	}
	utils.Success(c, "Providers fetched successfully", providers)
}

// CreateProviderRequest represents the request body for creating a provider.
type CreateProviderRequest struct {
	Name          string `json:"name" binding:"required"`
	Role          string `json:"role" binding:"required"`
	LicenseNumber string `json:"license_number"`
}

// CreateProvider handles creating a new provider. Role is free text; no role
// enforcement happens at write time.
func (h *ReferenceHandler) CreateProvider(c *gin.Context) {
	var req CreateProviderRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	provider := models.Provider{
		Name:          req.Name,
		Role:          req.Role,
		LicenseNumber: req.LicenseNumber,
	}
	if err := h.DB.Create(&provider).Error; err != nil {
		utils.InternalServerError(c, "Failed to create provider: "+err.Error())
		return
	}
	utils.Created(c, "Provider created successfully", provider)
}

// GetMedications lists every medication.
func (h *ReferenceHandler) GetMedications(c *gin.Context) {
	var medications []models.Medication
	if err := h.DB.Find(&medications).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch medications: "+err.Error())
		return
	}
	utils.Success(c, "Medications fetched successfully", medications)
}

// CreateMedicationRequest represents the request body for creating a medication.
type CreateMedicationRequest struct {
	Name          string `json:"name" binding:"required"`
	Concentration string `json:"concentration" binding:"required"`
	UnitDose      string `json:"unit_dose" binding:"required"`
	DEASchedule   string `json:"dea_schedule" binding:"required"`
	HowSupplied   string `json:"how_supplied" binding:"required"`
}

// CreateMedication handles creating a new medication.
func (h *ReferenceHandler) CreateMedication(c *gin.Context) {
	var req CreateMedicationRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	medication := models.Medication{
		Name:          req.Name,
		Concentration: req.Concentration,
		UnitDose:      req.UnitDose,
		DEASchedule:   req.DEASchedule,
		HowSupplied:   req.HowSupplied,
	}
	if err := h.DB.Create(&medication).Error; err != nil {
		utils.InternalServerError(c, "Failed to create medication: "+err.Error())
		return
	}
	utils.Created(c, "Medication created successfully", medication)
}
