package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"anesthesia-record-server/internal/models"
	"anesthesia-record-server/internal/services"
	"anesthesia-record-server/internal/utils"
)

// RecordHandler handles anesthesia record requests, including the
// append-only medication administration and vital-sign sub-resources and the
// note exports.
type RecordHandler struct {
	Records *services.RecordService
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(records *services.RecordService) *RecordHandler {
	return &RecordHandler{Records: records}
}

// CreateAnesthesiaRecordRequest represents the request body for opening a
// record. Only the patient and location are required; every clinical field
// may be provided up front.
type CreateAnesthesiaRecordRequest struct {
	PatientID  string `json:"patient_id" binding:"required"`
	LocationID string `json:"location_id" binding:"required"`
	services.RecordFields
}

// CreateRecord handles opening a new procedure episode.
func (h *RecordHandler) CreateRecord(c *gin.Context) {
	var req CreateAnesthesiaRecordRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	rec, err := h.Records.CreateRecord(req.PatientID, req.LocationID, &req.RecordFields)
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			utils.NotFound(c, "Patient or location not found")
		} else {
			utils.InternalServerError(c, "Failed to create record: "+err.Error())
		}
		return
	}
	utils.Created(c, "Anesthesia record created successfully", rec)
}

// GetRecord fetches the full record graph.
func (h *RecordHandler) GetRecord(c *gin.Context) {
	rec, err := h.Records.GetRecord(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			utils.NotFound(c, "Record not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}
	utils.Success(c, "Record fetched successfully", rec)
}

// UpdateRecord applies a partial update: fields absent from the body keep
// their stored values.
func (h *RecordHandler) UpdateRecord(c *gin.Context) {
	var fields services.RecordFields
	if !utils.BindAndValidate(c, &fields) {
		return
	}

	rec, err := h.Records.UpdateRecord(c.Param("id"), &fields)
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			utils.NotFound(c, "Record not found")
		} else {
			utils.InternalServerError(c, "Failed to update record: "+err.Error())
		}
		return
	}
	utils.Success(c, "Record updated successfully", rec)
}

// AddMedicationAdministrationRequest represents the request body for
// recording a dose. The record identifier comes from the path, never the body.
type AddMedicationAdministrationRequest struct {
	MedicationID string   `json:"medication_id" binding:"required"`
	DoseMl       *float64 `json:"dose_ml" binding:"required,gte=0"`
	WasteMl      *float64 `json:"waste_ml" binding:"omitempty,gte=0"`
}

// AddMedicationAdministration appends a dose event. The response reports
// whether the matching inventory decrement succeeded; a depleted inventory
// never fails the request.
func (h *RecordHandler) AddMedicationAdministration(c *gin.Context) {
	var req AddMedicationAdministrationRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	waste := 0.0
	if req.WasteMl != nil {
		waste = *req.WasteMl
	}

	admin, inventoryUpdated, err := h.Records.AddMedicationAdministration(
		c.Param("id"), req.MedicationID, *req.DoseMl, waste)
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			utils.NotFound(c, "Record not found")
		} else {
			utils.InternalServerError(c, "Failed to record administration: "+err.Error())
		}
		return
	}

	utils.Created(c, "Medication administration recorded", gin.H{
		"administration":    admin,
		"inventory_updated": inventoryUpdated,
	})
}

// AddVitalSignRequest represents the request body for appending a vital-sign
// entry. Every measurement is independently optional; MAP is derived
// server-side and never accepted from the client.
type AddVitalSignRequest struct {
	BPSystolic  *int     `json:"bp_systolic" binding:"omitempty,gte=0"`
	BPDiastolic *int     `json:"bp_diastolic" binding:"omitempty,gte=0"`
	HeartRate   *int     `json:"heart_rate" binding:"omitempty,gte=0"`
	SpO2        *int     `json:"spo2" binding:"omitempty,gte=0,lte=100"`
	EtCO2       *int     `json:"etco2" binding:"omitempty,gte=0"`
	Temperature *float64 `json:"temperature" binding:"omitempty,gt=0"`
}

func (r *AddVitalSignRequest) toModel() *models.VitalSign {
	return &models.VitalSign{
		BPSystolic:  r.BPSystolic,
		BPDiastolic: r.BPDiastolic,
		HeartRate:   r.HeartRate,
		SpO2:        r.SpO2,
		EtCO2:       r.EtCO2,
		Temperature: r.Temperature,
	}
}

// AddVitalSign appends a vital-sign entry with a server-assigned timestamp.
func (h *RecordHandler) AddVitalSign(c *gin.Context) {
	var req AddVitalSignRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	vs, err := h.Records.AddVitalSign(c.Param("id"), req.toModel())
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			utils.NotFound(c, "Record not found")
		} else {
			utils.InternalServerError(c, "Failed to record vital sign: "+err.Error())
		}
		return
	}
	utils.Created(c, "Vital sign recorded", vs)
}

// ExportMarkdown renders the clinical note as a markdown text payload.
func (h *RecordHandler) ExportMarkdown(c *gin.Context) {
	rec, err := h.Records.GetRecord(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			utils.NotFound(c, "Record not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}
	note := services.GenerateAnesthesiaNote(rec)
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(note))
}

// ExportJSON returns the full record graph.
func (h *RecordHandler) ExportJSON(c *gin.Context) {
	rec, err := h.Records.GetRecord(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			utils.NotFound(c, "Record not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, rec)
}
