package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"anesthesia-record-server/internal/integration"
	"anesthesia-record-server/internal/services"
	"anesthesia-record-server/internal/utils"
)

// IntegrationHandler exposes the practice-management-system stub endpoints.
type IntegrationHandler struct {
	Client  integration.Client
	Records *services.RecordService
}

// NewIntegrationHandler creates a new IntegrationHandler.
func NewIntegrationHandler(client integration.Client, records *services.RecordService) *IntegrationHandler {
	return &IntegrationHandler{Client: client, Records: records}
}

// GetOpenDentalPatient looks a patient up in the external system.
func (h *IntegrationHandler) GetOpenDentalPatient(c *gin.Context) {
	demographics, err := h.Client.FetchPatient(c.Request.Context(), c.Param("patientId"))
	if err != nil {
		utils.Error(c, 502, "Practice management system unavailable: "+err.Error())
		return
	}
	utils.Success(c, "Patient fetched from Open Dental", demographics)
}

// PushRecordToOpenDental pushes a record to the external system. The record
// must exist locally; the push itself is a stub.
func (h *IntegrationHandler) PushRecordToOpenDental(c *gin.Context) {
	recordID := c.Param("id")
	if _, err := h.Records.GetRecord(recordID); err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			utils.NotFound(c, "Record not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if err := h.Client.PushRecord(c.Request.Context(), recordID); err != nil {
		utils.Error(c, 502, "Practice management system unavailable: "+err.Error())
		return
	}
	utils.Success(c, "Record pushed to Open Dental (stub)", gin.H{"record_id": recordID})
}
