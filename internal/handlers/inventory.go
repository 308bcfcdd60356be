package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"anesthesia-record-server/internal/models"
	"anesthesia-record-server/internal/services"
	"anesthesia-record-server/internal/utils"
)

// InventoryHandler handles medication inventory requests.
type InventoryHandler struct {
	Inventory *services.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(inventory *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{Inventory: inventory}
}

// GetInventoryByLocation lists every inventory lot at a location.
func (h *InventoryHandler) GetInventoryByLocation(c *gin.Context) {
	rows, err := h.Inventory.ListByLocation(c.Param("locationId"))
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch inventory: "+err.Error())
		return
	}
	utils.Success(c, "Inventory fetched successfully", rows)
}

// AddInventoryRequest represents the request body for adding an inventory lot.
type AddInventoryRequest struct {
	MedicationID   string    `json:"medication_id" binding:"required"`
	LocationID     string    `json:"location_id" binding:"required"`
	Quantity       float64   `json:"quantity" binding:"required,gt=0"`
	LotNumber      string    `json:"lot_number" binding:"required"`
	ExpirationDate time.Time `json:"expiration_date" binding:"required"`
	Supplier       string    `json:"supplier"`
	InvoiceNumber  string    `json:"invoice_number"`
	DateReceived   time.Time `json:"date_received"`
}

// AddInventory handles adding a new lot row.
func (h *InventoryHandler) AddInventory(c *gin.Context) {
	var req AddInventoryRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	dateReceived := req.DateReceived
	if dateReceived.IsZero() {
		dateReceived = time.Now()
	}

	lot := models.MedicationInventory{
		MedicationID:   req.MedicationID,
		LocationID:     req.LocationID,
		Quantity:       req.Quantity,
		LotNumber:      req.LotNumber,
		ExpirationDate: req.ExpirationDate,
		Supplier:       req.Supplier,
		InvoiceNumber:  req.InvoiceNumber,
		DateReceived:   dateReceived,
	}
	if err := h.Inventory.Add(&lot); err != nil {
		utils.InternalServerError(c, "Failed to add inventory: "+err.Error())
		return
	}
	utils.Created(c, "Inventory lot added successfully", lot)
}
