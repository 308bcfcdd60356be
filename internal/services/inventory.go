package services

import (
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"anesthesia-record-server/internal/models"
)

// InventoryService owns the per-location medication stock.
type InventoryService struct {
	DB  *gorm.DB
	Log zerolog.Logger
}

// NewInventoryService creates a new InventoryService.
func NewInventoryService(db *gorm.DB, log zerolog.Logger) *InventoryService {
	return &InventoryService{DB: db, Log: log}
}

// ListByLocation returns every inventory lot held at a location.
func (s *InventoryService) ListByLocation(locationID string) ([]models.MedicationInventory, error) {
	var rows []models.MedicationInventory
	if err := s.DB.Where("location_id = ?", locationID).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Add inserts a new lot row.
func (s *InventoryService) Add(inv *models.MedicationInventory) error {
	return s.DB.Create(inv).Error
}

// Decrement subtracts amount from the first inventory lot for
// (medication, location) holding at least that much. The subtraction is a
// conditional UPDATE guarded by `quantity >= amount`, so two concurrent
// callers can never drive a lot negative; the loser simply gets
// ErrInsufficientInventory. Lot selection is first-match; no FIFO or
// expiration-priority semantics are promised.
func (s *InventoryService) Decrement(medicationID, locationID string, amount float64) error {
	if amount <= 0 {
		return nil
	}

	var lot models.MedicationInventory
	err := s.DB.
		Where("medication_id = ? AND location_id = ? AND quantity >= ?", medicationID, locationID, amount).
		First(&lot).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrInsufficientInventory
		}
		return err
	}

	res := s.DB.Model(&models.MedicationInventory{}).
		Where("id = ? AND quantity >= ?", lot.ID, amount).
		Update("quantity", gorm.Expr("quantity - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Another caller drained the lot between the read and the update.
		s.Log.Warn().Str("lot_id", lot.ID).Float64("amount", amount).Msg("inventory lot drained concurrently")
		return ErrInsufficientInventory
	}
	return nil
}
