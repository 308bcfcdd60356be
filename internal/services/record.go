package services

import (
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"anesthesia-record-server/internal/models"
)

// RecordService owns anesthesia record behavior: default medication seeding,
// record creation and partial updates, derived-value recomputation, and the
// append-only medication/vital-sign children.
type RecordService struct {
	DB        *gorm.DB
	Inventory *InventoryService
	Log       zerolog.Logger
}

// NewRecordService creates a new RecordService.
func NewRecordService(db *gorm.DB, inventory *InventoryService, log zerolog.Logger) *RecordService {
	return &RecordService{DB: db, Inventory: inventory, Log: log}
}

// defaultMedications is the fixed reference set inserted at startup.
var defaultMedications = []models.Medication{
	{Name: "Midazolam (Versed)", Concentration: "5mg/mL", UnitDose: "5mg", DEASchedule: "C-IV", HowSupplied: "5mL vial"},
	{Name: "Fentanyl", Concentration: "50mcg/mL", UnitDose: "100mcg", DEASchedule: "C-II", HowSupplied: "2mL ampule"},
	{Name: "Propofol", Concentration: "10mg/mL", UnitDose: "200mg", DEASchedule: "Non-controlled", HowSupplied: "20mL vial"},
	{Name: "Ketamine", Concentration: "50mg/mL", UnitDose: "100mg", DEASchedule: "C-III", HowSupplied: "2mL vial"},
	{Name: "Dexmedetomidine", Concentration: "100mcg/mL", UnitDose: "200mcg", DEASchedule: "Non-controlled", HowSupplied: "2mL vial"},
	{Name: "Decadron", Concentration: "10mg/mL", UnitDose: "10mg", DEASchedule: "Non-controlled", HowSupplied: "1mL vial"},
	{Name: "Zofran", Concentration: "4mg/2mL", UnitDose: "4mg", DEASchedule: "Non-controlled", HowSupplied: "2mL vial"},
}

// SeedDefaultMedications inserts each default medication unless a row with
// the same name already exists. Idempotent; safe to run on every startup.
func (s *RecordService) SeedDefaultMedications() error {
	for _, med := range defaultMedications {
		var count int64
		if err := s.DB.Model(&models.Medication{}).Where("name = ?", med.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		row := med
		if err := s.DB.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

// RecordFields is the full set of optional clinical fields accepted on record
// creation and partial update. Every field is a pointer: nil means the caller
// did not send the field, so the stored value is left untouched. Only fields
// enumerated here can ever be written.
type RecordFields struct {
	ASAClass     *string    `json:"asa_class"`
	ASAModifierE *bool      `json:"asa_modifier_e"`
	Mallampati   *string    `json:"mallampati"`
	HeightCm     *float64   `json:"height_cm" binding:"omitempty,gt=0"`
	WeightKg     *float64   `json:"weight_kg" binding:"omitempty,gt=0"`
	NPOSince     *time.Time `json:"npo_since"`

	AnesthetistID *string `json:"anesthetist_id"`
	SurgeonID     *string `json:"surgeon_id"`
	AssistantID   *string `json:"assistant_id"`
	CirculatorID  *string `json:"circulator_id"`

	O2FlowRate      *float64   `json:"o2_flow_rate" binding:"omitempty,gte=0"`
	N2OFlowRate     *float64   `json:"n2o_flow_rate" binding:"omitempty,gte=0"`
	InhalationStart *time.Time `json:"inhalation_start"`
	InhalationEnd   *time.Time `json:"inhalation_end"`

	IVRoute    *string `json:"iv_route"`
	IVGauge    *string `json:"iv_gauge"`
	IVSite     *string `json:"iv_site"`
	IVAttempts *int    `json:"iv_attempts" binding:"omitempty,gte=0"`

	Monitors *[]string `json:"monitors"`

	AnesthesiaStart *time.Time `json:"anesthesia_start"`
	AnesthesiaEnd   *time.Time `json:"anesthesia_end"`
	SurgeryStart    *time.Time `json:"surgery_start"`
	SurgeryEnd      *time.Time `json:"surgery_end"`

	Notes *string `json:"notes"`

	EquipmentReady           *bool      `json:"equipment_ready"`
	PreopInstructionsGiven   *bool      `json:"preop_instructions_given"`
	PatientProcedureVerified *bool      `json:"patient_procedure_verified"`
	TimeoutStart             *time.Time `json:"timeout_start"`
	TimeoutEnd               *time.Time `json:"timeout_end"`
	MedicalHistoryReviewed   *bool      `json:"medical_history_reviewed"`
	AllergiesReviewed        *bool      `json:"allergies_reviewed"`
	MedicationsReviewed      *bool      `json:"medications_reviewed"`
	ConsultsReviewed         *bool      `json:"consults_reviewed"`

	AldreteActivity         *int       `json:"aldrete_activity" binding:"omitempty,gte=0,lte=2"`
	AldreteRespiration      *int       `json:"aldrete_respiration" binding:"omitempty,gte=0,lte=2"`
	AldreteCirculation      *int       `json:"aldrete_circulation" binding:"omitempty,gte=0,lte=2"`
	AldreteConsciousness    *int       `json:"aldrete_consciousness" binding:"omitempty,gte=0,lte=2"`
	AldreteColor            *int       `json:"aldrete_color" binding:"omitempty,gte=0,lte=2"`
	DischargeTime           *time.Time `json:"discharge_time"`
	EscortPresent           *bool      `json:"escort_present"`
	PostopInstructionsGiven *bool      `json:"postop_instructions_given"`

	LocalAnesthetics *map[string]int `json:"local_anesthetics"`
}

// touchesAldrete reports whether the update sets any Aldrete sub-score.
func (f *RecordFields) touchesAldrete() bool {
	return f.AldreteActivity != nil || f.AldreteRespiration != nil ||
		f.AldreteCirculation != nil || f.AldreteConsciousness != nil ||
		f.AldreteColor != nil
}

// apply copies every set field onto the record. Nil fields never overwrite.
func (f *RecordFields) apply(rec *models.AnesthesiaRecord) {
	if f.ASAClass != nil {
		rec.ASAClass = f.ASAClass
	}
	if f.ASAModifierE != nil {
		rec.ASAModifierE = f.ASAModifierE
	}
	if f.Mallampati != nil {
		rec.Mallampati = f.Mallampati
	}
	if f.HeightCm != nil {
		rec.HeightCm = f.HeightCm
	}
	if f.WeightKg != nil {
		rec.WeightKg = f.WeightKg
	}
	if f.NPOSince != nil {
		rec.NPOSince = f.NPOSince
	}
	if f.AnesthetistID != nil {
		rec.AnesthetistID = f.AnesthetistID
	}
	if f.SurgeonID != nil {
		rec.SurgeonID = f.SurgeonID
	}
	if f.AssistantID != nil {
		rec.AssistantID = f.AssistantID
	}
	if f.CirculatorID != nil {
		rec.CirculatorID = f.CirculatorID
	}
	if f.O2FlowRate != nil {
		rec.O2FlowRate = f.O2FlowRate
	}
	if f.N2OFlowRate != nil {
		rec.N2OFlowRate = f.N2OFlowRate
	}
	if f.InhalationStart != nil {
		rec.InhalationStart = f.InhalationStart
	}
	if f.InhalationEnd != nil {
		rec.InhalationEnd = f.InhalationEnd
	}
	if f.IVRoute != nil {
		rec.IVRoute = f.IVRoute
	}
	if f.IVGauge != nil {
		rec.IVGauge = f.IVGauge
	}
	if f.IVSite != nil {
		rec.IVSite = f.IVSite
	}
	if f.IVAttempts != nil {
		rec.IVAttempts = f.IVAttempts
	}
	if f.Monitors != nil {
		rec.Monitors = datatypes.NewJSONSlice(*f.Monitors)
	}
	if f.AnesthesiaStart != nil {
		rec.AnesthesiaStart = f.AnesthesiaStart
	}
	if f.AnesthesiaEnd != nil {
		rec.AnesthesiaEnd = f.AnesthesiaEnd
	}
	if f.SurgeryStart != nil {
		rec.SurgeryStart = f.SurgeryStart
	}
	if f.SurgeryEnd != nil {
		rec.SurgeryEnd = f.SurgeryEnd
	}
	if f.Notes != nil {
		rec.Notes = f.Notes
	}
	if f.EquipmentReady != nil {
		rec.EquipmentReady = f.EquipmentReady
	}
	if f.PreopInstructionsGiven != nil {
		rec.PreopInstructionsGiven = f.PreopInstructionsGiven
	}
	if f.PatientProcedureVerified != nil {
		rec.PatientProcedureVerified = f.PatientProcedureVerified
	}
	if f.TimeoutStart != nil {
		rec.TimeoutStart = f.TimeoutStart
	}
	if f.TimeoutEnd != nil {
		rec.TimeoutEnd = f.TimeoutEnd
	}
	if f.MedicalHistoryReviewed != nil {
		rec.MedicalHistoryReviewed = f.MedicalHistoryReviewed
	}
	if f.AllergiesReviewed != nil {
		rec.AllergiesReviewed = f.AllergiesReviewed
	}
	if f.MedicationsReviewed != nil {
		rec.MedicationsReviewed = f.MedicationsReviewed
	}
	if f.ConsultsReviewed != nil {
		rec.ConsultsReviewed = f.ConsultsReviewed
	}
	if f.AldreteActivity != nil {
		rec.AldreteActivity = f.AldreteActivity
	}
	if f.AldreteRespiration != nil {
		rec.AldreteRespiration = f.AldreteRespiration
	}
	if f.AldreteCirculation != nil {
		rec.AldreteCirculation = f.AldreteCirculation
	}
	if f.AldreteConsciousness != nil {
		rec.AldreteConsciousness = f.AldreteConsciousness
	}
	if f.AldreteColor != nil {
		rec.AldreteColor = f.AldreteColor
	}
	if f.DischargeTime != nil {
		rec.DischargeTime = f.DischargeTime
	}
	if f.EscortPresent != nil {
		rec.EscortPresent = f.EscortPresent
	}
	if f.PostopInstructionsGiven != nil {
		rec.PostopInstructionsGiven = f.PostopInstructionsGiven
	}
	if f.LocalAnesthetics != nil {
		rec.LocalAnesthetics = datatypes.NewJSONType(*f.LocalAnesthetics)
	}
}

// recompute refreshes the derived fields after an apply. BMI is recalculated
// whenever both inputs are present; the Aldrete total whenever an update
// touched a sub-score and all five are now set.
func (s *RecordService) recompute(rec *models.AnesthesiaRecord, f *RecordFields) {
	if bmi := ComputeBMI(rec.HeightCm, rec.WeightKg); bmi != nil {
		rec.BMI = bmi
	}
	if f.touchesAldrete() {
		if total := ComputeAldreteTotal(
			rec.AldreteActivity, rec.AldreteRespiration, rec.AldreteCirculation,
			rec.AldreteConsciousness, rec.AldreteColor,
		); total != nil {
			rec.AldreteTotal = total
		}
	}
}

// CreateRecord opens a new procedure episode. Patient and location must
// resolve; every clinical field is optional and may be provided up front.
func (s *RecordService) CreateRecord(patientID, locationID string, fields *RecordFields) (*models.AnesthesiaRecord, error) {
	var patient models.Patient
	if err := s.DB.First(&patient, "id = ?", patientID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	var location models.Location
	if err := s.DB.First(&location, "id = ?", locationID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	rec := models.AnesthesiaRecord{
		PatientID:  patientID,
		LocationID: locationID,
	}
	if fields != nil {
		fields.apply(&rec)
		s.recompute(&rec, fields)
	}
	if err := s.DB.Create(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetRecord loads the full record graph: patient, providers, medication
// administrations (with their medications) and vital signs.
func (s *RecordService) GetRecord(recordID string) (*models.AnesthesiaRecord, error) {
	var rec models.AnesthesiaRecord
	err := s.DB.
		Preload("Patient").
		Preload("Location").
		Preload("Anesthetist").
		Preload("Surgeon").
		Preload("Assistant").
		Preload("Circulator").
		Preload("MedicationAdministrations", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp asc")
		}).
		Preload("MedicationAdministrations.Medication").
		Preload("VitalSigns", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp asc")
		}).
		First(&rec, "id = ?", recordID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// UpdateRecord applies a sparse field set to a record. Fields the caller did
// not send keep their stored values; updated_at always advances.
func (s *RecordService) UpdateRecord(recordID string, fields *RecordFields) (*models.AnesthesiaRecord, error) {
	var rec models.AnesthesiaRecord
	if err := s.DB.First(&rec, "id = ?", recordID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	fields.apply(&rec)
	s.recompute(&rec, fields)
	rec.UpdatedAt = time.Now()

	if err := s.DB.Save(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// AddMedicationAdministration appends a dose event and then attempts to
// decrement inventory by dose+waste at the record's location. The decrement
// result is reported but never blocks or rolls back the administration:
// documenting the clinical event is authoritative.
func (s *RecordService) AddMedicationAdministration(recordID, medicationID string, doseMl, wasteMl float64) (*models.MedicationAdministration, bool, error) {
	var rec models.AnesthesiaRecord
	if err := s.DB.First(&rec, "id = ?", recordID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, false, ErrRecordNotFound
		}
		return nil, false, err
	}

	admin := models.MedicationAdministration{
		RecordID:     recordID,
		MedicationID: medicationID,
		DoseMl:       doseMl,
		WasteMl:      wasteMl,
		Timestamp:    time.Now(),
	}
	if err := s.DB.Create(&admin).Error; err != nil {
		return nil, false, err
	}

	inventoryUpdated := true
	if err := s.Inventory.Decrement(medicationID, rec.LocationID, doseMl+wasteMl); err != nil {
		inventoryUpdated = false
		s.Log.Warn().
			Str("record_id", recordID).
			Str("medication_id", medicationID).
			Float64("amount", doseMl+wasteMl).
			Err(err).
			Msg("inventory decrement failed; administration recorded anyway")
	}
	return &admin, inventoryUpdated, nil
}

// AddVitalSign appends a vital-sign entry with a server-assigned timestamp.
// MAP is derived from the blood pressure pair when both sides are present.
func (s *RecordService) AddVitalSign(recordID string, vs *models.VitalSign) (*models.VitalSign, error) {
	var count int64
	if err := s.DB.Model(&models.AnesthesiaRecord{}).Where("id = ?", recordID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrRecordNotFound
	}

	vs.RecordID = recordID
	vs.Timestamp = time.Now()
	vs.MAP = ComputeMAP(vs.BPSystolic, vs.BPDiastolic)

	if err := s.DB.Create(vs).Error; err != nil {
		return nil, err
	}
	return vs, nil
}
