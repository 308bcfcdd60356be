package models

import (
	"time"

	"gorm.io/datatypes"
)

// AnesthesiaRecord is the central aggregate: one per procedure episode.
// Only patient and location are required at creation; every clinical field is
// filled in over the life of the procedure through partial updates, so all of
// them are pointers (nil means the field has never been set). There is no
// terminal state; any field can be rewritten at any time.
type AnesthesiaRecord struct {
	BaseModel
	PatientID  string `gorm:"size:36;index;not null" json:"patient_id"`
	LocationID string `gorm:"size:36;index;not null" json:"location_id"`

	// Physical assessment
	ASAClass     *string    `gorm:"size:10" json:"asa_class"`
	ASAModifierE *bool      `json:"asa_modifier_e"`
	Mallampati   *string    `gorm:"size:10" json:"mallampati"`
	HeightCm     *float64   `json:"height_cm"`
	WeightKg     *float64   `json:"weight_kg"`
	BMI          *float64   `json:"bmi"`
	NPOSince     *time.Time `json:"npo_since"`

	// Provider role slots
	AnesthetistID *string `gorm:"size:36" json:"anesthetist_id"`
	SurgeonID     *string `gorm:"size:36" json:"surgeon_id"`
	AssistantID   *string `gorm:"size:36" json:"assistant_id"`
	CirculatorID  *string `gorm:"size:36" json:"circulator_id"`

	// Inhalational agents
	O2FlowRate      *float64   `json:"o2_flow_rate"`
	N2OFlowRate     *float64   `json:"n2o_flow_rate"`
	InhalationStart *time.Time `json:"inhalation_start"`
	InhalationEnd   *time.Time `json:"inhalation_end"`

	// IV access
	IVRoute    *string `gorm:"size:20" json:"iv_route"`
	IVGauge    *string `gorm:"size:10" json:"iv_gauge"`
	IVSite     *string `gorm:"size:50" json:"iv_site"`
	IVAttempts *int    `json:"iv_attempts"`

	// Active monitors
	Monitors datatypes.JSONSlice[string] `json:"monitors"`

	// Procedure times
	AnesthesiaStart *time.Time `json:"anesthesia_start"`
	AnesthesiaEnd   *time.Time `json:"anesthesia_end"`
	SurgeryStart    *time.Time `json:"surgery_start"`
	SurgeryEnd      *time.Time `json:"surgery_end"`

	Notes *string `gorm:"type:text" json:"notes"`

	// Preop checklist
	EquipmentReady           *bool      `json:"equipment_ready"`
	PreopInstructionsGiven   *bool      `json:"preop_instructions_given"`
	PatientProcedureVerified *bool      `json:"patient_procedure_verified"`
	TimeoutStart             *time.Time `json:"timeout_start"`
	TimeoutEnd               *time.Time `json:"timeout_end"`
	MedicalHistoryReviewed   *bool      `json:"medical_history_reviewed"`
	AllergiesReviewed        *bool      `json:"allergies_reviewed"`
	MedicationsReviewed      *bool      `json:"medications_reviewed"`
	ConsultsReviewed         *bool      `json:"consults_reviewed"`

	// Post anesthesia (Aldrete) score
	AldreteActivity         *int       `json:"aldrete_activity"`
	AldreteRespiration      *int       `json:"aldrete_respiration"`
	AldreteCirculation      *int       `json:"aldrete_circulation"`
	AldreteConsciousness    *int       `json:"aldrete_consciousness"`
	AldreteColor            *int       `json:"aldrete_color"`
	AldreteTotal            *int       `json:"aldrete_total"`
	DischargeTime           *time.Time `json:"discharge_time"`
	EscortPresent           *bool      `json:"escort_present"`
	PostopInstructionsGiven *bool      `json:"postop_instructions_given"`

	// Local anesthetic type -> carpules used
	LocalAnesthetics datatypes.JSONType[map[string]int] `json:"local_anesthetics"`

	// Relations
	Patient     Patient   `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Location    Location  `gorm:"foreignKey:LocationID" json:"location,omitempty"`
	Anesthetist *Provider `gorm:"foreignKey:AnesthetistID" json:"anesthetist,omitempty"`
	Surgeon     *Provider `gorm:"foreignKey:SurgeonID" json:"surgeon,omitempty"`
	Assistant   *Provider `gorm:"foreignKey:AssistantID" json:"assistant,omitempty"`
	Circulator  *Provider `gorm:"foreignKey:CirculatorID" json:"circulator,omitempty"`

	MedicationAdministrations []MedicationAdministration `gorm:"foreignKey:RecordID" json:"medication_administrations"`
	VitalSigns                []VitalSign                `gorm:"foreignKey:RecordID" json:"vital_signs"`
}

// MedicationAdministration is an append-only dose event. Creating one
// triggers an inventory decrement of dose+waste at the record's location;
// the clinical event is persisted even when the decrement fails.
type MedicationAdministration struct {
	BaseModel
	RecordID     string    `gorm:"size:36;index;not null" json:"record_id"`
	MedicationID string    `gorm:"size:36;index;not null" json:"medication_id"`
	DoseMl       float64   `json:"dose_ml"`
	WasteMl      float64   `json:"waste_ml"`
	Timestamp    time.Time `json:"timestamp"`

	Medication Medication `gorm:"foreignKey:MedicationID" json:"medication,omitempty"`
}

// VitalSign is one entry in an append-only time series. Every measurement is
// independently nullable. MAP is derived from the blood pressure pair at
// insert time when both sides are present.
type VitalSign struct {
	BaseModel
	RecordID    string    `gorm:"size:36;index;not null" json:"record_id"`
	Timestamp   time.Time `json:"timestamp"`
	BPSystolic  *int      `json:"bp_systolic"`
	BPDiastolic *int      `json:"bp_diastolic"`
	MAP         *int      `gorm:"column:map" json:"map"`
	HeartRate   *int      `json:"heart_rate"`
	SpO2        *int      `gorm:"column:spo2" json:"spo2"`
	EtCO2       *int      `gorm:"column:etco2" json:"etco2"`
	Temperature *float64  `json:"temperature"`
}
