package services

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"anesthesia-record-server/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection so every statement sees the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.Migrate(db))
	return db
}

func newTestServices(t *testing.T) (*RecordService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	inventory := NewInventoryService(db, zerolog.Nop())
	return NewRecordService(db, inventory, zerolog.Nop()), db
}

func seedPatientAndLocation(t *testing.T, db *gorm.DB) (models.Patient, models.Location) {
	t.Helper()
	patient := models.Patient{
		OpenDentalID: "P1",
		FirstName:    "Jane",
		LastName:     "Doe",
		DateOfBirth:  time.Date(1985, 6, 15, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(&patient).Error)

	location := models.Location{Name: "OR1"}
	require.NoError(t, db.Create(&location).Error)
	return patient, location
}

func TestSeedDefaultMedicationsIdempotent(t *testing.T) {
	svc, db := newTestServices(t)

	require.NoError(t, svc.SeedDefaultMedications())
	require.NoError(t, svc.SeedDefaultMedications())

	var count int64
	require.NoError(t, db.Model(&models.Medication{}).Count(&count).Error)
	assert.EqualValues(t, len(defaultMedications), count)

	var names []string
	require.NoError(t, db.Model(&models.Medication{}).Pluck("name", &names).Error)
	seen := map[string]bool{}
	for _, name := range names {
		assert.False(t, seen[name], "duplicate medication %q", name)
		seen[name] = true
	}
}

func TestCreateRecordStartsEmpty(t *testing.T) {
	svc, db := newTestServices(t)
	patient, location := seedPatientAndLocation(t, db)

	rec, err := svc.CreateRecord(patient.ID, location.ID, &RecordFields{})
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())
	assert.Nil(t, rec.ASAClass)
	assert.Nil(t, rec.BMI)
	assert.Nil(t, rec.AldreteTotal)
	assert.Nil(t, rec.Notes)
}

func TestCreateRecordUnknownPatient(t *testing.T) {
	svc, db := newTestServices(t)
	_, location := seedPatientAndLocation(t, db)

	_, err := svc.CreateRecord("does-not-exist", location.ID, nil)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestAdministrationDecrementsInventory(t *testing.T) {
	svc, db := newTestServices(t)
	patient, location := seedPatientAndLocation(t, db)

	med := models.Medication{Name: "Propofol", Concentration: "10mg/mL"}
	require.NoError(t, db.Create(&med).Error)
	lot := models.MedicationInventory{
		MedicationID: med.ID,
		LocationID:   location.ID,
		Quantity:     10.0,
		LotNumber:    "L-100",
	}
	require.NoError(t, db.Create(&lot).Error)

	rec, err := svc.CreateRecord(patient.ID, location.ID, nil)
	require.NoError(t, err)

	admin, inventoryUpdated, err := svc.AddMedicationAdministration(rec.ID, med.ID, 2.0, 0.5)
	require.NoError(t, err)
	assert.True(t, inventoryUpdated)
	assert.Equal(t, 2.0, admin.DoseMl)
	assert.Equal(t, 0.5, admin.WasteMl)
	assert.False(t, admin.Timestamp.IsZero())

	var updated models.MedicationInventory
	require.NoError(t, db.First(&updated, "id = ?", lot.ID).Error)
	assert.InDelta(t, 7.5, updated.Quantity, 0.0001)
}

func TestAdministrationRecordedDespiteInsufficientInventory(t *testing.T) {
	svc, db := newTestServices(t)
	patient, location := seedPatientAndLocation(t, db)

	med := models.Medication{Name: "Fentanyl"}
	require.NoError(t, db.Create(&med).Error)
	lot := models.MedicationInventory{
		MedicationID: med.ID,
		LocationID:   location.ID,
		Quantity:     1.0,
		LotNumber:    "L-200",
	}
	require.NoError(t, db.Create(&lot).Error)

	rec, err := svc.CreateRecord(patient.ID, location.ID, nil)
	require.NoError(t, err)

	admin, inventoryUpdated, err := svc.AddMedicationAdministration(rec.ID, med.ID, 2.0, 0.5)
	require.NoError(t, err)
	assert.False(t, inventoryUpdated)
	assert.NotEmpty(t, admin.ID)

	// Clinical documentation persisted even though the decrement failed.
	var count int64
	require.NoError(t, db.Model(&models.MedicationAdministration{}).Where("record_id = ?", rec.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var unchanged models.MedicationInventory
	require.NoError(t, db.First(&unchanged, "id = ?", lot.ID).Error)
	assert.InDelta(t, 1.0, unchanged.Quantity, 0.0001)
}

func TestDecrementFailsAtWrongLocation(t *testing.T) {
	svc, db := newTestServices(t)
	_, location := seedPatientAndLocation(t, db)

	other := models.Location{Name: "OR2"}
	require.NoError(t, db.Create(&other).Error)

	med := models.Medication{Name: "Ketamine"}
	require.NoError(t, db.Create(&med).Error)
	require.NoError(t, db.Create(&models.MedicationInventory{
		MedicationID: med.ID,
		LocationID:   other.ID,
		Quantity:     50.0,
	}).Error)

	err := svc.Inventory.Decrement(med.ID, location.ID, 1.0)
	assert.ErrorIs(t, err, ErrInsufficientInventory)
}

func TestDecrementNeverGoesNegative(t *testing.T) {
	svc, db := newTestServices(t)
	_, location := seedPatientAndLocation(t, db)

	med := models.Medication{Name: "Midazolam (Versed)"}
	require.NoError(t, db.Create(&med).Error)
	lot := models.MedicationInventory{
		MedicationID: med.ID,
		LocationID:   location.ID,
		Quantity:     5.0,
	}
	require.NoError(t, db.Create(&lot).Error)

	require.NoError(t, svc.Inventory.Decrement(med.ID, location.ID, 3.0))
	require.NoError(t, svc.Inventory.Decrement(med.ID, location.ID, 2.0))
	assert.ErrorIs(t, svc.Inventory.Decrement(med.ID, location.ID, 0.5), ErrInsufficientInventory)

	var final models.MedicationInventory
	require.NoError(t, db.First(&final, "id = ?", lot.ID).Error)
	assert.GreaterOrEqual(t, final.Quantity, 0.0)
	assert.InDelta(t, 0.0, final.Quantity, 0.0001)
}

func TestUpdateRecordPreservesUnsentFields(t *testing.T) {
	svc, db := newTestServices(t)
	patient, location := seedPatientAndLocation(t, db)

	rec, err := svc.CreateRecord(patient.ID, location.ID, nil)
	require.NoError(t, err)

	_, err = svc.UpdateRecord(rec.ID, &RecordFields{ASAClass: strp("II")})
	require.NoError(t, err)

	firstUpdated, err := svc.GetRecord(rec.ID)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	_, err = svc.UpdateRecord(rec.ID, &RecordFields{Notes: strp("stable")})
	require.NoError(t, err)

	got, err := svc.GetRecord(rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ASAClass)
	assert.Equal(t, "II", *got.ASAClass)
	require.NotNil(t, got.Notes)
	assert.Equal(t, "stable", *got.Notes)
	assert.True(t, got.UpdatedAt.After(firstUpdated.UpdatedAt), "updated_at must advance")
}

func TestUpdateRecordNotFound(t *testing.T) {
	svc, _ := newTestServices(t)
	_, err := svc.UpdateRecord("missing", &RecordFields{Notes: strp("x")})
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestUpdateRecordRecomputesBMI(t *testing.T) {
	svc, db := newTestServices(t)
	patient, location := seedPatientAndLocation(t, db)

	rec, err := svc.CreateRecord(patient.ID, location.ID, nil)
	require.NoError(t, err)

	// Only height: no BMI yet.
	got, err := svc.UpdateRecord(rec.ID, &RecordFields{HeightCm: floatp(170)})
	require.NoError(t, err)
	assert.Nil(t, got.BMI)

	// Weight arrives: BMI computed.
	got, err = svc.UpdateRecord(rec.ID, &RecordFields{WeightKg: floatp(70)})
	require.NoError(t, err)
	require.NotNil(t, got.BMI)
	assert.InDelta(t, 24.22, *got.BMI, 0.01)

	// Weight changes: BMI recomputed, not incrementally adjusted.
	got, err = svc.UpdateRecord(rec.ID, &RecordFields{WeightKg: floatp(80)})
	require.NoError(t, err)
	require.NotNil(t, got.BMI)
	assert.InDelta(t, 80/(1.7*1.7), *got.BMI, 0.01)
}

func TestUpdateRecordComputesAldreteTotal(t *testing.T) {
	svc, db := newTestServices(t)
	patient, location := seedPatientAndLocation(t, db)

	rec, err := svc.CreateRecord(patient.ID, location.ID, nil)
	require.NoError(t, err)

	// A partially filled post-anesthesia tab produces no total.
	got, err := svc.UpdateRecord(rec.ID, &RecordFields{
		AldreteActivity:    intp(2),
		AldreteRespiration: intp(1),
	})
	require.NoError(t, err)
	assert.Nil(t, got.AldreteTotal)

	got, err = svc.UpdateRecord(rec.ID, &RecordFields{
		AldreteCirculation:   intp(2),
		AldreteConsciousness: intp(2),
		AldreteColor:         intp(1),
	})
	require.NoError(t, err)
	require.NotNil(t, got.AldreteTotal)
	assert.Equal(t, 8, *got.AldreteTotal)
}

func TestAddVitalSignDerivesMAP(t *testing.T) {
	svc, db := newTestServices(t)
	patient, location := seedPatientAndLocation(t, db)

	rec, err := svc.CreateRecord(patient.ID, location.ID, nil)
	require.NoError(t, err)

	vs, err := svc.AddVitalSign(rec.ID, &models.VitalSign{
		BPSystolic:  intp(120),
		BPDiastolic: intp(80),
		HeartRate:   intp(72),
	})
	require.NoError(t, err)
	require.NotNil(t, vs.MAP)
	assert.Equal(t, 93, *vs.MAP)
	assert.False(t, vs.Timestamp.IsZero())

	// Missing one side of the pair: MAP stays null.
	vs, err = svc.AddVitalSign(rec.ID, &models.VitalSign{BPSystolic: intp(130)})
	require.NoError(t, err)
	assert.Nil(t, vs.MAP)
}

func TestAddVitalSignUnknownRecord(t *testing.T) {
	svc, _ := newTestServices(t)
	_, err := svc.AddVitalSign("missing", &models.VitalSign{})
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestGetRecordLoadsFullGraph(t *testing.T) {
	svc, db := newTestServices(t)
	patient, location := seedPatientAndLocation(t, db)

	anesthetist := models.Provider{Name: "Dr. Smith", Role: "Anesthetist"}
	require.NoError(t, db.Create(&anesthetist).Error)

	med := models.Medication{Name: "Zofran"}
	require.NoError(t, db.Create(&med).Error)

	rec, err := svc.CreateRecord(patient.ID, location.ID, &RecordFields{
		AnesthetistID: &anesthetist.ID,
	})
	require.NoError(t, err)

	_, _, err = svc.AddMedicationAdministration(rec.ID, med.ID, 1.0, 0)
	require.NoError(t, err)
	_, err = svc.AddVitalSign(rec.ID, &models.VitalSign{HeartRate: intp(70)})
	require.NoError(t, err)

	got, err := svc.GetRecord(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.Patient.FirstName)
	require.NotNil(t, got.Anesthetist)
	assert.Equal(t, "Dr. Smith", got.Anesthetist.Name)
	require.Len(t, got.MedicationAdministrations, 1)
	assert.Equal(t, "Zofran", got.MedicationAdministrations[0].Medication.Name)
	require.Len(t, got.VitalSigns, 1)
}
