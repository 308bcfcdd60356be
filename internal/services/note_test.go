package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"anesthesia-record-server/internal/models"
)

func noteTestRecord() *models.AnesthesiaRecord {
	return &models.AnesthesiaRecord{
		Patient: models.Patient{
			FirstName:   "Jane",
			LastName:    "Doe",
			DateOfBirth: time.Date(1985, 6, 15, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestGenerateNoteEmptyRecord(t *testing.T) {
	note := GenerateAnesthesiaNote(noteTestRecord())

	assert.Contains(t, note, "# Anesthesia Record")
	assert.Contains(t, note, "- Name: Jane Doe")
	assert.Contains(t, note, "- DOB: 1985-06-15")
	assert.Contains(t, note, "- MRN: N/A")
	assert.Contains(t, note, "- ASA Class: Not recorded")
	assert.Contains(t, note, "- Mallampati: Not assessed")
	assert.Contains(t, note, "- BMI: Not calculated")
	assert.Contains(t, note, "- Anesthetist: Not assigned")
	assert.Contains(t, note, "None selected")
	assert.Contains(t, note, "- Route: N/A")

	// Medications render an explicit "None", and the post-anesthesia block
	// is omitted entirely until a total exists.
	assert.Contains(t, note, "## Medications Administered\nNone")
	assert.NotContains(t, note, "Post Anesthesia Score")
}

func TestGenerateNoteSectionOrder(t *testing.T) {
	note := GenerateAnesthesiaNote(noteTestRecord())

	sections := []string{
		"## Patient Information",
		"## Physical Assessment",
		"## Providers",
		"## Monitors",
		"## IV Access",
		"## Inhalational Agents",
		"## Times",
		"## Medications Administered",
		"## Local Anesthetics",
		"## Notes",
	}
	last := -1
	for _, section := range sections {
		idx := strings.Index(note, section)
		require.GreaterOrEqual(t, idx, 0, "missing section %q", section)
		assert.Greater(t, idx, last, "section %q out of order", section)
		last = idx
	}
}

func TestGenerateNoteFullRecord(t *testing.T) {
	doseTime := time.Date(2024, 3, 1, 9, 45, 0, 0, time.UTC)
	rec := noteTestRecord()
	rec.Patient.MedicalRecordNumber = "MRN-42"
	rec.ASAClass = strp("II")
	rec.ASAModifierE = boolp(true)
	rec.HeightCm = floatp(170)
	rec.WeightKg = floatp(70)
	rec.BMI = floatp(24.2)
	rec.Monitors = datatypes.NewJSONSlice([]string{"SpO2", "ECG"})
	rec.Anesthetist = &models.Provider{Name: "Dr. Smith", Role: "Anesthetist"}
	rec.Notes = strp("Uneventful induction.")
	rec.MedicationAdministrations = []models.MedicationAdministration{
		{
			Medication: models.Medication{Name: "Propofol"},
			DoseMl:     2,
			WasteMl:    0.5,
			Timestamp:  doseTime,
		},
	}
	rec.LocalAnesthetics = datatypes.NewJSONType(map[string]int{
		"Septocaine": 2,
		"Lidocaine":  1,
	})
	rec.AldreteActivity = intp(2)
	rec.AldreteRespiration = intp(2)
	rec.AldreteCirculation = intp(2)
	rec.AldreteConsciousness = intp(2)
	rec.AldreteColor = intp(1)
	rec.AldreteTotal = intp(9)
	rec.EscortPresent = boolp(true)

	note := GenerateAnesthesiaNote(rec)

	assert.Contains(t, note, "- MRN: MRN-42")
	assert.Contains(t, note, "- ASA Class: II E")
	assert.Contains(t, note, "- Height: 170.0 cm")
	assert.Contains(t, note, "- BMI: 24.2")
	assert.Contains(t, note, "SpO2, ECG")
	assert.Contains(t, note, "- Anesthetist: Dr. Smith")
	assert.Contains(t, note, "- Propofol: 2 mL (Waste: 0.5 mL) at 09:45")
	assert.Contains(t, note, "Uneventful induction.")
	assert.Contains(t, note, "- Total: 9/10")
	assert.Contains(t, note, "- Escort Present: Yes")

	// Carpule counts render in deterministic sorted order.
	lido := strings.Index(note, "Lidocaine: 1 carpules")
	septo := strings.Index(note, "Septocaine: 2 carpules")
	require.GreaterOrEqual(t, lido, 0)
	require.GreaterOrEqual(t, septo, 0)
	assert.Less(t, lido, septo)
}

func TestGenerateNoteDoesNotMutateRecord(t *testing.T) {
	rec := noteTestRecord()
	rec.HeightCm = floatp(170)

	_ = GenerateAnesthesiaNote(rec)
	_ = GenerateAnesthesiaNote(rec)

	assert.Nil(t, rec.BMI)
	assert.Nil(t, rec.Notes)
	assert.Equal(t, 170.0, *rec.HeightCm)
}
