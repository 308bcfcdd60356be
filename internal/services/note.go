package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"anesthesia-record-server/internal/models"
)

// GenerateAnesthesiaNote renders a fully-loaded record as a markdown
// document with a fixed section order. It is a pure formatter: absent
// optional fields render as explicit placeholders so the output is always
// structurally complete and parsable by section header, and the record is
// never mutated. The post-anesthesia block appears only once an Aldrete
// total has been recorded.
func GenerateAnesthesiaNote(rec *models.AnesthesiaRecord) string {
	var b strings.Builder

	b.WriteString("# Anesthesia Record\n\n")

	b.WriteString("## Patient Information\n")
	fmt.Fprintf(&b, "- Name: %s %s\n", rec.Patient.FirstName, rec.Patient.LastName)
	fmt.Fprintf(&b, "- DOB: %s\n", rec.Patient.DateOfBirth.Format("2006-01-02"))
	fmt.Fprintf(&b, "- MRN: %s\n\n", orPlaceholder(rec.Patient.MedicalRecordNumber, "N/A"))

	b.WriteString("## Physical Assessment\n")
	asa := strPtr(rec.ASAClass, "Not recorded")
	if rec.ASAModifierE != nil && *rec.ASAModifierE {
		asa += " E"
	}
	fmt.Fprintf(&b, "- ASA Class: %s\n", asa)
	fmt.Fprintf(&b, "- Mallampati: %s\n", strPtr(rec.Mallampati, "Not assessed"))
	fmt.Fprintf(&b, "- Height: %s\n", floatPtr(rec.HeightCm, "%.1f cm", "Not recorded"))
	fmt.Fprintf(&b, "- Weight: %s\n", floatPtr(rec.WeightKg, "%.1f kg", "Not recorded"))
	fmt.Fprintf(&b, "- BMI: %s\n", floatPtr(rec.BMI, "%.1f", "Not calculated"))
	fmt.Fprintf(&b, "- NPO Since: %s\n\n", clockPtr(rec.NPOSince, "Not recorded"))

	b.WriteString("## Providers\n")
	fmt.Fprintf(&b, "- Anesthetist: %s\n", providerName(rec.Anesthetist))
	fmt.Fprintf(&b, "- Surgeon: %s\n", providerName(rec.Surgeon))
	fmt.Fprintf(&b, "- Assistant: %s\n", providerName(rec.Assistant))
	fmt.Fprintf(&b, "- Circulator: %s\n\n", providerName(rec.Circulator))

	b.WriteString("## Monitors\n")
	if len(rec.Monitors) > 0 {
		b.WriteString(strings.Join(rec.Monitors, ", "))
	} else {
		b.WriteString("None selected")
	}
	b.WriteString("\n\n")

	b.WriteString("## IV Access\n")
	fmt.Fprintf(&b, "- Route: %s\n", strPtr(rec.IVRoute, "N/A"))
	fmt.Fprintf(&b, "- Gauge: %s\n", strPtr(rec.IVGauge, "N/A"))
	fmt.Fprintf(&b, "- Site: %s\n", strPtr(rec.IVSite, "N/A"))
	fmt.Fprintf(&b, "- Attempts: %s\n\n", intPtr(rec.IVAttempts, "N/A"))

	b.WriteString("## Inhalational Agents\n")
	fmt.Fprintf(&b, "- O2 Flow: %s\n", floatPtr(rec.O2FlowRate, "%.1f L/min", "Not recorded"))
	fmt.Fprintf(&b, "- N2O Flow: %s\n", floatPtr(rec.N2OFlowRate, "%.1f L/min", "Not recorded"))
	fmt.Fprintf(&b, "- Start: %s\n", clockPtr(rec.InhalationStart, "Not started"))
	fmt.Fprintf(&b, "- End: %s\n\n", clockPtr(rec.InhalationEnd, "Not ended"))

	b.WriteString("## Times\n")
	fmt.Fprintf(&b, "- Anesthesia Start: %s\n", clockPtr(rec.AnesthesiaStart, "Not recorded"))
	fmt.Fprintf(&b, "- Anesthesia End: %s\n", clockPtr(rec.AnesthesiaEnd, "Not recorded"))
	fmt.Fprintf(&b, "- Surgery Start: %s\n", clockPtr(rec.SurgeryStart, "Not recorded"))
	fmt.Fprintf(&b, "- Surgery End: %s\n\n", clockPtr(rec.SurgeryEnd, "Not recorded"))

	b.WriteString("## Medications Administered\n")
	if len(rec.MedicationAdministrations) == 0 {
		b.WriteString("None\n")
	}
	for _, admin := range rec.MedicationAdministrations {
		fmt.Fprintf(&b, "- %s: %g mL (Waste: %g mL) at %s\n",
			admin.Medication.Name, admin.DoseMl, admin.WasteMl,
			admin.Timestamp.Format("15:04"))
	}

	b.WriteString("\n## Local Anesthetics\n")
	locals := rec.LocalAnesthetics.Data()
	if len(locals) == 0 {
		b.WriteString("None\n")
	} else {
		names := make([]string, 0, len(locals))
		for name := range locals {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "- %s: %d carpules\n", name, locals[name])
		}
	}

	fmt.Fprintf(&b, "\n## Notes\n%s\n", strPtr(rec.Notes, "None"))

	if rec.AldreteTotal != nil {
		b.WriteString("\n## Post Anesthesia Score (Aldrete)\n")
		fmt.Fprintf(&b, "- Activity: %s\n", intPtr(rec.AldreteActivity, "Not recorded"))
		fmt.Fprintf(&b, "- Respiration: %s\n", intPtr(rec.AldreteRespiration, "Not recorded"))
		fmt.Fprintf(&b, "- Circulation: %s\n", intPtr(rec.AldreteCirculation, "Not recorded"))
		fmt.Fprintf(&b, "- Consciousness: %s\n", intPtr(rec.AldreteConsciousness, "Not recorded"))
		fmt.Fprintf(&b, "- Color: %s\n", intPtr(rec.AldreteColor, "Not recorded"))
		fmt.Fprintf(&b, "- Total: %d/10\n", *rec.AldreteTotal)
		fmt.Fprintf(&b, "- Discharge Time: %s\n", clockPtr(rec.DischargeTime, "Not discharged"))
		fmt.Fprintf(&b, "- Escort Present: %s\n", yesNo(rec.EscortPresent))
		fmt.Fprintf(&b, "- Post-op Instructions Given: %s\n", yesNo(rec.PostopInstructionsGiven))
	}

	return b.String()
}

func providerName(p *models.Provider) string {
	if p == nil {
		return "Not assigned"
	}
	return p.Name
}

func orPlaceholder(s, placeholder string) string {
	if s == "" {
		return placeholder
	}
	return s
}

func strPtr(s *string, placeholder string) string {
	if s == nil || *s == "" {
		return placeholder
	}
	return *s
}

func intPtr(v *int, placeholder string) string {
	if v == nil {
		return placeholder
	}
	return fmt.Sprintf("%d", *v)
}

func floatPtr(v *float64, format, placeholder string) string {
	if v == nil {
		return placeholder
	}
	return fmt.Sprintf(format, *v)
}

func clockPtr(t *time.Time, placeholder string) string {
	if t == nil {
		return placeholder
	}
	return t.Format("15:04")
}

func yesNo(v *bool) string {
	if v != nil && *v {
		return "Yes"
	}
	return "No"
}
