package services

import (
	"math"
)

// Derived clinical values. Each computation is pure: fixed formula, no state.

// ComputeBMI returns weight_kg / (height_m)^2, or nil when either input is
// missing or non-positive. Inputs are canonical SI (cm, kg); any unit
// conversion happens at the input boundary, never here.
func ComputeBMI(heightCm, weightKg *float64) *float64 {
	if heightCm == nil || weightKg == nil {
		return nil
	}
	if *heightCm <= 0 || *weightKg <= 0 {
		return nil
	}
	heightM := *heightCm / 100
	bmi := *weightKg / (heightM * heightM)
	return &bmi
}

// ComputeMAP returns the mean arterial pressure round((systolic+2*diastolic)/3)
// to the nearest integer, or nil when either side of the blood pressure pair
// is absent.
func ComputeMAP(systolic, diastolic *int) *int {
	if systolic == nil || diastolic == nil {
		return nil
	}
	m := int(math.Round(float64(*systolic+2**diastolic) / 3))
	return &m
}

// ComputeAldreteTotal sums the five recovery sub-scores. It returns nil
// unless all five are set, so a half-filled post-anesthesia tab never
// produces a misleading total.
func ComputeAldreteTotal(activity, respiration, circulation, consciousness, color *int) *int {
	if activity == nil || respiration == nil || circulation == nil || consciousness == nil || color == nil {
		return nil
	}
	total := *activity + *respiration + *circulation + *consciousness + *color
	return &total
}
