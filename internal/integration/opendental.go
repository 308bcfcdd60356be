// Package integration holds the boundary to the external practice
// management system (Open Dental). Only a stub implementation exists; the
// Client interface keeps the path fallible so a real implementation surfaces
// outages as errors instead of fabricating data.
package integration

import (
	"context"
)

// PatientDemographics is the demographic payload returned by a patient lookup.
type PatientDemographics struct {
	OpenDentalID        string `json:"open_dental_id"`
	FirstName           string `json:"first_name"`
	LastName            string `json:"last_name"`
	DateOfBirth         string `json:"date_of_birth"`
	MedicalRecordNumber string `json:"medical_record_number"`
}

// Client is the contract for the practice management system.
type Client interface {
	FetchPatient(ctx context.Context, openDentalID string) (*PatientDemographics, error)
	PushRecord(ctx context.Context, recordID string) error
}

// StubClient answers every call with canned data. It stands in until a real
// Open Dental integration exists.
type StubClient struct{}

// NewStubClient creates a new StubClient.
func NewStubClient() *StubClient {
	return &StubClient{}
}

// FetchPatient returns fixed demographics for any identifier.
func (s *StubClient) FetchPatient(_ context.Context, openDentalID string) (*PatientDemographics, error) {
	return &PatientDemographics{
		OpenDentalID:        openDentalID,
		FirstName:           "John",
		LastName:            "Doe",
		DateOfBirth:         "1990-01-01",
		MedicalRecordNumber: "MRN123456",
	}, nil
}

// PushRecord acknowledges without sending anything anywhere.
func (s *StubClient) PushRecord(_ context.Context, _ string) error {
	return nil
}
