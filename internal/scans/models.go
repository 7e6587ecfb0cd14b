package scans

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("scan not found")

// ScanResult is one captured set of body-composition metrics for a client.
// Metrics is a flat bag of numeric readings keyed by metric name
// (body_fat_percentage, muscle_mass, body_wellness_score, ...).
type ScanResult struct {
	ID             string             `json:"id"`
	ClientID       string             `json:"client_id"`
	PractitionerID string             `json:"practitioner_id"`
	Metrics        map[string]float64 `json:"metrics"`
	Notes          string             `json:"notes,omitempty"`
	TakenAt        time.Time          `json:"taken_at"`
	CreatedAt      time.Time          `json:"created_at"`
}

type CreateRequest struct {
	ClientID string             `json:"client_id" validate:"required"`
	Metrics  map[string]float64 `json:"metrics" validate:"required,min=1"`
	Notes    string             `json:"notes,omitempty"`
	TakenAt  *time.Time         `json:"taken_at,omitempty"`
}
