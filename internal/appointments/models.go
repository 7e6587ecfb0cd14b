package appointments

import (
	"errors"
	"time"
)

var (
	ErrConflict = errors.New("practitioner already booked for that slot")
	ErrNotFound = errors.New("appointment not found")
)

type Status string

const (
	StatusBooked    Status = "booked"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusBooked, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Appointment struct {
	ID             string    `json:"id"`
	ClientID       string    `json:"client_id"`
	PractitionerID string    `json:"practitioner_id"`
	OfferingID     string    `json:"offering_id"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
	Status         Status    `json:"status"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type BookRequest struct {
	ClientID       string    `json:"client_id" validate:"required"`
	PractitionerID string    `json:"practitioner_id" validate:"required"`
	OfferingID     string    `json:"offering_id" validate:"required"`
	StartsAt       time.Time `json:"starts_at" validate:"required"`
	EndsAt         time.Time `json:"ends_at" validate:"required"`
	Notes          string    `json:"notes,omitempty"`
}

// overlaps reports whether two half-open time ranges intersect. It is the
// in-memory form of the conflict predicate Repository.Create runs in SQL.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
