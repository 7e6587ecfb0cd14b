package offerings

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("offering not found")

// Offering is a bookable clinic service, such as a body composition scan
// or a coaching session.
type Offering struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
	PriceCents      int       `json:"price_cents"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type CreateRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=200"`
	Description     string `json:"description,omitempty"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,gt=0"`
	PriceCents      int    `json:"price_cents" validate:"gte=0"`
}

type UpdateRequest struct {
	Name            *string `json:"name,omitempty"`
	Description     *string `json:"description,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	PriceCents      *int    `json:"price_cents,omitempty"`
	Active          *bool   `json:"active,omitempty"`
}
