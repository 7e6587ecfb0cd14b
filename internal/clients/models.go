package clients

import "time"

// Profile holds the clinic-side attributes of a client: wellness goals that
// drive video recommendations, and the assigned practitioner.
type Profile struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Goals          []string  `json:"goals"`
	FocusAreas     []string  `json:"focus_areas"`
	PractitionerID *string   `json:"practitioner_id,omitempty"`
	DateOfBirth    *string   `json:"date_of_birth,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type UpdateRequest struct {
	Goals          *[]string `json:"goals,omitempty"`
	FocusAreas     *[]string `json:"focus_areas,omitempty"`
	PractitionerID *string   `json:"practitioner_id,omitempty"`
	DateOfBirth    *string   `json:"date_of_birth,omitempty"`
}
