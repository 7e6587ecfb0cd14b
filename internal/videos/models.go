package videos

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned by mutation paths that reference a missing
	// record. Read paths (GetByID, GetByUniqueID) report absence as
	// (nil, nil) instead, since a miss is an expected outcome there.
	ErrNotFound = errors.New("video not found")

	// ErrDuplicateID is wrapped with the conflicting slug, e.g.
	// fmt.Errorf("%w: %q", ErrDuplicateID, slug).
	ErrDuplicateID = errors.New("unique id already in use")

	ErrRevisionConflict = errors.New("video revision conflict")
	ErrValidation       = errors.New("invalid video request")
)

type Status string

const (
	StatusProcessing Status = "processing"
	StatusActive     Status = "active"
	StatusInactive   Status = "inactive"
)

func (s Status) Valid() bool {
	switch s {
	case StatusProcessing, StatusActive, StatusInactive:
		return true
	}
	return false
}

type Category string

const (
	CategoryIntro       Category = "intro"
	CategoryNutrition   Category = "nutrition"
	CategoryExercise    Category = "exercise"
	CategoryMindfulness Category = "mindfulness"
	CategoryRecovery    Category = "recovery"
	CategoryEducation   Category = "education"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryIntro, CategoryNutrition, CategoryExercise,
		CategoryMindfulness, CategoryRecovery, CategoryEducation:
		return true
	}
	return false
}

// ConditionType selects which context object a playback condition inspects.
type ConditionType string

const (
	ConditionClient       ConditionType = "client"
	ConditionPractitioner ConditionType = "practitioner"
	ConditionScan         ConditionType = "scan"
	ConditionAppointment  ConditionType = "appointment"
	ConditionDate         ConditionType = "date"
	ConditionCustom       ConditionType = "custom"
)

type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpContains    Operator = "contains"
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"
	OpBetween     Operator = "between"
)

// Condition is a single playback-eligibility rule attached to a video.
// All conditions on one video are AND-ed.
type Condition struct {
	Type        ConditionType `json:"type"`
	Field       string        `json:"field,omitempty"`
	Op          Operator      `json:"operator"`
	Value       any           `json:"value"`
	SecondValue any           `json:"second_value,omitempty"`
}

type Video struct {
	ID          string   `json:"id"`
	UniqueID    string   `json:"unique_id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Category    Category `json:"category"`
	Tags        []string `json:"tags"`
	IsPublic    bool     `json:"is_public"`
	Status      Status   `json:"status"`
	UploadedBy  string   `json:"uploaded_by"`
	// Revision guards concurrent updates; bumped by the store on every
	// successful update.
	Revision           int         `json:"revision"`
	PlaybackConditions []Condition `json:"playback_conditions,omitempty"`
	FileName           string      `json:"file_name,omitempty"`
	FileSize           int64       `json:"file_size,omitempty"`
	UploadDate         time.Time   `json:"upload_date"`
}

// Conditioned reports whether the video carries any playback conditions.
func (v *Video) Conditioned() bool {
	return len(v.PlaybackConditions) > 0
}

type UploadRequest struct {
	Title              string         `json:"title" validate:"required,max=200"`
	UniqueID           string         `json:"unique_id" validate:"required,max=100"`
	Description        string         `json:"description,omitempty"`
	Category           Category       `json:"category" validate:"required"`
	Tags               []string       `json:"tags"`
	IsPublic           bool           `json:"is_public"`
	PlaybackConditions []Condition    `json:"playback_conditions,omitempty"`
	FileName           string         `json:"file_name,omitempty"`
	FileSize           int64          `json:"file_size,omitempty"`
	Metadata           map[string]any `json:"metadata,omitempty"`
	UploadedBy         string         `json:"-"`
}

// UpdateRequest carries partial fields; nil means "leave unchanged".
type UpdateRequest struct {
	Title              *string      `json:"title,omitempty"`
	UniqueID           *string      `json:"unique_id,omitempty"`
	Description        *string      `json:"description,omitempty"`
	Category           *Category    `json:"category,omitempty"`
	Tags               *[]string    `json:"tags,omitempty"`
	IsPublic           *bool        `json:"is_public,omitempty"`
	Status             *Status      `json:"status,omitempty"`
	PlaybackConditions *[]Condition `json:"playback_conditions,omitempty"`
	// ExpectedRevision, when set, rejects the update with
	// ErrRevisionConflict if the stored record has moved on.
	ExpectedRevision *int `json:"expected_revision,omitempty"`
}

type SortOrder string

const (
	SortDateAsc   SortOrder = "date_asc"
	SortDateDesc  SortOrder = "date_desc"
	SortTitleAsc  SortOrder = "title_asc"
	SortTitleDesc SortOrder = "title_desc"
)

// Filters are conjunctive: every populated filter must match.
type Filters struct {
	Title          string     `json:"title,omitempty"`
	UniqueID       string     `json:"unique_id,omitempty"`
	Category       Category   `json:"category,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
	UploadedAfter  *time.Time `json:"uploaded_after,omitempty"`
	UploadedBefore *time.Time `json:"uploaded_before,omitempty"`
	IsPublic       *bool      `json:"is_public,omitempty"`
	Status         Status     `json:"status,omitempty"`
	Sort           SortOrder  `json:"sort,omitempty"`
	Page           int        `json:"page,omitempty"`
	PerPage        int        `json:"per_page,omitempty"`
}

type SearchResult struct {
	Videos     []*Video `json:"videos"`
	Total      int      `json:"total"`
	Page       int      `json:"page"`
	PerPage    int      `json:"per_page"`
	TotalPages int      `json:"total_pages"`
}
