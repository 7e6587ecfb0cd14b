package settings

import "time"

const (
	KeyClinicName         = "clinic_name"
	KeyClinicTimezone     = "clinic_timezone"
	KeyDefaultIntroSlug   = "default_intro_slug"
	KeyIngestDelaySeconds = "ingest_delay_seconds"
	KeyStaleCutoffMinutes = "stale_processing_cutoff_minutes"
	KeySignupEnabled      = "signup_enabled"
	KeyPasswordMinLength  = "password_min_length"
	KeyPasswordComplexity = "password_complexity"
	KeySessionTTLDays     = "session_ttl_days"
	KeyCacheTTLSeconds    = "video_cache_ttl_seconds"
)

type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
