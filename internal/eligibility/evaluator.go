package eligibility

import (
	"github.com/spf13/cast"

	"github.com/lifearrow/platform/internal/users"
	"github.com/lifearrow/platform/internal/videos"
)

// Scan metric keys the recommendation rules inspect. The scan-capture side
// writes snapshots with these keys; they are part of the contract.
const (
	MetricBodyFat       = "body_fat_percentage"
	MetricMuscleMass    = "muscle_mass"
	MetricWellnessScore = "body_wellness_score"
)

type Viewer struct {
	ID   string     `json:"id"`
	Role users.Role `json:"role"`
}

// ScanSnapshot is a transient bag of numeric health metrics; it is supplied
// by the caller and never persisted here.
type ScanSnapshot map[string]float64

type ClientAttributes struct {
	Goals      []string `json:"goals,omitempty"`
	FocusAreas []string `json:"focus_areas,omitempty"`
}

// Context is everything a playback condition may inspect.
type Context struct {
	Viewer Viewer
	Scan   ScanSnapshot
	Client *ClientAttributes
}

// IsEligible decides whether the viewer may play the video.
//
// Unconditioned videos use the visibility shortcut: public, or owned by the
// viewer. Once any condition is present the shortcut is bypassed entirely
// and eligibility is the AND of all conditions — so a private conditioned
// video with satisfied conditions is playable by non-owners. That matches
// the production behavior and is pinned by tests.
func IsEligible(ec Context, v *videos.Video) bool {
	if !v.Conditioned() {
		return v.IsPublic || ec.Viewer.ID == v.UploadedBy
	}
	for _, cond := range v.PlaybackConditions {
		if !evalCondition(ec, cond) {
			return false
		}
	}
	return true
}

// evalCondition resolves the condition's operand from the context and applies
// the operator. Anything unresolvable fails closed: absent fields, reserved
// condition types, and non-coercible operands all evaluate to false.
func evalCondition(ec Context, c videos.Condition) bool {
	got, ok := resolveField(ec, c)
	if !ok {
		return false
	}
	return applyOperator(got, c)
}

func resolveField(ec Context, c videos.Condition) (any, bool) {
	switch c.Type {
	case videos.ConditionClient:
		if c.Field == "" {
			return ec.Viewer.Role == users.RoleClient, true
		}
		if ec.Client == nil {
			return nil, false
		}
		switch c.Field {
		case "goals":
			return ec.Client.Goals, true
		case "focus_areas":
			return ec.Client.FocusAreas, true
		}
		return nil, false
	case videos.ConditionPractitioner:
		if c.Field == "" {
			return ec.Viewer.Role == users.RolePractitioner, true
		}
		return nil, false
	case videos.ConditionScan:
		if ec.Scan == nil {
			return nil, false
		}
		val, ok := ec.Scan[c.Field]
		return val, ok
	default:
		// appointment, date and custom are reserved condition types.
		return nil, false
	}
}

func applyOperator(got any, c videos.Condition) bool {
	switch c.Op {
	case videos.OpEquals:
		return valuesEqual(got, c.Value)
	case videos.OpNotEquals:
		return !valuesEqual(got, c.Value)
	case videos.OpContains:
		items, err := cast.ToStringSliceE(got)
		if err != nil {
			return false
		}
		want := cast.ToString(c.Value)
		for _, item := range items {
			if item == want {
				return true
			}
		}
		return false
	case videos.OpGreaterThan:
		a, b, ok := toFloats(got, c.Value)
		return ok && a > b
	case videos.OpLessThan:
		a, b, ok := toFloats(got, c.Value)
		return ok && a < b
	case videos.OpBetween:
		a, lo, ok := toFloats(got, c.Value)
		if !ok {
			return false
		}
		hi, err := cast.ToFloat64E(c.SecondValue)
		if err != nil {
			return false
		}
		// Inclusive on both bounds.
		return a >= lo && a <= hi
	default:
		return false
	}
}

// valuesEqual compares numerically when both sides coerce to float64,
// otherwise by string value.
func valuesEqual(a, b any) bool {
	fa, errA := cast.ToFloat64E(a)
	fb, errB := cast.ToFloat64E(b)
	if errA == nil && errB == nil {
		return fa == fb
	}
	return cast.ToString(a) == cast.ToString(b)
}

func toFloats(a, b any) (float64, float64, bool) {
	fa, err := cast.ToFloat64E(a)
	if err != nil {
		return 0, 0, false
	}
	fb, err := cast.ToFloat64E(b)
	if err != nil {
		return 0, 0, false
	}
	return fa, fb, true
}
