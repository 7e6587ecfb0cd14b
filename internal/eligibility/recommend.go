package eligibility

import (
	"context"

	"github.com/lifearrow/platform/internal/videos"
)

// Business identifiers the scan-result flow hardcodes. These slugs are a
// stable contract with catalog content and must not change.
const (
	SlugHighBodyFat          = "high-body-fat"
	SlugLowMuscleMass        = "low-muscle-mass"
	SlugExcellentWellness    = "excellent-wellness-score"
	SlugWeightLossSuccess    = "weight-loss-success"
	SlugIntroBodyComposition = "intro-body-composition"
	SlugDefaultIntro         = "intro-video"
)

// GoalWeightLoss is the client goal that triggers the weight-loss rule.
const GoalWeightLoss = "Weight Loss"

// CatalogLookup is the slice of the catalog the recommender needs.
type CatalogLookup interface {
	GetByUniqueID(ctx context.Context, uniqueID string) (*videos.Video, error)
}

type Recommender struct {
	catalog     CatalogLookup
	defaultSlug string
}

// NewRecommender builds a recommender; defaultSlug overrides the last-resort
// candidate, empty means SlugDefaultIntro.
func NewRecommender(catalog CatalogLookup, defaultSlug string) *Recommender {
	if defaultSlug == "" {
		defaultSlug = SlugDefaultIntro
	}
	return &Recommender{catalog: catalog, defaultSlug: defaultSlug}
}

// Select picks at most one video by priority. Each rule whose predicate
// holds contributes a candidate slug; candidates are tried in order, and a
// candidate missing from the catalog or failing the eligibility check falls
// through to the next. No match is a normal outcome, returned as (nil, nil);
// catalog errors propagate unchanged.
func (r *Recommender) Select(ctx context.Context, ec Context, fallbackID string) (*videos.Video, error) {
	var candidates []string

	if bf, ok := ec.Scan[MetricBodyFat]; ok && bf > 25 {
		candidates = append(candidates, SlugHighBodyFat)
	}
	if mm, ok := ec.Scan[MetricMuscleMass]; ok && mm < 40 {
		candidates = append(candidates, SlugLowMuscleMass)
	}
	if ws, ok := ec.Scan[MetricWellnessScore]; ok && ws > 85 {
		candidates = append(candidates, SlugExcellentWellness)
	}
	if ec.Client != nil && hasGoal(ec.Client.Goals, GoalWeightLoss) {
		candidates = append(candidates, SlugWeightLossSuccess)
	}
	if fallbackID != "" {
		candidates = append(candidates, fallbackID)
	}
	candidates = append(candidates, r.defaultSlug)

	for _, slug := range candidates {
		v, err := r.catalog.GetByUniqueID(ctx, slug)
		if err != nil {
			return nil, err
		}
		if v == nil {
			continue
		}
		if !IsEligible(ec, v) {
			continue
		}
		return v, nil
	}
	return nil, nil
}

func hasGoal(goals []string, want string) bool {
	for _, g := range goals {
		if g == want {
			return true
		}
	}
	return false
}
