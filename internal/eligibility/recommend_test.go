package eligibility

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifearrow/platform/internal/videos"
)

type fakeCatalog struct {
	videos map[string]*videos.Video
	err    error
}

func (f *fakeCatalog) GetByUniqueID(_ context.Context, uniqueID string) (*videos.Video, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.videos[uniqueID], nil
}

func publicVideo(slug string) *videos.Video {
	return &videos.Video{ID: "id-" + slug, UniqueID: slug, IsPublic: true, Status: videos.StatusActive}
}

func catalogWith(slugs ...string) *fakeCatalog {
	f := &fakeCatalog{videos: make(map[string]*videos.Video)}
	for _, s := range slugs {
		f.videos[s] = publicVideo(s)
	}
	return f
}

func TestSelectHighBodyFatWinsOverLowMuscleMass(t *testing.T) {
	r := NewRecommender(catalogWith(SlugHighBodyFat, SlugLowMuscleMass, SlugDefaultIntro), "")
	ec := Context{Scan: ScanSnapshot{MetricBodyFat: 30, MetricMuscleMass: 30}}

	v, err := r.Select(context.Background(), ec, "")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, SlugHighBodyFat, v.UniqueID)
}

func TestSelectFallsThroughMissingCandidates(t *testing.T) {
	// Wellness score qualifies but the excellent-wellness video is not in
	// the catalog, so the caller-provided fallback is served instead.
	r := NewRecommender(catalogWith(SlugIntroBodyComposition, SlugDefaultIntro), "")
	ec := Context{Scan: ScanSnapshot{MetricWellnessScore: 90}}

	v, err := r.Select(context.Background(), ec, SlugIntroBodyComposition)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, SlugIntroBodyComposition, v.UniqueID)
}

func TestSelectSkipsIneligibleCandidates(t *testing.T) {
	cat := catalogWith(SlugDefaultIntro)
	conditioned := publicVideo(SlugHighBodyFat)
	conditioned.PlaybackConditions = []videos.Condition{
		{Type: videos.ConditionScan, Field: MetricMuscleMass, Op: videos.OpLessThan, Value: 20},
	}
	cat.videos[SlugHighBodyFat] = conditioned

	// Body fat triggers the high-body-fat rule, but that video's own
	// playback condition is not satisfied and it falls through.
	ec := Context{Scan: ScanSnapshot{MetricBodyFat: 30, MetricMuscleMass: 45}}
	v, err := NewRecommender(cat, "").Select(context.Background(), ec, "")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, SlugDefaultIntro, v.UniqueID)
}

func TestSelectWeightLossGoal(t *testing.T) {
	r := NewRecommender(catalogWith(SlugWeightLossSuccess, SlugDefaultIntro), "")
	ec := Context{
		Scan:   ScanSnapshot{MetricBodyFat: 20},
		Client: &ClientAttributes{Goals: []string{GoalWeightLoss}},
	}

	v, err := r.Select(context.Background(), ec, "")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, SlugWeightLossSuccess, v.UniqueID)
}

func TestSelectThresholdsAreStrict(t *testing.T) {
	r := NewRecommender(catalogWith(
		SlugHighBodyFat, SlugLowMuscleMass, SlugExcellentWellness, SlugDefaultIntro), "")

	// Boundary values do not trigger: the rules are >25, <40, >85.
	ec := Context{Scan: ScanSnapshot{
		MetricBodyFat:       25,
		MetricMuscleMass:    40,
		MetricWellnessScore: 85,
	}}
	v, err := r.Select(context.Background(), ec, "")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, SlugDefaultIntro, v.UniqueID)
}

func TestSelectNoMatchIsNilNil(t *testing.T) {
	r := NewRecommender(catalogWith(), "") // empty catalog, even the default intro is missing

	v, err := r.Select(context.Background(), Context{}, "")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSelectHonorsConfiguredDefaultSlug(t *testing.T) {
	r := NewRecommender(catalogWith("welcome-tour"), "welcome-tour")

	v, err := r.Select(context.Background(), Context{}, "")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "welcome-tour", v.UniqueID)
}

func TestSelectPropagatesCatalogErrors(t *testing.T) {
	boom := errors.New("catalog down")
	r := NewRecommender(&fakeCatalog{err: boom}, "")

	ec := Context{Scan: ScanSnapshot{MetricBodyFat: 30}}
	_, err := r.Select(context.Background(), ec, "")
	assert.ErrorIs(t, err, boom)
}
