package videos

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSearchCatalog(t *testing.T) *Catalog {
	t.Helper()
	store := NewMemStore()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seed := []*Video{
		{UniqueID: "morning-stretch", Title: "Morning Stretch", Category: CategoryExercise,
			Tags: []string{"beginner", "mobility"}, IsPublic: true, Status: StatusActive,
			UploadedBy: "p1", UploadDate: base},
		{UniqueID: "evening-stretch", Title: "Evening Stretch", Category: CategoryExercise,
			Tags: []string{"advanced"}, IsPublic: true, Status: StatusActive,
			UploadedBy: "p1", UploadDate: base.AddDate(0, 0, 1)},
		{UniqueID: "meal-prep-basics", Title: "Meal Prep Basics", Category: CategoryNutrition,
			Tags: []string{"beginner"}, IsPublic: false, Status: StatusActive,
			UploadedBy: "p2", UploadDate: base.AddDate(0, 0, 2)},
		{UniqueID: "intro-body-composition", Title: "Understanding Body Composition", Category: CategoryIntro,
			Tags: []string{"scan"}, IsPublic: true, Status: StatusProcessing,
			UploadedBy: "p2", UploadDate: base.AddDate(0, 0, 3)},
	}
	for _, v := range seed {
		require.NoError(t, store.Insert(ctx, v))
	}
	return NewCatalog(store, nil, nil)
}

func slugsOf(vs []*Video) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.UniqueID)
	}
	return out
}

func TestSearchFiltersAreConjunctive(t *testing.T) {
	ctx := context.Background()
	cat := seedSearchCatalog(t)

	res, err := cat.Search(ctx, Filters{Title: "stretch", Tags: []string{"beginner"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"morning-stretch"}, slugsOf(res.Videos))
}

func TestSearchTitleIsCaseInsensitiveSubstring(t *testing.T) {
	ctx := context.Background()
	cat := seedSearchCatalog(t)

	res, err := cat.Search(ctx, Filters{Title: "STRETCH"})
	require.NoError(t, err)
	assert.Len(t, res.Videos, 2)
}

func TestSearchTagsMatchAny(t *testing.T) {
	ctx := context.Background()
	cat := seedSearchCatalog(t)

	res, err := cat.Search(ctx, Filters{Tags: []string{"mobility", "advanced"}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"morning-stretch", "evening-stretch"}, slugsOf(res.Videos))
}

func TestSearchDateRangeIsInclusive(t *testing.T) {
	ctx := context.Background()
	cat := seedSearchCatalog(t)

	after := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	before := time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)
	res, err := cat.Search(ctx, Filters{UploadedAfter: &after, UploadedBefore: &before, Sort: SortDateAsc})
	require.NoError(t, err)
	assert.Equal(t, []string{"evening-stretch", "meal-prep-basics"}, slugsOf(res.Videos))
}

func TestSearchVisibilityAndStatusFilters(t *testing.T) {
	ctx := context.Background()
	cat := seedSearchCatalog(t)

	priv := false
	res, err := cat.Search(ctx, Filters{IsPublic: &priv})
	require.NoError(t, err)
	assert.Equal(t, []string{"meal-prep-basics"}, slugsOf(res.Videos))

	res, err = cat.Search(ctx, Filters{Status: StatusProcessing})
	require.NoError(t, err)
	assert.Equal(t, []string{"intro-body-composition"}, slugsOf(res.Videos))
}

func TestSearchDefaultSortIsNewestFirst(t *testing.T) {
	ctx := context.Background()
	cat := seedSearchCatalog(t)

	res, err := cat.Search(ctx, Filters{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"intro-body-composition", "meal-prep-basics", "evening-stretch", "morning-stretch",
	}, slugsOf(res.Videos))
}

func TestSearchTitleSortIgnoresCase(t *testing.T) {
	ctx := context.Background()
	cat := seedSearchCatalog(t)

	res, err := cat.Search(ctx, Filters{Sort: SortTitleAsc})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"evening-stretch", "meal-prep-basics", "morning-stretch", "intro-body-composition",
	}, slugsOf(res.Videos))
}

func TestTitleSortCollatesAccentedTitles(t *testing.T) {
	vs := []*Video{
		{UniqueID: "zebra-stretch", Title: "Zebra Stretch"},
		{UniqueID: "etude-routine", Title: "Étude Routine"},
		{UniqueID: "abs-circuit", Title: "abs circuit"},
	}

	sortVideos(vs, SortTitleAsc)
	assert.Equal(t, []string{"abs-circuit", "etude-routine", "zebra-stretch"}, slugsOf(vs))

	sortVideos(vs, SortTitleDesc)
	assert.Equal(t, []string{"zebra-stretch", "etude-routine", "abs-circuit"}, slugsOf(vs))
}

func TestSearchPagination(t *testing.T) {
	ctx := context.Background()
	cat := seedSearchCatalog(t)

	res, err := cat.Search(ctx, Filters{Page: 1, PerPage: 3})
	require.NoError(t, err)
	assert.Len(t, res.Videos, 3)
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 2, res.TotalPages)

	res, err = cat.Search(ctx, Filters{Page: 2, PerPage: 3})
	require.NoError(t, err)
	assert.Len(t, res.Videos, 1)
}

func TestSearchPageBeyondRangeIsEmptyNotError(t *testing.T) {
	ctx := context.Background()
	cat := seedSearchCatalog(t)

	res, err := cat.Search(ctx, Filters{Page: 9, PerPage: 3})
	require.NoError(t, err)
	assert.Empty(t, res.Videos)
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 2, res.TotalPages)
	assert.Equal(t, 9, res.Page)
}
