package videos

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEnqueuer struct {
	ids []string
}

func (r *recordingEnqueuer) EnqueueProcess(_ context.Context, videoID string) error {
	r.ids = append(r.ids, videoID)
	return nil
}

func newTestCatalog() (*Catalog, *recordingEnqueuer) {
	enq := &recordingEnqueuer{}
	return NewCatalog(NewMemStore(), enq, nil), enq
}

func uploadReq(uniqueID string) UploadRequest {
	return UploadRequest{
		Title:      "Test Video",
		UniqueID:   uniqueID,
		Category:   CategoryEducation,
		UploadedBy: "uploader-1",
	}
}

func TestCreateStartsInProcessingAndEnqueues(t *testing.T) {
	ctx := context.Background()
	cat, enq := newTestCatalog()

	v, err := cat.Create(ctx, uploadReq("intro-stretching"))
	require.NoError(t, err)
	assert.NotEmpty(t, v.ID)
	assert.Equal(t, StatusProcessing, v.Status)
	assert.Equal(t, []string{v.ID}, enq.ids)
}

func TestCreateRejectsDuplicateUniqueID(t *testing.T) {
	ctx := context.Background()
	cat, _ := newTestCatalog()

	_, err := cat.Create(ctx, uploadReq("high-body-fat"))
	require.NoError(t, err)

	_, err = cat.Create(ctx, uploadReq("high-body-fat"))
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestCreateRejectsBadSlug(t *testing.T) {
	ctx := context.Background()
	cat, _ := newTestCatalog()

	for _, bad := range []string{"Has Spaces", "UPPER-CASE", "trailing-", "-leading", "double--hyphen"} {
		_, err := cat.Create(ctx, uploadReq(bad))
		assert.ErrorIs(t, err, ErrValidation, "slug %q", bad)
	}
}

func TestCreateRejectsUnknownCategory(t *testing.T) {
	ctx := context.Background()
	cat, _ := newTestCatalog()

	req := uploadReq("some-video")
	req.Category = "cooking"
	_, err := cat.Create(ctx, req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetByIDMissReturnsNilNil(t *testing.T) {
	ctx := context.Background()
	cat, _ := newTestCatalog()

	v, err := cat.GetByID(ctx, "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestUpdateRenameCollides(t *testing.T) {
	ctx := context.Background()
	cat, _ := newTestCatalog()

	_, err := cat.Create(ctx, uploadReq("slug-one"))
	require.NoError(t, err)
	v2, err := cat.Create(ctx, uploadReq("slug-two"))
	require.NoError(t, err)

	taken := "slug-one"
	_, err = cat.Update(ctx, v2.ID, UpdateRequest{UniqueID: &taken})
	assert.ErrorIs(t, err, ErrDuplicateID)

	// Renaming to the record's own current slug is a no-op, not a conflict.
	same := "slug-two"
	_, err = cat.Update(ctx, v2.ID, UpdateRequest{UniqueID: &same})
	assert.NoError(t, err)
}

func TestUpdateRenameFreesOldSlug(t *testing.T) {
	ctx := context.Background()
	cat, _ := newTestCatalog()

	v, err := cat.Create(ctx, uploadReq("old-name"))
	require.NoError(t, err)

	newName := "new-name"
	_, err = cat.Update(ctx, v.ID, UpdateRequest{UniqueID: &newName})
	require.NoError(t, err)

	gone, err := cat.GetByUniqueID(ctx, "old-name")
	require.NoError(t, err)
	assert.Nil(t, gone)

	found, err := cat.GetByUniqueID(ctx, "new-name")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, v.ID, found.ID)

	// The freed slug may be claimed by a new upload.
	_, err = cat.Create(ctx, uploadReq("old-name"))
	assert.NoError(t, err)
}

func TestUpdateRevisionConflict(t *testing.T) {
	ctx := context.Background()
	cat, _ := newTestCatalog()

	v, err := cat.Create(ctx, uploadReq("contended"))
	require.NoError(t, err)

	title := "first writer"
	_, err = cat.Update(ctx, v.ID, UpdateRequest{Title: &title})
	require.NoError(t, err)

	stale := v.Revision
	title2 := "second writer"
	_, err = cat.Update(ctx, v.ID, UpdateRequest{Title: &title2, ExpectedRevision: &stale})
	assert.ErrorIs(t, err, ErrRevisionConflict)
}

func TestUpdateMissing(t *testing.T) {
	ctx := context.Background()
	cat, _ := newTestCatalog()

	title := "ghost"
	_, err := cat.Update(ctx, "no-such-id", UpdateRequest{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteFreesSlugAndMissesAfterward(t *testing.T) {
	ctx := context.Background()
	cat, _ := newTestCatalog()

	v, err := cat.Create(ctx, uploadReq("short-lived"))
	require.NoError(t, err)

	require.NoError(t, cat.Delete(ctx, v.ID))

	got, err := cat.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, cat.Delete(ctx, v.ID), ErrNotFound)

	// Slug is reusable once the record is gone.
	_, err = cat.Create(ctx, uploadReq("short-lived"))
	assert.NoError(t, err)
}

func TestCompleteProcessing(t *testing.T) {
	ctx := context.Background()
	cat, _ := newTestCatalog()

	v, err := cat.Create(ctx, uploadReq("becomes-active"))
	require.NoError(t, err)

	require.NoError(t, cat.CompleteProcessing(ctx, v.ID))
	got, err := cat.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, got.Status)

	// Idempotent on an already-active record.
	require.NoError(t, cat.CompleteProcessing(ctx, v.ID))

	// A record deleted before the signal fires is skipped silently.
	require.NoError(t, cat.Delete(ctx, v.ID))
	assert.NoError(t, cat.CompleteProcessing(ctx, v.ID))
}

func TestCompleteProcessingLeavesInactiveAlone(t *testing.T) {
	ctx := context.Background()
	cat, _ := newTestCatalog()

	v, err := cat.Create(ctx, uploadReq("retired"))
	require.NoError(t, err)

	inactive := StatusInactive
	_, err = cat.Update(ctx, v.ID, UpdateRequest{Status: &inactive})
	require.NoError(t, err)

	require.NoError(t, cat.CompleteProcessing(ctx, v.ID))
	got, err := cat.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusInactive, got.Status)
}

func TestListVisibleFiltersPrivateVideos(t *testing.T) {
	ctx := context.Background()
	cat, _ := newTestCatalog()

	pub := uploadReq("public-one")
	pub.IsPublic = true
	_, err := cat.Create(ctx, pub)
	require.NoError(t, err)

	mine := uploadReq("private-mine")
	mine.UploadedBy = "viewer-1"
	_, err = cat.Create(ctx, mine)
	require.NoError(t, err)

	theirs := uploadReq("private-theirs")
	theirs.UploadedBy = "someone-else"
	_, err = cat.Create(ctx, theirs)
	require.NoError(t, err)

	out, err := cat.ListRecent(ctx, "viewer-1", 0)
	require.NoError(t, err)

	slugs := make([]string, 0, len(out))
	for _, v := range out {
		slugs = append(slugs, v.UniqueID)
	}
	assert.ElementsMatch(t, []string{"public-one", "private-mine"}, slugs)
}

type failingStore struct {
	Store
	err error
}

func (f *failingStore) GetByUniqueID(context.Context, string) (*Video, error) {
	return nil, f.err
}

func TestCreatePropagatesStoreErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("store down")
	cat := NewCatalog(&failingStore{Store: NewMemStore(), err: boom}, nil, nil)

	_, err := cat.Create(ctx, uploadReq("whatever"))
	assert.ErrorIs(t, err, boom)
}
