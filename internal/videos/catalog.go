package videos

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
)

// Enqueuer schedules the asynchronous processing step for a freshly
// uploaded video. Nil is allowed; the video then stays in processing until
// CompleteProcessing is called explicitly.
type Enqueuer interface {
	EnqueueProcess(ctx context.Context, videoID string) error
}

// Cache is an optional read-through cache for business-id lookups, which sit
// on the recommendation hot path.
type Cache interface {
	GetVideo(ctx context.Context, uniqueID string) (*Video, bool)
	SetVideo(ctx context.Context, v *Video)
	Invalidate(ctx context.Context, uniqueID string)
}

// Business identifiers are lowercase hyphen-separated slugs; callers hardcode
// them as integration points, so the format is enforced on write.
var slugRe = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Catalog owns all video mutation and lookup. It is constructed once per
// process and injected wherever video access is needed.
type Catalog struct {
	store    Store
	validate *validator.Validate
	ingest   Enqueuer
	cache    Cache
}

func NewCatalog(store Store, ingest Enqueuer, cache Cache) *Catalog {
	return &Catalog{
		store:    store,
		validate: validator.New(),
		ingest:   ingest,
		cache:    cache,
	}
}

// Create validates the upload request, enforces unique_id uniqueness, and
// inserts the record in processing status. The transition to active happens
// when the ingest pipeline reports completion.
func (c *Catalog) Create(ctx context.Context, req UploadRequest) (*Video, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if !req.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, req.Category)
	}
	if !slugRe.MatchString(req.UniqueID) {
		return nil, fmt.Errorf("%w: unique_id must be a lowercase hyphenated slug", ErrValidation)
	}

	existing, err := c.store.GetByUniqueID(ctx, req.UniqueID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateID, req.UniqueID)
	}

	v := &Video{
		UniqueID:           req.UniqueID,
		Title:              req.Title,
		Description:        req.Description,
		Category:           req.Category,
		Tags:               req.Tags,
		IsPublic:           req.IsPublic,
		Status:             StatusProcessing,
		UploadedBy:         req.UploadedBy,
		PlaybackConditions: req.PlaybackConditions,
		FileName:           req.FileName,
		FileSize:           req.FileSize,
	}
	if err := c.store.Insert(ctx, v); err != nil {
		return nil, err
	}

	if c.ingest != nil {
		if err := c.ingest.EnqueueProcess(ctx, v.ID); err != nil {
			log.Printf("catalog: enqueue processing for %s failed: %v", v.ID, err)
		}
	}
	log.Printf("catalog: created video %s (%s)", v.ID, v.UniqueID)
	return v, nil
}

// GetByID returns (nil, nil) when the id is unknown.
func (c *Catalog) GetByID(ctx context.Context, id string) (*Video, error) {
	return c.store.Get(ctx, id)
}

// GetByUniqueID resolves a business identifier, consulting the cache first.
// A miss returns (nil, nil).
func (c *Catalog) GetByUniqueID(ctx context.Context, uniqueID string) (*Video, error) {
	if c.cache != nil {
		if v, ok := c.cache.GetVideo(ctx, uniqueID); ok {
			return v, nil
		}
	}
	v, err := c.store.GetByUniqueID(ctx, uniqueID)
	if err != nil {
		return nil, err
	}
	if v != nil && c.cache != nil {
		c.cache.SetVideo(ctx, v)
	}
	return v, nil
}

// Update merges the provided fields. A unique_id rename is re-validated
// against all other live records before anything mutates.
func (c *Catalog) Update(ctx context.Context, id string, req UpdateRequest) (*Video, error) {
	cur, err := c.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if cur == nil {
		return nil, ErrNotFound
	}
	if req.ExpectedRevision != nil && *req.ExpectedRevision != cur.Revision {
		return nil, ErrRevisionConflict
	}

	oldSlug := cur.UniqueID
	if req.UniqueID != nil && *req.UniqueID != cur.UniqueID {
		if !slugRe.MatchString(*req.UniqueID) {
			return nil, fmt.Errorf("%w: unique_id must be a lowercase hyphenated slug", ErrValidation)
		}
		other, err := c.store.GetByUniqueID(ctx, *req.UniqueID)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != id {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, *req.UniqueID)
		}
		cur.UniqueID = *req.UniqueID
	}
	if req.Title != nil {
		cur.Title = *req.Title
	}
	if req.Description != nil {
		cur.Description = *req.Description
	}
	if req.Category != nil {
		if !req.Category.Valid() {
			return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, *req.Category)
		}
		cur.Category = *req.Category
	}
	if req.Tags != nil {
		cur.Tags = *req.Tags
	}
	if req.IsPublic != nil {
		cur.IsPublic = *req.IsPublic
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, *req.Status)
		}
		cur.Status = *req.Status
	}
	if req.PlaybackConditions != nil {
		cur.PlaybackConditions = *req.PlaybackConditions
	}

	if err := c.store.Update(ctx, cur); err != nil {
		return nil, err
	}
	c.invalidate(ctx, oldSlug, cur.UniqueID)
	return cur, nil
}

// Delete removes the record outright; a missing id is ErrNotFound.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	cur, err := c.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if cur == nil {
		return ErrNotFound
	}
	if err := c.store.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, cur.UniqueID, "")
	log.Printf("catalog: deleted video %s (%s)", id, cur.UniqueID)
	return nil
}

// CompleteProcessing applies the processing→active transition. It is
// idempotent, and a record deleted before the completion signal fires is
// silently skipped.
func (c *Catalog) CompleteProcessing(ctx context.Context, id string) error {
	v, err := c.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if v == nil {
		log.Printf("catalog: processing completed for %s but record is gone, skipping", id)
		return nil
	}
	if v.Status != StatusProcessing {
		return nil
	}
	v.Status = StatusActive
	if err := c.store.Update(ctx, v); err != nil {
		return err
	}
	c.invalidate(ctx, v.UniqueID, "")
	log.Printf("catalog: video %s (%s) is now active", id, v.UniqueID)
	return nil
}

func (c *Catalog) Search(ctx context.Context, f Filters) (SearchResult, error) {
	all, err := c.store.List(ctx)
	if err != nil {
		return SearchResult{}, err
	}
	matched := applyFilters(all, f)
	sortVideos(matched, f.Sort)
	return paginate(matched, f.Page, f.PerPage), nil
}

// ListRecent returns the newest videos visible to the viewer: public ones
// plus the viewer's own uploads.
func (c *Catalog) ListRecent(ctx context.Context, viewerID string, limit int) ([]*Video, error) {
	return c.listVisible(ctx, viewerID, "", limit)
}

func (c *Catalog) ListByCategory(ctx context.Context, viewerID string, cat Category, limit int) ([]*Video, error) {
	return c.listVisible(ctx, viewerID, cat, limit)
}

func (c *Catalog) listVisible(ctx context.Context, viewerID string, cat Category, limit int) ([]*Video, error) {
	all, err := c.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Video, 0, len(all))
	for _, v := range all {
		if !v.IsPublic && v.UploadedBy != viewerID {
			continue
		}
		if cat != "" && v.Category != cat {
			continue
		}
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UploadDate.After(out[j].UploadDate)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ListStaleProcessing finds records stuck in processing longer than the
// cutoff, for the scheduler's re-enqueue sweep.
func (c *Catalog) ListStaleProcessing(ctx context.Context, olderThan time.Duration) ([]*Video, error) {
	all, err := c.store.List(ctx)
	if err != nil {
		return nil, err
	}
	cutoff := time.Now().Add(-olderThan)
	var out []*Video
	for _, v := range all {
		if v.Status == StatusProcessing && v.UploadDate.Before(cutoff) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (c *Catalog) invalidate(ctx context.Context, slugs ...string) {
	if c.cache == nil {
		return
	}
	for _, s := range slugs {
		if s != "" {
			c.cache.Invalidate(ctx, s)
		}
	}
}
