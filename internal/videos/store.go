package videos

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store owns the set of video records. Implementations must treat Get and
// GetByUniqueID misses as (nil, nil); only mutation paths return ErrNotFound.
type Store interface {
	Insert(ctx context.Context, v *Video) error
	Get(ctx context.Context, id string) (*Video, error)
	GetByUniqueID(ctx context.Context, uniqueID string) (*Video, error)
	// Update replaces the stored record if v.Revision matches the stored
	// revision, then bumps it. Returns ErrNotFound or ErrRevisionConflict.
	Update(ctx context.Context, v *Video) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Video, error)
}

// MemStore is a mutex-guarded in-memory Store. It backs tests and the
// standalone demo mode; PGStore is the production implementation.
type MemStore struct {
	mu     sync.RWMutex
	byID   map[string]*Video
	bySlug map[string]string // unique_id → id
}

func NewMemStore() *MemStore {
	return &MemStore{
		byID:   make(map[string]*Video),
		bySlug: make(map[string]string),
	}
}

func (s *MemStore) Insert(ctx context.Context, v *Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.UploadDate.IsZero() {
		v.UploadDate = time.Now().UTC()
	}
	s.byID[v.ID] = cloneVideo(v)
	s.bySlug[v.UniqueID] = v.ID
	return nil
}

func (s *MemStore) Get(ctx context.Context, id string) (*Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	return cloneVideo(v), nil
}

func (s *MemStore) GetByUniqueID(ctx context.Context, uniqueID string) (*Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.bySlug[uniqueID]
	if !ok {
		return nil, nil
	}
	return cloneVideo(s.byID[id]), nil
}

func (s *MemStore) Update(ctx context.Context, v *Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.byID[v.ID]
	if !ok {
		return ErrNotFound
	}
	if cur.Revision != v.Revision {
		return ErrRevisionConflict
	}

	next := cloneVideo(v)
	next.Revision++
	if cur.UniqueID != next.UniqueID {
		delete(s.bySlug, cur.UniqueID)
		s.bySlug[next.UniqueID] = next.ID
	}
	s.byID[next.ID] = next
	v.Revision = next.Revision
	return nil
}

func (s *MemStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.bySlug, cur.UniqueID)
	delete(s.byID, id)
	return nil
}

func (s *MemStore) List(ctx context.Context) ([]*Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Video, 0, len(s.byID))
	for _, v := range s.byID {
		out = append(out, cloneVideo(v))
	}
	return out, nil
}

func cloneVideo(v *Video) *Video {
	c := *v
	if v.Tags != nil {
		c.Tags = append([]string(nil), v.Tags...)
	}
	if v.PlaybackConditions != nil {
		c.PlaybackConditions = append([]Condition(nil), v.PlaybackConditions...)
	}
	return &c
}
