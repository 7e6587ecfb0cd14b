package videos

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PGStore persists videos in Postgres. Playback conditions are stored as
// JSONB, tags as a text array.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Insert(ctx context.Context, v *Video) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.UploadDate.IsZero() {
		v.UploadDate = time.Now().UTC()
	}
	conditions, err := json.Marshal(v.PlaybackConditions)
	if err != nil {
		return fmt.Errorf("marshal conditions: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO videos (id, unique_id, title, description, category, tags, is_public,
		       status, uploaded_by, revision, playback_conditions, file_name, file_size, upload_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		v.ID, v.UniqueID, v.Title, v.Description, v.Category, pq.Array(v.Tags), v.IsPublic,
		v.Status, v.UploadedBy, v.Revision, conditions, v.FileName, v.FileSize, v.UploadDate)
	if err != nil {
		return fmt.Errorf("insert video: %w", err)
	}
	return nil
}

func (s *PGStore) Get(ctx context.Context, id string) (*Video, error) {
	return s.getWhere(ctx, "id=$1", id)
}

func (s *PGStore) GetByUniqueID(ctx context.Context, uniqueID string) (*Video, error) {
	return s.getWhere(ctx, "unique_id=$1", uniqueID)
}

func (s *PGStore) getWhere(ctx context.Context, where, arg string) (*Video, error) {
	v := &Video{}
	var conditions []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT id, unique_id, title, description, category, tags, is_public,
		       status, uploaded_by, revision, playback_conditions, file_name, file_size, upload_date
		FROM videos WHERE `+where, arg,
	).Scan(&v.ID, &v.UniqueID, &v.Title, &v.Description, &v.Category, pq.Array(&v.Tags),
		&v.IsPublic, &v.Status, &v.UploadedBy, &v.Revision, &conditions,
		&v.FileName, &v.FileSize, &v.UploadDate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get video: %w", err)
	}
	if len(conditions) > 0 {
		if err := json.Unmarshal(conditions, &v.PlaybackConditions); err != nil {
			return nil, fmt.Errorf("unmarshal conditions: %w", err)
		}
	}
	return v, nil
}

func (s *PGStore) Update(ctx context.Context, v *Video) error {
	conditions, err := json.Marshal(v.PlaybackConditions)
	if err != nil {
		return fmt.Errorf("marshal conditions: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE videos SET unique_id=$2, title=$3, description=$4, category=$5, tags=$6,
		       is_public=$7, status=$8, playback_conditions=$9, file_name=$10, file_size=$11,
		       revision=revision+1
		WHERE id=$1 AND revision=$12`,
		v.ID, v.UniqueID, v.Title, v.Description, v.Category, pq.Array(v.Tags),
		v.IsPublic, v.Status, conditions, v.FileName, v.FileSize, v.Revision)
	if err != nil {
		return fmt.Errorf("update video: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		// Distinguish a missing row from a revision race.
		var exists bool
		if err := s.db.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM videos WHERE id=$1)", v.ID).Scan(&exists); err != nil {
			return fmt.Errorf("update video: %w", err)
		}
		if !exists {
			return ErrNotFound
		}
		return ErrRevisionConflict
	}
	v.Revision++
	return nil
}

func (s *PGStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM videos WHERE id=$1", id)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) List(ctx context.Context) ([]*Video, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, unique_id, title, description, category, tags, is_public,
		       status, uploaded_by, revision, playback_conditions, file_name, file_size, upload_date
		FROM videos`)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var out []*Video
	for rows.Next() {
		v := &Video{}
		var conditions []byte
		if err := rows.Scan(&v.ID, &v.UniqueID, &v.Title, &v.Description, &v.Category,
			pq.Array(&v.Tags), &v.IsPublic, &v.Status, &v.UploadedBy, &v.Revision,
			&conditions, &v.FileName, &v.FileSize, &v.UploadDate); err != nil {
			return nil, err
		}
		if len(conditions) > 0 {
			if err := json.Unmarshal(conditions, &v.PlaybackConditions); err != nil {
				return nil, fmt.Errorf("unmarshal conditions: %w", err)
			}
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
