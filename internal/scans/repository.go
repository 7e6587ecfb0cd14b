package scans

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(s *ScanResult) error {
	metrics, err := json.Marshal(s.Metrics)
	if err != nil {
		return fmt.Errorf("marshal metrics: %w", err)
	}
	return r.db.QueryRow(`
		INSERT INTO scan_results (client_id, practitioner_id, metrics, notes, taken_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		s.ClientID, s.PractitionerID, metrics, s.Notes, s.TakenAt,
	).Scan(&s.ID, &s.CreatedAt)
}

func (r *Repository) GetByID(id string) (*ScanResult, error) {
	s := &ScanResult{}
	var metrics []byte
	err := r.db.QueryRow(`
		SELECT id, client_id, practitioner_id, metrics, notes, taken_at, created_at
		FROM scan_results WHERE id=$1`, id,
	).Scan(&s.ID, &s.ClientID, &s.PractitionerID, &metrics, &s.Notes, &s.TakenAt, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get scan: %w", err)
	}
	if err := json.Unmarshal(metrics, &s.Metrics); err != nil {
		return nil, fmt.Errorf("unmarshal metrics: %w", err)
	}
	return s, nil
}

func (r *Repository) ListByClient(clientID string, limit int) ([]ScanResult, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	rows, err := r.db.Query(`
		SELECT id, client_id, practitioner_id, metrics, notes, taken_at, created_at
		FROM scan_results WHERE client_id=$1
		ORDER BY taken_at DESC LIMIT $2`, clientID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ScanResult
	for rows.Next() {
		var s ScanResult
		var metrics []byte
		if err := rows.Scan(&s.ID, &s.ClientID, &s.PractitionerID, &metrics,
			&s.Notes, &s.TakenAt, &s.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(metrics, &s.Metrics); err != nil {
			return nil, fmt.Errorf("unmarshal metrics: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// LatestForClient returns the newest scan, or nil when the client has none.
func (r *Repository) LatestForClient(clientID string) (*ScanResult, error) {
	s := &ScanResult{}
	var metrics []byte
	err := r.db.QueryRow(`
		SELECT id, client_id, practitioner_id, metrics, notes, taken_at, created_at
		FROM scan_results WHERE client_id=$1
		ORDER BY taken_at DESC LIMIT 1`, clientID,
	).Scan(&s.ID, &s.ClientID, &s.PractitionerID, &metrics, &s.Notes, &s.TakenAt, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(metrics, &s.Metrics); err != nil {
		return nil, fmt.Errorf("unmarshal metrics: %w", err)
	}
	return s, nil
}

func (r *Repository) Delete(id string) error {
	_, err := r.db.Exec("DELETE FROM scan_results WHERE id=$1", id)
	return err
}
