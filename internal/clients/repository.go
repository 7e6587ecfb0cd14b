package clients

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(p *Profile) error {
	return r.db.QueryRow(`
		INSERT INTO client_profiles (user_id, goals, focus_areas, practitioner_id, date_of_birth)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		p.UserID, pq.Array(p.Goals), pq.Array(p.FocusAreas), p.PractitionerID, p.DateOfBirth,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *Repository) GetByUserID(userID string) (*Profile, error) {
	p := &Profile{}
	err := r.db.QueryRow(`
		SELECT id, user_id, goals, focus_areas, practitioner_id, date_of_birth, created_at, updated_at
		FROM client_profiles WHERE user_id=$1`, userID,
	).Scan(&p.ID, &p.UserID, pq.Array(&p.Goals), pq.Array(&p.FocusAreas),
		&p.PractitionerID, &p.DateOfBirth, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("client profile not found: %w", err)
	}
	return p, nil
}

// GoalsForUser feeds the recommendation flow; an unknown client simply has
// no goals.
func (r *Repository) GoalsForUser(userID string) ([]string, error) {
	var goals []string
	err := r.db.QueryRow(
		"SELECT goals FROM client_profiles WHERE user_id=$1", userID,
	).Scan(pq.Array(&goals))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *Repository) ListByPractitioner(practitionerID string) ([]Profile, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, goals, focus_areas, practitioner_id, date_of_birth, created_at, updated_at
		FROM client_profiles WHERE practitioner_id=$1 ORDER BY created_at`, practitionerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.UserID, pq.Array(&p.Goals), pq.Array(&p.FocusAreas),
			&p.PractitionerID, &p.DateOfBirth, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repository) Update(p *Profile) error {
	_, err := r.db.Exec(`
		UPDATE client_profiles SET goals=$2, focus_areas=$3, practitioner_id=$4,
		       date_of_birth=$5, updated_at=NOW()
		WHERE user_id=$1`,
		p.UserID, pq.Array(p.Goals), pq.Array(p.FocusAreas), p.PractitionerID, p.DateOfBirth)
	return err
}

func (r *Repository) Delete(userID string) error {
	_, err := r.db.Exec("DELETE FROM client_profiles WHERE user_id=$1", userID)
	return err
}
