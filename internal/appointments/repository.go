package appointments

import (
	"database/sql"
	"fmt"
	"time"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create books the slot after checking the practitioner for overlapping
// bookings (the SQL form of the overlaps predicate); cancelled appointments
// do not block the slot.
func (r *Repository) Create(a *Appointment) error {
	var conflicts int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM appointments
		WHERE practitioner_id=$1 AND status='booked'
		  AND starts_at < $3 AND $2 < ends_at`,
		a.PractitionerID, a.StartsAt, a.EndsAt,
	).Scan(&conflicts)
	if err != nil {
		return fmt.Errorf("conflict check: %w", err)
	}
	if conflicts > 0 {
		return ErrConflict
	}

	return r.db.QueryRow(`
		INSERT INTO appointments (client_id, practitioner_id, offering_id, starts_at, ends_at, status, notes)
		VALUES ($1, $2, $3, $4, $5, 'booked', $6)
		RETURNING id, created_at, updated_at`,
		a.ClientID, a.PractitionerID, a.OfferingID, a.StartsAt, a.EndsAt, a.Notes,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *Repository) GetByID(id string) (*Appointment, error) {
	a := &Appointment{}
	err := r.db.QueryRow(`
		SELECT id, client_id, practitioner_id, offering_id, starts_at, ends_at, status, notes, created_at, updated_at
		FROM appointments WHERE id=$1`, id,
	).Scan(&a.ID, &a.ClientID, &a.PractitionerID, &a.OfferingID, &a.StartsAt, &a.EndsAt,
		&a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *Repository) ListByClient(clientID string, from, to time.Time) ([]Appointment, error) {
	return r.list("client_id", clientID, from, to)
}

func (r *Repository) ListByPractitioner(practitionerID string, from, to time.Time) ([]Appointment, error) {
	return r.list("practitioner_id", practitionerID, from, to)
}

func (r *Repository) list(column, id string, from, to time.Time) ([]Appointment, error) {
	rows, err := r.db.Query(`
		SELECT id, client_id, practitioner_id, offering_id, starts_at, ends_at, status, notes, created_at, updated_at
		FROM appointments
		WHERE `+column+`=$1 AND starts_at >= $2 AND starts_at < $3
		ORDER BY starts_at`, id, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(&a.ID, &a.ClientID, &a.PractitionerID, &a.OfferingID,
			&a.StartsAt, &a.EndsAt, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateStatus(id string, status Status) error {
	res, err := r.db.Exec(
		"UPDATE appointments SET status=$2, updated_at=NOW() WHERE id=$1", id, status)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(id string) error {
	res, err := r.db.Exec("DELETE FROM appointments WHERE id=$1", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
