package offerings

import (
	"database/sql"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(o *Offering) error {
	return r.db.QueryRow(`
		INSERT INTO offerings (name, description, duration_minutes, price_cents, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		o.Name, o.Description, o.DurationMinutes, o.PriceCents, o.Active,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
}

func (r *Repository) GetByID(id string) (*Offering, error) {
	o := &Offering{}
	err := r.db.QueryRow(`
		SELECT id, name, description, duration_minutes, price_cents, active, created_at, updated_at
		FROM offerings WHERE id=$1`, id,
	).Scan(&o.ID, &o.Name, &o.Description, &o.DurationMinutes, &o.PriceCents,
		&o.Active, &o.CreatedAt, &o.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// List returns offerings, active ones only unless includeInactive is set.
func (r *Repository) List(includeInactive bool) ([]Offering, error) {
	query := `
		SELECT id, name, description, duration_minutes, price_cents, active, created_at, updated_at
		FROM offerings`
	if !includeInactive {
		query += " WHERE active"
	}
	query += " ORDER BY name"

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Offering
	for rows.Next() {
		var o Offering
		if err := rows.Scan(&o.ID, &o.Name, &o.Description, &o.DurationMinutes,
			&o.PriceCents, &o.Active, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repository) Update(o *Offering) error {
	res, err := r.db.Exec(`
		UPDATE offerings
		SET name=$2, description=$3, duration_minutes=$4, price_cents=$5, active=$6, updated_at=NOW()
		WHERE id=$1`,
		o.ID, o.Name, o.Description, o.DurationMinutes, o.PriceCents, o.Active)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(id string) error {
	res, err := r.db.Exec("DELETE FROM offerings WHERE id=$1", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
