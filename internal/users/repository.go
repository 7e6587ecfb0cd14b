package users

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

func (r *Repository) Create(u *User) error {
	return r.db.QueryRow(`
		INSERT INTO users (role, first_name, last_name, email, password_hash, phone, avatar_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		u.Role, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.Phone, u.AvatarPath,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

func (r *Repository) GetByID(id string) (*User, error) {
	u := &User{}
	err := r.db.QueryRow(`
		SELECT id, role, first_name, last_name, email, password_hash, phone, avatar_path, created_at, updated_at
		FROM users WHERE id=$1`, id,
	).Scan(&u.ID, &u.Role, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
		&u.Phone, &u.AvatarPath, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	return u, nil
}

func (r *Repository) GetByEmail(email string) (*User, error) {
	u := &User{}
	err := r.db.QueryRow(`
		SELECT id, role, first_name, last_name, email, password_hash, phone, avatar_path, created_at, updated_at
		FROM users WHERE email=$1`, email,
	).Scan(&u.ID, &u.Role, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
		&u.Phone, &u.AvatarPath, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	return u, nil
}

func (r *Repository) List(role Role) ([]User, error) {
	query := `
		SELECT id, role, first_name, last_name, email, phone, avatar_path, created_at, updated_at
		FROM users`
	args := []interface{}{}
	if role != "" {
		query += " WHERE role=$1"
		args = append(args, role)
	}
	query += " ORDER BY created_at"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Role, &u.FirstName, &u.LastName, &u.Email,
			&u.Phone, &u.AvatarPath, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *Repository) Update(u *User) error {
	_, err := r.db.Exec(`
		UPDATE users SET first_name=$2, last_name=$3, email=$4, phone=$5, avatar_path=$6, updated_at=NOW()
		WHERE id=$1`,
		u.ID, u.FirstName, u.LastName, u.Email, u.Phone, u.AvatarPath)
	return err
}

func (r *Repository) UpdateRole(id string, role Role) error {
	_, err := r.db.Exec("UPDATE users SET role=$2, updated_at=NOW() WHERE id=$1", id, role)
	return err
}

func (r *Repository) UpdatePassword(id, hash string) error {
	_, err := r.db.Exec("UPDATE users SET password_hash=$2, updated_at=NOW() WHERE id=$1", id, hash)
	return err
}

func (r *Repository) Delete(id string) error {
	_, err := r.db.Exec("DELETE FROM users WHERE id=$1", id)
	return err
}

func (r *Repository) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

func (r *Repository) GetProfile(userID string) (*Profile, error) {
	p := &Profile{}
	err := r.db.QueryRow(`
		SELECT id, user_id, preferences, created_at, updated_at
		FROM user_profiles WHERE user_id=$1`, userID,
	).Scan(&p.ID, &p.UserID, &p.Preferences, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *Repository) CreateDefaultProfile(userID string) error {
	defaults, _ := json.Marshal(map[string]interface{}{
		"notifications": map[string]interface{}{"email": true, "reminders": true},
		"units":         "metric",
		"dashboard":     map[string]interface{}{"show_scans": true, "show_videos": true},
	})
	_, err := r.db.Exec(`
		INSERT INTO user_profiles (user_id, preferences) VALUES ($1, $2)`,
		userID, defaults)
	return err
}

func (r *Repository) UpdateProfile(p *Profile) error {
	_, err := r.db.Exec(`
		UPDATE user_profiles SET preferences=$2, updated_at=NOW() WHERE user_id=$1`,
		p.UserID, p.Preferences)
	return err
}
