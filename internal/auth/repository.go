package auth

import (
	"database/sql"
	"time"

	"github.com/lifearrow/platform/internal/users"
)

type Session struct {
	Token     string
	UserID    string
	Role      users.Role
	ExpiresAt int64
	CreatedAt time.Time
}

// SessionRepository stores opaque session tokens; deleting a row revokes
// the session immediately.
type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(s *Session) error {
	_, err := r.db.Exec(`
		INSERT INTO sessions (token, user_id, role, expires_at)
		VALUES ($1, $2, $3, $4)`,
		s.Token, s.UserID, s.Role, s.ExpiresAt)
	return err
}

func (r *SessionRepository) Get(token string) (*Session, error) {
	s := &Session{}
	err := r.db.QueryRow(`
		SELECT token, user_id, role, expires_at, created_at
		FROM sessions WHERE token=$1`, token,
	).Scan(&s.Token, &s.UserID, &s.Role, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SessionRepository) Delete(token string) error {
	_, err := r.db.Exec("DELETE FROM sessions WHERE token=$1", token)
	return err
}

func (r *SessionRepository) DeleteForUser(userID string) error {
	_, err := r.db.Exec("DELETE FROM sessions WHERE user_id=$1", userID)
	return err
}

// DeleteExpired reaps sessions past their expiry; the scheduler runs this
// periodically.
func (r *SessionRepository) DeleteExpired() (int64, error) {
	res, err := r.db.Exec("DELETE FROM sessions WHERE expires_at < $1", time.Now().Unix())
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}
