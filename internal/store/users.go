package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/probank/probank/internal/content"
)

type User struct {
	ID          string    `db:"id"`
	Email       string    `db:"email"`
	DisplayName string    `db:"display_name"`
	Role        string    `db:"role"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) q(query string) string { return s.db.Rebind(query) }

// Create registers a local user record. adminEmail: if non-empty and
// matching, the new user is created with the admin role.
func (s *UserStore) Create(ctx context.Context, email, displayName, adminEmail string) (*User, error) {
	role := "user"
	if adminEmail != "" && email == adminEmail {
		role = "admin"
	}
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO users (id, email, display_name, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`), id, email, displayName, role, now, now)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, content.Conflict("email already registered")
		}
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, s.q(`SELECT * FROM users WHERE id = ?`), id)
	if err == sql.ErrNoRows {
		return nil, content.NotFound("user")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, s.q(`SELECT * FROM users WHERE email = ?`), email)
	if err == sql.ErrNoRows {
		return nil, content.NotFound("user")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) ListAll(ctx context.Context) ([]*User, error) {
	var users []*User
	err := s.db.SelectContext(ctx, &users, s.q(`SELECT * FROM users ORDER BY display_name ASC`))
	if err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateRole sets the role for the given user and returns the updated
// record.
func (s *UserStore) UpdateRole(ctx context.Context, id, role string) (*User, error) {
	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE users SET role = ?, updated_at = ? WHERE id = ?
	`), role, time.Now().UTC(), id)
	if err != nil {
		return nil, err
	}
	if err := requireRow(res, "user"); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}
