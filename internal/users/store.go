package users

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// User is one account row. The password hash never leaves this package.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
)

// Store persists accounts in Postgres. Ownership/tenancy is flat: one table,
// email unique.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Insert(ctx context.Context, id, email, passwordHash, role string, createdAt time.Time) (User, error) {
	const q = `
		INSERT INTO users (id, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, email, role, created_at`

	var u User
	err := s.db.QueryRowContext(ctx, q, id, email, passwordHash, role, createdAt).
		Scan(&u.ID, &u.Email, &u.Role, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return u, nil
}

// FindByEmail returns the account and its password hash for credential
// checks.
func (s *Store) FindByEmail(ctx context.Context, email string) (User, string, error) {
	const q = `SELECT id, email, password_hash, role, created_at FROM users WHERE email = $1`

	var u User
	var hash string
	err := s.db.QueryRowContext(ctx, q, email).
		Scan(&u.ID, &u.Email, &hash, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, "", ErrNotFound
	}
	if err != nil {
		return User{}, "", err
	}
	return u, hash, nil
}

func (s *Store) FindByID(ctx context.Context, id string) (User, error) {
	const q = `SELECT id, email, role, created_at FROM users WHERE id = $1`

	var u User
	err := s.db.QueryRowContext(ctx, q, id).
		Scan(&u.ID, &u.Email, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Store) List(ctx context.Context) ([]User, error) {
	const q = `SELECT id, email, role, created_at FROM users ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) UpdateRole(ctx context.Context, id, role string) (User, error) {
	const q = `
		UPDATE users SET role = $2 WHERE id = $1
		RETURNING id, email, role, created_at`

	var u User
	err := s.db.QueryRowContext(ctx, q, id, role).
		Scan(&u.ID, &u.Email, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM users WHERE id = $1`

	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
