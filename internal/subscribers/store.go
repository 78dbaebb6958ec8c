package subscribers

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Subscriber is one row of the notification mailing list.
// Unsubscribe is a soft delete: rows are deactivated, never removed, so a
// re-subscribe reactivates the original row.
type Subscriber struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Active       bool      `json:"is_active"`
	SubscribedAt time.Time `json:"subscribed_at"`
}

var ErrNotFound = errors.New("subscriber not found")

// Store persists the subscriber list in Postgres.
type Store struct {
	db    *sql.DB
	clock func() time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, clock: time.Now}
}

// Subscribe adds an email to the list. Re-subscribing a known address
// reactivates it and refreshes the subscription time.
func (s *Store) Subscribe(ctx context.Context, email string) (Subscriber, error) {
	now := s.clock().UTC()

	const q = `
		INSERT INTO email_subscribers (email, is_active, subscribed_at)
		VALUES ($1, TRUE, $2)
		ON CONFLICT (email)
		DO UPDATE SET is_active = TRUE, subscribed_at = EXCLUDED.subscribed_at
		RETURNING id, email, is_active, subscribed_at`

	var sub Subscriber
	err := s.db.QueryRowContext(ctx, q, email, now).
		Scan(&sub.ID, &sub.Email, &sub.Active, &sub.SubscribedAt)
	if err != nil {
		return Subscriber{}, err
	}
	return sub, nil
}

// Unsubscribe deactivates an email without deleting the row.
func (s *Store) Unsubscribe(ctx context.Context, email string) error {
	const q = `UPDATE email_subscribers SET is_active = FALSE WHERE email = $1`

	res, err := s.db.ExecContext(ctx, q, email)
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

// ActiveEmails returns every active subscriber address.
func (s *Store) ActiveEmails(ctx context.Context) ([]string, error) {
	const q = `SELECT email FROM email_subscribers WHERE is_active = TRUE ORDER BY subscribed_at`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var e string
		if err := rows.Scan(&e); err != nil {
			return nil, err
		}
		emails = append(emails, e)
	}
	return emails, rows.Err()
}
