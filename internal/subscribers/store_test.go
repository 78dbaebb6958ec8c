package subscribers

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := NewStore(db)
	store.clock = func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) }
	return store, mock
}

func TestSubscribe_UpsertsAndReactivates(t *testing.T) {
	store, mock := newTestStore(t)

	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO email_subscribers`)).
		WithArgs("a@b.test", at).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "is_active", "subscribed_at"}).
			AddRow("sub-1", "a@b.test", true, at))

	sub, err := store.Subscribe(context.Background(), "a@b.test")
	require.NoError(t, err)
	assert.True(t, sub.Active)
	assert.Equal(t, at, sub.SubscribedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnsubscribe(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE email_subscribers SET is_active = FALSE WHERE email = $1`)).
		WithArgs("a@b.test").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Unsubscribe(context.Background(), "a@b.test"))
}

func TestUnsubscribe_UnknownEmail(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE email_subscribers SET is_active = FALSE WHERE email = $1`)).
		WithArgs("ghost@b.test").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, store.Unsubscribe(context.Background(), "ghost@b.test"), ErrNotFound)
}

func TestActiveEmails(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT email FROM email_subscribers WHERE is_active = TRUE ORDER BY subscribed_at`)).
		WillReturnRows(sqlmock.NewRows([]string{"email"}).
			AddRow("first@b.test").
			AddRow("second@b.test"))

	got, err := store.ActiveEmails(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"first@b.test", "second@b.test"}, got)
}
