package users

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"devsecops-platform/internal/auth"
	"devsecops-platform/internal/config"
	"devsecops-platform/internal/notify"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type capturedEvents struct {
	events []notify.Event
}

func (c *capturedEvents) Enqueue(e notify.Event) bool {
	c.events = append(c.events, e)
	return true
}

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock, *capturedEvents) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewManager(config.AuthConfig{JWTSecret: "secret", TokenTTL: time.Hour})
	require.NoError(t, err)

	sink := &capturedEvents{}
	svc := NewService(NewStore(db), tokens, sink)
	svc.clock = func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) }
	return svc, mock, sink
}

func userHash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestLogin(t *testing.T) {
	svc, mock, _ := newTestService(t)
	hash := userHash(t, "correct horse")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, email, password_hash, role, created_at FROM users WHERE email = $1`)).
		WithArgs("a@b.test").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "role", "created_at"}).
			AddRow("user-1", "a@b.test", hash, "admin", time.Now()))

	res, err := svc.Login(context.Background(), "a@b.test", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "admin", res.Role)
	assert.NotEmpty(t, res.Token)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, mock, _ := newTestService(t)
	hash := userHash(t, "correct horse")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, email, password_hash, role, created_at FROM users WHERE email = $1`)).
		WithArgs("a@b.test").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "role", "created_at"}).
			AddRow("user-1", "a@b.test", hash, "user", time.Now()))

	_, err := svc.Login(context.Background(), "a@b.test", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmailIsSameError(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, email, password_hash, role, created_at FROM users WHERE email = $1`)).
		WithArgs("nobody@b.test").
		WillReturnError(sql.ErrNoRows)

	_, err := svc.Login(context.Background(), "nobody@b.test", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreate_EmitsEvent(t *testing.T) {
	svc, mock, sink := newTestService(t)

	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs(sqlmock.AnyArg(), "new@b.test", sqlmock.AnyArg(), "user", created).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "role", "created_at"}).
			AddRow("user-2", "new@b.test", "user", created))

	u, err := svc.Create(context.Background(), "new@b.test", "password123", "")
	require.NoError(t, err)
	assert.Equal(t, "user", u.Role, "role defaults to user")

	require.Len(t, sink.events, 1)
	e := sink.events[0]
	assert.Equal(t, notify.KindUserCreated, e.Kind)
	assert.Equal(t, "new@b.test", e.UserEmail)
}

func TestCreate_RejectsUnknownRole(t *testing.T) {
	svc, _, sink := newTestService(t)

	_, err := svc.Create(context.Background(), "new@b.test", "password123", "superuser")
	assert.ErrorIs(t, err, ErrInvalidRole)
	assert.Empty(t, sink.events)
}

func TestUpdateRole_ReportsOldRole(t *testing.T) {
	svc, mock, sink := newTestService(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, email, role, created_at FROM users WHERE id = $1`)).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "role", "created_at"}).
			AddRow("user-1", "a@b.test", "user", time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users SET role = $2 WHERE id = $1`)).
		WithArgs("user-1", "admin").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "role", "created_at"}).
			AddRow("user-1", "a@b.test", "admin", time.Now()))

	u, err := svc.UpdateRole(context.Background(), "user-1", "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", u.Role)

	require.Len(t, sink.events, 1)
	e := sink.events[0]
	assert.Equal(t, notify.KindUserUpdated, e.Kind)
	assert.Equal(t, "user", e.OldRole)
	assert.Equal(t, "admin", e.UserRole)
}

func TestDelete_EmitsEvent(t *testing.T) {
	svc, mock, sink := newTestService(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, email, role, created_at FROM users WHERE id = $1`)).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "role", "created_at"}).
			AddRow("user-1", "a@b.test", "user", time.Now()))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = $1`)).
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.Delete(context.Background(), "user-1"))

	require.Len(t, sink.events, 1)
	assert.Equal(t, notify.KindUserDeleted, sink.events[0].Kind)
	assert.Equal(t, "a@b.test", sink.events[0].UserEmail)
}

func TestDelete_MissingUser(t *testing.T) {
	svc, mock, sink := newTestService(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, email, role, created_at FROM users WHERE id = $1`)).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	err := svc.Delete(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, sink.events)
}
