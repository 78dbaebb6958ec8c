package users

import (
	"context"
	"errors"
	"time"

	"devsecops-platform/internal/auth"
	"devsecops-platform/internal/notify"
	"devsecops-platform/internal/rbac"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is deliberately uniform: unknown email and wrong
	// password are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrInvalidRole = errors.New("role must be admin or user")
)

// EventSink receives account-activity events for asynchronous fan-out.
// *notify.Dispatcher satisfies it; the request path never waits on delivery.
type EventSink interface {
	Enqueue(e notify.Event) bool
}

// Service implements account management: credential login and the
// admin-gated CRUD surface, each mutation emitting a notification event.
type Service struct {
	store  *Store
	tokens *auth.Manager
	events EventSink

	// clock is injectable for deterministic tests.
	clock func() time.Time
}

func NewService(store *Store, tokens *auth.Manager, events EventSink) *Service {
	return &Service{store: store, tokens: tokens, events: events, clock: time.Now}
}

// LoginResult carries the signed token and the role string the frontend
// keys its views off.
type LoginResult struct {
	Token string
	Role  string
}

// Login verifies credentials and issues a session token. No session state
// is stored server-side; the token is the session.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	u, hash, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(s.clock(), u.ID, u.Email, u.Role)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Token: token, Role: u.Role}, nil
}

// Create registers a new account. Role defaults to user.
func (s *Service) Create(ctx context.Context, email, password, role string) (User, error) {
	if role == "" {
		role = rbac.RoleUser
	}
	if role != rbac.RoleAdmin && role != rbac.RoleUser {
		return User{}, ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	u, err := s.store.Insert(ctx, uuid.NewString(), email, string(hash), role, s.clock().UTC())
	if err != nil {
		return User{}, err
	}

	s.emit(notify.Event{
		Kind:      notify.KindUserCreated,
		UserEmail: u.Email,
		UserRole:  u.Role,
		Timestamp: u.CreatedAt,
	})
	return u, nil
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.store.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.store.FindByID(ctx, id)
}

// UpdateRole changes an account's role and reports the old one in the
// emitted event.
func (s *Service) UpdateRole(ctx context.Context, id, role string) (User, error) {
	if role != rbac.RoleAdmin && role != rbac.RoleUser {
		return User{}, ErrInvalidRole
	}

	before, err := s.store.FindByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	u, err := s.store.UpdateRole(ctx, id, role)
	if err != nil {
		return User{}, err
	}

	s.emit(notify.Event{
		Kind:      notify.KindUserUpdated,
		UserEmail: u.Email,
		UserRole:  u.Role,
		OldRole:   before.Role,
		Timestamp: s.clock().UTC(),
	})
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	u, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.emit(notify.Event{
		Kind:      notify.KindUserDeleted,
		UserEmail: u.Email,
		UserRole:  u.Role,
		Timestamp: s.clock().UTC(),
	})
	return nil
}

func (s *Service) emit(e notify.Event) {
	if s.events == nil {
		return
	}
	s.events.Enqueue(e)
}
