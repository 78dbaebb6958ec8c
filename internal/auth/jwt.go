package auth

import (
	"errors"
	"time"

	"devsecops-platform/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Manager issues and verifies the signed session tokens handed out at login.
//
// Tokens are self-contained: nothing is persisted server-side and there is no
// revocation list. A leaked token stays valid until its natural expiry; the
// TTL is the only containment knob.
type Manager struct {
	secret   []byte
	issuer   string
	audience string
	tokenTTL time.Duration
}

func NewManager(cfg config.AuthConfig) (*Manager, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return &Manager{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.JWTIssuer,
		audience: cfg.JWTAudience,
		tokenTTL: cfg.TokenTTL,
	}, nil
}

// Issue signs a session token for the given account.
func (m *Manager) Issue(now time.Time, userID, email, role string) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    m.issuer,
			Audience:  audienceOrNil(m.audience),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
			ID:        uuid.NewString(),
		},
		Email: email,
		Role:  role,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

// Verify parses and validates a raw token string against the server secret.
// Expiry is strict: no leeway, a token one second past exp is expired.
func (m *Manager) Verify(tokenString string, now time.Time) (Claims, error) {
	var claims Claims

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	if m.audience != "" {
		opts = append(opts, jwt.WithAudience(m.audience))
	}

	parser := jwt.NewParser(opts...)
	_, err := parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpiredCredential
		}
		return Claims{}, ErrInvalidCredential
	}

	if claims.Subject == "" {
		return Claims{}, ErrInvalidCredential
	}
	return claims, nil
}

// Authenticate runs the full per-request credential gate: strict header
// parse, signature verification, expiry check, principal extraction.
//
// State machine: NoCredential -> CredentialPresented -> CredentialVerified ->
// Authenticated. Every negative branch is terminal for the request.
func (m *Manager) Authenticate(rawHeader string, now time.Time) (Principal, error) {
	token, err := ExtractBearer(rawHeader)
	if err != nil {
		return Principal{}, err
	}

	claims, err := m.Verify(token, now)
	if err != nil {
		return Principal{}, err
	}
	return claims.Principal(), nil
}

func audienceOrNil(aud string) jwt.ClaimStrings {
	if aud == "" {
		return nil
	}
	return jwt.ClaimStrings{aud}
}
