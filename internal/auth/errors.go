package auth

import "errors"

// Credential failures are terminal for the current request. The guard never
// retries and never logs; the HTTP layer maps each error to a status code.
var (
	// ErrMissingCredential: no Authorization header, or no token after the
	// Bearer scheme.
	ErrMissingCredential = errors.New("missing credential")

	// ErrInvalidCredential: malformed header, unparseable token, or a
	// signature that does not verify against the server secret.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrExpiredCredential: the token parses and verifies but its expiry is
	// in the past.
	ErrExpiredCredential = errors.New("expired credential")
)
