package auth

import "strings"

const bearerScheme = "Bearer "

// ExtractBearer pulls the token out of an Authorization header value.
//
// The format is strict: exactly "Bearer <token>", one space, no surrounding
// whitespace. Headers with padding around the scheme are rejected rather than
// trimmed; lenient parsing here has historically masked broken clients.
func ExtractBearer(raw string) (string, error) {
	if raw == "" {
		return "", ErrMissingCredential
	}
	if raw == strings.TrimRight(bearerScheme, " ") || raw == bearerScheme {
		// Scheme present but no token after it.
		return "", ErrMissingCredential
	}
	if raw != strings.TrimSpace(raw) {
		return "", ErrInvalidCredential
	}

	token, ok := strings.CutPrefix(raw, bearerScheme)
	if !ok {
		return "", ErrInvalidCredential
	}
	if strings.ContainsAny(token, " \t") {
		return "", ErrInvalidCredential
	}
	return token, nil
}
