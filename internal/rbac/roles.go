package rbac

// Role names. Keep these stable; they are part of the token contract and of
// the notification channel configuration.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// rank orders roles as a partial order: admin covers user.
var rank = map[string]int{
	RoleUser:  1,
	RoleAdmin: 2,
}

// Satisfies reports whether role meets the required role. Admin satisfies
// user-level requirements; the reverse never holds. Unknown roles satisfy
// nothing.
func Satisfies(role, required string) bool {
	r, ok := rank[role]
	if !ok {
		return false
	}
	req, ok := rank[required]
	if !ok {
		return false
	}
	return r >= req
}
