package model

import "fmt"

// Role identifies which console features a signed-in user may reach.
type Role string

const (
	RoleManager     Role = "manager"
	RoleFireOfficer Role = "fireofficer"
)

// ParseRole maps user input to a Role. An empty string yields the
// fire-officer role, which is the default login role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case "", RoleFireOfficer:
		return RoleFireOfficer, nil
	case RoleManager:
		return RoleManager, nil
	}
	return "", fmt.Errorf("unknown role %q (want %q or %q)", s, RoleManager, RoleFireOfficer)
}

// Profile is the backend-defined account record returned by login. Its shape
// is not validated; callers only look up optional fields.
type Profile map[string]any

// String returns the first key holding a non-empty scalar, coerced to a
// string, or "" when none does.
func (p Profile) String(keys ...string) string {
	for _, k := range keys {
		v, ok := p[k]
		if !ok || v == nil {
			continue
		}
		var s string
		switch t := v.(type) {
		case string:
			s = t
		case float64, int, int64, bool:
			s = fmt.Sprint(t)
		default:
			continue
		}
		if s != "" {
			return s
		}
	}
	return ""
}

// User is the signed-in identity persisted in the session store.
type User struct {
	Username string  `json:"username"`
	Role     Role    `json:"role,omitempty"`
	Profile  Profile `json:"profile,omitempty"`
	// Token is sent as a bearer credential when the backend issued one.
	Token string `json:"token,omitempty"`
}

// IsManager reports whether u is signed in with the manager role.
func (u *User) IsManager() bool {
	return u != nil && u.Role == RoleManager
}

// IsFireOfficer reports whether u is signed in with the fire-officer role.
func (u *User) IsFireOfficer() bool {
	return u != nil && u.Role == RoleFireOfficer
}
