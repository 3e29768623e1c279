package entity

import "strings"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole maps a claim value to a Role. Unknown values fall back to RoleUser.
func ParseRole(s string) Role {
	if strings.EqualFold(strings.TrimSpace(s), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleUser
}

// Identity is the authenticated caller. It is issued by the auth layer and
// handed to every use case explicitly.
type Identity struct {
	UserID int64
	Role   Role
}

func (i Identity) Authenticated() bool { return i.UserID > 0 }

func (i Identity) IsAdmin() bool { return i.Authenticated() && i.Role == RoleAdmin }

// CanView reports whether the caller may read a resource owned by ownerID.
func (i Identity) CanView(ownerID int64) bool {
	return i.IsAdmin() || (i.Authenticated() && i.UserID == ownerID)
}
