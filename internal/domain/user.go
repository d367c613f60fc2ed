package domain

import "strings"

type Role string

const (
	RoleTenant  Role = "tenant"
	RoleOwner   Role = "owner"
	RoleManager Role = "manager"
)

// ParseRole accepts the three known roles, case-insensitively.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleTenant:
		return RoleTenant, true
	case RoleOwner:
		return RoleOwner, true
	case RoleManager:
		return RoleManager, true
	}
	return "", false
}

type User struct {
	ID        int32  `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	CreatedOn string `json:"created_on"`
}

// Caller is the already-authenticated identity behind a workflow call.
type Caller struct {
	UserID int32
	Role   Role
}
