package domain

// Role is the application role carried in identity provider tokens.
type Role string

const (
	RoleUser       Role = "user"
	RoleSupport    Role = "support"
	RoleSupervisor Role = "supervisor"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleSupport, RoleSupervisor:
		return true
	}
	return false
}

// IsStaff reports whether the role works the support queue.
func (r Role) IsStaff() bool {
	return r == RoleSupport || r == RoleSupervisor
}

// Principal is the authenticated caller as asserted by the identity provider.
type Principal struct {
	UserID string
	Email  string
	Role   Role
}
