package domain

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleStaff  Role = "staff"
	RoleViewer Role = "viewer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleViewer:
		return true
	}
	return false
}

// Identity is the authenticated caller.
type Identity struct {
	UserID int64
	Role   Role
}

// Writers may create and modify rooms, customers, bookings and payments.
var Writers = []Role{RoleAdmin, RoleStaff}

// Require fails with an authorization error unless who holds one of roles.
func Require(who Identity, roles ...Role) error {
	for _, r := range roles {
		if who.Role == r {
			return nil
		}
	}
	return Forbidden("role %q may not perform this operation", who.Role)
}
