package domain

// Role is a workbench member's privilege level. Roles are totally ordered:
// Owner > Admin > Member.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

var roleRank = map[Role]int{
	RoleMember: 1,
	RoleAdmin:  2,
	RoleOwner:  3,
}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r grants at least the privileges of floor.
func (r Role) AtLeast(floor Role) bool {
	return roleRank[r] >= roleRank[floor]
}

// ParseRole converts a string to a Role, returning ErrInvalidRole for
// unknown values.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", ErrInvalidRole
	}
	return r, nil
}
