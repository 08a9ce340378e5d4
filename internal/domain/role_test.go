package domain

import "testing"

func TestRoleOrdering(t *testing.T) {
	cases := []struct {
		role  Role
		floor Role
		want  bool
	}{
		{RoleOwner, RoleMember, true},
		{RoleOwner, RoleAdmin, true},
		{RoleOwner, RoleOwner, true},
		{RoleAdmin, RoleMember, true},
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleOwner, false},
		{RoleMember, RoleMember, true},
		{RoleMember, RoleAdmin, false},
		{RoleMember, RoleOwner, false},
	}

	for _, c := range cases {
		if got := c.role.AtLeast(c.floor); got != c.want {
			t.Errorf("AtLeast(%s, %s) = %v, want %v", c.role, c.floor, got, c.want)
		}
	}
}

func TestRoleIsValid(t *testing.T) {
	for _, role := range []Role{RoleOwner, RoleAdmin, RoleMember} {
		if !role.IsValid() {
			t.Errorf("Expected %s to be valid", role)
		}
	}
	if Role("superuser").IsValid() {
		t.Error("Expected unknown role to be invalid")
	}
	if Role("").IsValid() {
		t.Error("Expected empty role to be invalid")
	}
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("admin")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if role != RoleAdmin {
		t.Errorf("Expected admin, got %s", role)
	}

	if _, err := ParseRole("root"); err != ErrInvalidRole {
		t.Errorf("Expected ErrInvalidRole, got %v", err)
	}
}
