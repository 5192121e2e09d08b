package session

import "strings"

type Role string

const (
	RoleEmployee    Role = "Employee"    // Submits own timesheets and leave
	RoleManager     Role = "Manager"     // Approves team timesheets and leave
	RoleHRAdmin     Role = "HRAdmin"     // Handles escalations and reports
	RoleSystemAdmin Role = "SystemAdmin" // Users, roles and integration settings
)

// AllRoles returns every role the portal knows about
func AllRoles() []Role {
	return []Role{RoleEmployee, RoleManager, RoleHRAdmin, RoleSystemAdmin}
}

// ParseRole matches a backend role string case-insensitively.
// Unknown strings are returned unchanged.
func ParseRole(s string) Role {
	for _, r := range AllRoles() {
		if strings.EqualFold(s, string(r)) {
			return r
		}
	}
	return Role(s)
}

// RoleSet is the set of roles held by a user
type RoleSet map[Role]struct{}

// NewRoleSet builds a set from the given roles
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

// RoleSetFromStrings builds a set from raw backend role strings
func RoleSetFromStrings(roles []string) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[ParseRole(r)] = struct{}{}
	}
	return set
}

// Has reports exact membership of role
func (s RoleSet) Has(role Role) bool {
	_, ok := s[role]
	return ok
}

// HasAny reports whether the set intersects required.
// An empty requirement is satisfied by any set.
func (s RoleSet) HasAny(required ...Role) bool {
	if len(required) == 0 {
		return true
	}
	for _, r := range required {
		if s.Has(r) {
			return true
		}
	}
	return false
}

// Strings returns the roles in AllRoles order followed by unknown roles
func (s RoleSet) Strings() []string {
	out := make([]string, 0, len(s))
	seen := make(map[Role]bool, len(s))
	for _, r := range AllRoles() {
		if s.Has(r) {
			out = append(out, string(r))
			seen[r] = true
		}
	}
	for r := range s {
		if !seen[r] {
			out = append(out, string(r))
		}
	}
	return out
}
