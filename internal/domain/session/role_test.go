package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleSet_HasAny(t *testing.T) {
	cases := []struct {
		name     string
		set      RoleSet
		required []Role
		want     bool
	}{
		{"no requirement", NewRoleSet(RoleEmployee), nil, true},
		{"empty set no requirement", NewRoleSet(), nil, true},
		{"intersects", NewRoleSet(RoleEmployee, RoleManager), []Role{RoleManager, RoleSystemAdmin}, true},
		{"disjoint", NewRoleSet(RoleEmployee), []Role{RoleManager, RoleSystemAdmin}, false},
		{"empty set with requirement", NewRoleSet(), []Role{RoleEmployee}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.set.HasAny(c.required...))
		})
	}
}

func TestRoleSet_Has(t *testing.T) {
	set := NewRoleSet(RoleHRAdmin)
	assert.True(t, set.Has(RoleHRAdmin))
	assert.False(t, set.Has(RoleSystemAdmin))
}

func TestRoleSetFromStrings_CaseInsensitive(t *testing.T) {
	set := RoleSetFromStrings([]string{"employee", "SYSTEMADMIN", "Auditor"})
	assert.True(t, set.Has(RoleEmployee))
	assert.True(t, set.Has(RoleSystemAdmin))
	assert.True(t, set.Has(Role("Auditor")))
	assert.Equal(t, []string{"Employee", "SystemAdmin", "Auditor"}, set.Strings())
}
