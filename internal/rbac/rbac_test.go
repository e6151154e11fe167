package rbac

import (
	"testing"

	"github.com/brightpath-lms/brightpath/internal/shared"
)

func TestHasRoleAtLeast(t *testing.T) {
	cases := []struct {
		role     string
		required string
		want     bool
	}{
		{shared.RoleAdmin, shared.RoleModerator, true},
		{shared.RoleModerator, shared.RoleAdmin, false},
		{shared.RoleSuperAdmin, shared.RoleSuperAdmin, true},
		{shared.RoleSuperModerator, shared.RoleSuperAdmin, false},
		{shared.RoleStudent, shared.RoleStudent, true},
		{shared.RoleInstructor, shared.RoleStudent, true},
		{shared.RoleStudent, shared.RoleInstructor, false},
		{"intern", shared.RoleStudent, false},
		{"intern", "", true}, // unknown vs unspecified requirement: both rank 0
		{"", shared.RoleStudent, false},
	}
	for _, tc := range cases {
		if got := HasRoleAtLeast(tc.role, tc.required); got != tc.want {
			t.Fatalf("HasRoleAtLeast(%q, %q) = %v, want %v", tc.role, tc.required, got, tc.want)
		}
	}
}

func TestHasAllPermissions(t *testing.T) {
	cases := []struct {
		name     string
		granted  []string
		required []string
		want     bool
	}{
		{"superset", []string{"a", "b", "c"}, []string{"a", "b"}, true},
		{"exact", []string{"a", "b"}, []string{"a", "b"}, true},
		{"missing", []string{"a"}, []string{"a", "b"}, false},
		{"empty required", nil, nil, true},
		{"empty granted", nil, []string{"a"}, false},
		{"order independent", []string{"b", "a"}, []string{"a", "b"}, true},
		{"no wildcard", []string{"*"}, []string{"a"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := HasAllPermissions(tc.granted, tc.required); got != tc.want {
				t.Fatalf("HasAllPermissions(%v, %v) = %v, want %v", tc.granted, tc.required, got, tc.want)
			}
		})
	}
}
