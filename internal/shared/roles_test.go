package shared

import "testing"

func TestRoleRankOrdering(t *testing.T) {
	ordered := []string{RoleStudent, RoleInstructor, RoleModerator, RoleAdmin, RoleSuperModerator, RoleSuperAdmin}
	for i := 1; i < len(ordered); i++ {
		if RoleRank(ordered[i]) <= RoleRank(ordered[i-1]) {
			t.Fatalf("expected %s to outrank %s", ordered[i], ordered[i-1])
		}
	}
}

func TestRoleRankUnknown(t *testing.T) {
	for _, role := range []string{"", "student", "Root", "ADMIN"} {
		if got := RoleRank(role); got != 0 {
			t.Fatalf("unknown role %q should rank 0, got %d", role, got)
		}
	}
}

func TestIsPlatformRole(t *testing.T) {
	if !IsPlatformRole(RoleSuperAdmin) || !IsPlatformRole(RoleSuperModerator) {
		t.Fatal("super roles must be platform level")
	}
	for _, role := range []string{RoleStudent, RoleInstructor, RoleModerator, RoleAdmin} {
		if IsPlatformRole(role) {
			t.Fatalf("%s must not be platform level", role)
		}
	}
}

func TestCanModerate(t *testing.T) {
	cases := map[string]bool{
		RoleStudent:        false,
		RoleInstructor:     false,
		RoleModerator:      true,
		RoleAdmin:          true,
		RoleSuperModerator: true,
		RoleSuperAdmin:     true,
		"unknown":          false,
	}
	for role, want := range cases {
		if got := CanModerate(role); got != want {
			t.Fatalf("CanModerate(%s) = %v, want %v", role, got, want)
		}
	}
}
