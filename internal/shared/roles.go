package shared

// Role names recognised across the platform. Every guard compares against
// these constants; string literals must not be duplicated elsewhere.
const (
	RoleStudent        = "Student"
	RoleInstructor     = "Instructor"
	RoleModerator      = "Moderator"
	RoleAdmin          = "Admin"
	RoleSuperModerator = "Super Moderator"
	RoleSuperAdmin     = "Super Admin"
)

// roleRanks fixes the total order used by hierarchical role checks.
// Unknown roles rank 0 and therefore fail every check.
var roleRanks = map[string]int{
	RoleStudent:        1,
	RoleInstructor:     2,
	RoleModerator:      3,
	RoleAdmin:          4,
	RoleSuperModerator: 5,
	RoleSuperAdmin:     6,
}

// RoleRank returns the rank of a role, 0 for unknown roles.
func RoleRank(role string) int {
	return roleRanks[role]
}

// IsPlatformRole reports whether the role operates above institutions.
// Platform roles carry their permissions in the signed token and bypass
// institution scoping.
func IsPlatformRole(role string) bool {
	return role == RoleSuperAdmin || role == RoleSuperModerator
}

// CanModerate reports whether the role sees moderation notifications
// (pending approvals, recent enrollments).
func CanModerate(role string) bool {
	return RoleRank(role) >= roleRanks[RoleModerator]
}
