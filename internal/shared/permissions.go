package shared

// Permission tokens. Checks are strict supersets: every required token must
// be present in the requester's effective set, no wildcard semantics.
const (
	PermManageCourses     = "manage_courses"
	PermManageUsers       = "manage_users"
	PermApproveMembers    = "approve_members"
	PermManageInstitution = "manage_institution"
	PermViewReports       = "view_reports"
	PermTakeQuizzes       = "take_quizzes"
	PermEnrollCourses     = "enroll_courses"
)
