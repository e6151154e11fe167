package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a uniqueness violation.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrNoInstitution indicates the requester has no institution association.
	ErrNoInstitution = errors.New("no institution association")
)

// Denial reasons surfaced to callers. Deliberately coarse so a rejected
// request never reveals which specific permission token was missing.
const (
	ReasonInsufficientPermissions = "insufficient permissions"
	ReasonNoInstitution           = "no institution association"
)

// UserSafeMessage maps an internal error to a message safe to show callers.
func UserSafeMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "the requested resource was not found"
	case errors.Is(err, ErrDuplicate):
		return "a matching record already exists"
	case errors.Is(err, ErrNoInstitution):
		return ReasonNoInstitution
	default:
		return "something went wrong, please try again"
	}
}
