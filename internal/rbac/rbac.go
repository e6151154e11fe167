// Package rbac implements the request guards: hierarchical role checks,
// set-based permission checks and institution scoping.
package rbac

import (
	"strings"

	"github.com/brightpath-lms/brightpath/internal/shared"
)

// HasRoleAtLeast reports whether role is at least as privileged as required
// under the fixed role hierarchy. Unknown roles rank 0 and fail every check
// against a real role. Side-effect free; never errors.
func HasRoleAtLeast(role, required string) bool {
	return shared.RoleRank(role) >= shared.RoleRank(required)
}

// HasAllPermissions reports whether granted is a superset of required.
// Order-independent, no wildcard semantics.
func HasAllPermissions(granted []string, required []string) bool {
	if len(required) == 0 {
		return true
	}
	set := make(map[string]struct{}, len(granted))
	for _, p := range granted {
		set[strings.ToLower(strings.TrimSpace(p))] = struct{}{}
	}
	for _, r := range required {
		if _, ok := set[r]; !ok {
			return false
		}
	}
	return true
}

func normalizePermissions(perms []string) []string {
	unique := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		p = strings.TrimSpace(strings.ToLower(p))
		if p == "" {
			continue
		}
		unique[p] = struct{}{}
	}
	normalized := make([]string, 0, len(unique))
	for p := range unique {
		normalized = append(normalized, p)
	}
	return normalized
}
