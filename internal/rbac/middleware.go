package rbac

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"log/slog"

	"github.com/google/uuid"

	"github.com/brightpath-lms/brightpath/internal/platform/httpx"
	"github.com/brightpath-lms/brightpath/internal/shared"
)

// MembershipSource resolves institution membership data for a user. The
// active membership is re-loaded on every check so permission revocation
// takes effect immediately for institution-scoped roles.
type MembershipSource interface {
	// PermissionsFor returns the permission set on the user's active
	// membership. shared.ErrNotFound when no membership exists.
	PermissionsFor(ctx context.Context, userID uuid.UUID) ([]string, error)
	// InstitutionFor returns the institution the user belongs to.
	// shared.ErrNoInstitution when the membership carries none,
	// shared.ErrNotFound when no membership exists.
	InstitutionFor(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
}

// Middleware wires the authorization guards for HTTP handlers. All guards
// assume the authenticator already ran; a missing identity is a 401.
type Middleware struct {
	Memberships MembershipSource
	Logger      *slog.Logger
}

// RequireRole ensures the current identity ranks at least as high as the
// required role.
func (m Middleware) RequireRole(required string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, ok := shared.IdentityFromContext(r.Context())
			if !ok {
				httpx.Unauthorized(w)
				return
			}
			if !HasRoleAtLeast(ident.Role, required) {
				httpx.Forbidden(w, fmt.Sprintf("minimum role required: %s", required))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermissions ensures the identity's effective permission set covers
// every required token. Platform roles are checked against the verified
// token's permission claim; institution-scoped roles are checked against a
// freshly loaded membership record. Lookup failures fail closed as 500.
func (m Middleware) RequirePermissions(perms ...string) func(http.Handler) http.Handler {
	normalized := normalizePermissions(perms)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, ok := shared.IdentityFromContext(r.Context())
			if !ok {
				httpx.Unauthorized(w)
				return
			}
			if len(normalized) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			granted := ident.Permissions
			if !shared.IsPlatformRole(ident.Role) {
				loaded, err := m.Memberships.PermissionsFor(r.Context(), ident.UserID)
				if err != nil {
					if errors.Is(err, shared.ErrNotFound) {
						httpx.Unauthorized(w)
						return
					}
					if m.Logger != nil {
						m.Logger.Error("load membership permissions", slog.Any("error", err))
					}
					httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
					return
				}
				granted = loaded
			}

			if !HasAllPermissions(granted, normalized) {
				httpx.Forbidden(w, shared.ReasonInsufficientPermissions)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireInstitution confirms the identity belongs to an institution and
// attaches the resolved institution id to the request context. Platform
// roles bypass the check unconditionally.
func (m Middleware) RequireInstitution() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, ok := shared.IdentityFromContext(r.Context())
			if !ok {
				httpx.Unauthorized(w)
				return
			}
			if shared.IsPlatformRole(ident.Role) {
				next.ServeHTTP(w, r)
				return
			}

			institutionID, err := m.Memberships.InstitutionFor(r.Context(), ident.UserID)
			if err != nil {
				switch {
				case errors.Is(err, shared.ErrNoInstitution), errors.Is(err, shared.ErrNotFound):
					httpx.Forbidden(w, shared.ReasonNoInstitution)
				default:
					if m.Logger != nil {
						m.Logger.Error("resolve institution", slog.Any("error", err))
					}
					httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
				}
				return
			}

			ctx := shared.ContextWithInstitution(r.Context(), institutionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
