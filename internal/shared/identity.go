package shared

import (
	"context"

	"github.com/google/uuid"
)

// Identity describes the authenticated actor as carried by the verified
// bearer token. Permissions are only populated for platform roles; for
// institution-scoped roles the effective set lives on the membership record.
type Identity struct {
	UserID      uuid.UUID
	Role        string
	Permissions []string
}

type identityContextKey struct{}

type institutionContextKey struct{}

// ContextWithIdentity stores the identity in context.
func ContextWithIdentity(ctx context.Context, ident Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, ident)
}

// IdentityFromContext extracts the identity from context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	ident, ok := ctx.Value(identityContextKey{}).(Identity)
	return ident, ok
}

// ContextWithInstitution stores the resolved institution id for downstream
// handlers to scope their queries by.
func ContextWithInstitution(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, institutionContextKey{}, id)
}

// InstitutionFromContext extracts the institution id from context.
func InstitutionFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(institutionContextKey{}).(uuid.UUID)
	return id, ok
}
