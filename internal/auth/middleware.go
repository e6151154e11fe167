package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/brightpath-lms/brightpath/internal/platform/httpx"
	"github.com/brightpath-lms/brightpath/internal/shared"
)

// Middleware authenticates requests before any guard logic runs. A request
// without a verifiable identity is rejected outright; it is never defaulted
// to a low-privilege identity.
type Middleware struct {
	Verifier *Verifier
	Logger   *slog.Logger
}

// Authenticate extracts and verifies the bearer token, storing the resulting
// identity in the request context.
func (m Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			httpx.Unauthorized(w)
			return
		}
		ident, err := m.Verifier.Verify(raw)
		if err != nil {
			if m.Logger != nil {
				m.Logger.Warn("reject bearer token", slog.String("path", r.URL.Path))
			}
			httpx.Unauthorized(w)
			return
		}
		ctx := shared.ContextWithIdentity(r.Context(), ident)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
