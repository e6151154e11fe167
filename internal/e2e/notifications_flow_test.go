package e2e

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"log/slog"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/brightpath-lms/brightpath/internal/app"
	"github.com/brightpath-lms/brightpath/internal/auth"
	"github.com/brightpath-lms/brightpath/internal/notifications"
	"github.com/brightpath-lms/brightpath/internal/shared"
	_ "github.com/brightpath-lms/brightpath/testing"
)

const testSecret = "e2e-secret"

// newServer wires a router the way the binary does, backed by the memory
// read store and the generator's fallback feed.
func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	verifier := auth.NewVerifier(testSecret)
	notifService := notifications.NewService(
		notifications.NewGenerator(nil, logger),
		notifications.NewMemoryReadStore(),
		nil,
		logger,
	)

	router := app.NewRouter(app.RouterParams{
		Logger:               logger,
		Config:               &app.Config{AppEnv: "development", AppRequestTimeout: 5 * time.Second},
		AuthMiddleware:       &auth.Middleware{Verifier: verifier, Logger: logger},
		NotificationsHandler: notifications.NewHandler(logger, notifService),
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func signToken(t *testing.T, userID uuid.UUID, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		UserID: userID.String(),
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func doJSON(t *testing.T, srv *httptest.Server, method, path, token string, dest any) int {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	if dest != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
	}
	return resp.StatusCode
}

func TestNotificationFlowOverHTTP(t *testing.T) {
	srv := newServer(t)
	token := signToken(t, uuid.New(), shared.RoleStudent)

	// Unauthenticated requests never reach the feed.
	require.Equal(t, http.StatusUnauthorized, doJSON(t, srv, http.MethodGet, "/api/v1/notifications", "", nil))

	var listBody struct {
		Notifications []notifications.Record `json:"notifications"`
	}
	require.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodGet, "/api/v1/notifications", token, &listBody))
	require.Len(t, listBody.Notifications, 2)
	for _, rec := range listBody.Notifications {
		require.False(t, rec.IsRead)
	}

	var countBody struct {
		UnreadCount int `json:"unread_count"`
	}
	require.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodGet, "/api/v1/notifications/unread-count", token, &countBody))
	require.Equal(t, 2, countBody.UnreadCount)

	require.Equal(t, http.StatusOK,
		doJSON(t, srv, http.MethodPost, "/api/v1/notifications/"+notifications.WelcomeID+"/read", token, nil))

	require.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodGet, "/api/v1/notifications", token, &listBody))
	for _, rec := range listBody.Notifications {
		require.Equal(t, rec.ID == notifications.WelcomeID, rec.IsRead)
	}

	var markedBody struct {
		Marked int `json:"marked"`
	}
	require.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodPost, "/api/v1/notifications/read-all", token, &markedBody))
	require.Equal(t, 2, markedBody.Marked)

	require.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodGet, "/api/v1/notifications/unread-count", token, &countBody))
	require.Equal(t, 0, countBody.UnreadCount)
}

func TestHealthzWithoutAuth(t *testing.T) {
	srv := newServer(t)

	resp, err := srv.Client().Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
