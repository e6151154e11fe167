package users

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/brightpath-lms/brightpath/internal/rbac"
	"github.com/brightpath-lms/brightpath/internal/shared"
)

func newTestRouter(repo *mockRepo) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(logger, NewService(repo), rbac.Middleware{}, nil)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ident := shared.Identity{
				UserID:      uuid.New(),
				Role:        shared.RoleSuperAdmin,
				Permissions: []string{shared.PermManageUsers, shared.PermApproveMembers},
			}
			next.ServeHTTP(w, req.WithContext(shared.ContextWithIdentity(req.Context(), ident)))
		})
	})
	r.Route("/users", handler.MountRoutes)
	return r
}

func TestListPaginatesUsers(t *testing.T) {
	repo := newMockRepo()
	for i := 0; i < 5; i++ {
		id := uuid.New()
		repo.users[id] = User{ID: id, Email: fmt.Sprintf("user%d@example.com", i)}
	}
	router := newTestRouter(repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/?page=2&per_page=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Users      []User            `json:"users"`
		Pagination shared.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Users, 2)
	require.Equal(t, 2, body.Pagination.Page)
	require.Equal(t, 2, body.Pagination.PerPage)
	require.Equal(t, 5, body.Pagination.Total)
	require.Equal(t, 3, body.Pagination.TotalPages)
}

func TestListClampsLastPage(t *testing.T) {
	repo := newMockRepo()
	for i := 0; i < 3; i++ {
		id := uuid.New()
		repo.users[id] = User{ID: id}
	}
	router := newTestRouter(repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/?page=2&per_page=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Users []User `json:"users"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Users, 1)
}

func TestListPendingEndpoint(t *testing.T) {
	repo := newMockRepo()
	repo.pending = []User{{ID: uuid.New(), ApprovalStatus: ApprovalPending}}
	router := newTestRouter(repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/pending", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Users []User `json:"users"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Users, 1)
	require.Equal(t, pendingLimit, repo.pendingLimit)
	require.WithinDuration(t, time.Now().UTC().Add(-pendingWindow), repo.pendingSince, time.Minute)
}

func TestRejectEndpointPersistsReason(t *testing.T) {
	repo := newMockRepo()
	router := newTestRouter(repo)
	userID := uuid.New()

	payload := bytes.NewBufferString(`{"reason": "missing verification documents"}`)
	req := httptest.NewRequest(http.MethodPost, "/users/"+userID.String()+"/reject", payload)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, repo.approvals, 1)
	call := repo.approvals[0]
	require.Equal(t, userID, call.id)
	require.Equal(t, ApprovalRejected, call.status)
	require.NotEqual(t, uuid.Nil, call.actorID)
	require.Equal(t, "missing verification documents", call.reason)
}
