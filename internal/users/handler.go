package users

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/brightpath-lms/brightpath/internal/activity"
	"github.com/brightpath-lms/brightpath/internal/platform/httpx"
	"github.com/brightpath-lms/brightpath/internal/rbac"
	"github.com/brightpath-lms/brightpath/internal/shared"
)

// Listing defaults for the moderation views.
const (
	pendingWindow = 7 * 24 * time.Hour
	pendingLimit  = 20
)

// Handler manages user management endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	guards   rbac.Middleware
	activity activity.Recorder
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guards rbac.Middleware, recorder activity.Recorder) *Handler {
	return &Handler{logger: logger, service: service, guards: guards, activity: recorder}
}

// MountRoutes registers user routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/me", h.getSelf)
	r.Group(func(r chi.Router) {
		r.Use(h.guards.RequirePermissions(shared.PermManageUsers))
		r.Get("/", h.list)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guards.RequireRole(shared.RoleModerator))
		r.Use(h.guards.RequirePermissions(shared.PermApproveMembers))
		r.Get("/pending", h.listPending)
		r.Post("/{userID}/approve", h.approve)
		r.Post("/{userID}/reject", h.reject)
	})
}

func (h *Handler) getSelf(w http.ResponseWriter, r *http.Request) {
	ident, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	user, err := h.service.Get(r.Context(), ident.UserID)
	if err != nil {
		h.respondError(w, "get self", err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.respondError(w, "list users", err)
		return
	}

	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", 20)
	pagination := shared.NewPagination(page, perPage, len(list))
	httpx.JSON(w, http.StatusOK, map[string]any{
		"users":      pageSlice(list, pagination),
		"pagination": pagination,
	})
}

func (h *Handler) listPending(w http.ResponseWriter, r *http.Request) {
	since := time.Now().UTC().Add(-pendingWindow)
	list, err := h.service.ListPendingApproval(r.Context(), since, pendingLimit)
	if err != nil {
		h.respondError(w, "list pending users", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"users": list})
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, true)
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, false)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, approve bool) {
	ident, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	action := "user.approve"
	if approve {
		err = h.service.Approve(r.Context(), userID, ident.UserID)
	} else {
		action = "user.reject"
		var req rejectRequest
		if decodeErr := httpx.DecodeJSON(r, &req); decodeErr != nil {
			httpx.RespondError(w, httpx.ErrValidation)
			return
		}
		err = h.service.Reject(r.Context(), userID, ident.UserID, req.Reason)
	}
	if err != nil {
		h.respondError(w, "decide user approval", err)
		return
	}

	if h.activity != nil {
		if recErr := h.activity.Record(r.Context(), activity.Event{
			ActorID:    ident.UserID,
			ActorRole:  ident.Role,
			Action:     action,
			EntityType: "user",
			EntityID:   userID,
		}); recErr != nil {
			h.logger.Warn("record activity", slog.Any("error", recErr))
		}
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, shared.ErrNotFound) {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	h.logger.Error(op, slog.Any("error", err))
	httpx.RespondError(w, err)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func pageSlice(list []User, p shared.Pagination) []User {
	start := (p.Page - 1) * p.PerPage
	if start >= len(list) {
		return []User{}
	}
	end := start + p.PerPage
	if end > len(list) {
		end = len(list)
	}
	return list[start:end]
}
