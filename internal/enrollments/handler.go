package enrollments

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/brightpath-lms/brightpath/internal/activity"
	"github.com/brightpath-lms/brightpath/internal/platform/httpx"
	"github.com/brightpath-lms/brightpath/internal/rbac"
	"github.com/brightpath-lms/brightpath/internal/shared"
)

// Handler manages enrollment endpoints.
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

// Listing defaults for the moderation view.
const (
	recentWindow = 24 * time.Hour
	recentLimit  = 20
)

// MountRoutes registers enrollment routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guards.RequireInstitution())
		r.Get("/", h.listMine)
		r.Post("/", h.enroll)
		r.Post("/{enrollmentID}/access", h.recordAccess)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guards.RequireRole(shared.RoleModerator))
		r.Get("/recent", h.listRecent)
	})
}

type enrollRequest struct {
	CourseID string `json:"course_id"`
}

func (h *Handler) enroll(w http.ResponseWriter, r *http.Request) {
	ident, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	var req enrollRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	enrollment, err := h.service.Enroll(r.Context(), ident.UserID, courseID)
	if err != nil {
		h.respondError(w, "enroll", err)
		return
	}

	if h.activity != nil {
		if recErr := h.activity.Record(r.Context(), activity.Event{
			ActorID:    ident.UserID,
			ActorRole:  ident.Role,
			Action:     "enrollment.create",
			EntityType: "enrollment",
			EntityID:   enrollment.ID,
		}); recErr != nil {
			h.logger.Warn("record activity", slog.Any("error", recErr))
		}
	}
	httpx.JSON(w, http.StatusCreated, enrollment)
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	ident, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	list, err := h.service.ListMine(r.Context(), ident.UserID)
	if err != nil {
		h.respondError(w, "list enrollments", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"enrollments": list})
}

func (h *Handler) listRecent(w http.ResponseWriter, r *http.Request) {
	since := time.Now().UTC().Add(-recentWindow)
	list, err := h.service.Recent(r.Context(), since, recentLimit)
	if err != nil {
		h.respondError(w, "list recent enrollments", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"enrollments": list})
}

func (h *Handler) recordAccess(w http.ResponseWriter, r *http.Request) {
	enrollmentID, err := uuid.Parse(chi.URLParam(r, "enrollmentID"))
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.service.RecordAccess(r.Context(), enrollmentID); err != nil {
		h.respondError(w, "record access", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.RespondError(w, httpx.ErrNotFound)
	case errors.Is(err, shared.ErrDuplicate):
		httpx.RespondError(w, httpx.ErrDuplicate)
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
