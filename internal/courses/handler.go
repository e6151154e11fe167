package courses

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/brightpath-lms/brightpath/internal/platform/httpx"
	"github.com/brightpath-lms/brightpath/internal/rbac"
	"github.com/brightpath-lms/brightpath/internal/shared"
)

// Handler manages course endpoints. All routes are institution scoped.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	guards   rbac.Middleware
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guards rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guards: guards, validate: validator.New()}
}

// MountRoutes registers course routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guards.RequireInstitution())
		r.Get("/", h.list)
		r.Get("/{courseID}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guards.RequireRole(shared.RoleInstructor))
		r.Use(h.guards.RequirePermissions(shared.PermManageCourses))
		r.Use(h.guards.RequireInstitution())
		r.Post("/", h.create)
		r.Post("/{courseID}/touch", h.markUpdated)
	})
}

type createCourseRequest struct {
	Title        string `json:"title" validate:"required,min=2"`
	Description  string `json:"description"`
	PassingScore int    `json:"passing_score" validate:"omitempty,min=1,max=100"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	ident, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	institutionID, ok := shared.InstitutionFromContext(r.Context())
	if !ok {
		httpx.Forbidden(w, shared.ReasonNoInstitution)
		return
	}
	var req createCourseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	course, err := h.service.Create(r.Context(), institutionID, ident.UserID, req.Title, req.Description, req.PassingScore)
	if err != nil {
		h.respondError(w, "create course", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, course)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	institutionID, ok := shared.InstitutionFromContext(r.Context())
	if !ok {
		httpx.Forbidden(w, shared.ReasonNoInstitution)
		return
	}
	list, err := h.service.ListByInstitution(r.Context(), institutionID)
	if err != nil {
		h.respondError(w, "list courses", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"courses": list})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	courseID, err := uuid.Parse(chi.URLParam(r, "courseID"))
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	course, err := h.service.Get(r.Context(), courseID)
	if err != nil {
		h.respondError(w, "get course", err)
		return
	}
	// Courses are only visible inside their own institution.
	if institutionID, ok := shared.InstitutionFromContext(r.Context()); ok && course.InstitutionID != institutionID {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	httpx.JSON(w, http.StatusOK, course)
}

func (h *Handler) markUpdated(w http.ResponseWriter, r *http.Request) {
	courseID, err := uuid.Parse(chi.URLParam(r, "courseID"))
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.service.MarkUpdated(r.Context(), courseID); err != nil {
		h.respondError(w, "mark course updated", err)
		return
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
