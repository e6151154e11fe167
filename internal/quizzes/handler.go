package quizzes

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/brightpath-lms/brightpath/internal/platform/httpx"
	"github.com/brightpath-lms/brightpath/internal/rbac"
	"github.com/brightpath-lms/brightpath/internal/shared"
)

// Handler manages quiz endpoints.
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

// MountRoutes registers quiz routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guards.RequireRole(shared.RoleInstructor))
		r.Use(h.guards.RequirePermissions(shared.PermManageCourses))
		r.Use(h.guards.RequireInstitution())
		r.Post("/", h.createQuiz)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guards.RequirePermissions(shared.PermTakeQuizzes))
		r.Use(h.guards.RequireInstitution())
		r.Post("/{quizID}/attempts", h.submitAttempt)
		r.Get("/attempts/recent", h.recentResults)
	})
}

// Listing defaults for the requester's recent results.
const (
	recentResultsWindow = 24 * time.Hour
	recentResultsLimit  = 10
)

type createQuizRequest struct {
	CourseID     string `json:"course_id" validate:"required,uuid"`
	Title        string `json:"title" validate:"required,min=2"`
	PassingScore *int   `json:"passing_score" validate:"omitempty,min=1,max=100"`
}

func (h *Handler) createQuiz(w http.ResponseWriter, r *http.Request) {
	var req createQuizRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	quiz, err := h.service.CreateQuiz(r.Context(), courseID, req.Title, req.PassingScore)
	if err != nil {
		h.respondError(w, "create quiz", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, quiz)
}

type submitAttemptRequest struct {
	Percentage float64 `json:"percentage" validate:"min=0,max=100"`
}

func (h *Handler) submitAttempt(w http.ResponseWriter, r *http.Request) {
	ident, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	quizID, err := uuid.Parse(chi.URLParam(r, "quizID"))
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	var req submitAttemptRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	attempt, err := h.service.SubmitAttempt(r.Context(), quizID, ident.UserID, req.Percentage)
	if err != nil {
		h.respondError(w, "submit attempt", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, attempt)
}

func (h *Handler) recentResults(w http.ResponseWriter, r *http.Request) {
	ident, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	since := time.Now().UTC().Add(-recentResultsWindow)
	results, err := h.service.RecentResults(r.Context(), ident.UserID, since, recentResultsLimit)
	if err != nil {
		h.respondError(w, "list recent results", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"results": results})
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, shared.ErrNotFound) {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	h.logger.Error(op, slog.Any("error", err))
	httpx.RespondError(w, err)
}
