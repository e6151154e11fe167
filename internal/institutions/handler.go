package institutions

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/brightpath-lms/brightpath/internal/activity"
	"github.com/brightpath-lms/brightpath/internal/platform/httpx"
	"github.com/brightpath-lms/brightpath/internal/rbac"
	"github.com/brightpath-lms/brightpath/internal/shared"
)

// Handler manages institution and membership endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	guards   rbac.Middleware
	activity activity.Recorder
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guards rbac.Middleware, recorder activity.Recorder) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		guards:   guards,
		activity: recorder,
		validate: validator.New(),
	}
}

// MountRoutes registers institution routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guards.RequireRole(shared.RoleSuperAdmin))
		r.Post("/", h.createInstitution)
	})
	r.Post("/{institutionID}/apply", h.apply)
	r.Group(func(r chi.Router) {
		r.Use(h.guards.RequirePermissions(shared.PermApproveMembers))
		r.Use(h.guards.RequireInstitution())
		r.Get("/memberships", h.listMemberships)
		r.Post("/memberships/{membershipID}/approve", h.approve)
		r.Post("/memberships/{membershipID}/reject", h.reject)
	})
}

type createInstitutionRequest struct {
	Name string `json:"name" validate:"required,min=2"`
	Code string `json:"code" validate:"required,alphanum,min=2,max=12"`
}

func (h *Handler) createInstitution(w http.ResponseWriter, r *http.Request) {
	var req createInstitutionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	inst, err := h.service.CreateInstitution(r.Context(), req.Name, req.Code)
	if err != nil {
		h.respondError(w, "create institution", err)
		return
	}

	h.recordActivity(r, "institution.create", inst.ID)
	httpx.JSON(w, http.StatusCreated, inst)
}

type applyRequest struct {
	Role string `json:"role" validate:"required"`
}

func (h *Handler) apply(w http.ResponseWriter, r *http.Request) {
	ident, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	institutionID, err := uuid.Parse(chi.URLParam(r, "institutionID"))
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	var req applyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	membership, err := h.service.Apply(r.Context(), ident.UserID, institutionID, req.Role, nil)
	if err != nil {
		h.respondError(w, "apply membership", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, membership)
}

func (h *Handler) listMemberships(w http.ResponseWriter, r *http.Request) {
	institutionID, ok := shared.InstitutionFromContext(r.Context())
	if !ok {
		httpx.Forbidden(w, shared.ReasonNoInstitution)
		return
	}
	memberships, err := h.service.ListMemberships(r.Context(), institutionID)
	if err != nil {
		h.respondError(w, "list memberships", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"memberships": memberships})
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
	membershipID, err := uuid.Parse(chi.URLParam(r, "membershipID"))
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	if approve {
		err = h.service.Approve(r.Context(), membershipID, ident.UserID)
	} else {
		var req rejectRequest
		if decodeErr := httpx.DecodeJSON(r, &req); decodeErr != nil {
			httpx.RespondError(w, httpx.ErrValidation)
			return
		}
		err = h.service.Reject(r.Context(), membershipID, ident.UserID, req.Reason)
	}
	if err != nil {
		h.respondError(w, "decide membership", err)
		return
	}

	action := "membership.approve"
	if !approve {
		action = "membership.reject"
	}
	h.recordActivity(r, action, membershipID)
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// recordActivity emits an explicit post-success event. Handlers call this
// after they decide the operation succeeded; nothing inspects response
// bodies after the fact.
func (h *Handler) recordActivity(r *http.Request, action string, entityID uuid.UUID) {
	ident, ok := shared.IdentityFromContext(r.Context())
	if !ok || h.activity == nil {
		return
	}
	if err := h.activity.Record(r.Context(), activity.Event{
		ActorID:    ident.UserID,
		ActorRole:  ident.Role,
		Action:     action,
		EntityType: "institution",
		EntityID:   entityID,
	}); err != nil {
		h.logger.Warn("record activity", slog.Any("error", err))
	}
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
