package notifications

import (
	"net/http"

	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/brightpath-lms/brightpath/internal/platform/httpx"
	"github.com/brightpath-lms/brightpath/internal/shared"
)

// Handler serves the notification feed and read-state endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers notification routes. Every route requires an
// authenticated identity but no further guards: the generator itself
// decides which slices the requester's role can see.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/unread-count", h.unreadCount)
	r.Post("/{notificationID}/read", h.markRead)
	r.Post("/read-all", h.markAllRead)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ident, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	records := h.service.List(r.Context(), ident)
	httpx.JSON(w, http.StatusOK, map[string]any{"notifications": records})
}

func (h *Handler) unreadCount(w http.ResponseWriter, r *http.Request) {
	ident, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	count, err := h.service.UnreadCount(r.Context(), ident)
	if err != nil {
		h.logger.Error("unread count", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int{"unread_count": count})
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	ident, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	notificationID := chi.URLParam(r, "notificationID")
	if notificationID == "" {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.service.MarkRead(r.Context(), ident.UserID, notificationID); err != nil {
		h.logger.Error("mark notification read", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) markAllRead(w http.ResponseWriter, r *http.Request) {
	ident, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	marked, err := h.service.MarkAllRead(r.Context(), ident)
	if err != nil {
		h.logger.Error("mark all notifications read", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int{"marked": marked})
}
