package app

import (
	"net/http"

	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/brightpath-lms/brightpath/internal/auth"
	"github.com/brightpath-lms/brightpath/internal/courses"
	"github.com/brightpath-lms/brightpath/internal/enrollments"
	"github.com/brightpath-lms/brightpath/internal/institutions"
	"github.com/brightpath-lms/brightpath/internal/notifications"
	"github.com/brightpath-lms/brightpath/internal/observability"
	"github.com/brightpath-lms/brightpath/internal/quizzes"
	"github.com/brightpath-lms/brightpath/internal/users"
	"github.com/brightpath-lms/brightpath/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger               *slog.Logger
	Config               *Config
	AuthMiddleware       *auth.Middleware
	UsersHandler         *users.Handler
	InstitutionsHandler  *institutions.Handler
	CoursesHandler       *courses.Handler
	EnrollmentsHandler   *enrollments.Handler
	QuizzesHandler       *quizzes.Handler
	NotificationsHandler *notifications.Handler
	JobsHandler          *jobs.Handler
	Metrics              *observability.Metrics
}

// NewRouter constructs the chi.Router with BrightPath defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	if params.JobsHandler != nil {
		r.Route("/jobs", params.JobsHandler.MountRoutes)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(params.AuthMiddleware.Authenticate)

		if params.UsersHandler != nil {
			r.Route("/users", params.UsersHandler.MountRoutes)
		}
		if params.InstitutionsHandler != nil {
			r.Route("/institutions", params.InstitutionsHandler.MountRoutes)
		}
		if params.CoursesHandler != nil {
			r.Route("/courses", params.CoursesHandler.MountRoutes)
		}
		if params.EnrollmentsHandler != nil {
			r.Route("/enrollments", params.EnrollmentsHandler.MountRoutes)
		}
		if params.QuizzesHandler != nil {
			r.Route("/quizzes", params.QuizzesHandler.MountRoutes)
		}
		if params.NotificationsHandler != nil {
			r.Route("/notifications", params.NotificationsHandler.MountRoutes)
		}
	})

	return r
}
