package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/session"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/service/guard"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

// RouterConfig carries the settings the router needs from config
type RouterConfig struct {
	CORSAllowedOrigins []string
	CookieName         string
	LogLevel           slog.Level
}

// Handlers groups every handler the router mounts
type Handlers struct {
	Auth         AuthHandler
	Page         PageHandler
	Notification NotificationHandler
	Timesheet    TimesheetHandler
	Leave        LeaveHandler
	Report       ReportHandler
	Directory    DirectoryHandler
}

func NewRouter(cfg RouterConfig, logger *slog.Logger, sessions middleware.SessionLoader, g *guard.Guard, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))
	r.Use(middleware.LoadSession(sessions, cfg.CookieName))

	// Public
	r.Get("/login", h.Auth.LoginPage)
	r.Post("/login", h.Auth.Login)
	r.Post("/logout", h.Auth.Logout)

	// Pages
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRoles(g))
		r.Get("/", h.Page.Landing)
		r.Get("/change-password", h.Auth.ChangePasswordPage)
		r.Post("/change-password", h.Auth.ChangePassword)
	})
	r.With(middleware.RequireRoles(g, session.RoleEmployee)).Get("/employee", h.Page.EmployeeDashboard)
	r.With(middleware.RequireRoles(g, session.RoleManager)).Get("/manager", h.Page.ManagerDashboard)
	r.With(middleware.RequireRoles(g, session.RoleHRAdmin)).Get("/hr", h.Page.HRDashboard)

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.SystemAdminOnly(g))
		r.Get("/users", h.Page.AdminUsers)
		r.Get("/settings", h.Page.AdminSettings)
	})

	// JSON endpoints for page scripts
	r.Route("/app", func(r chi.Router) {
		r.Use(chiMiddleware.NoCache)
		r.Use(middleware.RequireRolesAPI(g))

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.Notification.List)
			r.Get("/unread-count", h.Notification.UnreadCount)
			r.Get("/stream", h.Notification.Stream)
			r.Post("/read-all", h.Notification.MarkAllAsRead)
			r.Post("/clear", h.Notification.Clear)
			r.Post("/{id}/read", h.Notification.MarkAsRead)
		})

		r.Route("/timesheets", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRolesAPI(g, session.RoleEmployee))
				r.Post("/", h.Timesheet.Create)
				r.Post("/{id}/submit", h.Timesheet.Submit)
				r.Delete("/{id}", h.Timesheet.Delete)
			})
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRolesAPI(g, session.RoleManager, session.RoleHRAdmin))
				r.Post("/{id}/approve", h.Timesheet.Approve)
				r.Post("/{id}/reject", h.Timesheet.Reject)
			})
		})

		r.Route("/leave", func(r chi.Router) {
			r.With(middleware.RequireRolesAPI(g, session.RoleEmployee)).Post("/", h.Leave.CreateRequest)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRolesAPI(g, session.RoleManager, session.RoleHRAdmin))
				r.Post("/{id}/approve", h.Leave.ApproveRequest)
				r.Post("/{id}/reject", h.Leave.RejectRequest)
			})
		})

		r.With(middleware.RequireRolesAPI(g, session.RoleHRAdmin)).Get("/reports/{kind}", h.Report.Export)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.SystemAdminOnlyAPI(g))
			r.Get("/users", h.Directory.ListUsers)
			r.Get("/settings", h.Directory.ListIntegrationSettings)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})

	return r
}
