package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/session"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/user"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/pkg/apiclient"
)

type PageHandler interface {
	Landing(w http.ResponseWriter, r *http.Request)
	EmployeeDashboard(w http.ResponseWriter, r *http.Request)
	ManagerDashboard(w http.ResponseWriter, r *http.Request)
	HRDashboard(w http.ResponseWriter, r *http.Request)
	AdminUsers(w http.ResponseWriter, r *http.Request)
	AdminSettings(w http.ResponseWriter, r *http.Request)
}

// DirectoryBackend serves the system-administration pages
type DirectoryBackend interface {
	ListUsers(ctx context.Context, ts apiclient.TokenSource) ([]user.Summary, error)
	ListIntegrationSettings(ctx context.Context, ts apiclient.TokenSource) ([]user.IntegrationSetting, error)
}

// PortalBackend is everything the pages read from the backend
type PortalBackend interface {
	TimesheetBackend
	LeaveBackend
	DirectoryBackend
}

type pageHandlerImpl struct {
	backend  PortalBackend
	tokens   TokenBinder
	renderer *Renderer
}

func NewPageHandler(backend PortalBackend, tokens TokenBinder, rd *Renderer) PageHandler {
	return &pageHandlerImpl{
		backend:  backend,
		tokens:   tokens,
		renderer: rd,
	}
}

// landingFor picks the home page for the most privileged role held
func landingFor(roles session.RoleSet) string {
	switch {
	case roles.Has(session.RoleSystemAdmin):
		return "/admin/users"
	case roles.Has(session.RoleHRAdmin):
		return "/hr"
	case roles.Has(session.RoleManager):
		return "/manager"
	case roles.Has(session.RoleEmployee):
		return "/employee"
	default:
		return ""
	}
}

// Landing sends the user to their role's dashboard
func (h *pageHandlerImpl) Landing(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if target := landingFor(sess.User.RoleSet()); target != "" {
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}
	h.renderer.render(w, http.StatusForbidden, "no_access.html", newPageData("No access", sess))
}

type dashboardData struct {
	Timesheets listSection
	Leave      listSection
}

func (h *pageHandlerImpl) dashboard(r *http.Request, sess *session.Session, filter timesheet.ListFilter, leaveScope string) dashboardData {
	ts := h.tokens.Tokens(sess)
	var data dashboardData

	timesheets, err := h.backend.ListTimesheets(r.Context(), ts, filter)
	if err != nil {
		slog.Error("failed to load timesheets", "scope", filter.Scope, "error", err)
		data.Timesheets.Error = fetchErrorText(err)
	} else {
		data.Timesheets.Items = timesheets
	}

	requests, err := h.backend.ListLeaveRequests(r.Context(), ts, leaveScope)
	if err != nil {
		slog.Error("failed to load leave requests", "scope", leaveScope, "error", err)
		data.Leave.Error = fetchErrorText(err)
	} else {
		data.Leave.Items = requests
	}
	return data
}

func (h *pageHandlerImpl) EmployeeDashboard(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	data := newPageData("My timesheets", sess)
	data.Data = h.dashboard(r, sess, timesheet.ListFilter{Scope: "mine"}, "mine")
	h.renderer.render(w, http.StatusOK, "employee.html", data)
}

func (h *pageHandlerImpl) ManagerDashboard(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	data := newPageData("Approvals", sess)
	data.Data = h.dashboard(r, sess, timesheet.ListFilter{Scope: "team", Status: timesheet.StatusSubmitted}, "team")
	h.renderer.render(w, http.StatusOK, "manager.html", data)
}

func (h *pageHandlerImpl) HRDashboard(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	data := newPageData("HR", sess)
	data.Data = h.dashboard(r, sess, timesheet.ListFilter{Scope: "escalated"}, "escalated")
	h.renderer.render(w, http.StatusOK, "hr.html", data)
}

func (h *pageHandlerImpl) AdminUsers(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	data := newPageData("Users", sess)

	var section listSection
	users, err := h.backend.ListUsers(r.Context(), h.tokens.Tokens(sess))
	if err != nil {
		slog.Error("failed to load users", "error", err)
		section.Error = fetchErrorText(err)
	} else {
		section.Items = users
	}
	data.Data = section
	h.renderer.render(w, http.StatusOK, "admin_users.html", data)
}

func (h *pageHandlerImpl) AdminSettings(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	data := newPageData("Integration settings", sess)

	var section listSection
	settings, err := h.backend.ListIntegrationSettings(r.Context(), h.tokens.Tokens(sess))
	if err != nil {
		slog.Error("failed to load integration settings", "error", err)
		section.Error = fetchErrorText(err)
	} else {
		section.Items = settings
	}
	data.Data = section
	h.renderer.render(w, http.StatusOK, "admin_settings.html", data)
}
