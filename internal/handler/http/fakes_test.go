package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/leave"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/notification"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/report"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/session"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/user"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/pkg/apiclient"
)

type staticTokens struct{ sess *session.Session }

func (s staticTokens) Tokens() apiclient.Tokens {
	return apiclient.Tokens{AccessToken: s.sess.Token, RefreshToken: s.sess.RefreshToken}
}

func (s staticTokens) Key() string { return s.sess.ID }

func (s staticTokens) Reload(context.Context) (apiclient.Tokens, error) { return s.Tokens(), nil }

func (s staticTokens) Update(context.Context, apiclient.Tokens) error { return nil }

type fakeBinder struct{}

func (fakeBinder) Tokens(sess *session.Session) apiclient.TokenSource { return staticTokens{sess: sess} }

type fakeBackend struct {
	timesheets []timesheet.Timesheet
	leave      []leave.LeaveRequest
	users      []user.Summary
	settings   []user.IntegrationSetting
	err        error
	approved   timesheet.Status
	lastFilter timesheet.ListFilter
	deleted    []int64
	file       *report.File
}

func (f *fakeBackend) ListTimesheets(_ context.Context, _ apiclient.TokenSource, filter timesheet.ListFilter) ([]timesheet.Timesheet, error) {
	f.lastFilter = filter
	return f.timesheets, f.err
}

func (f *fakeBackend) CreateTimesheet(_ context.Context, _ apiclient.TokenSource, req timesheet.CreateTimesheetRequest) (*timesheet.Timesheet, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &timesheet.Timesheet{ID: 100, WeekStart: req.WeekStart, Entries: req.Entries, Status: timesheet.StatusDraft}, nil
}

func (f *fakeBackend) SubmitTimesheet(_ context.Context, _ apiclient.TokenSource, id int64) (*timesheet.Timesheet, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &timesheet.Timesheet{ID: id, Status: timesheet.StatusSubmitted}, nil
}

func (f *fakeBackend) ApproveTimesheet(_ context.Context, _ apiclient.TokenSource, id int64) (*timesheet.Timesheet, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &timesheet.Timesheet{ID: id, EmployeeName: "Dana Wu", Status: f.approved}, nil
}

func (f *fakeBackend) RejectTimesheet(_ context.Context, _ apiclient.TokenSource, id int64, req timesheet.RejectRequest) (*timesheet.Timesheet, error) {
	if f.err != nil {
		return nil, f.err
	}
	reason := req.Reason
	return &timesheet.Timesheet{ID: id, Status: timesheet.StatusRejected, RejectionReason: &reason}, nil
}

func (f *fakeBackend) DeleteTimesheet(_ context.Context, _ apiclient.TokenSource, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeBackend) ListLeaveRequests(_ context.Context, _ apiclient.TokenSource, _ string) ([]leave.LeaveRequest, error) {
	return f.leave, f.err
}

func (f *fakeBackend) CreateLeaveRequest(_ context.Context, _ apiclient.TokenSource, req leave.CreateLeaveRequest) (*leave.LeaveRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &leave.LeaveRequest{ID: 5, LeaveType: req.LeaveType, StartDate: req.StartDate, EndDate: req.EndDate, Status: leave.StatusPending}, nil
}

func (f *fakeBackend) ApproveLeaveRequest(_ context.Context, _ apiclient.TokenSource, id int64) (*leave.LeaveRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &leave.LeaveRequest{ID: id, Status: leave.StatusApproved}, nil
}

func (f *fakeBackend) RejectLeaveRequest(_ context.Context, _ apiclient.TokenSource, id int64, _ leave.RejectRequest) (*leave.LeaveRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &leave.LeaveRequest{ID: id, Status: leave.StatusRejected}, nil
}

func (f *fakeBackend) ListUsers(context.Context, apiclient.TokenSource) ([]user.Summary, error) {
	return f.users, f.err
}

func (f *fakeBackend) ListIntegrationSettings(context.Context, apiclient.TokenSource) ([]user.IntegrationSetting, error) {
	return f.settings, f.err
}

func (f *fakeBackend) ExportReport(_ context.Context, _ apiclient.TokenSource, _ report.Kind, _ report.Format) (*report.File, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.file, nil
}

type notified struct {
	userID  string
	typ     notification.NotificationType
	payload map[string]interface{}
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []notified
}

func (n *recordingNotifier) Notify(userID string, t notification.NotificationType, payload map[string]interface{}) notification.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notified{userID: userID, typ: t, payload: payload})
	return notification.Notification{Type: t}
}

type fakeRelay struct {
	mu       sync.Mutex
	mounts   int
	unmounts int
	tokens   []string
}

func (f *fakeRelay) Mount(_ string, token string) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mounts++
	f.tokens = append(f.tokens, token)
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.unmounts++
	}
}

func (f *fakeRelay) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mounts, f.unmounts
}

type fakeAuthService struct {
	sessions  map[string]*session.Session
	loginErr  error
	changeErr error
	loggedOut []string
}

func (f *fakeAuthService) Login(_ context.Context, req auth.LoginRequest) (*session.Session, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	sess := &session.Session{
		ID:        "new-session",
		Token:     "t",
		User:      session.User{ID: "u-9", Email: req.Email, Roles: []string{"Employee"}},
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if req.Email == "fresh@example.com" {
		sess.User.MustChangePassword = true
	}
	return sess, nil
}

func (f *fakeAuthService) Logout(_ context.Context, id string) error {
	f.loggedOut = append(f.loggedOut, id)
	return nil
}

func (f *fakeAuthService) ChangePassword(_ context.Context, sess *session.Session, req auth.ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if f.changeErr != nil {
		return f.changeErr
	}
	sess.User.MustChangePassword = false
	return nil
}

func (f *fakeAuthService) Current(_ context.Context, id string) (*session.Session, error) {
	if s, ok := f.sessions[id]; ok {
		return s, nil
	}
	return nil, auth.ErrNotAuthenticated
}

func (f *fakeAuthService) Tokens(sess *session.Session) apiclient.TokenSource {
	return staticTokens{sess: sess}
}

func testSession(roles ...string) *session.Session {
	return &session.Session{
		ID:    "s-1",
		Token: "access-token",
		User: session.User{
			ID:       "u-1",
			Email:    "ana@example.com",
			FullName: "Ana Putri",
			Roles:    roles,
		},
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

// withSession injects sess the way LoadSession would
func withSession(sess *session.Session, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(middleware.WithSession(r.Context(), sess)))
	})
}
