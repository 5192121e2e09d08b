package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/notification"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/pkg/apiclient"
)

type TimesheetHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Submit(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

// TimesheetBackend is the timesheet part of the backend client
type TimesheetBackend interface {
	ListTimesheets(ctx context.Context, ts apiclient.TokenSource, filter timesheet.ListFilter) ([]timesheet.Timesheet, error)
	CreateTimesheet(ctx context.Context, ts apiclient.TokenSource, req timesheet.CreateTimesheetRequest) (*timesheet.Timesheet, error)
	SubmitTimesheet(ctx context.Context, ts apiclient.TokenSource, id int64) (*timesheet.Timesheet, error)
	ApproveTimesheet(ctx context.Context, ts apiclient.TokenSource, id int64) (*timesheet.Timesheet, error)
	RejectTimesheet(ctx context.Context, ts apiclient.TokenSource, id int64, req timesheet.RejectRequest) (*timesheet.Timesheet, error)
	DeleteTimesheet(ctx context.Context, ts apiclient.TokenSource, id int64) error
}

// Notifier records a notification for a user and raises its toast
type Notifier interface {
	Notify(userID string, t notification.NotificationType, payload map[string]interface{}) notification.Notification
}

type timesheetHandlerImpl struct {
	backend  TimesheetBackend
	tokens   TokenBinder
	notifier Notifier
}

func NewTimesheetHandler(backend TimesheetBackend, tokens TokenBinder, notifier Notifier) TimesheetHandler {
	return &timesheetHandlerImpl{
		backend:  backend,
		tokens:   tokens,
		notifier: notifier,
	}
}

func timesheetPayload(t *timesheet.Timesheet) map[string]interface{} {
	payload := map[string]interface{}{
		"timesheetId": t.ID,
		"status":      string(t.Status),
	}
	if t.EmployeeName != "" {
		payload["employeeName"] = t.EmployeeName
	}
	if t.RejectionReason != nil {
		payload["reason"] = *t.RejectionReason
	}
	return payload
}

func (h *timesheetHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req timesheet.CreateTimesheetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := h.backend.CreateTimesheet(r.Context(), h.tokens.Tokens(sess), req)
	if err != nil {
		slog.Error("failed to create timesheet", "user_id", sess.User.ID, "error", err)
		response.HandleError(w, err)
		return
	}

	h.notifier.Notify(sess.User.ID, notification.TypeTimesheetCreated, timesheetPayload(created))
	response.Created(w, "Timesheet created", created)
}

func (h *timesheetHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	id, ok := int64URLParam(w, r, "id")
	if !ok {
		return
	}

	updated, err := h.backend.SubmitTimesheet(r.Context(), h.tokens.Tokens(sess), id)
	if err != nil {
		slog.Error("failed to submit timesheet", "timesheet_id", id, "error", err)
		response.HandleError(w, err)
		return
	}

	h.notifier.Notify(sess.User.ID, notification.TypeTimesheetSubmitted, timesheetPayload(updated))
	response.SuccessWithMessage(w, "Timesheet submitted", updated)
}

// Approve approves as manager or HR; the backend decides which stage applies
func (h *timesheetHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	id, ok := int64URLParam(w, r, "id")
	if !ok {
		return
	}

	updated, err := h.backend.ApproveTimesheet(r.Context(), h.tokens.Tokens(sess), id)
	if err != nil {
		slog.Error("failed to approve timesheet", "timesheet_id", id, "error", err)
		response.HandleError(w, err)
		return
	}

	notifType := notification.TypeTimesheetApproved
	if updated.Status == timesheet.StatusManagerApproved {
		notifType = notification.TypeTimesheetManagerApproved
	}
	h.notifier.Notify(sess.User.ID, notifType, timesheetPayload(updated))
	response.SuccessWithMessage(w, "Timesheet approved", updated)
}

func (h *timesheetHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	id, ok := int64URLParam(w, r, "id")
	if !ok {
		return
	}

	var req timesheet.RejectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	updated, err := h.backend.RejectTimesheet(r.Context(), h.tokens.Tokens(sess), id, req)
	if err != nil {
		slog.Error("failed to reject timesheet", "timesheet_id", id, "error", err)
		response.HandleError(w, err)
		return
	}

	payload := timesheetPayload(updated)
	if _, ok := payload["reason"]; !ok {
		payload["reason"] = req.Reason
	}
	h.notifier.Notify(sess.User.ID, notification.TypeTimesheetRejected, payload)
	response.SuccessWithMessage(w, "Timesheet rejected", updated)
}

func (h *timesheetHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	id, ok := int64URLParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.backend.DeleteTimesheet(r.Context(), h.tokens.Tokens(sess), id); err != nil {
		slog.Error("failed to delete timesheet", "timesheet_id", id, "error", err)
		response.HandleError(w, err)
		return
	}

	h.notifier.Notify(sess.User.ID, notification.TypeTimesheetDeleted, map[string]interface{}{"timesheetId": id})
	response.SuccessWithMessage(w, "Timesheet deleted", nil)
}
