package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/leave"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/pkg/apiclient"
)

type LeaveHandler interface {
	CreateRequest(w http.ResponseWriter, r *http.Request)
	ApproveRequest(w http.ResponseWriter, r *http.Request)
	RejectRequest(w http.ResponseWriter, r *http.Request)
}

// LeaveBackend is the leave part of the backend client
type LeaveBackend interface {
	ListLeaveRequests(ctx context.Context, ts apiclient.TokenSource, scope string) ([]leave.LeaveRequest, error)
	CreateLeaveRequest(ctx context.Context, ts apiclient.TokenSource, req leave.CreateLeaveRequest) (*leave.LeaveRequest, error)
	ApproveLeaveRequest(ctx context.Context, ts apiclient.TokenSource, id int64) (*leave.LeaveRequest, error)
	RejectLeaveRequest(ctx context.Context, ts apiclient.TokenSource, id int64, req leave.RejectRequest) (*leave.LeaveRequest, error)
}

type LeaveHandlerImpl struct {
	backend LeaveBackend
	tokens  TokenBinder
}

func NewLeaveHandler(backend LeaveBackend, tokens TokenBinder) LeaveHandler {
	return &LeaveHandlerImpl{
		backend: backend,
		tokens:  tokens,
	}
}

// CreateRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req leave.CreateLeaveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	leaveRequest, err := l.backend.CreateLeaveRequest(r.Context(), l.tokens.Tokens(sess), req)
	if err != nil {
		slog.Error("failed to create leave request", "user_id", sess.User.ID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request created successfully", leaveRequest)
}

// ApproveRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	id, ok := int64URLParam(w, r, "id")
	if !ok {
		return
	}

	leaveRequest, err := l.backend.ApproveLeaveRequest(r.Context(), l.tokens.Tokens(sess), id)
	if err != nil {
		slog.Error("failed to approve leave request", "leave_request_id", id, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request approved successfully", leaveRequest)
}

// RejectRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) RejectRequest(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	id, ok := int64URLParam(w, r, "id")
	if !ok {
		return
	}

	var req leave.RejectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	leaveRequest, err := l.backend.RejectLeaveRequest(r.Context(), l.tokens.Tokens(sess), id, req)
	if err != nil {
		slog.Error("failed to reject leave request", "leave_request_id", id, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request rejected", leaveRequest)
}
