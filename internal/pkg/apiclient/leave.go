package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/leave"
)

// ListLeaveRequests lists leave requests visible in scope ("mine", "team", "escalated")
func (c *Client) ListLeaveRequests(ctx context.Context, ts TokenSource, scope string) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	if _, err := c.do(ctx, ts, call{
		method: http.MethodGet,
		path:   "/leave-requests",
		query:  map[string]string{"scope": scope},
		result: &out,
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateLeaveRequest(ctx context.Context, ts TokenSource, req leave.CreateLeaveRequest) (*leave.LeaveRequest, error) {
	var out leave.LeaveRequest
	if _, err := c.do(ctx, ts, call{
		method: http.MethodPost,
		path:   "/leave-requests",
		body:   req,
		result: &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ApproveLeaveRequest(ctx context.Context, ts TokenSource, id int64) (*leave.LeaveRequest, error) {
	return c.leaveAction(ctx, ts, id, "approve", nil)
}

func (c *Client) RejectLeaveRequest(ctx context.Context, ts TokenSource, id int64, req leave.RejectRequest) (*leave.LeaveRequest, error) {
	return c.leaveAction(ctx, ts, id, "reject", req)
}

func (c *Client) leaveAction(ctx context.Context, ts TokenSource, id int64, action string, body interface{}) (*leave.LeaveRequest, error) {
	var out leave.LeaveRequest
	if _, err := c.do(ctx, ts, call{
		method: http.MethodPost,
		path:   fmt.Sprintf("/leave-requests/%d/%s", id, action),
		body:   body,
		result: &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}
