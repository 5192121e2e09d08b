package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/timesheet"
)

func (c *Client) ListTimesheets(ctx context.Context, ts TokenSource, filter timesheet.ListFilter) ([]timesheet.Timesheet, error) {
	query := map[string]string{}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	if filter.Scope != "" {
		query["scope"] = filter.Scope
	}

	var out []timesheet.Timesheet
	if _, err := c.do(ctx, ts, call{
		method: http.MethodGet,
		path:   "/timesheets",
		query:  query,
		result: &out,
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateTimesheet(ctx context.Context, ts TokenSource, req timesheet.CreateTimesheetRequest) (*timesheet.Timesheet, error) {
	var out timesheet.Timesheet
	if _, err := c.do(ctx, ts, call{
		method: http.MethodPost,
		path:   "/timesheets",
		body:   req,
		result: &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SubmitTimesheet(ctx context.Context, ts TokenSource, id int64) (*timesheet.Timesheet, error) {
	return c.timesheetAction(ctx, ts, id, "submit", nil)
}

func (c *Client) ApproveTimesheet(ctx context.Context, ts TokenSource, id int64) (*timesheet.Timesheet, error) {
	return c.timesheetAction(ctx, ts, id, "approve", nil)
}

func (c *Client) RejectTimesheet(ctx context.Context, ts TokenSource, id int64, req timesheet.RejectRequest) (*timesheet.Timesheet, error) {
	return c.timesheetAction(ctx, ts, id, "reject", req)
}

func (c *Client) DeleteTimesheet(ctx context.Context, ts TokenSource, id int64) error {
	_, err := c.do(ctx, ts, call{
		method: http.MethodDelete,
		path:   fmt.Sprintf("/timesheets/%d", id),
	})
	return err
}

func (c *Client) timesheetAction(ctx context.Context, ts TokenSource, id int64, action string, body interface{}) (*timesheet.Timesheet, error) {
	var out timesheet.Timesheet
	if _, err := c.do(ctx, ts, call{
		method: http.MethodPost,
		path:   fmt.Sprintf("/timesheets/%d/%s", id, action),
		body:   body,
		result: &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}
