package apiclient

import (
	"context"
	"mime"
	"net/http"

	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/report"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/user"
)

func (c *Client) ListUsers(ctx context.Context, ts TokenSource) ([]user.Summary, error) {
	var out []user.Summary
	if _, err := c.do(ctx, ts, call{
		method: http.MethodGet,
		path:   "/users",
		result: &out,
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListIntegrationSettings(ctx context.Context, ts TokenSource) ([]user.IntegrationSetting, error) {
	var out []user.IntegrationSetting
	if _, err := c.do(ctx, ts, call{
		method: http.MethodGet,
		path:   "/integration-settings",
		result: &out,
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// ExportReport downloads a generated report file from the backend
func (c *Client) ExportReport(ctx context.Context, ts TokenSource, kind report.Kind, format report.Format) (*report.File, error) {
	res, err := c.do(ctx, ts, call{
		method: http.MethodGet,
		path:   "/reports/" + string(kind),
		query:  map[string]string{"format": string(format)},
	})
	if err != nil {
		return nil, err
	}

	file := &report.File{
		Filename:    string(kind) + "." + string(format),
		ContentType: res.Header().Get("Content-Type"),
		Data:        res.Bytes(),
	}
	if _, params, err := mime.ParseMediaType(res.Header().Get("Content-Disposition")); err == nil && params["filename"] != "" {
		file.Filename = params["filename"]
	}
	if file.ContentType == "" {
		file.ContentType = "application/octet-stream"
	}
	return file, nil
}
