package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/leave"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/report"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/session"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/pkg/apiclient"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth and session errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrNotAuthenticated),
		errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, session.ErrSessionExpired),
		errors.Is(err, session.ErrInvalidToken):
		Unauthorized(w, "Sign in required")

	// Timesheet errors
	case errors.Is(err, timesheet.ErrTimesheetNotFound):
		NotFound(w, "Timesheet not found")
	case errors.Is(err, timesheet.ErrAlreadyProcessed):
		Conflict(w, "Timesheet already processed")

	// Leave errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed):
		Conflict(w, "Leave request already processed")

	// Report errors
	case errors.Is(err, report.ErrUnknownKind):
		NotFound(w, "Unknown report")
	case errors.Is(err, report.ErrUnknownFormat):
		BadRequest(w, "Unsupported report format", map[string]string{"format": "format must be xlsx or pdf"})

	// Backend errors
	case errors.Is(err, apiclient.ErrUnauthorized):
		Unauthorized(w, "Session expired, sign in again")
	case errors.Is(err, apiclient.ErrForbidden):
		Forbidden(w, "Not allowed")
	case errors.Is(err, apiclient.ErrNotFound):
		NotFound(w, "Not found")
	case errors.Is(err, apiclient.ErrConflict):
		Conflict(w, "Already processed")
	case errors.Is(err, apiclient.ErrBadRequest):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, apiclient.ErrUnavailable):
		ServiceUnavailable(w, "Timesheet service is unavailable, try again shortly")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
