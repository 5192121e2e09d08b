package leave

import "github.com/cmlabs-hris/timesheet-portal-go/internal/pkg/validator"

type CreateLeaveRequest struct {
	LeaveType string `json:"leaveType"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
}

func (r *CreateLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.LeaveType) {
		errs.Add("leaveType", "leaveType is required")
	}
	start, startErr := validator.ParseDate(r.StartDate)
	if startErr != nil {
		errs.Add("startDate", "startDate must be in YYYY-MM-DD format")
	}
	end, endErr := validator.ParseDate(r.EndDate)
	if endErr != nil {
		errs.Add("endDate", "endDate must be in YYYY-MM-DD format")
	}
	if startErr == nil && endErr == nil && end.Before(start) {
		errs.Add("endDate", "endDate must not be before startDate")
	}

	return errs.Err()
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

func (r *RejectRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	}
	return errs.Err()
}
