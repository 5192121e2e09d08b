package timesheet

import (
	"fmt"

	"github.com/cmlabs-hris/timesheet-portal-go/internal/pkg/validator"
)

type CreateTimesheetRequest struct {
	WeekStart string  `json:"weekStart"`
	Entries   []Entry `json:"entries"`
}

func (r *CreateTimesheetRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.WeekStart); !ok {
		errs.Add("weekStart", "weekStart must be a date in YYYY-MM-DD format")
	}
	if len(r.Entries) == 0 {
		errs.Add("entries", "at least one entry is required")
	}
	for i, e := range r.Entries {
		field := fmt.Sprintf("entries[%d]", i)
		if _, ok := validator.IsValidDate(e.Date); !ok {
			errs.Add(field+".date", "date must be in YYYY-MM-DD format")
		}
		if e.Hours <= 0 || e.Hours > 24 {
			errs.Add(field+".hours", "hours must be between 0 and 24")
		}
		if validator.IsEmpty(e.Project) {
			errs.Add(field+".project", "project is required")
		}
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

// ListFilter narrows timesheet listings
type ListFilter struct {
	Status Status
	Scope  string // "mine", "team", "escalated"
}
