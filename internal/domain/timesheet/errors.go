package timesheet

import "errors"

var (
	ErrTimesheetNotFound = errors.New("timesheet not found")
	ErrAlreadyProcessed  = errors.New("timesheet already processed")
)
