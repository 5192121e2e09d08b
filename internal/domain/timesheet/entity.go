package timesheet

import "time"

type Status string

const (
	StatusDraft           Status = "Draft"
	StatusSubmitted       Status = "Submitted"
	StatusManagerApproved Status = "ManagerApproved"
	StatusApproved        Status = "Approved"
	StatusRejected        Status = "Rejected"
)

// Label is the display text for a status
func (s Status) Label() string {
	switch s {
	case StatusDraft:
		return "Draft"
	case StatusSubmitted:
		return "Awaiting manager"
	case StatusManagerApproved:
		return "Awaiting HR"
	case StatusApproved:
		return "Approved"
	case StatusRejected:
		return "Rejected"
	default:
		return string(s)
	}
}

// Entry is one day's logged hours
type Entry struct {
	Date    string  `json:"date"`
	Hours   float64 `json:"hours"`
	Project string  `json:"project"`
	Note    string  `json:"note,omitempty"`
}

// Timesheet as returned by the backend
type Timesheet struct {
	ID              int64     `json:"id"`
	EmployeeID      string    `json:"employeeId"`
	EmployeeName    string    `json:"employeeName,omitempty"`
	WeekStart       string    `json:"weekStart"`
	Entries         []Entry   `json:"entries"`
	TotalHours      float64   `json:"totalHours"`
	Status          Status    `json:"status"`
	RejectionReason *string   `json:"rejectionReason,omitempty"`
	DaysPending     int       `json:"daysPending,omitempty"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// IsEditable reports whether the owner may still change the timesheet
func (t *Timesheet) IsEditable() bool {
	return t.Status == StatusDraft || t.Status == StatusRejected
}
