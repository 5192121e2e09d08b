package leave

import "time"

type Status string

const (
	StatusPending   Status = "Pending"
	StatusApproved  Status = "Approved"
	StatusRejected  Status = "Rejected"
	StatusCancelled Status = "Cancelled"
)

// LeaveRequest as returned by the backend
type LeaveRequest struct {
	ID              int64     `json:"id"`
	EmployeeID      string    `json:"employeeId"`
	EmployeeName    string    `json:"employeeName,omitempty"`
	LeaveType       string    `json:"leaveType"`
	StartDate       string    `json:"startDate"`
	EndDate         string    `json:"endDate"`
	Reason          string    `json:"reason"`
	Status          Status    `json:"status"`
	RejectionReason *string   `json:"rejectionReason,omitempty"`
	DaysPending     int       `json:"daysPending,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}
