package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeTimesheetCreated         NotificationType = "TimesheetCreated"
	TypeTimesheetUpdated         NotificationType = "TimesheetUpdated"
	TypeTimesheetSubmitted       NotificationType = "TimesheetSubmitted"
	TypeTimesheetApproved        NotificationType = "TimesheetApproved"
	TypeTimesheetRejected        NotificationType = "TimesheetRejected"
	TypeTimesheetDeleted         NotificationType = "TimesheetDeleted"
	TypeTimesheetEscalation      NotificationType = "TimesheetEscalation"
	TypeTimesheetManagerApproved NotificationType = "TimesheetManagerApproved"
)

// MaxItems is the number of notifications a store keeps, most recent first.
const MaxItems = 50

// AllNotificationTypes returns all available notification types
func AllNotificationTypes() []NotificationType {
	return []NotificationType{
		TypeTimesheetCreated,
		TypeTimesheetUpdated,
		TypeTimesheetSubmitted,
		TypeTimesheetApproved,
		TypeTimesheetRejected,
		TypeTimesheetDeleted,
		TypeTimesheetEscalation,
		TypeTimesheetManagerApproved,
	}
}

// IsValid reports whether t is one of the known event types
func (t NotificationType) IsValid() bool {
	for _, known := range AllNotificationTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// Notification represents a notification entity
type Notification struct {
	ID        string
	Type      NotificationType
	Title     string
	Message   string
	Payload   map[string]interface{}
	Read      bool
	CreatedAt time.Time
}

// Severity of a toast shown alongside a notification
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Toast is a transient, auto-dismissing alert
type Toast struct {
	Severity Severity `json:"severity"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
}
