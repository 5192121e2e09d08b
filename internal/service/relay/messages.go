package relay

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/notification"
)

// Message is the display form of a pushed event
type Message struct {
	Title    string
	Text     string
	Severity notification.Severity
}

// Describe builds the title, text and toast severity for an event payload
func Describe(t notification.NotificationType, payload map[string]interface{}) Message {
	ref := timesheetRef(payload)

	switch t {
	case notification.TypeTimesheetCreated:
		return Message{"Timesheet created", ref + " was created.", notification.SeverityInfo}
	case notification.TypeTimesheetUpdated:
		return Message{"Timesheet updated", ref + " was updated.", notification.SeverityInfo}
	case notification.TypeTimesheetSubmitted:
		return Message{"Timesheet submitted", ref + " was submitted for approval.", notification.SeveritySuccess}
	case notification.TypeTimesheetApproved:
		return Message{"Timesheet approved", ref + " was approved.", notification.SeveritySuccess}
	case notification.TypeTimesheetManagerApproved:
		return Message{"Approved by manager", ref + " was approved by the manager and is awaiting HR approval.", notification.SeverityInfo}
	case notification.TypeTimesheetRejected:
		text := ref + " was rejected."
		if reason := stringField(payload, "reason"); reason != "" {
			text = fmt.Sprintf("%s was rejected: %s", ref, reason)
		}
		return Message{"Timesheet rejected", text, notification.SeverityError}
	case notification.TypeTimesheetDeleted:
		return Message{"Timesheet deleted", ref + " was deleted.", notification.SeverityWarning}
	case notification.TypeTimesheetEscalation:
		var b strings.Builder
		b.WriteString(ref)
		if days := scalarField(payload, "daysPending"); days != "" {
			fmt.Fprintf(&b, " has been pending for %s days", days)
		} else {
			b.WriteString(" is overdue for approval")
		}
		if priority := stringField(payload, "priority"); priority != "" {
			fmt.Fprintf(&b, " (priority: %s)", priority)
		}
		b.WriteString(".")
		return Message{"Timesheet escalation", b.String(), notification.SeverityWarning}
	default:
		return Message{string(t), ref, notification.SeverityInfo}
	}
}

func timesheetRef(payload map[string]interface{}) string {
	id := scalarField(payload, "timesheetId")
	if id == "" {
		id = scalarField(payload, "id")
	}
	ref := "Timesheet"
	if id != "" {
		ref = "Timesheet #" + id
	}
	if name := stringField(payload, "employeeName"); name != "" {
		ref = fmt.Sprintf("%s (%s)", ref, name)
	}
	return ref
}

// scalarField renders a string or numeric payload value. Numbers print in
// plain decimal form whatever type the decoder produced.
func scalarField(payload map[string]interface{}, key string) string {
	switch v := payload[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}

func stringField(payload map[string]interface{}, key string) string {
	if v, ok := payload[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
