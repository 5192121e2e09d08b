package relay

import (
	"encoding/json"
	"testing"

	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/notification"
	"github.com/stretchr/testify/assert"
)

func TestDescribe_Severity(t *testing.T) {
	cases := map[notification.NotificationType]notification.Severity{
		notification.TypeTimesheetCreated:         notification.SeverityInfo,
		notification.TypeTimesheetUpdated:         notification.SeverityInfo,
		notification.TypeTimesheetSubmitted:       notification.SeveritySuccess,
		notification.TypeTimesheetApproved:        notification.SeveritySuccess,
		notification.TypeTimesheetManagerApproved: notification.SeverityInfo,
		notification.TypeTimesheetRejected:        notification.SeverityError,
		notification.TypeTimesheetDeleted:         notification.SeverityWarning,
		notification.TypeTimesheetEscalation:      notification.SeverityWarning,
	}
	assert.Len(t, cases, len(notification.AllNotificationTypes()))

	for typ, want := range cases {
		t.Run(string(typ), func(t *testing.T) {
			msg := Describe(typ, map[string]interface{}{"timesheetId": float64(3)})
			assert.Equal(t, want, msg.Severity)
			assert.NotEmpty(t, msg.Title)
			assert.Contains(t, msg.Text, "#3")
		})
	}
}

func TestDescribe_Escalation(t *testing.T) {
	msg := Describe(notification.TypeTimesheetEscalation, map[string]interface{}{
		"timesheetId":  float64(11),
		"daysPending":  float64(6),
		"priority":     "high",
		"employeeName": "Dana Wu",
	})
	assert.Equal(t, "Timesheet #11 (Dana Wu) has been pending for 6 days (priority: high).", msg.Text)

	msg = Describe(notification.TypeTimesheetEscalation, map[string]interface{}{})
	assert.Equal(t, "Timesheet is overdue for approval.", msg.Text)
}

func TestDescribe_RejectedWithoutReason(t *testing.T) {
	msg := Describe(notification.TypeTimesheetRejected, map[string]interface{}{"id": "TS-7"})
	assert.Equal(t, "Timesheet #TS-7 was rejected.", msg.Text)
}

func TestDescribe_LargeNumericIDsPrintInFull(t *testing.T) {
	for name, id := range map[string]interface{}{
		"decoded number": json.Number("1234567"),
		"float":          float64(1234567),
		"int":            1234567,
		"int64":          int64(1234567),
	} {
		t.Run(name, func(t *testing.T) {
			msg := Describe(notification.TypeTimesheetRejected, map[string]interface{}{
				"timesheetId": id,
				"reason":      "incomplete",
			})
			assert.Equal(t, "Timesheet #1234567 was rejected: incomplete", msg.Text)
		})
	}

	msg := Describe(notification.TypeTimesheetEscalation, map[string]interface{}{
		"timesheetId": json.Number("20000000"),
		"daysPending": float64(12),
	})
	assert.Equal(t, "Timesheet #20000000 has been pending for 12 days.", msg.Text)
}
