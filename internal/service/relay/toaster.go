package relay

import (
	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/notification"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/pkg/sse"
)

// HubToaster delivers toasts to the user's open browser streams
type HubToaster struct {
	hub *sse.Hub
}

func NewHubToaster(hub *sse.Hub) *HubToaster {
	return &HubToaster{hub: hub}
}

func (t *HubToaster) Toast(userID string, toast notification.Toast) {
	t.hub.Publish(sse.Event{
		UserID: userID,
		Event:  notification.EventToast,
		Data:   toast,
	})
}
