package notification

import (
	"time"

	"github.com/dustin/go-humanize"
)

// ============= Request DTOs =============

// CreateNotificationRequest carries the caller-supplied fields of a new
// notification. ID, CreatedAt and Read are assigned by the store.
type CreateNotificationRequest struct {
	Type    NotificationType
	Title   string
	Message string
	Payload map[string]interface{}
}

// ============= Response DTOs =============

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID         string                 `json:"id"`
	Type       NotificationType       `json:"type"`
	Title      string                 `json:"title"`
	Message    string                 `json:"message"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
	Read       bool                   `json:"read"`
	CreatedAt  time.Time              `json:"createdAt"`
	CreatedAgo string                 `json:"createdAgo"`
}

// NotificationListResponse is a full snapshot of a user's notification list
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int                    `json:"unreadCount"`
}

// UnreadCountResponse represents unread count response
type UnreadCountResponse struct {
	UnreadCount int `json:"unreadCount"`
}

// ToResponse converts a Notification entity to NotificationResponse
func ToResponse(n Notification, now time.Time) NotificationResponse {
	return NotificationResponse{
		ID:         n.ID,
		Type:       n.Type,
		Title:      n.Title,
		Message:    n.Message,
		Payload:    n.Payload,
		Read:       n.Read,
		CreatedAt:  n.CreatedAt,
		CreatedAgo: humanize.RelTime(n.CreatedAt, now, "ago", "from now"),
	}
}

// ToListResponse builds the snapshot sent to the browser
func ToListResponse(items []Notification, now time.Time) NotificationListResponse {
	resp := NotificationListResponse{
		Notifications: make([]NotificationResponse, len(items)),
	}
	for i, n := range items {
		resp.Notifications[i] = ToResponse(n, now)
		if !n.Read {
			resp.UnreadCount++
		}
	}
	return resp
}

// ============= SSE Event =============

const (
	EventNotifications = "notifications"
	EventToast         = "toast"
)
