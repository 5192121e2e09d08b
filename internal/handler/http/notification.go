package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/notification"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/pkg/sse"
	"github.com/go-chi/chi/v5"
)

// NotificationHandler defines the notification handler interface
type NotificationHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	UnreadCount(w http.ResponseWriter, r *http.Request)
	MarkAsRead(w http.ResponseWriter, r *http.Request)
	MarkAllAsRead(w http.ResponseWriter, r *http.Request)
	Clear(w http.ResponseWriter, r *http.Request)

	// SSE
	Stream(w http.ResponseWriter, r *http.Request)
}

// RelayMounter attaches a user's push connection for the life of a stream
type RelayMounter interface {
	Mount(userID, token string) (unmount func())
}

type notificationHandlerImpl struct {
	registry  notification.Registry
	relay     RelayMounter
	hub       *sse.Hub
	keepalive time.Duration
	now       func() time.Time
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(registry notification.Registry, relay RelayMounter, hub *sse.Hub) NotificationHandler {
	return &notificationHandlerImpl{
		registry:  registry,
		relay:     relay,
		hub:       hub,
		keepalive: 30 * time.Second,
		now:       time.Now,
	}
}

func (h *notificationHandlerImpl) list(w http.ResponseWriter, store notification.Store) {
	response.Success(w, notification.ToListResponse(store.List(), h.now()))
}

// List returns the signed-in user's notifications, most recent first
func (h *notificationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	h.list(w, h.registry.For(sess.User.ID))
}

// UnreadCount returns the count of unread notifications
func (h *notificationHandlerImpl) UnreadCount(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	count := h.registry.For(sess.User.ID).UnreadCount()
	response.Success(w, notification.UnreadCountResponse{UnreadCount: count})
}

// MarkAsRead marks one notification as read; unknown ids are ignored
func (h *notificationHandlerImpl) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	notifID := chi.URLParam(r, "id")
	if notifID == "" {
		response.BadRequest(w, "Notification ID is required", nil)
		return
	}

	store := h.registry.For(sess.User.ID)
	store.MarkAsRead(notifID)
	h.list(w, store)
}

// MarkAllAsRead marks all notifications as read
func (h *notificationHandlerImpl) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	store := h.registry.For(sess.User.ID)
	store.MarkAllRead()
	h.list(w, store)
}

// Clear empties the notification list
func (h *notificationHandlerImpl) Clear(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	store := h.registry.For(sess.User.ID)
	store.Clear()
	h.list(w, store)
}

// Stream handles the SSE connection carrying list snapshots and toasts.
// The user's push relay stays mounted while the stream is open.
func (h *notificationHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	userID := sess.User.ID

	// Check if streaming is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(userID)
	defer cleanup()

	// latest snapshot wins; the callback must not block the store
	store := h.registry.For(userID)
	changed := make(chan struct{}, 1)
	unsubscribe := store.Subscribe(func([]notification.Notification) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	unmount := h.relay.Mount(userID, sess.Token)
	defer unmount()

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"user_id\":%q}\n\n", userID)
	h.writeEvent(w, notification.EventNotifications, notification.ToListResponse(store.List(), h.now()))
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case <-changed:
			h.writeEvent(w, notification.EventNotifications, notification.ToListResponse(store.List(), h.now()))
			flusher.Flush()

		case event, ok := <-events:
			if !ok {
				return
			}
			h.writeEvent(w, event.Event, event.Data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", h.now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

func (h *notificationHandlerImpl) writeEvent(w http.ResponseWriter, name string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("failed to encode stream event", "event", name, "error", err)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
}
