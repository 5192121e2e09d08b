package relay

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/notification"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/pkg/push"
)

// PushClient is the part of push.Client the relay needs
type PushClient interface {
	On(eventType string, h push.Handler) (off func())
	Start()
	SetToken(token string)
	Close()
}

// ClientFactory opens a push client for a bearer token
type ClientFactory func(token string) PushClient

type mount struct {
	client    PushClient
	refs      int
	offs      []func()
	idleSince time.Time
}

// Relay bridges each user's push connection into that user's notification
// store and toasts.
type Relay struct {
	registry  notification.Registry
	toaster   notification.Toaster
	newClient ClientFactory
	logger    *slog.Logger

	mu     sync.Mutex
	mounts map[string]*mount
	now    func() time.Time
}

func NewRelay(registry notification.Registry, toaster notification.Toaster, newClient ClientFactory, logger *slog.Logger) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{
		registry:  registry,
		toaster:   toaster,
		newClient: newClient,
		logger:    logger,
		mounts:    make(map[string]*mount),
		now:       time.Now,
	}
}

// Mount registers the event handlers for userID and starts the user's push
// connection in the background. The first mount registers handlers; further
// mounts of the same user share them. The returned func unmounts; once the
// last mount is gone the handlers are removed but the connection stays
// open so it can be reused.
func (r *Relay) Mount(userID, token string) (unmount func()) {
	r.mu.Lock()
	m, ok := r.mounts[userID]
	if !ok {
		m = &mount{client: r.newClient(token)}
		r.mounts[userID] = m
	} else if token != "" {
		m.client.SetToken(token)
	}

	if m.refs == 0 {
		for _, t := range notification.AllNotificationTypes() {
			eventType := t
			m.offs = append(m.offs, m.client.On(string(eventType), func(payload map[string]interface{}) {
				r.Notify(userID, eventType, payload)
			}))
		}
	}
	m.refs++
	client := m.client
	r.mu.Unlock()

	client.Start()

	var once sync.Once
	return func() {
		once.Do(func() { r.unmount(userID) })
	}
}

func (r *Relay) unmount(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.mounts[userID]
	if !ok || m.refs == 0 {
		return
	}
	m.refs--
	if m.refs > 0 {
		return
	}
	m.idleSince = r.now()
	for _, off := range m.offs {
		off()
	}
	m.offs = nil
}

// Notify adds a notification for userID and raises the matching toast.
// Push handlers and user actions both land here. Unknown event types are
// dropped and the zero Notification is returned.
func (r *Relay) Notify(userID string, t notification.NotificationType, payload map[string]interface{}) notification.Notification {
	if !t.IsValid() {
		r.logger.Warn("unknown notification type dropped",
			slog.String("user_id", userID),
			slog.String("type", string(t)),
		)
		return notification.Notification{}
	}
	msg := Describe(t, payload)

	n := r.registry.For(userID).Add(notification.CreateNotificationRequest{
		Type:    t,
		Title:   msg.Title,
		Message: msg.Text,
		Payload: payload,
	})

	if r.toaster != nil {
		r.toaster.Toast(userID, notification.Toast{
			Severity: msg.Severity,
			Title:    msg.Title,
			Message:  msg.Text,
		})
	}

	r.logger.Debug("notification relayed",
		slog.String("user_id", userID),
		slog.String("type", string(t)),
		slog.String("notification_id", n.ID),
	)
	return n
}

// MountCount returns how many active mounts a user has
func (r *Relay) MountCount(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.mounts[userID]; ok {
		return m.refs
	}
	return 0
}

// Shutdown closes every push connection
func (r *Relay) Shutdown() {
	r.mu.Lock()
	mounts := r.mounts
	r.mounts = make(map[string]*mount)
	r.mu.Unlock()

	for userID, m := range mounts {
		for _, off := range m.offs {
			off()
		}
		m.client.Close()
		r.logger.Debug("push connection closed", slog.String("user_id", userID))
	}
}

// CloseIdle closes push connections that have had no mount for at least
// idleFor and returns how many were closed.
func (r *Relay) CloseIdle(idleFor time.Duration) int {
	cutoff := r.now().Add(-idleFor)

	r.mu.Lock()
	var idle []PushClient
	for userID, m := range r.mounts {
		if m.refs == 0 && !m.idleSince.After(cutoff) {
			idle = append(idle, m.client)
			delete(r.mounts, userID)
		}
	}
	r.mu.Unlock()

	for _, c := range idle {
		c.Close()
	}
	return len(idle)
}

// CloseIdleJob adapts CloseIdle to the cron job signature
func (r *Relay) CloseIdleJob(idleFor time.Duration) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if n := r.CloseIdle(idleFor); n > 0 {
			r.logger.Info("closed idle push connections", slog.Int("count", n))
		}
		return nil
	}
}
