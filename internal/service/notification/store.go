package notification

import (
	"sync"
	"time"

	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/notification"
	"github.com/google/uuid"
)

type subscriber struct {
	id int
	fn func([]notification.Notification)
}

type store struct {
	mu     sync.Mutex
	items  []notification.Notification
	subs   []subscriber
	nextID int
	now    func() time.Time

	// pending snapshots wait here while another call is delivering, so
	// callbacks keep mutation order and may call back into the store.
	pending    [][]notification.Notification
	delivering bool
}

// NewStore creates an empty notification store
func NewStore() notification.Store {
	return newStore(time.Now)
}

func newStore(now func() time.Time) *store {
	return &store{
		items: make([]notification.Notification, 0, notification.MaxItems),
		now:   now,
	}
}

// Add prepends a new unread notification and evicts anything past MaxItems
func (s *store) Add(req notification.CreateNotificationRequest) notification.Notification {
	n := notification.Notification{
		ID:        uuid.New().String(),
		Type:      req.Type,
		Title:     req.Title,
		Message:   req.Message,
		Payload:   req.Payload,
		Read:      false,
		CreatedAt: s.now().UTC(),
	}

	s.mutate(func() bool {
		items := make([]notification.Notification, 0, notification.MaxItems)
		items = append(items, n)
		items = append(items, s.items...)
		if len(items) > notification.MaxItems {
			items = items[:notification.MaxItems]
		}
		s.items = items
		return true
	})

	return n
}

// MarkAsRead marks the item with id as read; unknown ids are ignored
func (s *store) MarkAsRead(id string) {
	s.mutate(func() bool {
		for i := range s.items {
			if s.items[i].ID == id {
				if s.items[i].Read {
					return false
				}
				s.items[i].Read = true
				return true
			}
		}
		return false
	})
}

// MarkAllRead marks every item as read
func (s *store) MarkAllRead() {
	s.mutate(func() bool {
		changed := false
		for i := range s.items {
			if !s.items[i].Read {
				s.items[i].Read = true
				changed = true
			}
		}
		return changed
	})
}

// Clear empties the list
func (s *store) Clear() {
	s.mutate(func() bool {
		if len(s.items) == 0 {
			return false
		}
		s.items = make([]notification.Notification, 0, notification.MaxItems)
		return true
	})
}

// List returns a copy of the list, most recent first
func (s *store) List() []notification.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// UnreadCount counts unread items in the current list
func (s *store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, n := range s.items {
		if !n.Read {
			count++
		}
	}
	return count
}

// Subscribe registers fn for change snapshots
func (s *store) Subscribe(fn func([]notification.Notification)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// mutate applies fn under the lock and, if it reports a change, queues the
// new snapshot for every subscriber. The first caller to find the queue idle
// drains it with mu released; nested or concurrent mutations only enqueue.
func (s *store) mutate(fn func() bool) {
	s.mu.Lock()
	if !fn() {
		s.mu.Unlock()
		return
	}
	s.pending = append(s.pending, s.snapshotLocked())
	if s.delivering {
		s.mu.Unlock()
		return
	}
	s.delivering = true

	for len(s.pending) > 0 {
		snapshot := s.pending[0]
		s.pending[0] = nil
		s.pending = s.pending[1:]
		subs := make([]subscriber, len(s.subs))
		copy(subs, s.subs)
		s.mu.Unlock()

		for _, sub := range subs {
			sub.fn(snapshot)
		}

		s.mu.Lock()
	}
	s.pending = nil
	s.delivering = false
	s.mu.Unlock()
}

func (s *store) snapshotLocked() []notification.Notification {
	out := make([]notification.Notification, len(s.items))
	copy(out, s.items)
	return out
}
