package notification

import (
	"sync"

	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/notification"
)

type registry struct {
	mu     sync.RWMutex
	stores map[string]notification.Store
}

// NewRegistry keeps one store per user for the lifetime of the process
func NewRegistry() notification.Registry {
	return &registry{
		stores: make(map[string]notification.Store),
	}
}

func (r *registry) For(userID string) notification.Store {
	r.mu.RLock()
	s, ok := r.stores[userID]
	r.mu.RUnlock()
	if ok {
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.stores[userID]; ok {
		return s
	}
	s = NewStore()
	r.stores[userID] = s
	return s
}
