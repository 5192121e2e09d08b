package notification

// Store holds one user's bounded, most-recent-first notification list.
type Store interface {
	Add(req CreateNotificationRequest) Notification
	MarkAsRead(id string)
	MarkAllRead()
	Clear()
	List() []Notification
	UnreadCount() int

	// Subscribe registers fn to receive a snapshot after every change.
	// Snapshots arrive in mutation order. fn may call back into the store;
	// the resulting snapshot is delivered after fn returns.
	// The returned func removes the subscription.
	Subscribe(fn func([]Notification)) (unsubscribe func())
}

// Registry hands out the store for a signed-in user
type Registry interface {
	For(userID string) Store
}

// Toaster raises transient alerts for a user
type Toaster interface {
	Toast(userID string, toast Toast)
}
