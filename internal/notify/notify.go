// Package notify tracks the single most recently created order so its
// assignee sees a one-time alert. There is deliberately only one slot shared
// by the whole process: a newer order overwrites an unseen older one.
package notify

import (
	"sync"
	"time"
)

type Tracker struct {
	mu       sync.Mutex
	number   string
	assignee string
	at       time.Time
	set      bool
	notified bool
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Record overwrites the slot with the latest created order and re-arms the
// alert.
func (t *Tracker) Record(number, assignee string, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.number = number
	t.assignee = assignee
	t.at = now
	t.set = true
	t.notified = false
}

// Alert is a pending notification: the order number and when it was created.
type Alert struct {
	Number string
	At     time.Time
}

// ShouldNotify returns the pending alert when the slot holds an order for the
// given display name that has not been shown yet.
func (t *Tracker) ShouldNotify(displayName string) (Alert, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.set || t.notified || t.assignee != displayName {
		return Alert{}, false
	}
	return Alert{Number: t.number, At: t.at}, true
}

// MarkNotified is idempotent.
func (t *Tracker) MarkNotified() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.notified = true
}
