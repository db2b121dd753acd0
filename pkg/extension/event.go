package extension

import (
	"sync"
	"time"
)

// EventKind identifies the type of extension event.
type EventKind string

const (
	EventActivated                 EventKind = "activated"
	EventMigrationApplied          EventKind = "migration_applied"
	EventContextProviderRegistered EventKind = "context_provider_registered"
	EventMessageShown              EventKind = "message_shown"
	EventMessageDismissed          EventKind = "message_dismissed"
)

// Event is an immutable notification of extension activity.
type Event struct {
	Kind      EventKind
	Timestamp time.Time
	Data      any
}

// Subscription receives events from an EventBus.
type Subscription struct {
	C  <-chan Event
	ch chan Event
}

// EventBus fans out events to all active subscribers. The zero value is ready
// to use and it is safe for concurrent use.
type EventBus struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

// Subscribe creates a subscription with the given channel buffer size. The
// caller reads from sub.C and eventually calls Unsubscribe.
func (b *EventBus) Subscribe(bufSize int) *Subscription {
	ch := make(chan Event, bufSize)
	sub := &Subscription{C: ch, ch: ch}

	b.mu.Lock()
	if b.subs == nil {
		b.subs = make(map[*Subscription]struct{})
	}
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	return sub
}

// Unsubscribe removes the subscription and closes its channel.
func (b *EventBus) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[sub]; ok {
		delete(b.subs, sub)
		close(sub.ch)
	}
}

// Publish sends an event to every subscriber. A subscriber with a full buffer
// misses the event; activation never waits on a listener.
func (b *EventBus) Publish(kind EventKind, data any) {
	e := Event{Kind: kind, Timestamp: time.Now(), Data: data}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subs {
		select {
		case sub.ch <- e:
		default:
		}
	}
}
