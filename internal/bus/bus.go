// Package bus implements the in-process mutation broadcaster: a typed
// publish/subscribe channel owned by the application root and injected into
// the components that need it. Any flow that creates a transaction
// announces it here without knowing whether a list view is mounted.
package bus

import (
	"sync"

	"github.com/google/uuid"

	"github.com/tally-fin/tally/internal/model"
)

// Kind names an event type on the bus.
type Kind string

// TransactionCreated carries a freshly persisted transaction.
const TransactionCreated Kind = "transaction-created"

// Event is a single broadcast payload.
type Event struct {
	Kind        Kind
	Transaction model.Transaction
}

// Handler receives events synchronously, on the publisher's goroutine.
// Handlers that feed an event loop should forward and return immediately.
type Handler func(Event)

// Bus fans events out to zero or many subscribers. Publishing never fails
// and never blocks waiting for a subscriber to exist.
type Bus struct {
	subs map[Kind]map[string]Handler
	mu   sync.RWMutex
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[Kind]map[string]Handler)}
}

// Subscribe registers a handler for one event kind and returns the token
// needed to unsubscribe.
func (b *Bus) Subscribe(kind Kind, h Handler) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	token := uuid.NewString()
	if b.subs[kind] == nil {
		b.subs[kind] = make(map[string]Handler)
	}
	b.subs[kind][token] = h
	return token
}

// Unsubscribe removes a subscription. Unknown tokens are ignored, so a
// double unsubscribe is harmless.
func (b *Bus) Unsubscribe(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, handlers := range b.subs {
		delete(handlers, token)
	}
}

// Publish delivers the event at most once to each current subscriber of its
// kind. Fire-and-forget: no subscribers is not an error.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[e.Kind]))
	for _, h := range b.subs[e.Kind] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
}
