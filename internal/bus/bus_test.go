package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tally-fin/tally/internal/model"
)

func TestBus_PublishWithNoSubscribers(t *testing.T) {
	b := New()

	// Must be fire-and-forget: no panic, no block.
	b.Publish(Event{Kind: TransactionCreated, Transaction: model.Transaction{ID: "1"}})
}

func TestBus_DeliversOncePerSubscriberPerPublish(t *testing.T) {
	b := New()

	var first, second []string
	b.Subscribe(TransactionCreated, func(e Event) {
		first = append(first, e.Transaction.ID)
	})
	b.Subscribe(TransactionCreated, func(e Event) {
		second = append(second, e.Transaction.ID)
	})

	b.Publish(Event{Kind: TransactionCreated, Transaction: model.Transaction{ID: "a"}})
	b.Publish(Event{Kind: TransactionCreated, Transaction: model.Transaction{ID: "b"}})

	assert.Equal(t, []string{"a", "b"}, first)
	assert.Equal(t, []string{"a", "b"}, second)
}

func TestBus_UnsubscribeStopsDelivery(t *testing.T) {
	b := New()

	var got int
	token := b.Subscribe(TransactionCreated, func(Event) { got++ })

	b.Publish(Event{Kind: TransactionCreated})
	b.Unsubscribe(token)
	b.Publish(Event{Kind: TransactionCreated})

	assert.Equal(t, 1, got)

	// Double unsubscribe is harmless.
	b.Unsubscribe(token)
}

func TestBus_KindsAreIsolated(t *testing.T) {
	b := New()

	var got int
	b.Subscribe(TransactionCreated, func(Event) { got++ })

	b.Publish(Event{Kind: Kind("something-else")})

	assert.Zero(t, got)
}
