package emitter

import (
	"go.uber.org/atomic"

	"github.com/iotaledger/venn/pkg/core/types"
)

// callback is an internal wrapper for a callback function that is extended by an ID and an unsubscribed flag.
type callback[T any] struct {
	// ID is the unique identifier of the callback.
	ID types.UniqueID

	// Invoke is the callback function that is invoked when the callback is triggered.
	Invoke func(T)

	// unsubscribed is a flag that indicates whether the callback was unsubscribed.
	unsubscribed atomic.Bool
}

// newCallback is the constructor for the callback type.
func newCallback[T any](id types.UniqueID, invoke func(T)) *callback[T] {
	return &callback[T]{
		ID:     id,
		Invoke: invoke,
	}
}

// IsUnsubscribed returns true if the callback was unsubscribed and must no longer be triggered.
func (c *callback[T]) IsUnsubscribed() bool {
	return c.unsubscribed.Load()
}

// MarkUnsubscribed marks the callback as unsubscribed and returns true if it was not marked before.
func (c *callback[T]) MarkUnsubscribed() bool {
	return !c.unsubscribed.Swap(true)
}
