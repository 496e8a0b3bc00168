package promise

import "go.uber.org/atomic"

// CallbackID is an identifier for a callback.
type CallbackID = uint64

// NewCallbackID creates a new unique callback ID.
func NewCallbackID() CallbackID {
	return uniqueCallbackIDCounter.Inc()
}

// uniqueCallbackIDCounter is used to generate unique callback IDs.
var uniqueCallbackIDCounter atomic.Uint64
