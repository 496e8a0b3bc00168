package notifier

import "github.com/iotaledger/hive.go/runtime/event"

// Events contains the lifecycle events of a suspendable object.
type Events struct {
	// Suspended is triggered when the object transitions into the suspended state.
	Suspended *event.Event

	// Resumed is triggered after the object left the suspended state and flushed its pending change.
	Resumed *event.Event

	// ListenerFailed is triggered with an ErrListenerFailure when a listener panicked.
	ListenerFailed *event.Event1[error]

	event.Group[Events, *Events]
}

// NewEvents contains the constructor of the Events object (it is generated by a generic factory).
var NewEvents = event.CreateGroupConstructor(func() *Events {
	return &Events{
		Suspended:      event.New(),
		Resumed:        event.New(),
		ListenerFailed: event.New1[error](),
	}
})
