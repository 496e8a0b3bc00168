package command

import "github.com/iotaledger/hive.go/runtime/event"

// Events contains the events of a command.
type Events struct {
	// CanExecuteChanged is triggered when the result of CanExecute might have changed.
	CanExecuteChanged *event.Event

	event.Group[Events, *Events]
}

// NewEvents contains the constructor of the Events object (it is generated by a generic factory).
var NewEvents = event.CreateGroupConstructor(func() *Events {
	return &Events{
		CanExecuteChanged: event.New(),
	}
})
