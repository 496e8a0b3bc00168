package command

import (
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/runtime/options"
	"github.com/iotaledger/hive.go/runtime/syncutils"
	"github.com/iotaledger/venn/pkg/notifier"
)

// Command is an action with a parameter of type T that can be enabled and disabled.
type Command[T any] struct {
	// Events contains the events of the command.
	Events *Events

	execute    func(T)
	canExecute func(T) bool

	// invalidator subscribes an external source that asks the command to re-evaluate CanExecute.
	invalidator func(invalidate func()) (unsubscribe func())

	unsubscribeInvalidator func()

	mutex syncutils.Mutex
}

// New creates a new Command that runs the given function.
func New[T any](execute func(T), opts ...options.Option[Command[T]]) (*Command[T], error) {
	if execute == nil {
		return nil, ierrors.Wrap(notifier.ErrInvalidArgument, "execute function must not be nil")
	}

	return options.Apply(&Command[T]{
		Events:     NewEvents(),
		execute:    execute,
		canExecute: func(T) bool { return true },
	}, opts, func(c *Command[T]) {
		if c.invalidator != nil {
			c.unsubscribeInvalidator = c.invalidator(c.RaiseCanExecuteChanged)
		}
	}), nil
}

// CanExecute returns true if the command can be executed with the given parameter.
func (c *Command[T]) CanExecute(parameter T) bool {
	return c.canExecute(parameter)
}

// Execute runs the command with the given parameter or returns ErrCannotExecute.
func (c *Command[T]) Execute(parameter T) error {
	if !c.CanExecute(parameter) {
		return ErrCannotExecute
	}

	c.execute(parameter)

	return nil
}

// RaiseCanExecuteChanged informs the subscribers of CanExecuteChanged that CanExecute needs to be re-evaluated.
func (c *Command[T]) RaiseCanExecuteChanged() {
	c.Events.CanExecuteChanged.Trigger()
}

// Dispose detaches the command from its invalidator.
func (c *Command[T]) Dispose() {
	c.mutex.Lock()
	unsubscribe := c.unsubscribeInvalidator
	c.unsubscribeInvalidator = nil
	c.mutex.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// WithCanExecute sets the function that decides whether the command can be executed.
func WithCanExecute[T any](canExecute func(T) bool) options.Option[Command[T]] {
	return func(c *Command[T]) {
		c.canExecute = canExecute
	}
}

// WithInvalidator connects the command to an external source that can ask it to re-evaluate CanExecute. The
// subscribe function receives the callback to invoke and returns the function that ends the subscription.
func WithInvalidator[T any](subscribe func(invalidate func()) (unsubscribe func())) options.Option[Command[T]] {
	return func(c *Command[T]) {
		c.invalidator = subscribe
	}
}
