package notifier

import (
	"github.com/iotaledger/hive.go/ds/reactive"
)

// InheritFrom keeps the notifier in sync with the given reactive variable until the returned function is called.
func InheritFrom[T comparable](n *Notifier[T], source reactive.ReadableVariable[T]) (unsubscribe func()) {
	n.Set(source.Get())

	return source.OnUpdate(func(_ T, newValue T) {
		n.Set(newValue)
	})
}

// MirrorTo writes the current and all future values of the notifier into the given reactive variable until the
// returned function is called.
func MirrorTo[T comparable](n *Notifier[T], target reactive.Variable[T]) (unsubscribe func(), err error) {
	return n.Observe(func(value T) {
		target.Set(value)
	})
}
