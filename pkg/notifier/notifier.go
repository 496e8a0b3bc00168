package notifier

import (
	"reflect"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/log"
	"github.com/iotaledger/hive.go/runtime/options"
	"github.com/iotaledger/hive.go/runtime/syncutils"
	"github.com/iotaledger/hive.go/stringify"
	"github.com/iotaledger/venn/pkg/core/emitter"
	"github.com/iotaledger/venn/pkg/core/types"
	"github.com/iotaledger/venn/pkg/metrics"
)

// ValuePropertyName is the name of the property that is reported by OnPropertyChanged.
const ValuePropertyName types.PropertyName = "Value"

// Notifier is a thread-safe value cell that notifies its listeners whenever the value changes and that can be
// suspended, in which case any number of changes collapse into a single notification on resume.
type Notifier[T any] struct {
	// Events contains the lifecycle events of the notifier.
	Events *Events

	// value holds the current value.
	value T

	// isSuspended is true while notifications are deferred.
	isSuspended bool

	// pendingChange is true if the value changed while the notifier was suspended.
	pendingChange bool

	// deferredObservers contains the observers that subscribed while suspended and still wait for their first value.
	deferredObservers []types.UniqueID

	// emitter delivers the committed values to the listeners.
	emitter *emitter.Emitter[T]

	// name is used to identify the notifier in logs and metrics.
	name string

	// equalFunc decides whether a new value differs from the current one.
	equalFunc func(a, b T) bool

	// nilAllowed permits an absent initial value.
	nilAllowed bool

	logger    log.Logger
	collector *metrics.Collector
	metrics   *metrics.NotifierReporter

	// mutex is used to synchronize access to the value and the suspension state.
	mutex syncutils.RWMutex
}

// New creates a new Notifier with the given initial value. It returns an ErrInvalidArgument if the initial value is
// absent (a nil pointer, map, slice, channel, function or interface) unless WithNilAllowed is used.
func New[T any](initialValue T, opts ...options.Option[Notifier[T]]) (*Notifier[T], error) {
	n := options.Apply(&Notifier[T]{
		Events:    NewEvents(),
		value:     initialValue,
		name:      "Notifier",
		equalFunc: func(a, b T) bool { return reflect.DeepEqual(a, b) },
	}, opts, func(n *Notifier[T]) {
		n.emitter = emitter.New[T](emitter.WithFailureHandler[T](n.onListenerFailed))
		n.metrics = metrics.NewNotifierReporter(n.collector, n.name)
	})

	if !n.nilAllowed && types.IsAbsent(initialValue) {
		return nil, ierrors.Wrapf(ErrInvalidArgument, "initial value of %s must not be nil", n.name)
	}

	return n, nil
}

// Wrap wraps the given value into a Notifier.
func Wrap[T any](value T, opts ...options.Option[Notifier[T]]) (*Notifier[T], error) {
	return New(value, opts...)
}

// MustNew creates a new Notifier and panics if the initial value is absent.
func MustNew[T any](initialValue T, opts ...options.Option[Notifier[T]]) *Notifier[T] {
	n, err := New(initialValue, opts...)
	if err != nil {
		panic(err)
	}

	return n
}

// Get returns the current value.
func (n *Notifier[T]) Get() T {
	n.mutex.RLock()
	defer n.mutex.RUnlock()

	return n.value
}

// Set sets the value and notifies the listeners unless the notifier is suspended. Setting a value that is equal to
// the current one is a no-op.
//
// Values set from within a listener are delivered after the current notification round completed. If another
// goroutine is delivering notifications at the same time, Set only commits the value and returns, and that goroutine
// delivers the notification after the ones committed before it.
func (n *Notifier[T]) Set(newValue T) (changed bool) {
	return n.Compute(func(T) T { return newValue })
}

// Compute atomically derives the new value from the current one. The compute function runs under the lock of the
// notifier and must not access the notifier itself.
func (n *Notifier[T]) Compute(computeFunc func(currentValue T) T) (changed bool) {
	newValue, listenerCount, changed := n.compute(computeFunc)
	if !changed {
		return false
	}

	n.emitter.Drain()

	if listenerCount != 0 && n.logger != nil {
		n.logger.LogTrace("value changed", "notifier", n.name, "value", newValue, "listeners", listenerCount)
	}

	return true
}

// Pause suspends the notifications until Resume is called. Calling Pause while suspended has no effect.
func (n *Notifier[T]) Pause() {
	if !n.suspend() {
		return
	}

	n.metrics.Suspended()
	n.Events.Suspended.Trigger()
}

// Resume ends the suspension and emits a single notification with the current value if it changed while suspended.
// Calling Resume while not suspended has no effect.
func (n *Notifier[T]) Resume() {
	resumed, flushed := n.resume()
	if !resumed {
		return
	}

	n.emitter.Drain()

	if flushed && n.logger != nil {
		n.logger.LogDebug("flushed collapsed change", "notifier", n.name)
	}

	n.Events.Resumed.Trigger()
}

// IsSuspended returns true if the notifier is suspended.
func (n *Notifier[T]) IsSuspended() bool {
	n.mutex.RLock()
	defer n.mutex.RUnlock()

	return n.isSuspended
}

// Subscribe registers the callback for all future changes of the value. The current value is not replayed.
func (n *Notifier[T]) Subscribe(callback func(T)) (unsubscribe func(), err error) {
	if callback == nil {
		return nil, ierrors.Wrapf(ErrInvalidArgument, "listener of %s must not be nil", n.name)
	}

	return n.emitter.Subscribe(callback), nil
}

// Observe registers the callback for the current value and all future changes. The current value is delivered
// before Observe returns unless the notifier is suspended, in which case it is delivered on resume.
func (n *Notifier[T]) Observe(callback func(T)) (unsubscribe func(), err error) {
	if callback == nil {
		return nil, ierrors.Wrapf(ErrInvalidArgument, "observer of %s must not be nil", n.name)
	}

	unsubscribe = n.observe(callback)
	n.emitter.Drain()

	return unsubscribe, nil
}

// OnPropertyChanged registers the callback to be informed about future changes with the name of the property.
func (n *Notifier[T]) OnPropertyChanged(callback func(types.PropertyName)) (unsubscribe func(), err error) {
	if callback == nil {
		return nil, ierrors.Wrapf(ErrInvalidArgument, "property listener of %s must not be nil", n.name)
	}

	return n.Subscribe(func(T) { callback(ValuePropertyName) })
}

// ListenerCount returns the number of registered listeners.
func (n *Notifier[T]) ListenerCount() int {
	return n.emitter.ListenerCount()
}

// Name returns the name of the notifier.
func (n *Notifier[T]) Name() string {
	return n.name
}

func (n *Notifier[T]) String() string {
	n.mutex.RLock()
	defer n.mutex.RUnlock()

	return stringify.Struct("Notifier",
		stringify.NewStructField("Name", n.name),
		stringify.NewStructField("Value", n.value),
		stringify.NewStructField("IsSuspended", n.isSuspended),
		stringify.NewStructField("PendingChange", n.pendingChange),
	)
}

// compute decides under the lock whether the value changes and enqueues the resulting notification.
func (n *Notifier[T]) compute(computeFunc func(currentValue T) T) (newValue T, listenerCount int, changed bool) {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	if newValue = computeFunc(n.value); n.equalFunc(n.value, newValue) {
		return newValue, 0, false
	}

	n.value = newValue

	if n.isSuspended {
		n.pendingChange = true
		n.metrics.ChangeCollapsed()

		return newValue, 0, true
	}

	listenerCount = n.emitter.Enqueue(newValue)
	n.metrics.NotificationsDelivered(listenerCount)

	return newValue, listenerCount, true
}

func (n *Notifier[T]) suspend() (suspended bool) {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	if n.isSuspended {
		return false
	}

	n.isSuspended = true

	return true
}

func (n *Notifier[T]) resume() (resumed bool, flushed bool) {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	if !n.isSuspended {
		return false, false
	}

	n.isSuspended = false

	if n.pendingChange {
		n.pendingChange = false
		n.metrics.NotificationsDelivered(n.emitter.Enqueue(n.value))

		flushed = true
	} else if len(n.deferredObservers) != 0 {
		n.metrics.NotificationsDelivered(n.emitter.EnqueueTo(n.value, n.deferredObservers...))
	}

	n.deferredObservers = nil

	return true, flushed
}

func (n *Notifier[T]) observe(callback func(T)) (unsubscribe func()) {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	if !n.isSuspended {
		return n.emitter.SubscribeWithInitialValue(callback, n.value)
	}

	id, unsubscribe := n.emitter.Register(callback)
	n.deferredObservers = append(n.deferredObservers, id)

	return unsubscribe
}

func (n *Notifier[T]) onListenerFailed(err error) {
	err = ierrors.Join(ErrListenerFailure, err)

	if n.logger != nil {
		n.logger.LogError("listener failed", "notifier", n.name, "err", err)
	}

	n.metrics.ListenerFailed()
	n.Events.ListenerFailed.Trigger(err)
}
