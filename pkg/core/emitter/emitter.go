package emitter

import (
	"github.com/iotaledger/hive.go/ds/orderedmap"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/runtime/options"
	"github.com/iotaledger/hive.go/runtime/syncutils"
	"github.com/iotaledger/venn/pkg/core/types"
)

// ErrListenerPanicked is returned (wrapped) to the failure handler when a callback panics during an emission.
var ErrListenerPanicked = ierrors.New("listener panicked")

// Emitter is an ordered registry of callbacks that delivers emissions in the order they were committed.
//
// Owners decide what to emit under their own lock by calling Enqueue (or SubscribeWithInitialValue) and deliver
// the queued emissions after releasing it by calling Drain. Only one goroutine drains at a time, so emissions
// that are enqueued while a drain is in progress (including re-entrant ones from within a callback) are delivered
// by the draining goroutine after the current round completed.
type Emitter[T any] struct {
	// callbacks holds the registered callbacks in the order of their registration.
	callbacks *orderedmap.OrderedMap[types.UniqueID, *callback[T]]

	// uniqueCallbackID is used to derive a unique identifier for each callback.
	uniqueCallbackID types.UniqueID

	// queue holds the emissions that were committed but not delivered yet.
	queue []*emission[T]

	// draining is true while a goroutine is delivering the queued emissions.
	draining bool

	// failureHandler is called with the error of a callback that panicked.
	failureHandler func(err error)

	// mutex is used to synchronize access to the callbacks and the queue.
	mutex syncutils.Mutex
}

// New creates a new Emitter.
func New[T any](opts ...options.Option[Emitter[T]]) *Emitter[T] {
	return options.Apply(&Emitter[T]{
		callbacks: orderedmap.New[types.UniqueID, *callback[T]](),
	}, opts)
}

// Subscribe registers the given callback for all emissions that are enqueued after the call.
func (e *Emitter[T]) Subscribe(invoke func(T)) (unsubscribe func()) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	_, unsubscribe = e.register(invoke)

	return unsubscribe
}

// Register works like Subscribe but also returns the identifier of the callback that can be passed to EnqueueTo.
func (e *Emitter[T]) Register(invoke func(T)) (id types.UniqueID, unsubscribe func()) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	createdCallback, unsubscribe := e.register(invoke)

	return createdCallback.ID, unsubscribe
}

// SubscribeWithInitialValue registers the given callback and enqueues the initial value for it alone, so that it
// is delivered before any emission that is enqueued later. It must be called while holding the owner's lock.
func (e *Emitter[T]) SubscribeWithInitialValue(invoke func(T), initialValue T) (unsubscribe func()) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	createdCallback, unsubscribe := e.register(invoke)
	e.queue = append(e.queue, &emission[T]{
		value:     initialValue,
		callbacks: []*callback[T]{createdCallback},
	})

	return unsubscribe
}

// Enqueue commits an emission of the given value to all currently registered callbacks and returns the number of
// callbacks that will receive it. It must be called while holding the owner's lock.
func (e *Emitter[T]) Enqueue(value T) (listenerCount int) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	callbacks := e.snapshot()
	if len(callbacks) != 0 {
		e.queue = append(e.queue, &emission[T]{
			value:     value,
			callbacks: callbacks,
		})
	}

	return len(callbacks)
}

// EnqueueTo commits an emission of the given value to the still registered callbacks with the given identifiers.
// It must be called while holding the owner's lock.
func (e *Emitter[T]) EnqueueTo(value T, ids ...types.UniqueID) (listenerCount int) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	targets := make(map[types.UniqueID]bool, len(ids))
	for _, id := range ids {
		targets[id] = true
	}

	var callbacks []*callback[T]
	for _, registeredCallback := range e.snapshot() {
		if targets[registeredCallback.ID] {
			callbacks = append(callbacks, registeredCallback)
		}
	}

	if len(callbacks) != 0 {
		e.queue = append(e.queue, &emission[T]{
			value:     value,
			callbacks: callbacks,
		})
	}

	return len(callbacks)
}

// Drain delivers the queued emissions unless another goroutine is already delivering them. It must be called
// without holding the owner's lock.
func (e *Emitter[T]) Drain() {
	if !e.startDraining() {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			e.stopDraining()

			panic(r)
		}
	}()

	for nextEmission := e.dequeue(); nextEmission != nil; nextEmission = e.dequeue() {
		for _, registeredCallback := range nextEmission.callbacks {
			e.invoke(registeredCallback, nextEmission.value)
		}
	}
}

// ListenerCount returns the number of registered callbacks.
func (e *Emitter[T]) ListenerCount() (count int) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	e.callbacks.ForEach(func(types.UniqueID, *callback[T]) bool {
		count++

		return true
	})

	return count
}

// register adds the callback to the registry and returns it together with its unsubscribe function.
func (e *Emitter[T]) register(invoke func(T)) (createdCallback *callback[T], unsubscribe func()) {
	createdCallback = newCallback(e.uniqueCallbackID.Next(), invoke)
	e.callbacks.Set(createdCallback.ID, createdCallback)

	return createdCallback, func() {
		if !createdCallback.MarkUnsubscribed() {
			return
		}

		e.mutex.Lock()
		defer e.mutex.Unlock()

		e.callbacks.Delete(createdCallback.ID)
	}
}

// snapshot returns the currently registered callbacks in registration order.
func (e *Emitter[T]) snapshot() (callbacks []*callback[T]) {
	e.callbacks.ForEach(func(_ types.UniqueID, registeredCallback *callback[T]) bool {
		callbacks = append(callbacks, registeredCallback)

		return true
	})

	return callbacks
}

// invoke calls the callback with the given value and reports a panic to the failure handler.
func (e *Emitter[T]) invoke(registeredCallback *callback[T], value T) {
	if registeredCallback.IsUnsubscribed() {
		return
	}

	if err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = ierrors.Wrapf(ErrListenerPanicked, "callback %d: %v", registeredCallback.ID, r)
			}
		}()

		registeredCallback.Invoke(value)

		return nil
	}(); err != nil && e.failureHandler != nil {
		e.failureHandler(err)
	}
}

// startDraining claims the drain and returns false if there is nothing to drain or another goroutine drains.
func (e *Emitter[T]) startDraining() bool {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if e.draining || len(e.queue) == 0 {
		return false
	}

	e.draining = true

	return true
}

// stopDraining releases the drain.
func (e *Emitter[T]) stopDraining() {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	e.draining = false
}

// dequeue returns the next emission or releases the drain and returns nil if the queue is empty.
func (e *Emitter[T]) dequeue() *emission[T] {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if len(e.queue) == 0 {
		e.draining = false

		return nil
	}

	nextEmission := e.queue[0]
	e.queue[0] = nil
	e.queue = e.queue[1:]

	return nextEmission
}

// emission is a committed value together with the callbacks that were registered at commit time.
type emission[T any] struct {
	value     T
	callbacks []*callback[T]
}

// WithFailureHandler sets the handler that is called with the error of a callback that panicked.
func WithFailureHandler[T any](handler func(err error)) options.Option[Emitter[T]] {
	return func(e *Emitter[T]) {
		e.failureHandler = handler
	}
}
