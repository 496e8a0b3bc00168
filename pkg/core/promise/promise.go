package promise

import (
	"context"

	"github.com/iotaledger/hive.go/ds/orderedmap"
	"github.com/iotaledger/hive.go/runtime/syncutils"
)

// Promise is the eventual outcome of an operation that is either resolved with a result or rejected with an error.
type Promise[T any] struct {
	// successCallbacks are called when the promise is resolved.
	successCallbacks *orderedmap.OrderedMap[CallbackID, func(T)]

	// errorCallbacks are called when the promise is rejected.
	errorCallbacks *orderedmap.OrderedMap[CallbackID, func(error)]

	// completeCallbacks are called when the promise is resolved or rejected.
	completeCallbacks *orderedmap.OrderedMap[CallbackID, func()]

	// done is closed when the promise completes.
	done chan struct{}

	result   T
	err      error
	complete bool

	// mutex is used to synchronize access to the promise.
	mutex syncutils.RWMutex
}

// New creates a new promise.
func New[T any]() *Promise[T] {
	return &Promise[T]{
		successCallbacks:  orderedmap.New[CallbackID, func(T)](),
		errorCallbacks:    orderedmap.New[CallbackID, func(error)](),
		completeCallbacks: orderedmap.New[CallbackID, func()](),
		done:              make(chan struct{}),
	}
}

// Resolve resolves the promise with the given result. It returns false if the promise was already completed.
func (p *Promise[T]) Resolve(result T) bool {
	successCallbacks, _, completeCallbacks, completed := p.completeWith(result, nil)
	if !completed {
		return false
	}

	successCallbacks.ForEach(func(_ CallbackID, callback func(T)) bool {
		callback(result)

		return true
	})

	completeCallbacks.ForEach(func(_ CallbackID, callback func()) bool {
		callback()

		return true
	})

	return true
}

// Reject rejects the promise with the given error. It returns false if the promise was already completed.
func (p *Promise[T]) Reject(err error) bool {
	_, errorCallbacks, completeCallbacks, completed := p.completeWith(*new(T), err)
	if !completed {
		return false
	}

	errorCallbacks.ForEach(func(_ CallbackID, callback func(error)) bool {
		callback(err)

		return true
	})

	completeCallbacks.ForEach(func(_ CallbackID, callback func()) bool {
		callback()

		return true
	})

	return true
}

// OnSuccess registers a callback that is called when the promise is resolved. If the promise is already resolved, the
// callback is called immediately.
func (p *Promise[T]) OnSuccess(callback func(result T)) (cancel func()) {
	p.mutex.Lock()
	if !p.complete {
		defer p.mutex.Unlock()

		return register(p, p.successCallbacks, callback)
	}
	result, err := p.result, p.err
	p.mutex.Unlock()

	if err == nil {
		callback(result)
	}

	return func() {}
}

// OnError registers a callback that is called when the promise is rejected. If the promise is already rejected, the
// callback is called immediately.
func (p *Promise[T]) OnError(callback func(err error)) (cancel func()) {
	p.mutex.Lock()
	if !p.complete {
		defer p.mutex.Unlock()

		return register(p, p.errorCallbacks, callback)
	}
	err := p.err
	p.mutex.Unlock()

	if err != nil {
		callback(err)
	}

	return func() {}
}

// OnComplete registers a callback that is called when the promise is resolved or rejected. If the promise is already
// completed, the callback is called immediately.
func (p *Promise[T]) OnComplete(callback func()) (cancel func()) {
	p.mutex.Lock()
	if !p.complete {
		defer p.mutex.Unlock()

		return register(p, p.completeCallbacks, callback)
	}
	p.mutex.Unlock()

	callback()

	return func() {}
}

// Wait blocks until the promise completes or the context is done.
func (p *Promise[T]) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WaitComplete blocks until the promise completes.
func (p *Promise[T]) WaitComplete() {
	<-p.done
}

// Result returns the result and the error of the promise.
func (p *Promise[T]) Result() (result T, err error) {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	return p.result, p.err
}

// WasResolved returns true if the promise was resolved.
func (p *Promise[T]) WasResolved() bool {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	return p.complete && p.err == nil
}

// WasRejected returns true if the promise was rejected.
func (p *Promise[T]) WasRejected() bool {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	return p.complete && p.err != nil
}

// WasCompleted returns true if the promise was resolved or rejected.
func (p *Promise[T]) WasCompleted() bool {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	return p.complete
}

// completeWith stores the outcome and hands out the callbacks that need to be informed about it.
func (p *Promise[T]) completeWith(result T, err error) (successCallbacks *orderedmap.OrderedMap[CallbackID, func(T)], errorCallbacks *orderedmap.OrderedMap[CallbackID, func(error)], completeCallbacks *orderedmap.OrderedMap[CallbackID, func()], completed bool) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.complete {
		return nil, nil, nil, false
	}

	successCallbacks, errorCallbacks, completeCallbacks = p.successCallbacks, p.errorCallbacks, p.completeCallbacks

	p.successCallbacks = nil
	p.errorCallbacks = nil
	p.completeCallbacks = nil
	p.result = result
	p.err = err
	p.complete = true
	close(p.done)

	return successCallbacks, errorCallbacks, completeCallbacks, true
}

// register adds the callback to the given callbacks of a pending promise. It must be called under the lock.
func register[T any, C any](p *Promise[T], callbacks *orderedmap.OrderedMap[CallbackID, C], callback C) (cancel func()) {
	callbackID := NewCallbackID()
	callbacks.Set(callbackID, callback)

	return func() {
		p.mutex.Lock()
		defer p.mutex.Unlock()

		if !p.complete {
			callbacks.Delete(callbackID)
		}
	}
}
