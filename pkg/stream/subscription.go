package stream

import (
	"go.uber.org/atomic"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/runtime/syncutils"
	"github.com/iotaledger/venn/pkg/core/types"
	"github.com/iotaledger/venn/pkg/notifier"
)

// subscription connects a single observer to a source through a projection. A projection that panics or returns an
// error terminates the subscription.
type subscription[T, R any] struct {
	observer Observer[R]

	// projection returns the projected value and whether it is forwarded to the observer.
	projection func(T) (R, bool, error)
	skipAbsent bool

	// terminated is set once the subscription was disposed or failed.
	terminated atomic.Bool

	unsubscribeSource func()
	mutex             syncutils.Mutex
}

func newSubscription[T, R any](observer Observer[R], projection func(T) (R, bool, error), skipAbsent bool) *subscription[T, R] {
	return &subscription[T, R]{
		observer:   observer,
		projection: projection,
		skipAbsent: skipAbsent,
	}
}

// start subscribes to the source. A projection that already fails for the initial value terminates the
// subscription before start returns.
func (s *subscription[T, R]) start(subscribe func(func(T)) (func(), error)) (unsubscribe func(), err error) {
	unsubscribeSource, err := subscribe(s.onValue)
	if err != nil {
		return nil, err
	}

	s.mutex.Lock()
	if s.terminated.Load() {
		s.mutex.Unlock()
		unsubscribeSource()

		return s.dispose, nil
	}
	s.unsubscribeSource = unsubscribeSource
	s.mutex.Unlock()

	return s.dispose, nil
}

func (s *subscription[T, R]) onValue(value T) {
	if s.terminated.Load() || (s.skipAbsent && types.IsAbsent(value)) {
		return
	}

	projectedValue, forward, err := s.project(value)
	if err != nil {
		s.fail(err)

		return
	}

	if forward {
		s.observer.next(projectedValue)
	}
}

// onError forwards the terminal error of an upstream Observable.
func (s *subscription[T, R]) onError(err error) {
	if s.terminated.Swap(true) {
		return
	}

	s.releaseSource()
	s.observer.error(err)
}

// onCompleted forwards the completion of an upstream Observable.
func (s *subscription[T, R]) onCompleted() {
	if s.terminated.Swap(true) {
		return
	}

	s.releaseSource()
	s.observer.completed()
}

func (s *subscription[T, R]) project(value T) (projectedValue R, forward bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ierrors.Errorf("projection panicked: %v", r)
		}
	}()

	return s.projection(value)
}

func (s *subscription[T, R]) fail(err error) {
	if s.terminated.Swap(true) {
		return
	}

	s.releaseSource()
	s.observer.error(ierrors.Join(notifier.ErrProjectionFailure, err))
}

func (s *subscription[T, R]) dispose() {
	s.terminated.Store(true)
	s.releaseSource()
}

func (s *subscription[T, R]) releaseSource() {
	s.mutex.Lock()
	unsubscribeSource := s.unsubscribeSource
	s.unsubscribeSource = nil
	s.mutex.Unlock()

	if unsubscribeSource != nil {
		unsubscribeSource()
	}
}
