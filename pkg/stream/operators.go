package stream

import (
	"github.com/iotaledger/hive.go/lo"
)

// Map returns an Observable that transforms the values of the source with the given function. A transform that
// panics terminates the subscription with an ErrProjectionFailure.
func Map[T, R any](source Observable[T], transform func(T) R) Observable[R] {
	return New(func(observer Observer[R]) (unsubscribe func(), err error) {
		return operate(source, observer, func(value T) (R, bool, error) {
			return transform(value), true, nil
		})
	})
}

// Filter returns an Observable that only forwards the values of the source that satisfy the predicate. A predicate
// that panics terminates the subscription with an ErrProjectionFailure.
func Filter[T any](source Observable[T], predicate func(T) bool) Observable[T] {
	return New(func(observer Observer[T]) (unsubscribe func(), err error) {
		return operate(source, observer, func(value T) (T, bool, error) {
			return value, predicate(value), nil
		})
	})
}

// DistinctUntilChanged returns an Observable that drops values equal to their predecessor.
func DistinctUntilChanged[T comparable](source Observable[T]) Observable[T] {
	return New(func(observer Observer[T]) (unsubscribe func(), err error) {
		var (
			lastValue T
			hasValue  bool
		)

		return operate(source, observer, func(value T) (T, bool, error) {
			if hasValue && lastValue == value {
				return value, false, nil
			}

			lastValue, hasValue = value, true

			return value, true, nil
		})
	})
}

// Merge returns an Observable that forwards the values of all sources. A failing source terminates only its own part.
func Merge[T any](sources ...Observable[T]) Observable[T] {
	return New(func(observer Observer[T]) (unsubscribe func(), err error) {
		unsubscribeAll := make([]func(), 0, len(sources))

		for _, source := range sources {
			unsubscribeSource, subscribeErr := source.Subscribe(Observer[T]{
				OnNext:  observer.OnNext,
				OnError: observer.OnError,
			})
			if subscribeErr != nil {
				lo.Batch(unsubscribeAll...)()

				return nil, subscribeErr
			}

			unsubscribeAll = append(unsubscribeAll, unsubscribeSource)
		}

		return lo.Batch(unsubscribeAll...), nil
	})
}

// operate subscribes the observer to the source through the given projection. Errors and the completion of the source
// are forwarded and end the subscription.
func operate[T, R any](source Observable[T], observer Observer[R], projection func(T) (R, bool, error)) (unsubscribe func(), err error) {
	s := newSubscription(observer, projection, false)

	return s.start(func(onValue func(T)) (func(), error) {
		return source.Subscribe(Observer[T]{
			OnNext:      onValue,
			OnError:     s.onError,
			OnCompleted: s.onCompleted,
		})
	})
}
