package stream

import (
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/venn/pkg/core/types"
	"github.com/iotaledger/venn/pkg/notifier"
)

// WhenAny projects every future change of the source into an Observable. Absent values (nil pointers, maps,
// slices, channels, functions or interfaces) are skipped.
func WhenAny[T, R any](source Source[T], projection func(T) R) (Observable[R], error) {
	if projection == nil {
		return nil, ierrors.Wrap(notifier.ErrInvalidArgument, "projection must not be nil")
	}

	return WhenAnyE(source, infallible(projection))
}

// WhenAnyE works like WhenAny but accepts a projection that can fail.
func WhenAnyE[T, R any](source Source[T], projection func(T) (R, error)) (Observable[R], error) {
	if err := validate(source, projection); err != nil {
		return nil, err
	}

	return New(func(observer Observer[R]) (unsubscribe func(), err error) {
		return newSubscription(observer, forwarding(projection), true).start(source.Subscribe)
	}), nil
}

// WhenAnyValue projects the current value of the source and all its future changes into an Observable. The projection
// of the current value is delivered to every new subscriber before Subscribe returns, unless the source is
// suspended, in which case it is delivered on resume.
func WhenAnyValue[T, R any](source Source[T], projection func(T) R) (Observable[R], error) {
	if projection == nil {
		return nil, ierrors.Wrap(notifier.ErrInvalidArgument, "projection must not be nil")
	}

	return WhenAnyValueE(source, infallible(projection))
}

// WhenAnyValueE works like WhenAnyValue but accepts a projection that can fail.
func WhenAnyValueE[T, R any](source Source[T], projection func(T) (R, error)) (Observable[R], error) {
	if err := validate(source, projection); err != nil {
		return nil, err
	}

	return New(func(observer Observer[R]) (unsubscribe func(), err error) {
		return newSubscription(observer, forwarding(projection), false).start(source.Observe)
	}), nil
}

// Identity returns a projection that returns its input.
func Identity[T any]() func(T) T {
	return func(value T) T {
		return value
	}
}

// forwarding adapts a fallible projection to a subscription that forwards every projected value.
func forwarding[T, R any](projection func(T) (R, error)) func(T) (R, bool, error) {
	return func(value T) (R, bool, error) {
		projectedValue, err := projection(value)

		return projectedValue, true, err
	}
}

func infallible[T, R any](projection func(T) R) func(T) (R, error) {
	return func(value T) (R, error) {
		return projection(value), nil
	}
}

func validate[T, R any](source Source[T], projection func(T) (R, error)) error {
	if types.IsAbsent(source) {
		return ierrors.Wrap(notifier.ErrInvalidArgument, "source must not be nil")
	}

	if projection == nil {
		return ierrors.Wrap(notifier.ErrInvalidArgument, "projection must not be nil")
	}

	return nil
}
