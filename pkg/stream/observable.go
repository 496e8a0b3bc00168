package stream

// Observer receives the values of an Observable until the stream terminates with an error or completes.
type Observer[T any] struct {
	OnNext      func(T)
	OnError     func(error)
	OnCompleted func()
}

// NextObserver returns an Observer that only handles values.
func NextObserver[T any](onNext func(T)) Observer[T] {
	return Observer[T]{OnNext: onNext}
}

func (o Observer[T]) next(value T) {
	if o.OnNext != nil {
		o.OnNext(value)
	}
}

func (o Observer[T]) error(err error) {
	if o.OnError != nil {
		o.OnError(err)
	}
}

func (o Observer[T]) completed() {
	if o.OnCompleted != nil {
		o.OnCompleted()
	}
}

// Observable is a lazy stream of values. Every call to Subscribe starts a new, independent subscription.
type Observable[T any] interface {
	// Subscribe registers the observer and returns a function that ends the subscription.
	Subscribe(observer Observer[T]) (unsubscribe func(), err error)
}

// Source is a value that can be projected into an Observable.
type Source[T any] interface {
	// Get returns the current value.
	Get() T

	// Subscribe registers the callback for future changes of the value.
	Subscribe(callback func(T)) (unsubscribe func(), err error)

	// Observe registers the callback for the current value and all future changes.
	Observe(callback func(T)) (unsubscribe func(), err error)
}

// New creates an Observable from the given subscribe function.
func New[T any](subscribe func(observer Observer[T]) (unsubscribe func(), err error)) Observable[T] {
	return observableFunc[T](subscribe)
}

type observableFunc[T any] func(observer Observer[T]) (unsubscribe func(), err error)

func (o observableFunc[T]) Subscribe(observer Observer[T]) (unsubscribe func(), err error) {
	return o(observer)
}
