package bindable

import (
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/venn/pkg/core/types"
	"github.com/iotaledger/venn/pkg/notifier"
	"github.com/iotaledger/venn/pkg/stream"
)

// WhenAny returns an Observable of the values the getter reads whenever the named property changed. The getter runs
// when the change is delivered, so a stream over a Property should use the Property itself as stream.Source to receive
// every set value.
func WhenAny[R any](o *Object, name types.PropertyName, getter func() R) (stream.Observable[R], error) {
	source, err := newPropertySource(o, name, getter)
	if err != nil {
		return nil, err
	}

	return stream.WhenAny[R, R](source, stream.Identity[R]())
}

// WhenAnyValue works like WhenAny but additionally delivers the current value to every new subscriber.
func WhenAnyValue[R any](o *Object, name types.PropertyName, getter func() R) (stream.Observable[R], error) {
	source, err := newPropertySource(o, name, getter)
	if err != nil {
		return nil, err
	}

	return stream.WhenAnyValue[R, R](source, stream.Identity[R]())
}

// propertySource exposes a named property of an object, read through a getter, as a stream.Source.
type propertySource[R any] struct {
	object *Object
	name   types.PropertyName
	getter func() R
}

func newPropertySource[R any](o *Object, name types.PropertyName, getter func() R) (*propertySource[R], error) {
	if o == nil {
		return nil, ierrors.Wrap(notifier.ErrInvalidArgument, "object must not be nil")
	}

	if name.IsEmpty() {
		return nil, ierrors.Wrapf(notifier.ErrInvalidExpression, "empty property name on %s", o.name)
	}

	if getter == nil {
		return nil, ierrors.Wrapf(notifier.ErrInvalidArgument, "getter of property %s must not be nil", name)
	}

	return &propertySource[R]{
		object: o,
		name:   name,
		getter: getter,
	}, nil
}

func (p *propertySource[R]) Get() R {
	return p.getter()
}

func (p *propertySource[R]) Subscribe(callback func(R)) (unsubscribe func(), err error) {
	if callback == nil {
		return nil, ierrors.Wrapf(notifier.ErrInvalidArgument, "listener of property %s must not be nil", p.name)
	}

	return subscribeProperty(p.object, getterFilter(p.name, p.getter, callback)), nil
}

func (p *propertySource[R]) Observe(callback func(R)) (unsubscribe func(), err error) {
	if callback == nil {
		return nil, ierrors.Wrapf(notifier.ErrInvalidArgument, "observer of property %s must not be nil", p.name)
	}

	return observeProperty(p.object, p.name, nil, getterFilter(p.name, p.getter, callback)), nil
}
