package bindable

import (
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/venn/pkg/core/types"
	"github.com/iotaledger/venn/pkg/notifier"
)

// Property is a named value of an Object. Its changes are reported through the object and follow its suspension.
type Property[T any] struct {
	object *Object
	name   types.PropertyName
	value  T
}

// NewProperty defines a new property with the given name and initial value on the object.
func NewProperty[T any](o *Object, name types.PropertyName, initialValue T) (*Property[T], error) {
	if name.IsEmpty() {
		return nil, ierrors.Wrapf(notifier.ErrInvalidExpression, "empty property name on %s", o.name)
	}

	p := &Property[T]{
		object: o,
		name:   name,
		value:  initialValue,
	}

	if _, created := o.properties.GetOrCreate(name, func() any { return p }); !created {
		return nil, ierrors.Wrapf(notifier.ErrInvalidArgument, "property %s is already defined on %s", name, o.name)
	}

	return p, nil
}

// Name returns the name of the property.
func (p *Property[T]) Name() types.PropertyName {
	return p.name
}

// Get returns the current value of the property.
func (p *Property[T]) Get() T {
	return Read(p.object, &p.value)
}

// Set sets the value of the property and reports the change unless the value is equal to the current one.
func (p *Property[T]) Set(value T) (changed bool) {
	if changed = setProperty(p.object, &p.value, value, p.name); changed {
		p.object.emitter.Drain()
	}

	return changed
}

// Subscribe registers the callback for all future changes of the property. Every callback receives the values in
// the order they were set.
func (p *Property[T]) Subscribe(callback func(T)) (unsubscribe func(), err error) {
	if callback == nil {
		return nil, ierrors.Wrapf(notifier.ErrInvalidArgument, "listener of property %s must not be nil", p.name)
	}

	return subscribeProperty(p.object, committedValueFilter(p.name, p.Get, callback)), nil
}

// Observe registers the callback for the current value and all future changes of the property.
func (p *Property[T]) Observe(callback func(T)) (unsubscribe func(), err error) {
	if callback == nil {
		return nil, ierrors.Wrapf(notifier.ErrInvalidArgument, "observer of property %s must not be nil", p.name)
	}

	return observeProperty(p.object, p.name, p.peek, committedValueFilter(p.name, p.Get, callback)), nil
}

// peek returns the current value without locking the object.
func (p *Property[T]) peek() any {
	return p.value
}

func subscribeProperty(o *Object, listener func(propertyChange)) (unsubscribe func()) {
	return o.emitter.Subscribe(listener)
}

func observeProperty(o *Object, name types.PropertyName, peek func() any, listener func(propertyChange)) (unsubscribe func()) {
	unsubscribe = o.observeProperty(name, peek, listener)
	o.emitter.Drain()

	return unsubscribe
}

// committedValueFilter returns a listener that hands the committed value of the named property to the callback. Changes
// without a recorded value (RaisePropertyChanged) are read through the getter.
func committedValueFilter[T any](name types.PropertyName, getter func() T, callback func(T)) func(propertyChange) {
	return func(change propertyChange) {
		if change.name != name {
			return
		}

		if value, ok := change.value.(T); ok && change.hasValue {
			callback(value)

			return
		}

		callback(getter())
	}
}

// getterFilter returns a listener that reads the value through the getter whenever the named property changed.
func getterFilter[T any](name types.PropertyName, getter func() T, callback func(T)) func(propertyChange) {
	return func(change propertyChange) {
		if change.name == name {
			callback(getter())
		}
	}
}
