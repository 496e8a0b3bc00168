package bindable

import (
	"reflect"

	"github.com/iotaledger/hive.go/ds/orderedmap"
	"github.com/iotaledger/hive.go/ds/shrinkingmap"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/log"
	"github.com/iotaledger/hive.go/runtime/options"
	"github.com/iotaledger/hive.go/runtime/syncutils"
	"github.com/iotaledger/hive.go/stringify"
	"github.com/iotaledger/venn/pkg/core/emitter"
	"github.com/iotaledger/venn/pkg/core/types"
	"github.com/iotaledger/venn/pkg/metrics"
	"github.com/iotaledger/venn/pkg/notifier"
)

// Object is the base of a view-model whose properties report their changes by name. While the object is suspended,
// the names of the changed properties are recorded and Resume emits exactly one notification per distinct name in
// the order of their first change.
type Object struct {
	// Events contains the lifecycle events of the object.
	Events *notifier.Events

	// isSuspended is true while notifications are deferred.
	isSuspended bool

	// pendingProperties contains the latest change of every property that changed while suspended.
	pendingProperties *orderedmap.OrderedMap[types.PropertyName, *propertyChange]

	// deferredObservers contains the observers that subscribed while suspended and still wait for their first value.
	deferredObservers []*deferredObserver

	// properties contains the properties that were defined with NewProperty.
	properties *shrinkingmap.ShrinkingMap[types.PropertyName, any]

	// emitter delivers the committed property changes.
	emitter *emitter.Emitter[propertyChange]

	name      string
	logger    log.Logger
	collector *metrics.Collector
	metrics   *metrics.NotifierReporter

	// mutex guards the suspension state and the values of all properties of the object.
	mutex syncutils.RWMutex
}

// New creates a new Object.
func New(opts ...options.Option[Object]) *Object {
	return options.Apply(&Object{
		Events:            notifier.NewEvents(),
		pendingProperties: orderedmap.New[types.PropertyName, *propertyChange](),
		properties:        shrinkingmap.New[types.PropertyName, any](),
		name:              "Object",
	}, opts, func(o *Object) {
		o.emitter = emitter.New[propertyChange](emitter.WithFailureHandler[propertyChange](o.onListenerFailed))
		o.metrics = metrics.NewNotifierReporter(o.collector, o.name)
	})
}

// Pause suspends the notifications until Resume is called. Calling Pause while suspended has no effect.
func (o *Object) Pause() {
	if !o.suspend() {
		return
	}

	o.metrics.Suspended()
	o.Events.Suspended.Trigger()
}

// Resume ends the suspension and emits one notification for every property that changed while suspended.
func (o *Object) Resume() {
	flushedProperties, resumed := o.resume()
	if !resumed {
		return
	}

	o.emitter.Drain()

	if flushedProperties != 0 && o.logger != nil {
		o.logger.LogDebug("flushed collapsed changes", "object", o.name, "properties", flushedProperties)
	}

	o.Events.Resumed.Trigger()
}

// IsSuspended returns true if the object is suspended.
func (o *Object) IsSuspended() bool {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	return o.isSuspended
}

// RaisePropertyChanged reports a change of the named property.
func (o *Object) RaisePropertyChanged(name types.PropertyName) error {
	if name.IsEmpty() {
		return ierrors.Wrapf(notifier.ErrInvalidExpression, "empty property name on %s", o.name)
	}

	o.mutex.Lock()
	o.raisePropertyChanged(propertyChange{name: name})
	o.mutex.Unlock()

	o.emitter.Drain()

	return nil
}

// OnPropertyChanged registers the callback for the names of all future property changes.
func (o *Object) OnPropertyChanged(callback func(name types.PropertyName)) (unsubscribe func(), err error) {
	if callback == nil {
		return nil, ierrors.Wrapf(notifier.ErrInvalidArgument, "property listener of %s must not be nil", o.name)
	}

	return o.emitter.Subscribe(func(change propertyChange) { callback(change.name) }), nil
}

// Properties returns the names of the properties that were defined with NewProperty.
func (o *Object) Properties() []types.PropertyName {
	return o.properties.Keys()
}

// HasProperty returns true if a property with the given name was defined with NewProperty.
func (o *Object) HasProperty(name types.PropertyName) bool {
	return o.properties.Has(name)
}

func (o *Object) String() string {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	return stringify.Struct("Object",
		stringify.NewStructField("Name", o.name),
		stringify.NewStructField("Properties", o.properties.Size()),
		stringify.NewStructField("IsSuspended", o.isSuspended),
		stringify.NewStructField("PendingProperties", o.pendingPropertyNames()),
	)
}

// SetProperty stores the value in the storage of the named property and reports the change, unless the value is equal
// to the stored one. The storage must only be accessed through the object (i.e. SetProperty and Read).
func SetProperty[T any](o *Object, storage *T, value T, name types.PropertyName) (changed bool, err error) {
	if name.IsEmpty() {
		return false, ierrors.Wrapf(notifier.ErrInvalidExpression, "empty property name on %s", o.name)
	}

	if storage == nil {
		return false, ierrors.Wrapf(notifier.ErrInvalidArgument, "storage of property %s must not be nil", name)
	}

	if changed = setProperty(o, storage, value, name); changed {
		o.emitter.Drain()
	}

	return changed, nil
}

// Read returns the value of the given storage under the lock of the object.
func Read[T any](o *Object, storage *T) T {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	return *storage
}

func setProperty[T any](o *Object, storage *T, value T, name types.PropertyName) bool {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if reflect.DeepEqual(*storage, value) {
		return false
	}

	*storage = value
	o.raisePropertyChanged(propertyChange{name: name, value: value, hasValue: true})

	return true
}

// raisePropertyChanged records or enqueues the given change. It must be called under the lock.
func (o *Object) raisePropertyChanged(change propertyChange) {
	if o.isSuspended {
		if pendingChange, exists := o.pendingProperties.Get(change.name); exists {
			pendingChange.value, pendingChange.hasValue = change.value, change.hasValue
		} else {
			o.pendingProperties.Set(change.name, &change)
		}

		o.metrics.ChangeCollapsed()

		return
	}

	o.metrics.NotificationsDelivered(o.emitter.Enqueue(change))
}

// observeProperty registers the listener for changes of the named property and enqueues an initial change for it,
// unless the object is suspended, in which case the initial change is deferred to Resume. The optional peek function
// reads the current value and is called under the lock.
func (o *Object) observeProperty(name types.PropertyName, peek func() any, listener func(propertyChange)) (unsubscribe func()) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if !o.isSuspended {
		return o.emitter.SubscribeWithInitialValue(listener, currentChange(name, peek))
	}

	id, unsubscribe := o.emitter.Register(listener)
	o.deferredObservers = append(o.deferredObservers, &deferredObserver{id: id, property: name, peek: peek})

	return unsubscribe
}

func (o *Object) suspend() (suspended bool) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if o.isSuspended {
		return false
	}

	o.isSuspended = true

	return true
}

func (o *Object) resume() (flushedProperties int, resumed bool) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if !o.isSuspended {
		return 0, false
	}

	o.isSuspended = false

	o.pendingProperties.ForEach(func(_ types.PropertyName, change *propertyChange) bool {
		o.metrics.NotificationsDelivered(o.emitter.Enqueue(*change))
		flushedProperties++

		return true
	})

	for _, observer := range o.deferredObservers {
		if !o.pendingProperties.Has(observer.property) {
			o.metrics.NotificationsDelivered(o.emitter.EnqueueTo(currentChange(observer.property, observer.peek), observer.id))
		}
	}

	o.pendingProperties = orderedmap.New[types.PropertyName, *propertyChange]()
	o.deferredObservers = nil

	return flushedProperties, true
}

func (o *Object) onListenerFailed(err error) {
	err = ierrors.Join(notifier.ErrListenerFailure, err)

	if o.logger != nil {
		o.logger.LogError("listener failed", "object", o.name, "err", err)
	}

	o.metrics.ListenerFailed()
	o.Events.ListenerFailed.Trigger(err)
}

func (o *Object) pendingPropertyNames() (names []types.PropertyName) {
	o.pendingProperties.ForEach(func(name types.PropertyName, _ *propertyChange) bool {
		names = append(names, name)

		return true
	})

	return names
}

// propertyChange is a committed change of a property. The value is only recorded for changes that were made through
// SetProperty or a Property, RaisePropertyChanged leaves it to the listeners to read the value.
type propertyChange struct {
	name     types.PropertyName
	value    any
	hasValue bool
}

// currentChange returns a change of the named property that carries the value returned by peek (if any).
func currentChange(name types.PropertyName, peek func() any) propertyChange {
	if peek == nil {
		return propertyChange{name: name}
	}

	return propertyChange{name: name, value: peek(), hasValue: true}
}

// deferredObserver is an observer of a property that subscribed while the object was suspended.
type deferredObserver struct {
	id       types.UniqueID
	property types.PropertyName
	peek     func() any
}
