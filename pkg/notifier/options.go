package notifier

import (
	"github.com/iotaledger/hive.go/log"
	"github.com/iotaledger/hive.go/runtime/options"
	"github.com/iotaledger/venn/pkg/metrics"
)

// WithName sets the name that is used in logs, metrics and String().
func WithName[T any](name string) options.Option[Notifier[T]] {
	return func(n *Notifier[T]) {
		n.name = name
	}
}

// WithEqualFunc overrides the equality that decides whether a new value is a change.
func WithEqualFunc[T any](equalFunc func(a, b T) bool) options.Option[Notifier[T]] {
	return func(n *Notifier[T]) {
		n.equalFunc = equalFunc
	}
}

// WithLogger sets the logger of the notifier.
func WithLogger[T any](logger log.Logger) options.Option[Notifier[T]] {
	return func(n *Notifier[T]) {
		n.logger = logger
	}
}

// WithMetrics reports the notifier's activity to the given collector, which needs to have the
// metrics.NotifierCollection registered.
func WithMetrics[T any](collector *metrics.Collector) options.Option[Notifier[T]] {
	return func(n *Notifier[T]) {
		n.collector = collector
	}
}

// WithNilAllowed permits the notifier to be created with an absent initial value.
func WithNilAllowed[T any]() options.Option[Notifier[T]] {
	return func(n *Notifier[T]) {
		n.nilAllowed = true
	}
}
