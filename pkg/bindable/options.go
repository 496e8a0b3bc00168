package bindable

import (
	"github.com/iotaledger/hive.go/log"
	"github.com/iotaledger/hive.go/runtime/options"
	"github.com/iotaledger/venn/pkg/metrics"
)

// WithName sets the name that is used in logs, metrics and String().
func WithName(name string) options.Option[Object] {
	return func(o *Object) {
		o.name = name
	}
}

// WithLogger sets the logger of the object.
func WithLogger(logger log.Logger) options.Option[Object] {
	return func(o *Object) {
		o.logger = logger
	}
}

// WithMetrics reports the object's activity to the given collector, which needs to have the
// metrics.NotifierCollection registered.
func WithMetrics(collector *metrics.Collector) options.Option[Object] {
	return func(o *Object) {
		o.collector = collector
	}
}
