package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/runtime/syncutils"
)

// ErrCollectionExists is returned when a collection with the same name was registered before.
var ErrCollectionExists = ierrors.New("collection already registered")

// Collector is responsible for creation and collection of metrics for the prometheus.
type Collector struct {
	Registry    *prometheus.Registry
	collections map[string]*Collection
	mutex       syncutils.RWMutex
}

// New creates an instance of Collector with its own prometheus registry.
func New() *Collector {
	return &Collector{
		Registry:    prometheus.NewRegistry(),
		collections: make(map[string]*Collection),
	}
}

// RegisterCollection registers all metrics of the collection to the registry.
func (c *Collector) RegisterCollection(coll *Collection) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, exists := c.collections[coll.CollectionName]; exists {
		return ierrors.Wrapf(ErrCollectionExists, "collection %s", coll.CollectionName)
	}

	for _, m := range coll.metrics {
		if err := c.Registry.Register(m.promMetric); err != nil {
			return ierrors.Wrapf(err, "failed to register metric %s_%s", coll.CollectionName, m.Name)
		}
	}

	c.collections[coll.CollectionName] = coll

	for _, m := range coll.metrics {
		if m.initFunc != nil {
			m.initFunc()
		}
	}

	return nil
}

// Collect collects all metrics from the registered collections.
func (c *Collector) Collect() {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	for _, collection := range c.collections {
		for _, metric := range collection.metrics {
			metric.collect()
		}
	}
}

// Update updates the value of the existing metric defined by the subsystem and metricName.
// Note that the label values must be passed in the same order as they were defined in the metric, and must match the
// number of labels defined in the metric.
func (c *Collector) Update(subsystem string, metricName string, metricValue float64, labelValues ...string) {
	if m := c.getMetric(subsystem, metricName); m != nil {
		m.update(metricValue, labelValues...)
	}
}

// Increment increments the value of the existing metric defined by the subsystem and metricName.
// Note that the label values must be passed in the same order as they were defined in the metric, and must match the
// number of labels defined in the metric.
func (c *Collector) Increment(subsystem string, metricName string, labels ...string) {
	if m := c.getMetric(subsystem, metricName); m != nil {
		m.increment(labels...)
	}
}

// DeleteLabels deletes the metric with the given labels values.
func (c *Collector) DeleteLabels(subsystem string, metricName string, labelValues map[string]string) {
	if m := c.getMetric(subsystem, metricName); m != nil {
		m.deleteLabels(labelValues)
	}
}

func (c *Collector) getMetric(subsystem string, metricName string) *Metric {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if collection, exists := c.collections[subsystem]; exists {
		return collection.GetMetric(metricName)
	}

	return nil
}
