package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/iotaledger/hive.go/runtime/options"
)

type MetricType uint8

const (
	// Gauge is a metric that represents a single numerical value that can arbitrarily go up and down.
	// During metric Update the collected value is set, thus previous value is overwritten.
	Gauge MetricType = iota
	// Counter is a cumulative metric that represents a single numerical value that only ever goes up.
	// During metric Update the collected value is added to its current value.
	Counter
)

// Metric is a single metric that is registered to the prometheus registry of a Collector. Its value is either
// pulled with the WithCollectFunc callback whenever the Collector collects, or pushed by the owner of the observed
// component through Collector.Increment and Collector.Update.
type Metric struct {
	Name      string
	Type      MetricType
	Namespace string
	help      string
	labels    []string

	collectFunc func() (value float64, labelValues []string)
	initFunc    func()

	promMetric prometheus.Collector

	once sync.Once
}

// NewMetric creates a new metric with given name and options.
func NewMetric(name string, opts ...options.Option[Metric]) *Metric {
	return options.Apply(&Metric{
		Name: name,
	}, opts)
}

func (m *Metric) initPromMetric() {
	m.once.Do(func() {
		switch m.Type {
		case Gauge:
			if len(m.labels) > 0 {
				m.promMetric = prometheus.NewGaugeVec(prometheus.GaugeOpts{
					Name:      m.Name,
					Namespace: m.Namespace,
					Help:      m.help,
				}, m.labels)

				return
			}

			m.promMetric = prometheus.NewGauge(prometheus.GaugeOpts{
				Name:      m.Name,
				Namespace: m.Namespace,
				Help:      m.help,
			})
		case Counter:
			if len(m.labels) > 0 {
				m.promMetric = prometheus.NewCounterVec(prometheus.CounterOpts{
					Name:      m.Name,
					Namespace: m.Namespace,
					Help:      m.help,
				}, m.labels)

				return
			}

			m.promMetric = prometheus.NewCounter(prometheus.CounterOpts{
				Name:      m.Name,
				Namespace: m.Namespace,
				Help:      m.help,
			})
		}
	})
}

func (m *Metric) collect() {
	if m.collectFunc == nil {
		return
	}

	value, labelValues := m.collectFunc()
	m.update(value, labelValues...)
}

func (m *Metric) update(metricValue float64, labelValues ...string) bool {
	if len(labelValues) != len(m.labels) {
		return false
	}

	switch promMetric := m.promMetric.(type) {
	case prometheus.Gauge:
		promMetric.Set(metricValue)
	case *prometheus.GaugeVec:
		promMetric.WithLabelValues(labelValues...).Set(metricValue)
	case prometheus.Counter:
		promMetric.Add(metricValue)
	case *prometheus.CounterVec:
		promMetric.WithLabelValues(labelValues...).Add(metricValue)
	}

	return true
}

func (m *Metric) increment(labelValues ...string) bool {
	if len(labelValues) != len(m.labels) {
		return false
	}

	switch promMetric := m.promMetric.(type) {
	case prometheus.Gauge:
		promMetric.Inc()
	case *prometheus.GaugeVec:
		promMetric.WithLabelValues(labelValues...).Inc()
	case prometheus.Counter:
		promMetric.Inc()
	case *prometheus.CounterVec:
		promMetric.WithLabelValues(labelValues...).Inc()
	}

	return true
}

// deleteLabels deletes the metric value matching the provided labels.
func (m *Metric) deleteLabels(labels map[string]string) {
	// we can only delete labels if we initialized this metric to have labels in the first place.
	if len(m.labels) != len(labels) {
		return
	}

	switch promMetric := m.promMetric.(type) {
	case *prometheus.GaugeVec:
		promMetric.Delete(labels)
	case *prometheus.CounterVec:
		promMetric.Delete(labels)
	}
}

// WithType sets the metric type: Gauge or Counter.
func WithType(t MetricType) options.Option[Metric] {
	return func(m *Metric) {
		m.Type = t
	}
}

// WithHelp sets the help text for the metric.
func WithHelp(help string) options.Option[Metric] {
	return func(m *Metric) {
		m.help = help
	}
}

// WithLabels allows to define labels for the metric, they will need to be passed in the same order to the Update.
func WithLabels(labels ...string) options.Option[Metric] {
	return func(m *Metric) {
		m.labels = labels
	}
}

// WithCollectFunc allows to define a function that will be called each time the Collector collects.
// Should be used when metric value can be read at any time and we don't need to attach to an event.
func WithCollectFunc(collectFunc func() (metricValue float64, labelValues []string)) options.Option[Metric] {
	return func(m *Metric) {
		m.collectFunc = collectFunc
	}
}

// WithInitFunc allows to define a function that will be called once when the metric is registered.
func WithInitFunc(initFunc func()) options.Option[Metric] {
	return func(m *Metric) {
		m.initFunc = initFunc
	}
}
