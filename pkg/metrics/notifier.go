package metrics

const (
	notifierNamespace = "venn"

	// NotificationsTotal counts the values that were delivered to the listeners of a notifier.
	NotificationsTotal = "notifications_total"
	// CollapsedChangesTotal counts the changes that were absorbed while a notifier was suspended.
	CollapsedChangesTotal = "collapsed_changes_total"
	// SuspensionsTotal counts the suspended periods of a notifier.
	SuspensionsTotal = "suspensions_total"
	// ListenerFailuresTotal counts the listeners that panicked while being notified.
	ListenerFailuresTotal = "listener_failures_total"

	nameLabel = "name"
)

// NotifierCollection returns the collection of counters that notifiers report to, labelled by the notifier's name.
func NotifierCollection() *Collection {
	return NewCollection(notifierNamespace,
		WithMetric(NewMetric(NotificationsTotal,
			WithType(Counter),
			WithLabels(nameLabel),
			WithHelp("Number of values delivered to listeners."),
		)),
		WithMetric(NewMetric(CollapsedChangesTotal,
			WithType(Counter),
			WithLabels(nameLabel),
			WithHelp("Number of changes absorbed while suspended."),
		)),
		WithMetric(NewMetric(SuspensionsTotal,
			WithType(Counter),
			WithLabels(nameLabel),
			WithHelp("Number of suspended periods."),
		)),
		WithMetric(NewMetric(ListenerFailuresTotal,
			WithType(Counter),
			WithLabels(nameLabel),
			WithHelp("Number of listeners that panicked while being notified."),
		)),
	)
}

// NotifierReporter reports the events of a single notifier to a Collector.
type NotifierReporter struct {
	collector *Collector
	name      string
}

// NewNotifierReporter creates a reporter for the notifier with the given name. A nil collector disables reporting.
func NewNotifierReporter(collector *Collector, name string) *NotifierReporter {
	return &NotifierReporter{
		collector: collector,
		name:      name,
	}
}

func (r *NotifierReporter) NotificationsDelivered(count int) {
	if r == nil || r.collector == nil || count == 0 {
		return
	}

	r.collector.Update(notifierNamespace, NotificationsTotal, float64(count), r.name)
}

func (r *NotifierReporter) ChangeCollapsed() {
	r.increment(CollapsedChangesTotal)
}

func (r *NotifierReporter) Suspended() {
	r.increment(SuspensionsTotal)
}

func (r *NotifierReporter) ListenerFailed() {
	r.increment(ListenerFailuresTotal)
}

func (r *NotifierReporter) increment(metricName string) {
	if r == nil || r.collector == nil {
		return
	}

	r.collector.Increment(notifierNamespace, metricName, r.name)
}
