package notifier

// Suspendable is an object whose notifications can be deferred.
type Suspendable interface {
	// Pause suspends the notifications.
	Pause()

	// Resume ends the suspension and flushes the pending notifications.
	Resume()
}

// Suspend pauses the given object for the duration of the given function.
func Suspend(s Suspendable, fn func()) {
	s.Pause()
	defer s.Resume()

	fn()
}
