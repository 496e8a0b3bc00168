package notifier

import "github.com/iotaledger/hive.go/ierrors"

var (
	// ErrInvalidArgument is returned when a notifier is constructed with an absent value or a listener is nil.
	ErrInvalidArgument = ierrors.New("invalid argument")

	// ErrInvalidExpression is returned when a property name does not identify a property.
	ErrInvalidExpression = ierrors.New("invalid property expression")

	// ErrProjectionFailure terminates a derived stream whose projection failed.
	ErrProjectionFailure = ierrors.New("projection failed")

	// ErrListenerFailure is reported through Events.ListenerFailed when a listener panicked.
	ErrListenerFailure = ierrors.New("listener failed")
)
