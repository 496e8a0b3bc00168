package command

import (
	"context"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/lo"
	"github.com/iotaledger/hive.go/stringify"
	"github.com/iotaledger/venn/pkg/core/promise"
	"github.com/iotaledger/venn/pkg/notifier"
)

// Status is the state of an Execution.
type Status uint8

const (
	Running Status = iota
	Succeeded
	Faulted
	Canceled
)

func (s Status) String() string {
	switch s {
	case Running:
		return "Running"
	case Succeeded:
		return "Succeeded"
	case Faulted:
		return "Faulted"
	case Canceled:
		return "Canceled"
	default:
		return "Unknown"
	}
}

// Execution is the observable record of a single run of an AsyncCommand.
type Execution[R any] struct {
	status  *notifier.Notifier[Status]
	promise *promise.Promise[R]

	// finished is closed after the outcome was published and the command released the execution.
	finished chan struct{}
}

func newExecution[R any]() *Execution[R] {
	return &Execution[R]{
		status:   notifier.MustNew(Running, notifier.WithName[Status]("ExecutionStatus")),
		promise:  promise.New[R](),
		finished: make(chan struct{}),
	}
}

// Status returns the notifier of the execution's status. It changes after the outcome is available.
func (e *Execution[R]) Status() *notifier.Notifier[Status] {
	return e.status
}

// Result returns the result of a successful execution.
func (e *Execution[R]) Result() R {
	return lo.Return1(e.promise.Result())
}

// Err returns the error of a failed or canceled execution.
func (e *Execution[R]) Err() error {
	_, err := e.promise.Result()

	return err
}

// ErrorMessage returns the message of the error of a failed or canceled execution.
func (e *Execution[R]) ErrorMessage() string {
	if err := e.Err(); err != nil {
		return err.Error()
	}

	return ""
}

// IsCompleted returns true if the execution finished in any way.
func (e *Execution[R]) IsCompleted() bool {
	return e.promise.WasCompleted()
}

// IsSuccessfullyCompleted returns true if the execution finished without an error.
func (e *Execution[R]) IsSuccessfullyCompleted() bool {
	return e.promise.WasResolved()
}

// IsCanceled returns true if the execution was canceled or its context ran into a deadline.
func (e *Execution[R]) IsCanceled() bool {
	return e.promise.WasRejected() && isCancellation(e.Err())
}

// IsFaulted returns true if the execution failed.
func (e *Execution[R]) IsFaulted() bool {
	return e.promise.WasRejected() && !isCancellation(e.Err())
}

// Wait blocks until the execution completed and its command is ready for the next execution, or the context is done.
func (e *Execution[R]) Wait(ctx context.Context) error {
	select {
	case <-e.finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// OnComplete registers a callback that is called when the execution completed.
func (e *Execution[R]) OnComplete(callback func()) (cancel func()) {
	return e.promise.OnComplete(callback)
}

func (e *Execution[R]) String() string {
	return stringify.Struct("Execution",
		stringify.NewStructField("Status", e.status.Get().String()),
		stringify.NewStructField("Error", e.ErrorMessage()),
	)
}

// complete stores the outcome of the run and publishes the final status.
func (e *Execution[R]) complete(result R, err error) Status {
	status := Succeeded
	switch {
	case err == nil:
		e.promise.Resolve(result)
	case isCancellation(err):
		status = Canceled
		e.promise.Reject(err)
	default:
		status = Faulted
		e.promise.Reject(err)
	}

	e.status.Set(status)

	return status
}

// isCancellation returns true if the error reports the end of the execution's context.
func isCancellation(err error) bool {
	return ierrors.Is(err, context.Canceled) || ierrors.Is(err, context.DeadlineExceeded)
}
