package command

import (
	"context"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/log"
	"github.com/iotaledger/hive.go/runtime/options"
	"github.com/iotaledger/hive.go/runtime/syncutils"
	"github.com/iotaledger/hive.go/runtime/workerpool"
	"github.com/iotaledger/venn/pkg/notifier"
)

// AsyncCommand is a command that runs a cancelable function in the background and publishes every run as an
// observable Execution. Only one execution runs at a time.
type AsyncCommand[R any] struct {
	// Events contains the events of the command.
	Events *Events

	run func(ctx context.Context) (R, error)

	// execution holds the most recent execution (nil before the first one).
	execution *notifier.Notifier[*Execution[R]]

	// cancelCommand cancels the running execution.
	cancelCommand *Command[struct{}]

	// cancelRunning cancels the context of the running execution (nil if nothing runs).
	cancelRunning context.CancelFunc

	// lastExecution is the most recently started execution.
	lastExecution *Execution[R]

	isShutdown bool

	workerPool *workerpool.WorkerPool
	logger     log.Logger

	mutex syncutils.RWMutex
}

// NewAsync creates a new AsyncCommand that runs the given function.
func NewAsync[R any](run func(ctx context.Context) (R, error), opts ...options.Option[AsyncCommand[R]]) (*AsyncCommand[R], error) {
	if run == nil {
		return nil, ierrors.Wrap(notifier.ErrInvalidArgument, "run function must not be nil")
	}

	a := options.Apply(&AsyncCommand[R]{
		Events: NewEvents(),
		run:    run,
		execution: notifier.MustNew[*Execution[R]](nil,
			notifier.WithNilAllowed[*Execution[R]](),
			notifier.WithName[*Execution[R]]("Execution"),
			notifier.WithEqualFunc(func(previous, next *Execution[R]) bool { return previous == next }),
		),
	}, opts)

	var err error
	if a.cancelCommand, err = New(func(struct{}) { a.Cancel() }, WithCanExecute(func(struct{}) bool { return a.isRunning() })); err != nil {
		return nil, ierrors.Wrap(err, "failed to create cancel command")
	}

	return a, nil
}

// CanExecute returns true if no execution is running.
func (a *AsyncCommand[R]) CanExecute() bool {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	return a.cancelRunning == nil && !a.isShutdown
}

// ExecuteAsync starts a new execution in the background and returns it. The execution is canceled when the given
// context is done or Cancel is called.
func (a *AsyncCommand[R]) ExecuteAsync(ctx context.Context) (*Execution[R], error) {
	execution, executionCtx, err := a.start(ctx)
	if err != nil {
		return nil, err
	}

	a.execution.Set(execution)
	a.raiseCanExecuteChanged()

	if a.logger != nil {
		a.logger.LogDebug("execution started")
	}

	task := func() { a.runExecution(executionCtx, execution) }
	if a.workerPool != nil {
		a.workerPool.Submit(task)
	} else {
		go task()
	}

	return execution, nil
}

// Execute runs a new execution and waits for it to complete.
func (a *AsyncCommand[R]) Execute(ctx context.Context) (R, error) {
	execution, err := a.ExecuteAsync(ctx)
	if err != nil {
		return *new(R), err
	}

	if err = execution.Wait(ctx); err != nil {
		return *new(R), err
	}

	return execution.Result(), execution.Err()
}

// Execution returns the notifier of the most recent execution.
func (a *AsyncCommand[R]) Execution() *notifier.Notifier[*Execution[R]] {
	return a.execution
}

// CancelCommand returns the command that cancels the running execution.
func (a *AsyncCommand[R]) CancelCommand() *Command[struct{}] {
	return a.cancelCommand
}

// Cancel cancels the running execution.
func (a *AsyncCommand[R]) Cancel() {
	a.mutex.RLock()
	cancelRunning := a.cancelRunning
	a.mutex.RUnlock()

	if cancelRunning != nil {
		cancelRunning()
	}
}

// Shutdown cancels the running execution, waits until it completed and was released, and rejects all further
// executions.
func (a *AsyncCommand[R]) Shutdown() {
	a.mutex.Lock()
	a.isShutdown = true
	cancelRunning, lastExecution := a.cancelRunning, a.lastExecution
	a.mutex.Unlock()

	if cancelRunning != nil {
		cancelRunning()
	}

	if lastExecution != nil {
		<-lastExecution.finished
	}
}

func (a *AsyncCommand[R]) start(ctx context.Context) (execution *Execution[R], executionCtx context.Context, err error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if a.isShutdown {
		return nil, nil, ErrShutdown
	}

	if a.cancelRunning != nil {
		return nil, nil, ErrAlreadyExecuting
	}

	executionCtx, a.cancelRunning = context.WithCancel(ctx)
	a.lastExecution = newExecution[R]()

	return a.lastExecution, executionCtx, nil
}

func (a *AsyncCommand[R]) runExecution(ctx context.Context, execution *Execution[R]) {
	result, err := a.safeRun(ctx)
	status := execution.complete(result, err)

	a.finish()
	close(execution.finished)

	switch status {
	case Faulted:
		if a.logger != nil {
			a.logger.LogError("execution failed", "err", err)
		}
	default:
		if a.logger != nil {
			a.logger.LogDebug("execution finished", "status", status)
		}
	}

	a.raiseCanExecuteChanged()
}

func (a *AsyncCommand[R]) safeRun(ctx context.Context) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ierrors.Errorf("execution panicked: %v", r)
		}
	}()

	return a.run(ctx)
}

// finish releases the completed execution, so that the next one can start.
func (a *AsyncCommand[R]) finish() {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if a.cancelRunning != nil {
		a.cancelRunning()
		a.cancelRunning = nil
	}
}

func (a *AsyncCommand[R]) isRunning() bool {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	return a.cancelRunning != nil
}

func (a *AsyncCommand[R]) raiseCanExecuteChanged() {
	a.Events.CanExecuteChanged.Trigger()
	a.cancelCommand.RaiseCanExecuteChanged()
}

// WithWorkerPool runs the executions on the given worker pool instead of their own goroutines.
func WithWorkerPool[R any](workerPool *workerpool.WorkerPool) options.Option[AsyncCommand[R]] {
	return func(a *AsyncCommand[R]) {
		a.workerPool = workerPool
	}
}

// WithLogger sets the logger of the command.
func WithLogger[R any](logger log.Logger) options.Option[AsyncCommand[R]] {
	return func(a *AsyncCommand[R]) {
		a.logger = logger
	}
}
