package command

import "github.com/iotaledger/hive.go/ierrors"

var (
	// ErrCannotExecute is returned when a command is executed while it cannot execute.
	ErrCannotExecute = ierrors.New("command cannot execute")

	// ErrAlreadyExecuting is returned when an async command is executed while a previous execution is still running.
	ErrAlreadyExecuting = ierrors.New("command is already executing")

	// ErrShutdown is returned when an async command is executed after it was shut down.
	ErrShutdown = ierrors.New("command was shut down")
)
