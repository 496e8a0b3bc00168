package command_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/runtime/event"
	"github.com/iotaledger/venn/pkg/command"
	"github.com/iotaledger/venn/pkg/notifier"
)

func TestCommand_Execute(t *testing.T) {
	var executed []string

	enabled := notifier.MustNew(true)

	cmd, err := command.New(func(name string) {
		executed = append(executed, name)
	}, command.WithCanExecute(func(name string) bool {
		return enabled.Get() && name != ""
	}))
	require.NoError(t, err)

	require.True(t, cmd.CanExecute("a"))
	require.NoError(t, cmd.Execute("a"))

	require.False(t, cmd.CanExecute(""))
	require.ErrorIs(t, cmd.Execute(""), command.ErrCannotExecute)

	enabled.Set(false)
	require.ErrorIs(t, cmd.Execute("b"), command.ErrCannotExecute)

	require.Equal(t, []string{"a"}, executed)

	_, err = command.New[string](nil)
	require.True(t, ierrors.Is(err, notifier.ErrInvalidArgument))
}

func TestCommand_Invalidator(t *testing.T) {
	requery := event.New()

	cmd, err := command.New(func(int) {}, command.WithInvalidator[int](func(invalidate func()) func() {
		return requery.Hook(invalidate).Unhook
	}))
	require.NoError(t, err)

	var changed int
	cmd.Events.CanExecuteChanged.Hook(func() { changed++ })

	requery.Trigger()
	cmd.RaiseCanExecuteChanged()
	require.Equal(t, 2, changed)

	cmd.Dispose()
	cmd.Dispose()
	requery.Trigger()
	require.Equal(t, 2, changed)
}
