package disposable_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotaledger/hive.go/lo"
	"github.com/iotaledger/venn/pkg/disposable"
	"github.com/iotaledger/venn/pkg/notifier"
)

func TestBag_Dispose(t *testing.T) {
	var order []int

	bag := disposable.NewBag()
	bag.Add(func() { order = append(order, 1) }, nil, func() { order = append(order, 2) })
	disposable.DisposeWith(func() { order = append(order, 3) }, bag)

	require.False(t, bag.IsDisposed())

	bag.Dispose()
	bag.Dispose()

	require.True(t, bag.IsDisposed())
	require.Equal(t, []int{3, 2, 1}, order)

	bag.Add(func() { order = append(order, 4) })
	require.Equal(t, []int{3, 2, 1, 4}, order)
}

func TestBag_Subscriptions(t *testing.T) {
	source := notifier.MustNew(0)
	bag := disposable.NewBag()

	var received []int
	disposable.DisposeWith(lo.PanicOnErr(source.Subscribe(func(value int) {
		received = append(received, value)
	})), bag)
	disposable.DisposeWith(lo.PanicOnErr(source.Observe(func(value int) {
		received = append(received, value*10)
	})), bag)

	source.Set(1)
	bag.Dispose()
	source.Set(2)

	require.Equal(t, []int{0, 1, 10}, received)
	require.Equal(t, 0, source.ListenerCount())
}

func TestDisposeWith_NilBag(t *testing.T) {
	var unsubscribed bool

	var unsubscribe func()
	require.NotPanics(t, func() {
		unsubscribe = disposable.DisposeWith(func() { unsubscribed = true }, nil)
	})
	require.False(t, unsubscribed)

	unsubscribe()
	require.True(t, unsubscribed)
}
