package notifier_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotaledger/hive.go/runtime/options"
	"github.com/iotaledger/venn/pkg/notifier"
)

type TestFramework[T any] struct {
	Instance *notifier.Notifier[T]

	test     *testing.T
	received map[string][]T
	mutex    sync.Mutex
}

func NewTestFramework[T any](test *testing.T, initialValue T, opts ...options.Option[notifier.Notifier[T]]) *TestFramework[T] {
	return &TestFramework[T]{
		Instance: notifier.MustNew(initialValue, opts...),
		test:     test,
		received: make(map[string][]T),
	}
}

// Subscribe registers a listener with the given alias that records the changes it receives.
func (t *TestFramework[T]) Subscribe(alias string) (unsubscribe func()) {
	unsubscribe, err := t.Instance.Subscribe(t.recorder(alias))
	require.NoError(t.test, err)

	return unsubscribe
}

// Observe registers an observer with the given alias that records the values it receives.
func (t *TestFramework[T]) Observe(alias string) (unsubscribe func()) {
	unsubscribe, err := t.Instance.Observe(t.recorder(alias))
	require.NoError(t.test, err)

	return unsubscribe
}

func (t *TestFramework[T]) Received(alias string) []T {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return append([]T(nil), t.received[alias]...)
}

func (t *TestFramework[T]) RequireReceived(alias string, expected ...T) {
	if len(expected) == 0 {
		require.Empty(t.test, t.Received(alias), "listener %s", alias)

		return
	}

	require.Equal(t.test, expected, t.Received(alias), "listener %s", alias)
}

func (t *TestFramework[T]) RequireValue(expected T) {
	require.Equal(t.test, expected, t.Instance.Get())
}

func (t *TestFramework[T]) recorder(alias string) func(T) {
	return func(value T) {
		t.mutex.Lock()
		defer t.mutex.Unlock()

		t.received[alias] = append(t.received[alias], value)
	}
}
