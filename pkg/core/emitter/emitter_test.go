package emitter

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotaledger/hive.go/ierrors"
)

func emit[T any](e *Emitter[T], value T) int {
	listenerCount := e.Enqueue(value)
	e.Drain()

	return listenerCount
}

func TestEmitter_OrderAndUnsubscribe(t *testing.T) {
	e := New[int]()

	var received []string
	unsubscribeA := e.Subscribe(func(v int) { received = append(received, "A") })
	e.Subscribe(func(v int) { received = append(received, "B") })

	require.Equal(t, 2, emit(e, 1))
	require.Equal(t, []string{"A", "B"}, received)

	unsubscribeA()
	unsubscribeA()
	require.Equal(t, 1, e.ListenerCount())

	received = nil
	require.Equal(t, 1, emit(e, 2))
	require.Equal(t, []string{"B"}, received)
}

func TestEmitter_NoListeners(t *testing.T) {
	e := New[int]()
	require.Equal(t, 0, emit(e, 1))
}

func TestEmitter_SelfUnsubscribeDuringDelivery(t *testing.T) {
	e := New[int]()

	var (
		countA, countB int
		unsubscribeA   func()
	)
	unsubscribeA = e.Subscribe(func(int) {
		countA++
		unsubscribeA()
	})
	e.Subscribe(func(int) { countB++ })

	emit(e, 1)
	emit(e, 2)

	require.Equal(t, 1, countA)
	require.Equal(t, 2, countB)
}

func TestEmitter_UnsubscribeOtherDuringDelivery(t *testing.T) {
	e := New[int]()

	var (
		countB       int
		unsubscribeB func()
	)
	e.Subscribe(func(int) { unsubscribeB() })
	unsubscribeB = e.Subscribe(func(int) { countB++ })

	emit(e, 1)
	require.Equal(t, 0, countB)
}

func TestEmitter_ReentrantEnqueue(t *testing.T) {
	e := New[int]()

	var received []int
	e.Subscribe(func(v int) {
		received = append(received, v)
		if v == 1 {
			emit(e, 2)
			require.Equal(t, []int{1}, received)
		}
	})
	e.Subscribe(func(v int) { received = append(received, v*10) })

	emit(e, 1)
	require.Equal(t, []int{1, 10, 2, 20}, received)
}

func TestEmitter_SubscribeWithInitialValue(t *testing.T) {
	e := New[int]()

	var receivedA, receivedB []int
	e.Subscribe(func(v int) { receivedA = append(receivedA, v) })
	e.SubscribeWithInitialValue(func(v int) { receivedB = append(receivedB, v) }, 5)
	e.Enqueue(6)
	e.Drain()

	require.Equal(t, []int{6}, receivedA)
	require.Equal(t, []int{5, 6}, receivedB)
}

func TestEmitter_PanicIsolation(t *testing.T) {
	var failures []error
	e := New[int](WithFailureHandler[int](func(err error) {
		failures = append(failures, err)
	}))

	var received []int
	e.Subscribe(func(int) { panic("boom") })
	e.Subscribe(func(v int) { received = append(received, v) })

	emit(e, 1)
	emit(e, 2)

	require.Equal(t, []int{1, 2}, received)
	require.Len(t, failures, 2)
	require.True(t, ierrors.Is(failures[0], ErrListenerPanicked))
}

func TestEmitter_ConcurrentEnqueue(t *testing.T) {
	const goroutines = 50

	e := New[int]()

	var (
		mutex    sync.Mutex
		received []int
	)
	e.Subscribe(func(v int) {
		mutex.Lock()
		defer mutex.Unlock()

		received = append(received, v)
	})

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			emit(e, i)
		}(i)
	}
	wg.Wait()

	require.Len(t, received, goroutines)
	require.ElementsMatch(t, func() (expected []int) {
		for i := 0; i < goroutines; i++ {
			expected = append(expected, i)
		}

		return expected
	}(), received)
}

func TestEmitter_EnqueueTo(t *testing.T) {
	e := New[int]()

	var receivedA, receivedB []int
	e.Subscribe(func(v int) { receivedA = append(receivedA, v) })
	idB, unsubscribeB := e.Register(func(v int) { receivedB = append(receivedB, v) })

	require.Equal(t, 1, e.EnqueueTo(3, idB))
	e.Drain()

	require.Empty(t, receivedA)
	require.Equal(t, []int{3}, receivedB)

	unsubscribeB()
	require.Equal(t, 0, e.EnqueueTo(4, idB))
}
