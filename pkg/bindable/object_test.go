package bindable_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/lo"
	"github.com/iotaledger/hive.go/log"
	"github.com/iotaledger/venn/pkg/bindable"
	"github.com/iotaledger/venn/pkg/core/types"
	"github.com/iotaledger/venn/pkg/notifier"
	"github.com/iotaledger/venn/pkg/stream"
)

const (
	titleProperty types.PropertyName = "Title"
	countProperty types.PropertyName = "Count"
)

// documentViewModel keeps its title in a plain field and its count in a Property.
type documentViewModel struct {
	*bindable.Object

	title string
	count *bindable.Property[int]
}

func newDocumentViewModel(t *testing.T) *documentViewModel {
	d := &documentViewModel{
		Object: bindable.New(bindable.WithName("document"), bindable.WithLogger(log.NewLogger())),
	}

	var err error
	d.count, err = bindable.NewProperty(d.Object, countProperty, 0)
	require.NoError(t, err)

	return d
}

func (d *documentViewModel) Title() string {
	return bindable.Read(d.Object, &d.title)
}

func (d *documentViewModel) SetTitle(title string) bool {
	return lo.PanicOnErr(bindable.SetProperty(d.Object, &d.title, title, titleProperty))
}

type TestFramework struct {
	Instance *documentViewModel

	test    *testing.T
	changes []types.PropertyName
}

func NewTestFramework(test *testing.T) *TestFramework {
	tf := &TestFramework{
		Instance: newDocumentViewModel(test),
		test:     test,
	}

	_, err := tf.Instance.OnPropertyChanged(func(name types.PropertyName) {
		tf.changes = append(tf.changes, name)
	})
	require.NoError(test, err)

	return tf
}

func (t *TestFramework) RequireChanges(expected ...types.PropertyName) {
	if len(expected) == 0 {
		require.Empty(t.test, t.changes)

		return
	}

	require.Equal(t.test, expected, t.changes)
}

func TestObject_PropertyChanges(t *testing.T) {
	tf := NewTestFramework(t)

	require.True(t, tf.Instance.SetTitle("draft"))
	require.False(t, tf.Instance.SetTitle("draft"))
	require.True(t, tf.Instance.count.Set(1))
	require.False(t, tf.Instance.count.Set(1))

	tf.RequireChanges(titleProperty, countProperty)
	require.Equal(t, "draft", tf.Instance.Title())
	require.Equal(t, 1, tf.Instance.count.Get())
}

func TestProperty_ReentrantSetDeliversCommittedValues(t *testing.T) {
	tf := NewTestFramework(t)

	var first, second []int
	_, err := tf.Instance.count.Subscribe(func(count int) {
		first = append(first, count)

		if count == 1 {
			tf.Instance.count.Set(2)
		}
	})
	require.NoError(t, err)

	_, err = tf.Instance.count.Subscribe(func(count int) {
		second = append(second, count)
	})
	require.NoError(t, err)

	tf.Instance.count.Set(1)

	require.Equal(t, []int{1, 2}, first)
	require.Equal(t, []int{1, 2}, second)
	require.Equal(t, 2, tf.Instance.count.Get())
	tf.RequireChanges(countProperty, countProperty)
}

func TestProperty_ConcurrentSetsDeliveredOnce(t *testing.T) {
	const writers = 32

	tf := NewTestFramework(t)

	var (
		received []int
		mutex    sync.Mutex
	)
	_, err := tf.Instance.count.Subscribe(func(count int) {
		mutex.Lock()
		defer mutex.Unlock()

		received = append(received, count)
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 1; i <= writers; i++ {
		wg.Add(1)
		go func(count int) {
			defer wg.Done()

			tf.Instance.count.Set(count)
		}(i)
	}
	wg.Wait()

	mutex.Lock()
	defer mutex.Unlock()

	expected := make([]int, 0, writers)
	for i := 1; i <= writers; i++ {
		expected = append(expected, i)
	}

	require.Len(t, received, writers)
	require.ElementsMatch(t, expected, received)
	require.Equal(t, received[len(received)-1], tf.Instance.count.Get())
}

func TestObject_ResumeFlushesDistinctProperties(t *testing.T) {
	tf := NewTestFramework(t)

	notifier.Suspend(tf.Instance, func() {
		tf.Instance.count.Set(1)
		tf.Instance.SetTitle("a")
		tf.Instance.count.Set(2)
		tf.Instance.SetTitle("b")
		require.NoError(t, tf.Instance.RaisePropertyChanged("Extra"))

		tf.RequireChanges()
		require.Contains(t, tf.Instance.String(), "Count")
	})

	tf.RequireChanges(countProperty, titleProperty, "Extra")

	tf.Instance.Pause()
	tf.Instance.Pause()
	tf.Instance.Resume()
	tf.RequireChanges(countProperty, titleProperty, "Extra")
}

func TestObject_InvalidProperties(t *testing.T) {
	tf := NewTestFramework(t)

	require.True(t, ierrors.Is(tf.Instance.RaisePropertyChanged(""), notifier.ErrInvalidExpression))

	_, err := bindable.SetProperty(tf.Instance.Object, &tf.Instance.title, "x", "")
	require.True(t, ierrors.Is(err, notifier.ErrInvalidExpression))

	_, err = bindable.SetProperty[string](tf.Instance.Object, nil, "x", titleProperty)
	require.True(t, ierrors.Is(err, notifier.ErrInvalidArgument))

	_, err = bindable.NewProperty(tf.Instance.Object, "", 1)
	require.True(t, ierrors.Is(err, notifier.ErrInvalidExpression))

	_, err = bindable.NewProperty(tf.Instance.Object, countProperty, 1)
	require.True(t, ierrors.Is(err, notifier.ErrInvalidArgument))

	_, err = tf.Instance.OnPropertyChanged(nil)
	require.True(t, ierrors.Is(err, notifier.ErrInvalidArgument))

	require.True(t, tf.Instance.HasProperty(countProperty))
	require.False(t, tf.Instance.HasProperty(titleProperty))
	require.Equal(t, []types.PropertyName{countProperty}, tf.Instance.Properties())

	tf.RequireChanges()
}

func TestObject_WhenAnyValue(t *testing.T) {
	tf := NewTestFramework(t)

	titles, err := bindable.WhenAnyValue(tf.Instance.Object, titleProperty, tf.Instance.Title)
	require.NoError(t, err)

	var received []string
	unsubscribe, err := titles.Subscribe(stream.NextObserver(func(title string) {
		received = append(received, title)
	}))
	require.NoError(t, err)
	require.Equal(t, []string{""}, received)

	tf.Instance.SetTitle("a")
	tf.Instance.count.Set(5)
	tf.Instance.SetTitle("b")
	unsubscribe()
	tf.Instance.SetTitle("c")

	require.Equal(t, []string{"", "a", "b"}, received)
}

func TestObject_WhenAny(t *testing.T) {
	tf := NewTestFramework(t)

	counts, err := bindable.WhenAny(tf.Instance.Object, countProperty, tf.Instance.count.Get)
	require.NoError(t, err)

	var received []int
	_, err = counts.Subscribe(stream.NextObserver(func(count int) {
		received = append(received, count)
	}))
	require.NoError(t, err)
	require.Empty(t, received)

	notifier.Suspend(tf.Instance, func() {
		tf.Instance.count.Set(1)
		tf.Instance.count.Set(2)
	})
	tf.Instance.count.Set(3)

	require.Equal(t, []int{2, 3}, received)

	_, err = bindable.WhenAny(tf.Instance.Object, "", tf.Instance.count.Get)
	require.True(t, ierrors.Is(err, notifier.ErrInvalidExpression))

	_, err = bindable.WhenAny[int](tf.Instance.Object, countProperty, nil)
	require.True(t, ierrors.Is(err, notifier.ErrInvalidArgument))
}

func TestProperty_ObserveWhileSuspended(t *testing.T) {
	tf := NewTestFramework(t)

	var received []int
	notifier.Suspend(tf.Instance, func() {
		_, err := tf.Instance.count.Observe(func(count int) {
			received = append(received, count)
		})
		require.NoError(t, err)
		require.Empty(t, received)
	})
	require.Equal(t, []int{0}, received)

	var receivedWithChange []int
	notifier.Suspend(tf.Instance, func() {
		_, err := tf.Instance.count.Observe(func(count int) {
			receivedWithChange = append(receivedWithChange, count)
		})
		require.NoError(t, err)

		tf.Instance.count.Set(4)
	})
	require.Equal(t, []int{4}, receivedWithChange)
	require.Equal(t, []int{0, 4}, received)
}

func TestProperty_AsStreamSource(t *testing.T) {
	tf := NewTestFramework(t)

	labels, err := stream.WhenAnyValue[int, string](tf.Instance.count, func(count int) string {
		return map[bool]string{true: "many", false: "few"}[count > 2]
	})
	require.NoError(t, err)

	var received []string
	_, err = stream.DistinctUntilChanged(labels).Subscribe(stream.NextObserver(func(label string) {
		received = append(received, label)
	}))
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		tf.Instance.count.Set(i)
	}

	require.Equal(t, []string{"few", "many"}, received)
	require.Equal(t, countProperty, tf.Instance.count.Name())
}

func TestObject_ListenerFailure(t *testing.T) {
	tf := NewTestFramework(t)

	var failures []error
	tf.Instance.Events.ListenerFailed.Hook(func(err error) { failures = append(failures, err) })

	_, err := tf.Instance.OnPropertyChanged(func(types.PropertyName) { panic("boom") })
	require.NoError(t, err)

	tf.Instance.SetTitle("a")

	tf.RequireChanges(titleProperty)
	require.Len(t, failures, 1)
	require.True(t, ierrors.Is(failures[0], notifier.ErrListenerFailure))
}
