package disposable

import (
	"github.com/iotaledger/hive.go/lo"
	"github.com/iotaledger/hive.go/runtime/syncutils"
)

// Bag collects unsubscribe functions and calls them together.
type Bag struct {
	disposables []func()
	disposed    bool
	mutex       syncutils.Mutex
}

// NewBag creates a new empty Bag.
func NewBag() *Bag {
	return &Bag{}
}

// Add adds the given functions to the bag. If the bag was already disposed, they are called immediately.
func (b *Bag) Add(disposables ...func()) {
	b.mutex.Lock()
	if !b.disposed {
		defer b.mutex.Unlock()

		for _, disposable := range disposables {
			if disposable != nil {
				b.disposables = append(b.disposables, disposable)
			}
		}

		return
	}
	b.mutex.Unlock()

	for _, disposable := range disposables {
		if disposable != nil {
			disposable()
		}
	}
}

// Dispose calls the collected functions in the reverse order of their addition. Only the first call has an effect.
func (b *Bag) Dispose() {
	b.mutex.Lock()
	if b.disposed {
		b.mutex.Unlock()

		return
	}
	disposables := b.disposables
	b.disposables = nil
	b.disposed = true
	b.mutex.Unlock()

	lo.BatchReverse(disposables...)()
}

// IsDisposed returns true if the bag was disposed.
func (b *Bag) IsDisposed() bool {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	return b.disposed
}

// DisposeWith adds the unsubscribe function to the bag and returns it. A nil bag leaves the unsubscribe function to
// the caller.
func DisposeWith(unsubscribe func(), bag *Bag) func() {
	if bag != nil {
		bag.Add(unsubscribe)
	}

	return unsubscribe
}
