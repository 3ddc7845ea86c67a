package storefakes

import (
	"sync"

	"github.com/steelegbr/alldaydj-sub000/store"
)

var _ store.Store = (*FakeStore)(nil)

// FakeStore is an in-memory Store for tests.
type FakeStore struct {
	slots map[string]string
	lock  sync.RWMutex

	// SetErr, when non-nil, is returned by every Set call.
	SetErr error
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		slots: make(map[string]string),
	}
}

func (fs *FakeStore) Get(name string) (string, bool) {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	value, ok := fs.slots[name]
	return value, ok
}

func (fs *FakeStore) Set(name, value string) error {
	if fs.SetErr != nil {
		return fs.SetErr
	}
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.slots[name] = value
	return nil
}

func (fs *FakeStore) Remove(name string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	delete(fs.slots, name)
	return nil
}
