package util

import (
	"sync"

	"github.com/petermattis/goid"
)

// ReentryLock lets one goroutine re-acquire a lock it already holds.
// The demo driver uses it around its shared result sink.
type ReentryLock struct {
	mu    sync.Mutex
	cond  *sync.Cond
	owner int64
	count uint64
}

func NewReentryLock() *ReentryLock {
	lock := &ReentryLock{}
	lock.cond = sync.NewCond(&lock.mu)
	return lock
}

func (lock *ReentryLock) Lock() {
	rid := goid.Get()
	lock.mu.Lock()
	defer lock.mu.Unlock()
	if lock.owner == rid {
		lock.count++
		return
	}
	for lock.owner != 0 {
		lock.cond.Wait()
	}
	lock.owner = rid
	lock.count = 1
}

func (lock *ReentryLock) Unlock() {
	rid := goid.Get()
	lock.mu.Lock()
	defer lock.mu.Unlock()
	if lock.count == 0 || lock.owner != rid {
		panic("unlock of unlocked mutex")
	}
	lock.count--
	if lock.count == 0 {
		lock.owner = 0
		lock.cond.Signal()
	}
}

var _ sync.Locker = (*ReentryLock)(nil)
