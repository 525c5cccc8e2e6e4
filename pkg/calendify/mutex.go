package calendify

import (
	"sync"

	"github.com/sarveshmina/calendify/pkg/models"
)

// keyedMutex serializes scan-then-commit sections per calendar within this
// process. Locks are created on first use and never reclaimed; the population
// of active calendars is small enough that this does not matter.
//
// This is an advisory, single-process lock. Two server instances (or one
// instance and a direct store write) can still interleave a scan and a commit;
// see the package doc.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[models.CalendarID]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[models.CalendarID]*sync.Mutex)}
}

// Lock acquires the mutex for id and returns its unlock function.
func (k *keyedMutex) Lock(id models.CalendarID) func() {
	k.mu.Lock()
	m, ok := k.locks[id]
	if !ok {
		m = &sync.Mutex{}
		k.locks[id] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
