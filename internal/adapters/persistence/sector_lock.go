package persistence

import (
	"context"
	"sync"
)

// SectorLockManager implements combat.SectorLocker with per-sector mutexes.
// The daemon is the single writer of combat state, so an in-process lock is
// the advisory-lock primitive; handlers in other sectors proceed in parallel.
type SectorLockManager struct {
	mu    sync.Mutex
	locks map[int]*sectorLock
}

type sectorLock struct {
	mu   sync.Mutex
	refs int
}

// NewSectorLockManager creates a sector lock manager
func NewSectorLockManager() *SectorLockManager {
	return &SectorLockManager{locks: make(map[int]*sectorLock)}
}

// Lock acquires the sector's lock, honoring context cancellation while
// waiting. The returned unlock must always be called.
func (m *SectorLockManager) Lock(ctx context.Context, sectorID int) (func(), error) {
	m.mu.Lock()
	l, ok := m.locks[sectorID]
	if !ok {
		l = &sectorLock{}
		m.locks[sectorID] = l
	}
	l.refs++
	m.mu.Unlock()

	acquired := make(chan struct{})
	go func() {
		l.mu.Lock()
		close(acquired)
	}()

	select {
	case <-acquired:
		return func() { m.release(sectorID, l) }, nil
	case <-ctx.Done():
		// The goroutine will still acquire; hand the release duty to it
		go func() {
			<-acquired
			m.release(sectorID, l)
		}()
		return nil, ctx.Err()
	}
}

func (m *SectorLockManager) release(sectorID int, l *sectorLock) {
	l.mu.Unlock()

	m.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(m.locks, sectorID)
	}
	m.mu.Unlock()
}
