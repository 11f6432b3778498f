package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelasquez/quadrant-go/internal/adapters/persistence"
)

func TestSectorLockSerializesSameSector(t *testing.T) {
	m := persistence.NewSectorLockManager()
	ctx := context.Background()

	unlock, err := m.Lock(ctx, 7)
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		second, err := m.Lock(ctx, 7)
		assert.NoError(t, err)
		close(acquired)
		second()
	}()

	select {
	case <-acquired:
		t.Fatal("second acquisition should block while the lock is held")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second acquisition should proceed after unlock")
	}
}

func TestSectorLockDifferentSectorsIndependent(t *testing.T) {
	m := persistence.NewSectorLockManager()
	ctx := context.Background()

	unlock7, err := m.Lock(ctx, 7)
	require.NoError(t, err)
	defer unlock7()

	done := make(chan struct{})
	go func() {
		unlock8, err := m.Lock(ctx, 8)
		assert.NoError(t, err)
		unlock8()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sector 8 must not wait on sector 7's lock")
	}
}

func TestSectorLockHonorsContextCancellation(t *testing.T) {
	m := persistence.NewSectorLockManager()

	unlock, err := m.Lock(context.Background(), 7)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = m.Lock(ctx, 7)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// The abandoned waiter must not poison the lock
	unlock()
	unlock2, err := m.Lock(context.Background(), 7)
	require.NoError(t, err)
	unlock2()
}
