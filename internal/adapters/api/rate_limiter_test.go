package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelasquez/quadrant-go/internal/domain/shared"
)

func TestRateLimiterAllowsWithinBurst(t *testing.T) {
	l := NewCharacterRateLimiter(1, 3)

	for i := 0; i < 3; i++ {
		assert.NoError(t, l.Check("alice", "combat.action"))
	}
}

func TestRateLimiterRejectsBeyondBurst(t *testing.T) {
	l := NewCharacterRateLimiter(0.001, 2)

	require.NoError(t, l.Check("alice", "combat.action"))
	require.NoError(t, l.Check("alice", "combat.action"))

	err := l.Check("alice", "combat.action")
	require.Error(t, err)
	var rle *shared.RateLimitError
	require.ErrorAs(t, err, &rle)
	assert.Equal(t, "alice", rle.CharacterID)
	assert.Equal(t, "combat.action", rle.Method)
}

func TestRateLimiterBucketsPerCharacterAndMethod(t *testing.T) {
	l := NewCharacterRateLimiter(0.001, 1)

	require.NoError(t, l.Check("alice", "combat.action"))
	require.Error(t, l.Check("alice", "combat.action"))

	// A different character or method draws from a fresh bucket
	assert.NoError(t, l.Check("bob", "combat.action"))
	assert.NoError(t, l.Check("alice", "sector.scan"))
}
