package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundStreamIsDeterministic(t *testing.T) {
	a := NewRoundStream(12345, 3)
	b := NewRoundStream(12345, 3)

	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestRoundStreamVariesByRound(t *testing.T) {
	a := NewRoundStream(12345, 1)
	b := NewRoundStream(12345, 2)

	same := true
	for i := 0; i < 10; i++ {
		if a.Float64() != b.Float64() {
			same = false
			break
		}
	}
	assert.False(t, same, "different rounds should produce different draws")
}

func TestRoundStreamVariesBySeed(t *testing.T) {
	a := NewRoundStream(1, 1)
	b := NewRoundStream(2, 1)

	same := true
	for i := 0; i < 10; i++ {
		if a.Float64() != b.Float64() {
			same = false
			break
		}
	}
	assert.False(t, same, "different seeds should produce different draws")
}

func TestTaggedStreamDiffersFromRoundStream(t *testing.T) {
	round := NewRoundStream(99, 4)
	tagged := NewTaggedStream(99, 4, "flee_destination")

	same := true
	for i := 0; i < 10; i++ {
		if round.Float64() != tagged.Float64() {
			same = false
			break
		}
	}
	assert.False(t, same, "tagged stream should not correlate with the round stream")
}

func TestFloat64Range(t *testing.T) {
	s := NewRoundStream(777, 1)
	for i := 0; i < 1000; i++ {
		v := s.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestIntnRange(t *testing.T) {
	s := NewRoundStream(777, 2)
	for i := 0; i < 1000; i++ {
		v := s.Intn(7)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 7)
	}
}
