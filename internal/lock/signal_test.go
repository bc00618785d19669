package lock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignal_FirstWriterWins(t *testing.T) {
	s := NewSignal()

	require.False(t, s.Set(), "new signal must start locked")
	_, ok := s.Result()
	require.False(t, ok)

	assert.True(t, s.TrySet(MethodFace, "alice"), "first TrySet must win")
	assert.False(t, s.TrySet(MethodPassword, "bob"), "second TrySet must lose")

	res, ok := s.Result()
	require.True(t, ok)
	assert.Equal(t, MethodFace, res.Method)
	assert.Equal(t, "alice", res.Identity)
}

func TestSignal_ConcurrentWritersExactlyOneWins(t *testing.T) {
	const writers = 64

	s := NewSignal()
	var wg sync.WaitGroup
	var start sync.WaitGroup
	start.Add(1)

	wins := make(chan Method, writers)
	for i := 0; i < writers; i++ {
		method := MethodFace
		if i%2 == 1 {
			method = MethodFingerprint
		}
		wg.Add(1)
		go func(m Method) {
			defer wg.Done()
			start.Wait()
			if s.TrySet(m, "user") {
				wins <- m
			}
		}(method)
	}

	start.Done()
	wg.Wait()
	close(wins)

	var winners []Method
	for m := range wins {
		winners = append(winners, m)
	}
	require.Len(t, winners, 1, "exactly one writer must win")

	// The observed result matches the winner and never changes afterwards.
	res, ok := s.Result()
	require.True(t, ok)
	assert.Equal(t, winners[0], res.Method)

	assert.False(t, s.TrySet(MethodPassword, "late"), "late write must be a no-op")
	res2, _ := s.Result()
	assert.Equal(t, res, res2, "result must be terminal")
}

func TestSignal_AllReadersObserveSameValue(t *testing.T) {
	s := NewSignal()
	s.TrySet(MethodPassword, "carol")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, ok := s.Result()
			assert.True(t, ok)
			assert.Equal(t, MethodPassword, res.Method)
			assert.Equal(t, "carol", res.Identity)
		}()
	}
	wg.Wait()
}
