package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoCreatesAndPersists(t *testing.T) {
	st := NewStore()

	st.Do("42", func(s *Session) {
		assert.False(t, s.Authorized)
		s.Authorized = true
		s.Phone = "+998901234567"
		s.Pending = PendingLocationForStart
	})

	st.Do("42", func(s *Session) {
		assert.True(t, s.Authorized)
		assert.Equal(t, "+998901234567", s.Phone)
		assert.Equal(t, PendingLocationForStart, s.Pending)
	})

	require.Equal(t, 1, st.Len())
}

func TestDoIsolatesIdentities(t *testing.T) {
	st := NewStore()

	st.Do("a", func(s *Session) { s.Authorized = true })
	st.Do("b", func(s *Session) {
		assert.False(t, s.Authorized, "sessions must not leak across identities")
	})
	assert.Equal(t, 2, st.Len())
}

// Concurrent increments on the same key must serialize; run with -race.
func TestDoSerializesSameKey(t *testing.T) {
	st := NewStore()
	const n = 200

	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st.Do("same", func(s *Session) {
				counter++
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, n, counter)
}
