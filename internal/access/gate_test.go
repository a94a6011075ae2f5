package access

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeList struct {
	entries map[string]bool
	err     error
	calls   int
}

func (f *fakeList) ReadAccessList(context.Context) (map[string]bool, error) {
	f.calls++
	return f.entries, f.err
}

func TestAuthorize(t *testing.T) {
	list := &fakeList{entries: map[string]bool{
		"+998901234567": true,
		"+998907654321": false,
	}}
	g := NewGate(list)

	d, err := g.Authorize(context.Background(), "90 123 45 67")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, "+901234567", d.Phone, "denial carries the normalized form")

	d, err = g.Authorize(context.Background(), "998 90 123 45 67")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, "+998901234567", d.Phone)

	// Present but inactive is a denial.
	d, err = g.Authorize(context.Background(), "+998907654321")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
}

func TestAuthorizeFetchesFreshSnapshot(t *testing.T) {
	list := &fakeList{entries: map[string]bool{"+998901234567": true}}
	g := NewGate(list)

	for i := 0; i < 3; i++ {
		_, err := g.Authorize(context.Background(), "+998901234567")
		require.NoError(t, err)
	}
	assert.Equal(t, 3, list.calls, "no decision caching across calls")
}

func TestAuthorizeEmptyPhoneSkipsFetch(t *testing.T) {
	list := &fakeList{}
	g := NewGate(list)

	d, err := g.Authorize(context.Background(), "no digits here")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Empty(t, d.Phone)
	assert.Zero(t, list.calls)
}

func TestAuthorizePropagatesStoreFailure(t *testing.T) {
	list := &fakeList{err: errors.New("timeout")}
	g := NewGate(list)

	_, err := g.Authorize(context.Background(), "+998901234567")
	assert.Error(t, err, "fail closed: never authorized without store confirmation")
}
