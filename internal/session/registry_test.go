package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solaris-viz/solaris/internal/catalog"
)

func TestRegistry_Lifecycle(t *testing.T) {
	r := NewRegistry(catalog.Default(), nil, DefaultOptions(), nil)
	assert.Equal(t, 9, len(r.Catalog().Bodies()))

	a, err := r.Create()
	require.NoError(t, err)
	b, err := r.Create()
	require.NoError(t, err)

	_, err = uuid.Parse(a.ID())
	assert.NoError(t, err)
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, 2, r.Len())

	got, ok := r.Get(a.ID())
	require.True(t, ok)
	assert.Same(t, a, got)

	assert.True(t, r.Remove(a.ID()))
	assert.False(t, r.Remove(a.ID()))
	_, ok = r.Get(a.ID())
	assert.False(t, ok)
	assert.Equal(t, 1, r.Len())

	r.Close()
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_Stats(t *testing.T) {
	r := NewRegistry(catalog.Default(), nil, DefaultOptions(), nil)
	t.Cleanup(r.Close)

	a, err := r.Create()
	require.NoError(t, err)
	b, err := r.Create()
	require.NoError(t, err)

	now := time.Now()
	a.Frame(now)
	a.Frame(now.Add(time.Second))
	b.Frame(now)

	ids := map[string]bool{}
	r.Each(func(e *Explorer) { ids[e.ID()] = true })
	assert.Len(t, ids, 2)

	assert.Equal(t, uint64(3), r.Stats().Frames)
}

func TestRegistry_StatsSurviveUnmount(t *testing.T) {
	r := NewRegistry(catalog.Default(), nil, DefaultOptions(), nil)

	a, err := r.Create()
	require.NoError(t, err)
	b, err := r.Create()
	require.NoError(t, err)

	now := time.Now()
	for i := range 5 {
		a.Frame(now.Add(time.Duration(i) * time.Second))
	}
	b.Frame(now)
	before := r.Stats()
	require.Equal(t, uint64(6), before.Frames)

	require.True(t, r.Remove(a.ID()))
	assert.Equal(t, before, r.Stats(), "unmounting keeps the totals")

	b.Frame(now.Add(time.Second))
	assert.Equal(t, uint64(7), r.Stats().Frames)

	r.Close()
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, uint64(7), r.Stats().Frames)
}
