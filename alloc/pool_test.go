package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestPool_AllocFree(t *testing.T) {
	p := NewPool(PoolConfig{}, Options{})
	assert.Equal(t, "pool", p.Name())
	assert.True(t, p.ThreadSafe())

	b, err := p.Alloc(20)
	require.NoError(t, err)
	require.Len(t, b, 20)
	assert.Equal(t, 32, cap(b), "grant should carry its class capacity")
	assert.Equal(t, 20, p.Used(), "Used reports requested bytes")

	p.Free(b)
	assert.Equal(t, 0, p.Used())

	st := p.Stats()
	assert.Equal(t, int64(1), st.Allocs)
	assert.Equal(t, int64(1), st.Frees)
}

func TestPool_Oversized(t *testing.T) {
	p := NewPool(PoolFineGrained, Options{})
	big := p.Classes()[len(p.Classes())-1] + 1

	b, err := p.Alloc(big)
	require.NoError(t, err)
	assert.Len(t, b, big)
	assert.Equal(t, big, p.Used())

	p.Free(b)
	assert.Equal(t, 0, p.Used())
}

func TestPool_AllocZeroAfterReuse(t *testing.T) {
	p := NewPool(PoolBalanced, Options{})

	// Pooled buffers come back dirty; AllocZero must clear them.
	for range 8 {
		b, err := p.Alloc(64)
		require.NoError(t, err)
		for i := range b {
			b[i] = 0xAA
		}
		p.Free(b)
	}

	z, err := p.AllocZero(16, 4)
	require.NoError(t, err)
	for _, v := range z {
		require.Zero(t, v)
	}
}

func TestPool_Limit(t *testing.T) {
	var oom oomCounter
	p := NewPool(PoolConfig{}, Options{OnOOM: oom.handle, Limit: 64, Name: "small-pool"})

	_, err := p.Alloc(64)
	require.NoError(t, err)
	_, err = p.Alloc(1)
	require.ErrorIs(t, err, ErrOutOfMemory)
	assert.Equal(t, 1, oom.count())
	assert.Equal(t, "small-pool", oom.last.Load().Allocator)

	p.Clear()
	assert.Equal(t, 0, p.Used())
	_, err = p.Alloc(1)
	require.NoError(t, err)
}

func TestPool_Concurrent(t *testing.T) {
	p := NewPool(PoolConfig{}, Options{})

	var g errgroup.Group
	for w := range 8 {
		g.Go(func() error {
			for i := range 1000 {
				b, err := p.Alloc(1 + (w*1000+i)%3000)
				if err != nil {
					return err
				}
				b[0] = byte(i)
				p.Free(b)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, 0, p.Used())
}

func TestPool_Classes(t *testing.T) {
	p := NewPool(PoolCoarse, Options{})
	classes := p.Classes()
	require.NotEmpty(t, classes)
	assert.Equal(t, 64, classes[0])

	classes[0] = 1
	assert.Equal(t, 64, p.Classes()[0], "Classes returns a copy")
}
