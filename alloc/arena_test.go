package alloc

import (
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memkit/vmem"
)

func TestPageArena_Lifecycle(t *testing.T) {
	a, err := NewPageArena(100, Options{})
	require.NoError(t, err)
	assert.Equal(t, "page-arena", a.Name())
	assert.Equal(t, vmem.PageSize(), a.Cap(), "capacity is rounded to whole pages")

	b, err := a.Alloc(64)
	require.NoError(t, err)
	require.True(t, a.Owns(b))

	require.NoError(t, a.Close())
	assert.True(t, a.Closed())
	assert.Equal(t, 0, a.Used())

	err = a.Close()
	require.Error(t, err)
	assert.ErrorIs(t, err, vmem.CodeDoubleRelease)
}

func TestPageArena_AllocAfterCloseIsOOM(t *testing.T) {
	var oom oomCounter
	a, err := NewPageArena(1, Options{OnOOM: oom.handle})
	require.NoError(t, err)
	require.NoError(t, a.Close())

	_, err = a.Alloc(8)
	require.ErrorIs(t, err, ErrOutOfMemory)
	assert.Equal(t, 1, oom.count())

	b, err := a.Alloc(0)
	require.NoError(t, err)
	assert.NotNil(t, b, "zero-size grant stays non-nil after Close")
	assert.Empty(t, b)
	assert.Equal(t, 1, oom.count())
}

func TestPageArena_InvalidSize(t *testing.T) {
	_, err := NewPageArena(0, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, vmem.CodeInvalidSize)
}

// TestPageArena_ContentIntegrity fills many grants with distinct patterns and
// verifies none is disturbed by its neighbours.
func TestPageArena_ContentIntegrity(t *testing.T) {
	var oom oomCounter
	a, err := NewPageArena(4*vmem.PageSize(), Options{OnOOM: oom.handle})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	type grant struct {
		b   []byte
		sum uint64
	}
	var grants []grant
	for i := 0; ; i++ {
		b, err := a.Alloc(17 + i%200)
		if err != nil {
			break
		}
		for j := range b {
			b[j] = byte(i*31 + j)
		}
		grants = append(grants, grant{b: b, sum: xxhash.Sum64(b)})
		if a.Remaining() < 256 {
			break
		}
	}
	require.NotEmpty(t, grants)

	for i, g := range grants {
		assert.Equal(t, g.sum, xxhash.Sum64(g.b), "grant %d changed", i)
	}
}
