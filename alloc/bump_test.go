package alloc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBump_Scenario walks the canonical arena lifecycle: fill, exhaust,
// reset, reuse.
func TestBump_Scenario(t *testing.T) {
	var oom oomCounter
	a := NewBump(make([]byte, 254), Options{OnOOM: oom.handle})

	b, err := a.Alloc(4)
	require.NoError(t, err, "first small allocation should succeed")
	require.Len(t, b, 4)
	assert.GreaterOrEqual(t, a.Used(), 4, "cursor should advance past the grant")

	b, err = a.Alloc(255)
	require.ErrorIs(t, err, ErrOutOfMemory)
	assert.Nil(t, b)
	assert.GreaterOrEqual(t, oom.count(), 1, "OOM callback should fire")

	a.Clear()
	assert.Equal(t, 0, a.Used())

	b, err = a.Alloc(4)
	require.NoError(t, err, "allocation after Clear should succeed")
	require.Len(t, b, 4)
}

func TestBump_Alignment(t *testing.T) {
	a := NewBump(make([]byte, 1024), Options{})

	for _, size := range []int{1, 5, 7, 8, 9, 13, 17, 25} {
		before := a.Used()
		b, err := a.Alloc(size)
		require.NoError(t, err, "Alloc(%d)", size)
		require.Len(t, b, size)
		assert.Equal(t, size, cap(b), "cap must equal len for Alloc(%d)", size)
		assert.Equal(t, 0, before%Alignment, "offset should be aligned before Alloc(%d)", size)
		assert.Equal(t, 0, a.Used()%Alignment, "offset should be aligned after Alloc(%d)", size)
	}
}

func TestBump_NoOverlap(t *testing.T) {
	a := NewBump(make([]byte, 8192), Options{})

	var grants [][]byte
	for i := range 50 {
		b, err := a.Alloc(8 + i*3)
		require.NoError(t, err)
		require.True(t, a.Owns(b), "grant %d should lie within the arena", i)
		grants = append(grants, b)
	}

	for i := 1; i < len(grants); i++ {
		prevEnd := addr(grants[i-1]) + uintptr(len(grants[i-1]))
		assert.LessOrEqual(t, prevEnd, addr(grants[i]), "grant %d overlaps its predecessor", i)
	}

	// Writing every grant must not disturb any other.
	for i, g := range grants {
		for j := range g {
			g[j] = byte(i)
		}
	}
	for i, g := range grants {
		for _, v := range g {
			require.Equal(t, byte(i), v, "grant %d was overwritten", i)
		}
	}
}

func TestBump_AppendDoesNotSpill(t *testing.T) {
	a := NewBump(make([]byte, 64), Options{})

	first, err := a.Alloc(8)
	require.NoError(t, err)
	second, err := a.Alloc(8)
	require.NoError(t, err)
	copy(second, "ABCDEFGH")

	first = append(first, 'x')
	_ = first
	assert.Equal(t, "ABCDEFGH", string(second))
}

func TestBump_ClearAllowsFullCapacity(t *testing.T) {
	a := NewBump(make([]byte, 256), Options{})

	_, err := a.Alloc(100)
	require.NoError(t, err)
	a.Clear()
	assert.Equal(t, 0, a.Used())
	assert.Equal(t, 256, a.Remaining())

	b, err := a.Alloc(256)
	require.NoError(t, err, "full capacity should be available after Clear")
	assert.Len(t, b, 256)
	assert.Equal(t, 0, a.Remaining())
}

func TestBump_ExactFit(t *testing.T) {
	var oom oomCounter
	a := NewBump(make([]byte, 64), Options{OnOOM: oom.handle})

	_, err := a.Alloc(64)
	require.NoError(t, err)

	_, err = a.Alloc(1)
	require.ErrorIs(t, err, ErrOutOfMemory)
	assert.Equal(t, 1, oom.count(), "OOM should fire exactly once")

	ev := oom.last.Load()
	require.NotNil(t, ev)
	assert.Equal(t, "bump", ev.Allocator)
	assert.Equal(t, 1, ev.Size)
	assert.Equal(t, 64, ev.Used)
	assert.Equal(t, 64, ev.Capacity)
}

func TestBump_ZeroAndNegative(t *testing.T) {
	var oom oomCounter
	a := NewBump(make([]byte, 32), Options{OnOOM: oom.handle})

	b, err := a.Alloc(0)
	require.NoError(t, err)
	assert.NotNil(t, b)
	assert.Empty(t, b)
	assert.Equal(t, 0, a.Used(), "zero-size grant consumes nothing")

	_, err = a.Alloc(-1)
	require.ErrorIs(t, err, ErrInvalidSize)
	assert.Equal(t, 0, oom.count(), "invalid size is not an OOM event")
}

func TestBump_AllocZero(t *testing.T) {
	var oom oomCounter
	a := NewBump(make([]byte, 128), Options{OnOOM: oom.handle})

	b, err := a.Alloc(64)
	require.NoError(t, err)
	for i := range b {
		b[i] = 0xFF
	}
	a.Clear()

	z, err := a.AllocZero(8, 8)
	require.NoError(t, err)
	require.Len(t, z, 64)
	for i, v := range z {
		require.Zero(t, v, "byte %d should be zeroed after reuse", i)
	}

	_, err = a.AllocZero(math.MaxInt, 2)
	require.ErrorIs(t, err, ErrOutOfMemory)
	require.ErrorIs(t, err, ErrSizeOverflow)
	assert.Equal(t, 1, oom.count())
}

func TestBump_CursorOverflowIsOOM(t *testing.T) {
	var oom oomCounter
	a := NewBump(make([]byte, 64), Options{OnOOM: oom.handle})

	_, err := a.Alloc(8)
	require.NoError(t, err)

	// Aligns fine on its own but overflows int once added to the cursor.
	_, err = a.Alloc(math.MaxInt - 7)
	require.ErrorIs(t, err, ErrOutOfMemory)
	assert.Equal(t, 1, oom.count())
	assert.Equal(t, 8, a.Used(), "a refused request must not move the cursor")
}

func TestBump_FreeIsNoop(t *testing.T) {
	a := NewBump(make([]byte, 64), Options{})

	b, err := a.Alloc(16)
	require.NoError(t, err)
	a.Free(b)
	a.Free(nil)
	assert.Equal(t, 16, a.Used())
}

func TestBump_Peak(t *testing.T) {
	a := NewBump(make([]byte, 128), Options{})

	_, err := a.Alloc(40)
	require.NoError(t, err)
	a.Clear()
	_, err = a.Alloc(8)
	require.NoError(t, err)

	assert.Equal(t, 40, a.Peak(), "peak survives Clear")
	assert.Equal(t, 128, a.Cap())
}

func TestBump_Properties(t *testing.T) {
	a := NewBump(make([]byte, 8), Options{Name: "scratch"})
	assert.False(t, a.ThreadSafe())
	assert.Equal(t, "scratch", a.Name())
	assert.False(t, a.Owns(make([]byte, 4)))
	assert.False(t, a.Owns(nil))
}

func TestNewBump_PanicsOnEmptyBuffer(t *testing.T) {
	assert.Panics(t, func() { NewBump(nil, Options{}) })
	assert.Panics(t, func() { NewBump([]byte{}, Options{}) })
}

func TestBump_GlobalHandlerFallback(t *testing.T) {
	var oom oomCounter
	prev := SetOOMHandler(oom.handle)
	t.Cleanup(func() { SetOOMHandler(prev) })

	a := NewBump(make([]byte, 8), Options{})
	_, err := a.Alloc(9)
	require.ErrorIs(t, err, ErrOutOfMemory)
	assert.Equal(t, 1, oom.count(), "process-wide handler should run without an instance callback")
}
