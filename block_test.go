package debugheap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlockFree(t *testing.T) {
	b := block{}
	require.True(t, b.free())

	b.allocated = true
	require.False(t, b.free())

	b.allocated = false
	b.pendingFree = true
	require.False(t, b.free())
}

func TestBlockPoolAllocRelease(t *testing.T) {
	p := newBlockPool(4)

	a := p.alloc()
	b := p.alloc()
	require.NotEqual(t, a, b)

	p.get(a).pageIndex = 7
	p.release(a)

	c := p.alloc()
	require.Equal(t, a, c, "released record should be reused")
	require.Equal(t, int32(0), p.get(c).pageIndex, "reused record must be zeroed")

	_ = p.alloc()
	_ = p.alloc()
	require.Panics(t, func() { p.alloc() }, "pool should panic once capacity is exhausted")
	_ = b
}
