package debugheap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestCoalesceAdjacentFreedBlocks allocates three adjacent single-page
// blocks, frees them all, forces a flush, and verifies the freed
// region contracts into one block.
func TestCoalesceAdjacentFreedBlocks(t *testing.T) {
	h, ok := Init(16 * PageSize)
	require.True(t, ok)
	defer h.Destroy()

	a, ok := h.Allocate(1, 1)
	require.True(t, ok)
	b, ok := h.Allocate(1, 1)
	require.True(t, ok)
	c, ok := h.Allocate(1, 1)
	require.True(t, ok)

	h.Free(a)
	h.Free(b)
	h.Free(c)

	// Before any flush, all three stay PendingFree: Free never
	// coalesces, only flush does.
	require.Len(t, h.pending, 3)

	h.flush()
	require.Empty(t, h.pending)

	requireTiling(t, h)
	requireLookupConsistency(t, h)

	// The whole arena (2 pages each for a/b/c, plus whatever
	// remained free) should now be exactly one Free block.
	require.Len(t, h.freeList, 1, "adjacent freed blocks must coalesce into one on flush")
}

func TestFreeLeavesAdjacentBlocksPendingUntilFlush(t *testing.T) {
	h, ok := Init(16 * PageSize)
	require.True(t, ok)
	defer h.Destroy()

	a, ok := h.Allocate(1, 1)
	require.True(t, ok)
	b, ok := h.Allocate(1, 1)
	require.True(t, ok)

	h.Free(a)
	h.Free(b)

	// Neither has flushed yet: both remain PendingFree even though
	// they are adjacent.
	require.Len(t, h.pending, 2)
	for _, idx := range h.walkBlocks() {
		blk := h.pool.get(idx)
		if blk.pendingFree {
			require.False(t, blk.allocated)
		}
	}
}
