package debugheap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOwnsRemainsTrueAfterFree(t *testing.T) {
	h, ok := Init(2 << 20)
	require.True(t, ok)
	defer h.Destroy()

	p, ok := h.Allocate(64, 8)
	require.True(t, ok)
	require.True(t, h.Owns(p))

	h.Free(p)
	require.True(t, h.Owns(p), "Owns is a range check, not a validity check")
}

func TestOwnsRejectsForeignPointer(t *testing.T) {
	h, ok := Init(2 << 20)
	require.True(t, ok)
	defer h.Destroy()

	var x int
	require.False(t, h.Owns(&x))
}

func TestGetAllocSizeRejectsUnowned(t *testing.T) {
	h, ok := Init(2 << 20)
	require.True(t, ok)
	defer h.Destroy()

	var x int
	require.Panics(t, func() { h.GetAllocSize(&x) })
}

func TestExhaustionBoundedByMaxAllocs(t *testing.T) {
	h, ok := Init(2 << 20)
	require.True(t, ok)
	defer h.Destroy()

	count := 0
	for {
		if _, ok := h.Allocate(1, 1); !ok {
			break
		}
		count++
	}
	require.LessOrEqual(t, int32(count), h.maxAllocs)
}

// TestExhaustionOnOddPageCountReturnsGracefully covers a heap whose
// page count isn't an exact multiple of the minimal allocation's page
// cost: splitting off fragments must not exhaust the block-record pool
// before the allocation count itself is bounded by space. A pool sized
// to the allocation count rather than the page count would panic here
// instead of letting exhaustion surface as Allocate returning false.
func TestExhaustionOnOddPageCountReturnsGracefully(t *testing.T) {
	h, ok := Init(13 * PageSize)
	require.True(t, ok)
	defer h.Destroy()

	require.NotPanics(t, func() {
		for {
			if _, ok := h.Allocate(1, 1); !ok {
				break
			}
		}
	})
}
