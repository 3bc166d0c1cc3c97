package debugheap

import (
	"fmt"
	"unsafe"
)

// Free returns a pointer previously returned by Allocate on this
// heap. The block transitions to PendingFree: its pages (other than
// the already-decommitted guard page) are decommitted and it is
// parked on the pending-free list rather than being coalesced
// immediately, so use-after-free accesses keep faulting until the
// next flush.
//
// Passing a pointer not owned by this heap, a pointer already freed,
// or a pointer into a block that is not currently Allocated are all
// fatal assertions.
func (h *Heap) Free(ptr unsafe.Pointer) {
	h.enter()
	defer h.leave()

	addr := uintptr(ptr)
	if addr < h.userBase {
		panic("debugheap: Free called with a pointer outside the user region")
	}
	pageIndex := int32((addr - h.userBase) / PageSize)
	if pageIndex >= h.pageCount {
		panic("debugheap: Free called with a pointer outside the user region")
	}

	blockIdx := h.lookup[pageIndex]
	if blockIdx == noBlock {
		panic("debugheap: double free (or pointer not returned by Allocate)")
	}
	b := h.pool.get(blockIdx)
	if !b.allocated || b.pendingFree {
		panic(fmt.Sprintf("debugheap: corrupted block state at page %d: allocated=%v pendingFree=%v", b.pageIndex, b.allocated, b.pendingFree))
	}

	blockUserBase := h.userBase + uintptr(b.pageIndex)*PageSize
	if h.poisonCheck {
		prefix := addr - blockUserBase
		if !poisonIntact(unsafe.Pointer(blockUserBase), prefix, h.poisonHash[blockIdx]) {
			panic("debugheap: fill-pattern corruption detected ahead of freed pointer")
		}
	}

	b.allocated = false
	b.pendingFree = true
	h.lookup[b.pageIndex] = noBlock

	h.decommitRange(b.pageIndex, b.pageCount-1)

	h.pending = append(h.pending, blockIdx)
	h.live--
}

// decommitRange decommits n pages starting at pageIndex. The trailing
// guard page is already decommitted and is not included in n.
func (h *Heap) decommitRange(pageIndex, n int32) {
	if n == 0 {
		return
	}
	start := uintptr(pageIndex) * PageSize
	end := start + uintptr(n)*PageSize
	vmDecommit(h.reserved[start:end])
}
