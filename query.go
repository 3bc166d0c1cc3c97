package debugheap

import "unsafe"

// GetAllocSize reports the usable capacity of a live allocation: the
// number of bytes from ptr up to (but not including) the guard page
// boundary. This may exceed the originally requested size by up to
// align-1 bytes, the slack alignment sacrificed from end-of-page
// tightness.
func (h *Heap) GetAllocSize(ptr unsafe.Pointer) uintptr {
	h.enter()
	defer h.leave()

	b := h.blockFor(ptr)
	return uintptr(b.pageCount-1)*PageSize - uintptr(ptr)%PageSize
}

// Owns reports whether ptr falls within this heap's user region. It
// is a cheap range check, not a validity check: a pointer into a
// freed (PendingFree) region still answers true, and the answer
// remains true for as long as the heap lives.
func (h *Heap) Owns(ptr unsafe.Pointer) bool {
	h.enter()
	defer h.leave()

	addr := uintptr(ptr)
	return addr >= h.userBase && addr <= h.userBase+uintptr(h.pageCount)*PageSize
}

// blockFor resolves ptr to its owning Allocated block, fatally
// asserting that ptr is both within range and currently live.
func (h *Heap) blockFor(ptr unsafe.Pointer) *block {
	addr := uintptr(ptr)
	if addr < h.userBase {
		panic("debugheap: pointer outside the user region")
	}
	pageIndex := int32((addr - h.userBase) / PageSize)
	if pageIndex >= h.pageCount {
		panic("debugheap: pointer outside the user region")
	}
	idx := h.lookup[pageIndex]
	if idx == noBlock {
		panic("debugheap: pointer not owned by this heap (not allocated, or freed)")
	}
	b := h.pool.get(idx)
	if !b.allocated {
		panic("debugheap: pointer refers to a block that is not currently allocated")
	}
	return b
}
