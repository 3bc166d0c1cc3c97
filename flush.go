package debugheap

// flush drains the pending-free list, attempting to merge each block
// with an already-Free address-order neighbor, then moves whatever
// remains onto the free-list. It is invoked only when an allocation
// fails to find a fit, never eagerly: the pending list is the
// observation window that keeps a freed region inaccessible for as
// long as possible.
//
// Each pending block is merged only with neighbors that are Free at
// the moment it is processed. Blocks are processed in pending-list
// order and each one is made Free before the next is handled, so a
// block whose freed neighbor came earlier in the list merges with it
// in this same pass; after a flush no pending blocks remain.
func (h *Heap) flush() {
	pending := h.pending
	h.pending = h.pending[:0]

	for _, blockIdx := range pending {
		b := h.pool.get(blockIdx)
		cur := blockIdx
		merged := false

		// Left merge: fold into the address-order predecessor if it is
		// already Free and exactly contiguous.
		if b.prev != noBlock {
			p := h.pool.get(b.prev)
			if p.free() && p.pageIndex+p.pageCount == b.pageIndex {
				p.pageCount += b.pageCount
				p.next = b.next
				if b.next != noBlock {
					h.pool.get(b.next).prev = b.prev
				}
				h.pool.release(cur)
				cur = b.prev
				b = p
				merged = true
			}
		}

		// Right merge: fold the address-order successor into the
		// (possibly just-updated) block if it is already Free and
		// exactly contiguous.
		if b.next != noBlock {
			s := h.pool.get(b.next)
			if s.free() && b.pageIndex+b.pageCount == s.pageIndex {
				succIdx := b.next
				b.next = s.next
				if s.next != noBlock {
					h.pool.get(s.next).prev = cur
				}
				b.pageCount += s.pageCount
				h.removeFromFreeList(succIdx)
				h.pool.release(succIdx)
			}
		}

		if !merged {
			b.pendingFree = false
			h.freeList = append(h.freeList, cur)
		}
		// If a left merge happened, cur (the predecessor) was already
		// Free and already on the free-list; its page count simply
		// grew in place, so there is nothing further to append.
	}
}
