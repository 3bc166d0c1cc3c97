package debugheap

import "fmt"

// enter and leave bracket every public operation with an atomic
// increment/decrement of the reentrancy counter, mirroring
// runtime/internal/atomic's fetch-and-add primitives (here, the
// exported sync/atomic.Int32, the public-API analogue of that
// internal package) and runtime/sync's convention of a single small
// struct guarding a critical section.
//
// On entry the post-increment value must be 1; on exit the
// post-decrement value must be 0. Any other observation means two
// calls overlapped from different goroutines, which this heap detects
// rather than supports.
func (h *Heap) enter() {
	if v := h.guard.Add(1); v != 1 {
		panic(fmt.Sprintf("debugheap: concurrent access detected entering a public operation (count=%d)", v))
	}
}

func (h *Heap) leave() {
	if v := h.guard.Add(-1); v != 0 {
		panic(fmt.Sprintf("debugheap: concurrent access detected leaving a public operation (count=%d)", v))
	}
}
