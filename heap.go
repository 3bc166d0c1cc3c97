package debugheap

import (
	"sync/atomic"
	"unsafe"
)

// PageSize is the fixed granularity of every allocation and of the VM
// shim's reserve/commit/decommit operations.
const PageSize = 4096

// Heap is a single, self-contained debugging allocator created from a
// user-specified byte budget. It owns one contiguous reservation of
// virtual address space for its whole lifetime; see Init and Destroy.
//
// A Heap is not safe for concurrent use. Overlapping calls from
// different goroutines are detected by the reentrancy guard (see
// guard.go) and panic rather than corrupting state.
type Heap struct {
	reserved  []byte
	userBase  uintptr
	pageCount int32
	maxAllocs int32

	pool     *blockPool
	freeList []int32 // indices of Free blocks, unordered
	pending  []int32 // indices of PendingFree blocks, in free() order
	lookup   []int32 // page index -> block index, or noBlock
	head     int32   // address-order head of the block list

	guard atomic.Int32

	poisonCheck bool
	poisonHash  [][32]byte // valid only when poisonCheck is set

	live    int32
	liveHWM int32
}

// Option configures a Heap at construction time.
type Option func(*Heap)

// WithPoisonCheck enables fill-pattern verification on free: when
// enabled, Free verifies the fill bytes between a block's user-region
// start and the pointer being freed have not been tampered with, and
// panics on mismatch instead of silently proceeding. Off by default,
// since it requires keeping a digest per live allocation.
func WithPoisonCheck(enabled bool) Option {
	return func(h *Heap) { h.poisonCheck = enabled }
}

// Init reserves a contiguous virtual address range of budget bytes as
// the user region (every allocation's trailing guard page is carved
// from it) and returns a ready-to-use Heap, or (nil, false) if the
// OS could not satisfy the reservation. budget must be a multiple of
// PageSize and at least two pages; two pages is the minimum needed to
// carve a single one-byte allocation (one data page, one guard page).
func Init(budget uintptr, opts ...Option) (*Heap, bool) {
	if budget < 2*PageSize || budget%PageSize != 0 {
		panic("debugheap: budget must be a multiple of PageSize and at least 2*PageSize")
	}

	pageCount := int32(budget / PageSize)
	maxAllocs := pageCount / 2

	reserved, ok := vmReserve(budget)
	if !ok {
		return nil, false
	}

	h := &Heap{
		reserved:  reserved,
		userBase:  uintptr(unsafe.Pointer(&reserved[0])),
		pageCount: pageCount,
		maxAllocs: maxAllocs,
		pool:      newBlockPool(pageCount),
		freeList:  make([]int32, 0, maxAllocs),
		pending:   make([]int32, 0, maxAllocs),
		lookup:    make([]int32, pageCount),
	}
	for i := range h.lookup {
		h.lookup[i] = noBlock
	}

	root := h.pool.alloc()
	rb := h.pool.get(root)
	rb.pageIndex = 0
	rb.pageCount = pageCount
	rb.prev = noBlock
	rb.next = noBlock
	h.head = root
	h.freeList = append(h.freeList, root)

	for _, opt := range opts {
		opt(h)
	}
	if h.poisonCheck {
		h.poisonHash = make([][32]byte, pageCount)
	}
	return h, true
}

// Destroy releases the entire range reserved by Init back to the OS.
// Bookkeeping structures live in ordinary Go memory in this
// implementation, not inside the reservation, so there is exactly one
// range to release: the user region plus its guard pages.
func (h *Heap) Destroy() {
	h.enter()
	defer h.leave()
	vmRelease(h.reserved)
}

// Stats is a read-only diagnostic snapshot. It reports aggregate page
// and allocation counts only; it is not a leak tracker and carries no
// list of live pointers or call sites.
type Stats struct {
	PagesFree      int
	PagesPending   int
	PagesAllocated int

	LiveAllocations     int
	HighWaterMarkAllocs int
}

// Stats walks the address-ordered block list and reports aggregate
// counts. It is O(number of blocks), intended for diagnostics, not
// the hot path.
func (h *Heap) Stats() Stats {
	h.enter()
	defer h.leave()

	var s Stats
	for idx := h.head; idx != noBlock; {
		b := h.pool.get(idx)
		switch {
		case b.allocated:
			s.PagesAllocated += int(b.pageCount)
		case b.pendingFree:
			s.PagesPending += int(b.pageCount)
		default:
			s.PagesFree += int(b.pageCount)
		}
		idx = b.next
	}
	s.LiveAllocations = int(h.live)
	s.HighWaterMarkAllocs = int(h.liveHWM)
	return s
}
