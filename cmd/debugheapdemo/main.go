// Command debugheapdemo exercises debugheap's failure modes on
// purpose: it is a small CLI driver for watching guard-page and
// pending-free detection crash a process on command.
//
// The oob, doublefree, useafterfree and race scenarios are expected to
// crash the process — that is the point of the tool; exhaustion and
// coalesce print a summary and exit normally. Run one scenario at a
// time:
//
//	debugheapdemo -scenario=oob
//	debugheapdemo -scenario=doublefree
//	debugheapdemo -scenario=useafterfree
//	debugheapdemo -scenario=exhaustion
//	debugheapdemo -scenario=coalesce
//	debugheapdemo -scenario=race
package main

import (
	"flag"
	"fmt"
	"os"
	"sync"
	"unsafe"

	"golang.org/x/text/message"

	"debugheap"
)

func main() {
	size := flag.Uint64("size", 2<<20, "heap budget in bytes (must be a multiple of 4096)")
	scenario := flag.String("scenario", "", "oob|doublefree|useafterfree|exhaustion|coalesce|race")
	flag.Parse()

	p := message.NewPrinter(message.MatchLanguage("en"))

	h, ok := debugheap.Init(uintptr(*size))
	if !ok {
		fmt.Fprintln(os.Stderr, "debugheapdemo: failed to reserve address space")
		os.Exit(1)
	}
	defer h.Destroy()

	p.Printf("heap budget: %d bytes (%d pages)\n", *size, *size/debugheap.PageSize)

	switch *scenario {
	case "oob":
		scenarioOOB(h)
	case "doublefree":
		scenarioDoubleFree(h)
	case "useafterfree":
		scenarioUseAfterFree(h)
	case "exhaustion":
		scenarioExhaustion(h, p)
	case "coalesce":
		scenarioCoalesce(h, p)
	case "race":
		scenarioRace(h)
	default:
		fmt.Fprintln(os.Stderr, "debugheapdemo: pick a -scenario; see -h")
		os.Exit(2)
	}
}

// scenarioOOB allocates a 128-byte buffer and writes one byte past
// its usable capacity, landing in the decommitted guard page.
func scenarioOOB(h *debugheap.Heap) {
	ptr, ok := h.Allocate(128, 4)
	if !ok {
		fmt.Fprintln(os.Stderr, "allocation failed")
		os.Exit(1)
	}
	n := h.GetAllocSize(ptr)
	buf := unsafe.Slice((*byte)(ptr), n+1)
	fmt.Println("writing one byte past the guard boundary; this should fault")
	buf[n] = 'x'
	fmt.Println("unreachable: the guard page did not fault")
}

// scenarioDoubleFree frees the same pointer twice.
func scenarioDoubleFree(h *debugheap.Heap) {
	ptr, ok := h.Allocate(128, 4)
	if !ok {
		fmt.Fprintln(os.Stderr, "allocation failed")
		os.Exit(1)
	}
	h.Free(ptr)
	fmt.Println("freeing the same pointer a second time; this should panic")
	h.Free(ptr)
	fmt.Println("unreachable: double free was not caught")
}

// scenarioUseAfterFree frees a pointer and then reads through it.
func scenarioUseAfterFree(h *debugheap.Heap) {
	ptr, ok := h.Allocate(128, 4)
	if !ok {
		fmt.Fprintln(os.Stderr, "allocation failed")
		os.Exit(1)
	}
	h.Free(ptr)
	fmt.Println("reading a freed, decommitted block; this should fault")
	b := *(*byte)(ptr)
	fmt.Printf("unreachable: read %d from freed memory\n", b)
}

// scenarioExhaustion allocates one-byte chunks until the heap runs
// out, and reports how many it managed.
func scenarioExhaustion(h *debugheap.Heap, p *message.Printer) {
	count := 0
	for {
		if _, ok := h.Allocate(1, 1); !ok {
			break
		}
		count++
	}
	p.Printf("allocated %d one-byte chunks before exhaustion\n", count)
}

// scenarioCoalesce allocates three adjacent one-page blocks, frees
// them all, and forces a flush with a large request so the freed
// region is shown to contract back into one contiguous free block.
func scenarioCoalesce(h *debugheap.Heap, p *message.Printer) {
	a, _ := h.Allocate(1, 1)
	b, _ := h.Allocate(1, 1)
	c, _ := h.Allocate(1, 1)
	h.Free(a)
	h.Free(b)
	h.Free(c)

	before := h.Stats()
	p.Printf("before flush: %d pages pending, %d pages free\n", before.PagesPending, before.PagesFree)

	// A large allocation forces Allocate to flush the pending list: it
	// needs one page more than is currently free, which only the
	// coalesced region can supply.
	big, ok := h.Allocate(uintptr(before.PagesFree)*debugheap.PageSize, 1)
	after := h.Stats()
	p.Printf("after flush:  %d pages pending, %d pages free (big alloc ok=%v)\n", after.PagesPending, after.PagesFree, ok)
	if ok {
		h.Free(big)
	}
}

// scenarioRace launches two goroutines hammering Allocate
// concurrently, with no external synchronization, demonstrating the
// reentrancy guard tripping (with high reliability, not certainty).
func scenarioRace(h *debugheap.Heap) {
	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				if ptr, ok := h.Allocate(16, 1); ok {
					h.Free(ptr)
				}
			}
		}()
	}
	fmt.Println("racing two goroutines against one heap; expect a reentrancy panic")
	wg.Wait()
	fmt.Println("unreachable: no concurrent access was detected")
}
