// Package debugheap implements a deliberately slow, memory-profligate
// allocator whose purpose is to turn latent memory-safety bugs into
// immediate, deterministic crashes.
//
// Every allocation is placed against a decommitted guard page so that
// an out-of-bounds write faults instead of corrupting an unrelated
// object. Freed blocks are kept decommitted and parked on a
// pending-free list rather than being recycled immediately, so that
// use-after-free accesses keep faulting for as long as possible.
//
// debugheap is not a general-purpose allocator and is not safe for
// concurrent use from multiple goroutines; concurrent entry is
// detected (and panics) rather than supported.
package debugheap
