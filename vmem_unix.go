//go:build unix

package debugheap

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// vmReserve acquires a contiguous range of virtual addresses with no
// backing and no access. It is the only VM operation whose failure is
// recoverable: Init reports it back as a null heap rather than
// panicking.
func vmReserve(size uintptr) ([]byte, bool) {
	b, err := unix.Mmap(-1, 0, int(size), unix.PROT_NONE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, false
	}
	return b, true
}

// vmRelease returns a previously reserved range to the OS.
func vmRelease(b []byte) {
	if err := unix.Munmap(b); err != nil {
		panic(fmt.Sprintf("debugheap: munmap failed: %v", err))
	}
}

// vmCommit makes b readable and writable, backed by physical memory
// on demand.
func vmCommit(b []byte) {
	if len(b) == 0 {
		return
	}
	if err := unix.Mprotect(b, unix.PROT_READ|unix.PROT_WRITE); err != nil {
		panic(fmt.Sprintf("debugheap: mprotect(commit) failed: %v", err))
	}
}

// vmDecommit makes b inaccessible; any access to it must fault. The
// kernel is hinted first (MADV_DONTNEED) so backing pages are dropped
// before access is revoked, mirroring how runtime.sysUnused releases
// physical pages ahead of flipping protection.
func vmDecommit(b []byte) {
	if len(b) == 0 {
		return
	}
	if err := unix.Madvise(b, unix.MADV_DONTNEED); err != nil {
		panic(fmt.Sprintf("debugheap: madvise(dontneed) failed: %v", err))
	}
	if err := unix.Mprotect(b, unix.PROT_NONE); err != nil {
		panic(fmt.Sprintf("debugheap: mprotect(decommit) failed: %v", err))
	}
}
