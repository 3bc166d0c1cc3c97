package debugheap

import (
	"bytes"
	"unsafe"

	"golang.org/x/crypto/blake2b"
)

// poisonByte is the tripwire fill value written ahead of every user
// pointer, between the start of the block's user-region page and the
// pointer actually handed back. Left unchecked on free by default;
// WithPoisonCheck opts into verifying it.
const poisonByte = 0xFC

func fillPoison(p unsafe.Pointer, n uintptr) {
	if n == 0 {
		return
	}
	b := unsafe.Slice((*byte)(p), n)
	for i := range b {
		b[i] = poisonByte
	}
}

// poisonDigest hashes the fill region with blake2b-256. A 32-byte
// digest, rather than re-reading the whole region, makes it cheap to
// keep one per live allocation in Heap.poisonHash.
func poisonDigest(p unsafe.Pointer, n uintptr) [32]byte {
	if n == 0 {
		return blake2b.Sum256(nil)
	}
	b := unsafe.Slice((*byte)(p), n)
	return blake2b.Sum256(b)
}

func poisonIntact(p unsafe.Pointer, n uintptr, want [32]byte) bool {
	got := poisonDigest(p, n)
	return bytes.Equal(got[:], want[:])
}
