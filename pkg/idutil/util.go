package idutil

import (
	"encoding/binary"
	"hash/maphash"
	"sync/atomic"
)

// Allocator hands out process-unique, strictly increasing int64 ids starting
// at 1 (0 is reserved as the "unset" sentinel). The zero value is ready to
// use and safe for concurrent callers.
type Allocator struct {
	last int64
}

func (a *Allocator) Next() int64 {
	return atomic.AddInt64(&a.last, 1)
}

// hashSeed is fixed per process; xsync maps are never persisted or shared
// across processes, so in-process stability is all that is needed.
var hashSeed = maphash.MakeSeed()

// HashInt64 hashes an int64 key for xsync.NewTypedMapOf.
func HashInt64(id int64) uint64 {
	var h maphash.Hash
	h.SetSeed(hashSeed)

	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(id))
	h.Write(b[:])
	return h.Sum64()
}
