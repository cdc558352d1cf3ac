package arena

import "github.com/joshuapare/heapkit/internal/format"

// Ptr is a payload handle: the payload's offset from the aligned start of
// the arena.
type Ptr uint64

// Nil is the null payload handle.
const Nil Ptr = 0

// NoBlock marks the absence of a block offset (for example the Next field
// of an allocated block, or the head of an empty free list).
const NoBlock = format.NoBlock

// IsNil reports whether p is Nil.
func (p Ptr) IsNil() bool { return p == Nil }

// BlockInfo describes one block in a State snapshot.
type BlockInfo struct {
	Offset    uint64 // header offset
	Payload   Ptr    // payload handle
	Size      uint64 // total size including header
	Requested uint64 // bytes requested by the caller (0 for free blocks)
	Free      bool
	Next      uint64 // next free block, NoBlock for allocated blocks
}

// State is a point-in-time snapshot of an Arena.
type State struct {
	Capacity uint64 // usable bytes after alignment
	Padding  uint64 // bytes skipped to align the start of the region
	Backing  Backing
	Head     uint64 // free list head, NoBlock when empty

	// FreeList holds the free blocks in list order starting at Head.
	FreeList []BlockInfo

	// Allocated holds the blocks recorded in the allocation registry,
	// sorted by offset.
	Allocated []BlockInfo

	// Blocks holds every block in physical order.
	Blocks []BlockInfo

	FreeBytes uint64
	UsedBytes uint64
}
