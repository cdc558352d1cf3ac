// Package arena provides a first-fit heap allocator over a single fixed-size
// byte region.
//
// # Overview
//
// An Arena owns one contiguous region (1 MiB by default) and hands out
// payloads carved from it. Every region is prefixed by a 32-byte in-band
// header describing its size and state; free blocks additionally thread an
// address-ordered circular singly linked free list through their headers.
// Nothing outside the region is consulted to answer an allocation.
//
//   - Alloc(size): first-fit walk of the free list, splitting the chosen
//     block when the remainder can hold another block
//   - Free(p): address-ordered reinsertion with immediate coalescing of the
//     left and right physical neighbours
//   - Realloc(p, size): shrink in place, grow in place by absorbing the next
//     physical block, or move to a fresh block as a last resort
//
// # Usage Example
//
//	a, err := arena.New(arena.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	defer a.Close()
//
//	p, err := a.Alloc(100)
//	if err != nil {
//	    return err // arena.ErrNoSpace when no block is large enough
//	}
//	b, _ := a.Bytes(p)
//	copy(b, "hello")
//
//	p, err = a.Realloc(p, 4096)
//	...
//	_ = a.Free(p)
//
// # Pointers
//
// Ptr values are payload offsets relative to the 16-byte-aligned start of
// the arena, so they stay valid across goroutines and can be stored inside
// the arena itself. Ptr(0) is Nil: no payload can start at offset zero
// because a header always precedes it. Use Bytes to obtain a slice over a
// payload and Addr to obtain its absolute address.
//
// # Block Layout
//
//	+--------+--------+-------+-------+-----------+----------------+
//	| size   | next   | magic | state | requested | payload ...    |
//	| u64    | u64    | u32   | u32   | u64       |                |
//	+--------+--------+-------+-------+-----------+----------------+
//	0        8        16      20      24          32
//
// Blocks partition the arena without gaps: the block after B starts at
// off(B) + B.size. This is what lets Free and Realloc find physical
// neighbours with plain arithmetic.
//
// # Alignment
//
// Headers, payloads and block sizes are multiples of 16 bytes. The smallest
// block is 48 bytes (a header plus one alignment unit); requests whose
// remainder would be smaller than that are over-allocated instead of
// leaving an unusable fragment.
//
// # Errors
//
// Allocation failure is reported as ErrNoSpace and never panics. Invalid
// pointers passed to Free or Realloc return ErrBadPtr or ErrDoubleFree. A
// corrupt heap detected while walking the free list panics with an
// *InvariantError: continuing over a corrupt heap would hand out overlapping
// memory.
//
// # Thread Safety
//
// All methods serialize on a single mutex scoped to the Arena. Payload slices
// returned by Bytes are not guarded; the caller owns them until the matching
// Free or Realloc.
//
// # Diagnostics
//
// DumpState returns a read-only snapshot of the free list, the allocation
// registry and the physical block layout; package printer formats it. Stats
// returns operation counters, and Verify checks every structural invariant.
// Set ARENA_LOG_ALLOC=1 to log allocator decisions to stderr.
//
// # Related Packages
//
//   - github.com/joshuapare/heapkit/arena/printer: text and JSON state dumps
//   - github.com/joshuapare/heapkit/arena/trace: workload trace replay
//   - github.com/joshuapare/heapkit/internal/format: header layout constants
package arena
