package arena

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/format"
)

// Realloc resizes p's payload to size bytes.
//
// Shrinking always happens in place. Growing first tries to absorb the free
// block that physically follows p; otherwise a new block is allocated, the
// old payload copied into it and the old block freed. When no block can
// satisfy the request Realloc returns Nil and ErrNoSpace and p remains
// valid and unchanged.
//
// Realloc(Nil, n) behaves like Alloc(n); Realloc(p, 0) frees p and returns
// Nil.
func (a *Arena) Realloc(p Ptr, size int) (Ptr, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mem == nil {
		return Nil, ErrClosed
	}
	return a.realloc(p, size)
}

func (a *Arena) realloc(p Ptr, size int) (Ptr, error) {
	if p == Nil {
		return a.alloc(size)
	}
	if size == 0 {
		return Nil, a.free(p)
	}
	if size < 0 {
		return Nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	blk, err := a.usedBlock(p)
	if err != nil {
		return Nil, err
	}
	a.stats.ReallocCalls++

	needed, ok := neededFor(size)
	if !ok || needed > uint64(len(a.mem)) {
		a.stats.AllocFailures++
		return Nil, fmt.Errorf("%w: requested %d bytes", ErrNoSpace, size)
	}

	old := a.size(blk)
	if old >= needed {
		a.resize(blk, needed, uint64(size))
		a.stats.ReallocShrink++
		return p, nil
	}

	if a.extendInPlace(blk, needed) {
		a.resize(blk, needed, uint64(size))
		a.stats.ReallocGrow++
		if a.debug {
			a.debugf("realloc in place", "offset", blk, "old", old, "size", a.size(blk))
		}
		return p, nil
	}

	np, err := a.alloc(size)
	if err != nil {
		return Nil, err
	}
	n := min(old-format.HeaderSize, uint64(size))
	copy(a.mem[uint64(np):uint64(np)+n], a.mem[uint64(p):uint64(p)+n])
	a.forget(blk)
	a.release(blk)
	a.stats.ReallocMoved++
	if a.debug {
		a.debugf("realloc moved", "from", blk, "to", uint64(np)-format.HeaderSize, "size", size)
	}
	return np, nil
}

// resize trims blk to needed bytes, returning any tail of at least MinSplit
// to the free list, and records the new requested size.
func (a *Arena) resize(blk, needed, requested uint64) {
	a.requested -= format.ReadU64(a.mem, blk+format.RequestedOffset)
	a.requested += requested

	size := a.size(blk)
	if size-needed >= format.MinSplit {
		tail := blk + needed
		a.writeUsed(tail, size-needed, 0)
		a.setSize(blk, needed)
		a.release(tail)
		a.stats.Splits++
	}
	a.setRequested(blk, requested)
}

// extendInPlace merges the free block physically following blk into it when
// the merged block would hold needed bytes. It reports whether the merge
// happened; nothing changes when it returns false.
func (a *Arena) extendInPlace(blk, needed uint64) bool {
	size := a.size(blk)
	nxt := blk + size
	if nxt >= uint64(len(a.mem)) {
		return false
	}
	h := a.block(nxt)
	if !h.Free() || size+h.Size < needed {
		return false
	}

	a.unlink(a.predecessor(nxt), nxt)
	a.setSize(blk, size+h.Size)
	a.wipe(nxt)
	return true
}
