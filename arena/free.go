package arena

import "github.com/joshuapare/heapkit/internal/format"

// Free returns p's block to the arena and merges it with free physical
// neighbours. Freeing Nil is a no-op.
//
// ErrBadPtr is returned for a pointer that does not address a block header
// and ErrDoubleFree for a block that is already free. Neither changes state.
func (a *Arena) Free(p Ptr) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mem == nil {
		return ErrClosed
	}
	return a.free(p)
}

func (a *Arena) free(p Ptr) error {
	if p == Nil {
		return nil
	}
	blk, err := a.usedBlock(p)
	if err != nil {
		return err
	}
	a.stats.FreeCalls++
	a.forget(blk)
	a.release(blk)
	return nil
}

// forget drops an allocated block from the bookkeeping that tracks live
// allocations.
func (a *Arena) forget(blk uint64) {
	a.registry.remove(blk)
	a.live--
	a.requested -= format.ReadU64(a.mem, blk+format.RequestedOffset)
}

// release marks blk free, links it into the free list in address order and
// coalesces it with its neighbours.
func (a *Arena) release(blk uint64) {
	size := a.size(blk)

	if a.head == format.NoBlock {
		a.writeFree(blk, size, blk)
		a.head = blk
		return
	}

	prev, nxt := a.spliceRange(blk)
	a.writeFree(blk, size, nxt)
	a.setNext(prev, blk)

	// Forward: blk absorbs the block right after it.
	absorbed := format.NoBlock
	if blk+size == nxt {
		size += a.size(nxt)
		a.setSize(blk, size)
		a.setNext(blk, a.next(nxt))
		if nxt == a.head {
			a.head = blk
		}
		a.wipe(nxt)
		absorbed = nxt
		a.stats.CoalesceForward++
		if a.debug {
			a.debugf("coalesce forward", "offset", blk, "absorbed", nxt, "size", size)
		}
	}

	// Backward: prev absorbs blk. prev == absorbed means the list held a
	// single block which blk just swallowed.
	if prev != absorbed && prev+a.size(prev) == blk {
		merged := a.size(prev) + size
		a.setSize(prev, merged)
		a.setNext(prev, a.next(blk))
		if blk == a.head {
			a.head = prev
		}
		a.wipe(blk)
		a.stats.CoalesceBackward++
		if a.debug {
			a.debugf("coalesce backward", "offset", prev, "absorbed", blk, "size", merged)
		}
	}
}
