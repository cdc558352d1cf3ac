package arena

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/format"
)

// Alloc reserves size bytes and returns a 16-byte aligned payload handle.
//
// A zero size returns Nil with no error and leaves the arena untouched.
// ErrNoSpace is returned when no free block can hold the request; the arena
// is left unchanged in that case.
func (a *Arena) Alloc(size int) (Ptr, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mem == nil {
		return Nil, ErrClosed
	}
	return a.alloc(size)
}

func (a *Arena) alloc(size int) (Ptr, error) {
	if size == 0 {
		return Nil, nil
	}
	if size < 0 {
		return Nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	a.stats.AllocCalls++

	needed, ok := neededFor(size)
	if !ok || needed > uint64(len(a.mem)) {
		return Nil, a.allocFailed(size, needed)
	}
	if a.head == format.NoBlock {
		return Nil, a.allocFailed(size, needed)
	}

	// First fit, starting just past head, one lap.
	prev := a.head
	cur := a.next(prev)
	for range a.maxNodes {
		if !a.isFree(cur) {
			a.corrupt("free-list", cur, "allocated block linked into free list")
		}
		if a.size(cur) >= needed {
			a.take(prev, cur, needed, uint64(size))
			a.registry.add(cur)
			a.live++
			a.requested += uint64(size)
			return payloadOf(cur), nil
		}
		if cur == a.head {
			return Nil, a.allocFailed(size, needed)
		}
		prev = cur
		cur = a.next(cur)
	}
	a.corrupt("free-list", cur, "free list does not return to head")
	return Nil, nil
}

func (a *Arena) allocFailed(size int, needed uint64) error {
	a.stats.AllocFailures++
	if a.debug {
		a.debugf("no suitable block", "requested", size, "needed", needed)
	}
	return fmt.Errorf("%w: requested %d bytes", ErrNoSpace, size)
}

// take hands out the free block cur (linked after prev) for a block of
// needed bytes, splitting off the remainder when it is large enough to
// stand on its own.
func (a *Arena) take(prev, cur, needed, requested uint64) {
	size := a.size(cur)
	rem := size - needed

	if rem < format.MinSplit {
		a.unlink(prev, cur)
		a.writeUsed(cur, size, requested)
		return
	}

	// The remainder takes cur's place in the list.
	tail := cur + needed
	tailNext := a.next(cur)
	if prev == cur {
		tailNext = tail
	}
	a.writeFree(tail, rem, tailNext)
	if prev != cur {
		a.setNext(prev, tail)
	}
	if cur == a.head {
		a.head = tail
	}
	a.writeUsed(cur, needed, requested)
	a.stats.Splits++
	if a.debug {
		a.debugf("split block", "offset", cur, "size", needed, "remainder", rem)
	}
}
