package arena

import "github.com/joshuapare/heapkit/internal/format"

// The free list is circular, singly linked through the next field of free
// headers, and ordered by ascending offset except for a single wrap point.
// head may be any member.

// unlink removes blk from the list given its predecessor prev.
func (a *Arena) unlink(prev, blk uint64) {
	if prev == blk {
		// Sole member.
		a.head = format.NoBlock
		return
	}
	a.setNext(prev, a.next(blk))
	if blk == a.head {
		a.head = prev
	}
}

// predecessor returns the free block whose next is blk.
func (a *Arena) predecessor(blk uint64) uint64 {
	if a.head == format.NoBlock {
		a.corrupt("free-list", blk, "predecessor lookup on empty list")
	}
	cur := a.head
	for range a.maxNodes {
		if a.next(cur) == blk {
			return cur
		}
		cur = a.next(cur)
		if cur == a.head {
			break
		}
	}
	a.corrupt("free-list", blk, "free block not linked into free list")
	return 0
}

// spliceRange finds the adjacent pair (prev, next) between which blk belongs
// in address order. When prev >= next the pair straddles the wrap point and
// blk belongs there if it lies above prev or below next.
func (a *Arena) spliceRange(blk uint64) (prev, next uint64) {
	cur := a.head
	nxt := a.next(cur)
	for range a.maxNodes {
		if cur < blk && blk < nxt {
			return cur, nxt
		}
		if cur >= nxt && (blk > cur || blk < nxt) {
			return cur, nxt
		}
		cur = nxt
		nxt = a.next(cur)
		if cur == a.head {
			break
		}
	}
	a.corrupt("free-list", blk, "no splice point in address order")
	return 0, 0
}

// walkFree calls fn for every free block in list order starting at head.
// Iteration stops early when fn returns false.
func (a *Arena) walkFree(fn func(off uint64) bool) {
	if a.head == format.NoBlock {
		return
	}
	cur := a.head
	for range a.maxNodes {
		if !fn(cur) {
			return
		}
		cur = a.next(cur)
		if cur == a.head {
			return
		}
	}
	a.corrupt("free-list", cur, "free list does not return to head")
}
