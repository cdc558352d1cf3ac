package arena

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/format"
)

// Verify walks the whole arena and checks every structural invariant:
//
//   - blocks tile the region exactly, each with a valid aligned header
//   - no two physically adjacent blocks are both free
//   - the free list is circular, holds exactly the free blocks and is
//     ascending by offset apart from a single wrap point
//   - when enabled, the registry holds exactly the allocated blocks
//
// The first violation found is returned as an *InvariantError.
func (a *Arena) Verify() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mem == nil {
		return ErrClosed
	}
	return a.verify()
}

func (a *Arena) verify() error {
	limit := uint64(len(a.mem))
	free := make(map[uint64]bool)
	used := 0
	var requested uint64

	prevFree := false
	var off uint64
	for off < limit {
		h, next, err := format.NextBlock(a.mem, off)
		if err != nil {
			return violation("partition", off, "%v", err)
		}
		if h.Free() {
			if prevFree {
				return violation("coalesce", off, "adjacent free blocks")
			}
			free[off] = true
		} else {
			if h.Requested > h.PayloadCap() {
				return violation("header", off, "requested %d exceeds capacity %d", h.Requested, h.PayloadCap())
			}
			if a.registry != nil && !a.registry.has(off) {
				return violation("registry", off, "allocated block not registered")
			}
			used++
			requested += h.Requested
		}
		prevFree = h.Free()
		off = next
	}
	if off != limit {
		return violation("partition", off, "blocks end at %d, region ends at %d", off, limit)
	}
	if a.registry != nil && a.registry.len() != used {
		return violation("registry", 0, "%d registered, %d allocated", a.registry.len(), used)
	}
	if a.live != used {
		return violation("registry", 0, "live count %d, %d allocated", a.live, used)
	}
	if a.requested != requested {
		return violation("registry", 0, "requested total %d, headers sum to %d", a.requested, requested)
	}

	return a.verifyFreeList(free)
}

func (a *Arena) verifyFreeList(free map[uint64]bool) error {
	if a.head == format.NoBlock {
		if len(free) != 0 {
			return violation("free-list", 0, "empty list but %d free blocks", len(free))
		}
		return nil
	}
	if !free[a.head] {
		return violation("free-list", a.head, "head is not a free block")
	}

	seen := 0
	descents := 0
	cur := a.head
	for {
		if !free[cur] {
			return violation("free-list", cur, "list member is not a free block")
		}
		seen++
		if seen > len(free) {
			return violation("free-list", cur, "list longer than %d free blocks", len(free))
		}
		nxt := a.next(cur)
		if nxt <= cur {
			descents++
		}
		if nxt == a.head {
			break
		}
		cur = nxt
	}
	if seen != len(free) {
		return violation("free-list", a.head, "list holds %d of %d free blocks", seen, len(free))
	}
	if descents > 1 {
		return violation("free-list", a.head, "list not address ordered (%d wrap points)", descents)
	}
	return nil
}

func violation(check string, off uint64, msg string, args ...any) *InvariantError {
	return &InvariantError{Check: check, Offset: off, Message: fmt.Sprintf(msg, args...)}
}
