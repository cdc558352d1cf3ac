package arena

// opStats holds the operation counters kept by an Arena.
type opStats struct {
	AllocCalls       uint64 // Alloc calls with a non-zero size, including those made by Realloc
	AllocFailures    uint64 // Requests that ended in ErrNoSpace
	FreeCalls        uint64 // Free calls on a live block
	ReallocCalls     uint64 // Realloc calls on a live block with a non-zero size
	Splits           uint64 // Blocks split into an allocation and a free remainder
	CoalesceForward  uint64 // Freed blocks that absorbed their successor
	CoalesceBackward uint64 // Freed blocks absorbed by their predecessor
	ReallocShrink    uint64 // Reallocs satisfied by the existing block
	ReallocGrow      uint64 // Reallocs satisfied by absorbing the next block
	ReallocMoved     uint64 // Reallocs that moved the payload to a new block
}

// Stats reports operation counters and a summary of the current heap.
type Stats struct {
	AllocCalls       uint64
	AllocFailures    uint64
	FreeCalls        uint64
	ReallocCalls     uint64
	Splits           uint64
	CoalesceForward  uint64
	CoalesceBackward uint64
	ReallocShrink    uint64
	ReallocGrow      uint64
	ReallocMoved     uint64

	Capacity       uint64 // usable bytes, headers included
	Live           int    // allocated blocks
	FreeBlocks     int    // members of the free list
	FreeBytes      uint64 // bytes in free blocks, headers included
	LargestFree    uint64 // size of the largest free block
	UsedBytes      uint64 // bytes in allocated blocks, headers included
	RequestedBytes uint64 // sum of sizes requested for live allocations
}

// Stats returns the current counters. The free-list figures are computed by
// walking the list.
func (a *Arena) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := Stats{
		AllocCalls:       a.stats.AllocCalls,
		AllocFailures:    a.stats.AllocFailures,
		FreeCalls:        a.stats.FreeCalls,
		ReallocCalls:     a.stats.ReallocCalls,
		Splits:           a.stats.Splits,
		CoalesceForward:  a.stats.CoalesceForward,
		CoalesceBackward: a.stats.CoalesceBackward,
		ReallocShrink:    a.stats.ReallocShrink,
		ReallocGrow:      a.stats.ReallocGrow,
		ReallocMoved:     a.stats.ReallocMoved,
		Capacity:         uint64(len(a.mem)),
		Live:             a.live,
		RequestedBytes:   a.requested,
	}
	if a.mem == nil {
		return s
	}
	a.walkFree(func(off uint64) bool {
		sz := a.size(off)
		s.FreeBlocks++
		s.FreeBytes += sz
		s.LargestFree = max(s.LargestFree, sz)
		return true
	})
	s.UsedBytes = s.Capacity - s.FreeBytes
	return s
}
