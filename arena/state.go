package arena

import "github.com/joshuapare/heapkit/internal/format"

// DumpState returns a snapshot of the arena: the free list in list order,
// the registered allocations and every block in physical order. It does not
// modify the arena. Formatting is left to the caller (see arena/printer).
func (a *Arena) DumpState() State {
	a.mu.Lock()
	defer a.mu.Unlock()

	st := State{
		Capacity: uint64(len(a.mem)),
		Padding:  a.pad,
		Backing:  a.backing,
		Head:     a.head,
	}
	if a.mem == nil {
		st.Head = format.NoBlock
		return st
	}

	a.walkFree(func(off uint64) bool {
		st.FreeList = append(st.FreeList, a.info(off))
		st.FreeBytes += a.size(off)
		return true
	})
	for _, off := range a.registry.sorted() {
		st.Allocated = append(st.Allocated, a.info(off))
	}
	for off := uint64(0); off < uint64(len(a.mem)); {
		h, next, err := format.NextBlock(a.mem, off)
		if err != nil {
			a.corrupt("partition", off, err.Error())
		}
		st.Blocks = append(st.Blocks, infoFrom(off, h))
		off = next
	}
	st.UsedBytes = st.Capacity - st.FreeBytes
	return st
}

func (a *Arena) info(off uint64) BlockInfo {
	return infoFrom(off, a.block(off))
}

func infoFrom(off uint64, h format.Header) BlockInfo {
	bi := BlockInfo{
		Offset:    off,
		Payload:   payloadOf(off),
		Size:      h.Size,
		Requested: h.Requested,
		Free:      h.Free(),
		Next:      h.Next,
	}
	if !bi.Free {
		bi.Next = NoBlock
	}
	return bi
}
