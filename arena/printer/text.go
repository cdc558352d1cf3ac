package printer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/joshuapare/heapkit/arena"
)

// hex renders an arena offset. Offsets are kept out of the message printer
// so they are never digit-grouped.
func hex(off uint64) string {
	if off == arena.NoBlock {
		return "none"
	}
	return fmt.Sprintf("0x%06X", off)
}

func (p *Printer) printStateText(st arena.State) error {
	ind := strings.Repeat(" ", p.opts.IndentSize)
	w := new(bytes.Buffer)

	freeN, usedN := 0, 0
	for _, b := range st.Blocks {
		if b.Free {
			freeN++
		} else {
			usedN++
		}
	}
	if len(st.Blocks) == 0 {
		freeN = len(st.FreeList)
		usedN = len(st.Allocated)
	}

	p.num.Fprintf(w, "Arena\n")
	p.num.Fprintf(w, "%sCapacity: %d bytes (%s backing, %d bytes padding)\n", ind, st.Capacity, st.Backing.String(), st.Padding)
	p.num.Fprintf(w, "%sHead:     %s\n", ind, hex(st.Head))
	p.num.Fprintf(w, "%sFree:     %d bytes in %d blocks\n", ind, st.FreeBytes, freeN)
	p.num.Fprintf(w, "%sUsed:     %d bytes in %d blocks\n", ind, st.UsedBytes, usedN)

	if p.opts.ShowFreeList {
		p.num.Fprintf(w, "\nFree list (%d):\n", len(st.FreeList))
		for _, b := range st.FreeList {
			p.num.Fprintf(w, "%s[%s] size=%d next=%s\n", ind, hex(b.Offset), b.Size, hex(b.Next))
		}
	}

	if p.opts.ShowAllocated {
		p.num.Fprintf(w, "\nAllocated (%d):\n", len(st.Allocated))
		for _, b := range st.Allocated {
			p.num.Fprintf(w, "%s[%s] size=%d requested=%d ptr=%s\n",
				ind, hex(b.Offset), b.Size, b.Requested, hex(uint64(b.Payload)))
		}
	}

	if p.opts.ShowBlocks {
		p.num.Fprintf(w, "\nBlocks (%d):\n", len(st.Blocks))
		for _, b := range st.Blocks {
			state := "used"
			if b.Free {
				state = "free"
			}
			p.num.Fprintf(w, "%s%s %s size=%d\n", ind, hex(b.Offset), state, b.Size)
		}
	}

	_, err := w.WriteTo(p.writer)
	return err
}

func (p *Printer) printStatsText(s arena.Stats) error {
	ind := strings.Repeat(" ", p.opts.IndentSize)
	w := p.writer

	rows := []struct {
		label string
		value any
	}{
		{"Capacity", s.Capacity},
		{"Live allocations", s.Live},
		{"Requested bytes", s.RequestedBytes},
		{"Used bytes", s.UsedBytes},
		{"Free bytes", s.FreeBytes},
		{"Free blocks", s.FreeBlocks},
		{"Largest free block", s.LargestFree},
		{"Alloc calls", s.AllocCalls},
		{"Alloc failures", s.AllocFailures},
		{"Free calls", s.FreeCalls},
		{"Realloc calls", s.ReallocCalls},
		{"Realloc shrink", s.ReallocShrink},
		{"Realloc grow in place", s.ReallocGrow},
		{"Realloc moved", s.ReallocMoved},
		{"Splits", s.Splits},
		{"Coalesce forward", s.CoalesceForward},
		{"Coalesce backward", s.CoalesceBackward},
	}

	width := 0
	for _, r := range rows {
		width = max(width, len(r.label))
	}

	p.num.Fprintf(w, "Stats\n")
	for _, r := range rows {
		label := fmt.Sprintf("%-*s", width+1, r.label+":")
		if _, err := p.num.Fprintf(w, "%s%s  %d\n", ind, label, r.value); err != nil {
			return err
		}
	}
	return nil
}
