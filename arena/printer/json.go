package printer

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/joshuapare/heapkit/arena"
)

// jsonState is the JSON form of arena.State.
type jsonState struct {
	Capacity  uint64      `json:"capacity"`
	Padding   uint64      `json:"padding"`
	Backing   string      `json:"backing"`
	Head      *uint64     `json:"head"`
	FreeBytes uint64      `json:"free_bytes"`
	UsedBytes uint64      `json:"used_bytes"`
	FreeList  []jsonBlock `json:"free_list,omitempty"`
	Allocated []jsonBlock `json:"allocated,omitempty"`
	Blocks    []jsonBlock `json:"blocks,omitempty"`
}

// jsonBlock is the JSON form of arena.BlockInfo. Next is omitted for
// allocated blocks.
type jsonBlock struct {
	Offset    uint64  `json:"offset"`
	Ptr       uint64  `json:"ptr"`
	Size      uint64  `json:"size"`
	Requested uint64  `json:"requested,omitempty"`
	Free      bool    `json:"free"`
	Next      *uint64 `json:"next,omitempty"`
}

// jsonStats is the JSON form of arena.Stats.
type jsonStats struct {
	Capacity         uint64 `json:"capacity"`
	Live             int    `json:"live"`
	RequestedBytes   uint64 `json:"requested_bytes"`
	UsedBytes        uint64 `json:"used_bytes"`
	FreeBytes        uint64 `json:"free_bytes"`
	FreeBlocks       int    `json:"free_blocks"`
	LargestFree      uint64 `json:"largest_free"`
	AllocCalls       uint64 `json:"alloc_calls"`
	AllocFailures    uint64 `json:"alloc_failures"`
	FreeCalls        uint64 `json:"free_calls"`
	ReallocCalls     uint64 `json:"realloc_calls"`
	ReallocShrink    uint64 `json:"realloc_shrink"`
	ReallocGrow      uint64 `json:"realloc_grow"`
	ReallocMoved     uint64 `json:"realloc_moved"`
	Splits           uint64 `json:"splits"`
	CoalesceForward  uint64 `json:"coalesce_forward"`
	CoalesceBackward uint64 `json:"coalesce_backward"`
}

func offsetPtr(off uint64) *uint64 {
	if off == arena.NoBlock {
		return nil
	}
	return &off
}

func toJSONBlocks(in []arena.BlockInfo) []jsonBlock {
	if len(in) == 0 {
		return nil
	}
	out := make([]jsonBlock, 0, len(in))
	for _, b := range in {
		jb := jsonBlock{
			Offset:    b.Offset,
			Ptr:       uint64(b.Payload),
			Size:      b.Size,
			Requested: b.Requested,
			Free:      b.Free,
		}
		if b.Free {
			jb.Next = offsetPtr(b.Next)
		}
		out = append(out, jb)
	}
	return out
}

func (p *Printer) printStateJSON(st arena.State) error {
	doc := jsonState{
		Capacity:  st.Capacity,
		Padding:   st.Padding,
		Backing:   st.Backing.String(),
		Head:      offsetPtr(st.Head),
		FreeBytes: st.FreeBytes,
		UsedBytes: st.UsedBytes,
	}
	if p.opts.ShowFreeList {
		doc.FreeList = toJSONBlocks(st.FreeList)
	}
	if p.opts.ShowAllocated {
		doc.Allocated = toJSONBlocks(st.Allocated)
	}
	if p.opts.ShowBlocks {
		doc.Blocks = toJSONBlocks(st.Blocks)
	}
	return p.writeJSON(doc)
}

func (p *Printer) printStatsJSON(s arena.Stats) error {
	return p.writeJSON(jsonStats{
		Capacity:         s.Capacity,
		Live:             s.Live,
		RequestedBytes:   s.RequestedBytes,
		UsedBytes:        s.UsedBytes,
		FreeBytes:        s.FreeBytes,
		FreeBlocks:       s.FreeBlocks,
		LargestFree:      s.LargestFree,
		AllocCalls:       s.AllocCalls,
		AllocFailures:    s.AllocFailures,
		FreeCalls:        s.FreeCalls,
		ReallocCalls:     s.ReallocCalls,
		ReallocShrink:    s.ReallocShrink,
		ReallocGrow:      s.ReallocGrow,
		ReallocMoved:     s.ReallocMoved,
		Splits:           s.Splits,
		CoalesceForward:  s.CoalesceForward,
		CoalesceBackward: s.CoalesceBackward,
	})
}

func (p *Printer) writeJSON(v any) error {
	data, err := json.MarshalIndent(v, "", strings.Repeat(" ", p.opts.IndentSize))
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	_, err = fmt.Fprintf(p.writer, "%s\n", data)
	return err
}
