package arena

import "slices"

// registry records the offsets of allocated blocks. A nil *registry is a
// disabled registry: every method is a no-op.
type registry struct {
	live map[uint64]struct{}
}

func newRegistry() *registry {
	return &registry{live: make(map[uint64]struct{})}
}

func (r *registry) add(off uint64) {
	if r == nil {
		return
	}
	r.live[off] = struct{}{}
}

func (r *registry) remove(off uint64) {
	if r == nil {
		return
	}
	delete(r.live, off)
}

func (r *registry) has(off uint64) bool {
	if r == nil {
		return false
	}
	_, ok := r.live[off]
	return ok
}

func (r *registry) len() int {
	if r == nil {
		return 0
	}
	return len(r.live)
}

func (r *registry) reset() {
	if r == nil {
		return
	}
	clear(r.live)
}

// sorted returns the registered offsets in ascending order.
func (r *registry) sorted() []uint64 {
	if r == nil {
		return nil
	}
	out := make([]uint64, 0, len(r.live))
	for off := range r.live {
		out = append(out, off)
	}
	slices.Sort(out)
	return out
}
