package trace

import (
	"math/rand"
	"strconv"
)

// GenerateOptions shapes a random workload.
type GenerateOptions struct {
	Ops     int   // number of operations
	MaxSize int   // largest alloc/realloc size
	MaxLive int   // cap on simultaneously live ids; 0 means Ops
	Seed    int64 // rand seed; equal seeds give equal traces
}

// Generate returns a random but well-formed trace: every free and realloc
// names an id allocated earlier in the trace. Roughly half the operations
// allocate, a quarter free and a quarter realloc.
func Generate(opts GenerateOptions) []Op {
	rng := rand.New(rand.NewSource(opts.Seed))
	maxSize := max(opts.MaxSize, 1)
	maxLive := opts.MaxLive
	if maxLive <= 0 {
		maxLive = opts.Ops
	}

	ops := make([]Op, 0, opts.Ops)
	var live []string
	next := 0
	for range opts.Ops {
		roll := rng.Intn(4)
		switch {
		case len(live) == 0 || (roll < 2 && len(live) < maxLive):
			id := "a" + strconv.Itoa(next)
			next++
			live = append(live, id)
			ops = append(ops, Op{Kind: KindAlloc, ID: id, Size: 1 + rng.Intn(maxSize)})

		case roll == 3:
			i := rng.Intn(len(live))
			ops = append(ops, Op{Kind: KindRealloc, ID: live[i], Size: 1 + rng.Intn(maxSize)})

		default:
			i := rng.Intn(len(live))
			ops = append(ops, Op{Kind: KindFree, ID: live[i]})
			live[i] = live[len(live)-1]
			live = live[:len(live)-1]
		}
	}
	return ops
}
