package trace

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spaolacci/murmur3"

	"github.com/joshuapare/heapkit/arena"
)

// ReplayOptions controls Replay.
type ReplayOptions struct {
	// Verify runs Arena.Verify after every operation.
	Verify bool

	// StopOnNoSpace turns allocation failures into errors instead of
	// counting them.
	StopOnNoSpace bool

	// Logger receives one debug event per operation. Default: discard.
	Logger *slog.Logger
}

// Result summarizes a replay.
type Result struct {
	Ops      int
	Allocs   int
	Frees    int
	Reallocs int

	// Failures counts alloc and realloc operations that returned
	// arena.ErrNoSpace.
	Failures int

	// Live is the number of ids still allocated at the end.
	Live int

	PeakLive int
	PeakUsed uint64 // bytes in allocated blocks, headers included
}

// liveID is one live allocation tracked by the replayer.
type liveID struct {
	ptr  arena.Ptr
	size int
	seed uint32
}

// pattern returns the fill byte at position i of an allocation.
func (l liveID) pattern(i int) byte {
	return byte(l.seed>>(8*(i&3))) ^ byte(i)
}

// replayer holds per-run replay state.
type replayer struct {
	a    *arena.Arena
	opts ReplayOptions
	log  *slog.Logger
	live map[string]liveID
	res  Result

	// failed holds ids whose allocation ran out of space. A later free of
	// such an id is a no-op, like free(NULL).
	failed map[string]bool
}

// Replay applies ops to a in order.
//
// Every payload is filled with a pattern derived from its id; the pattern is
// checked before each free and realloc and must survive a realloc up to the
// smaller of the old and new sizes. A mismatch returns ErrCorrupted.
// Allocation failures are counted, not fatal, unless StopOnNoSpace is set.
func Replay(a *arena.Arena, ops []Op, opts ReplayOptions) (Result, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r := &replayer{
		a:      a,
		opts:   opts,
		log:    log,
		live:   make(map[string]liveID),
		failed: make(map[string]bool),
	}

	for _, op := range ops {
		if err := r.apply(op); err != nil {
			if op.Line > 0 {
				return r.res, fmt.Errorf("line %d (%s): %w", op.Line, op, err)
			}
			return r.res, fmt.Errorf("op %d (%s): %w", r.res.Ops, op, err)
		}
		r.res.Ops++

		if opts.Verify {
			if err := a.Verify(); err != nil {
				return r.res, fmt.Errorf("after %s: %w", op, err)
			}
		}
		s := a.Stats()
		r.res.PeakUsed = max(r.res.PeakUsed, s.UsedBytes)
		r.res.PeakLive = max(r.res.PeakLive, s.Live)
	}
	r.res.Live = len(r.live)
	return r.res, nil
}

func (r *replayer) apply(op Op) error {
	switch op.Kind {
	case KindAlloc:
		return r.alloc(op)
	case KindFree:
		return r.free(op)
	case KindRealloc:
		return r.realloc(op)
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrSyntax, op.Kind)
	}
}

func (r *replayer) alloc(op Op) error {
	r.res.Allocs++
	if _, ok := r.live[op.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, op.ID)
	}
	p, err := r.a.Alloc(op.Size)
	if err != nil {
		r.failed[op.ID] = true
		return r.noSpace(op, err)
	}
	delete(r.failed, op.ID)
	l := liveID{ptr: p, size: op.Size, seed: murmur3.Sum32([]byte(op.ID))}
	if err := r.fill(l, 0); err != nil {
		return err
	}
	r.live[op.ID] = l
	r.log.Debug("alloc", "id", op.ID, "size", op.Size, "ptr", uint64(p))
	return nil
}

func (r *replayer) free(op Op) error {
	r.res.Frees++
	l, ok := r.live[op.ID]
	if !ok {
		if r.failed[op.ID] {
			delete(r.failed, op.ID)
			return nil
		}
		return fmt.Errorf("%w: %s", ErrUnknownID, op.ID)
	}
	if err := r.check(l, l.size); err != nil {
		return err
	}
	if err := r.a.Free(l.ptr); err != nil {
		return err
	}
	delete(r.live, op.ID)
	r.log.Debug("free", "id", op.ID, "ptr", uint64(l.ptr))
	return nil
}

func (r *replayer) realloc(op Op) error {
	r.res.Reallocs++
	l, ok := r.live[op.ID]
	if !ok {
		// Realloc of an unknown id behaves like realloc(NULL, n).
		l = liveID{seed: murmur3.Sum32([]byte(op.ID))}
	}
	if err := r.check(l, l.size); err != nil {
		return err
	}

	p, err := r.a.Realloc(l.ptr, op.Size)
	if err != nil {
		if errors.Is(err, arena.ErrNoSpace) {
			// The original allocation must be untouched.
			if cerr := r.check(l, l.size); cerr != nil {
				return cerr
			}
			if !ok {
				r.failed[op.ID] = true
			}
		}
		return r.noSpace(op, err)
	}
	delete(r.failed, op.ID)
	if p.IsNil() && op.Size == 0 {
		delete(r.live, op.ID)
		r.log.Debug("realloc", "id", op.ID, "size", 0)
		return nil
	}

	moved := p != l.ptr
	oldSize := l.size
	l.ptr, l.size = p, op.Size
	if err := r.check(l, min(oldSize, op.Size)); err != nil {
		return err
	}
	if err := r.fill(l, min(oldSize, op.Size)); err != nil {
		return err
	}
	r.live[op.ID] = l
	r.log.Debug("realloc", "id", op.ID, "size", op.Size, "ptr", uint64(p), "moved", moved)
	return nil
}

// noSpace counts an allocation failure, or returns err unchanged when it is
// anything else.
func (r *replayer) noSpace(op Op, err error) error {
	if !errors.Is(err, arena.ErrNoSpace) || r.opts.StopOnNoSpace {
		return err
	}
	r.res.Failures++
	r.log.Debug("no space", "op", op.Kind.String(), "id", op.ID, "size", op.Size)
	return nil
}

// fill writes l's pattern over its payload starting at from.
func (r *replayer) fill(l liveID, from int) error {
	if l.ptr.IsNil() {
		return nil
	}
	b, err := r.a.Bytes(l.ptr)
	if err != nil {
		return err
	}
	for i := from; i < len(b); i++ {
		b[i] = l.pattern(i)
	}
	return nil
}

// check verifies the first n bytes of l's payload.
func (r *replayer) check(l liveID, n int) error {
	if l.ptr.IsNil() || n == 0 {
		return nil
	}
	b, err := r.a.Bytes(l.ptr)
	if err != nil {
		return err
	}
	if len(b) < n {
		return fmt.Errorf("%w: payload 0x%X holds %d bytes, want %d", ErrCorrupted, uint64(l.ptr), len(b), n)
	}
	for i := range n {
		if b[i] != l.pattern(i) {
			return fmt.Errorf("%w: payload 0x%X byte %d", ErrCorrupted, uint64(l.ptr), i)
		}
	}
	return nil
}
