package arena

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/mmfile"
)

// Arena is a fixed-capacity heap. The zero value is not usable; call New.
type Arena struct {
	mu sync.Mutex

	// raw is the region as provisioned; mem is the aligned, usable window
	// into it. Every offset handled by the allocator is relative to mem.
	raw     []byte
	mem     []byte
	pad     uint64
	backing Backing
	unmap   func() error

	// head is the free list entry point, format.NoBlock when nothing is free.
	head uint64

	// maxNodes bounds every free-list walk; a walk longer than this means
	// the list no longer returns to head.
	maxNodes int

	registry  *registry
	live      int
	requested uint64
	stats     opStats

	log   *slog.Logger
	debug bool
}

// New provisions a backing region and installs a single free block spanning
// all of it.
func New(opts Options) (*Arena, error) {
	raw, unmap, backing, err := provision(opts)
	if err != nil {
		return nil, err
	}

	pad := uint64(format.AlignPadding(baseAddr(raw)))
	var usable uint64
	if pad < uint64(len(raw)) {
		usable = format.AlignDown(uint64(len(raw)) - pad)
	}
	if usable < format.MinBlockSize {
		if unmap != nil {
			_ = unmap()
		}
		return nil, fmt.Errorf("%w: %d bytes usable, need %d", ErrArenaTooSmall, usable, format.MinBlockSize)
	}

	log := newLogger(opts.Logger)
	a := &Arena{
		raw:      raw,
		mem:      raw[pad : pad+usable : pad+usable],
		pad:      pad,
		backing:  backing,
		unmap:    unmap,
		maxNodes: int(usable/format.MinBlockSize) + 1,
		log:      log,
		debug:    log.Enabled(context.Background(), slog.LevelDebug),
	}
	if !opts.DisableRegistry {
		a.registry = newRegistry()
	}
	a.reset()

	a.log.Info("arena initialized",
		"capacity", usable,
		"padding", pad,
		"backing", backing.String(),
	)
	return a, nil
}

// provision returns the backing region described by opts.
func provision(opts Options) ([]byte, func() error, Backing, error) {
	if opts.Buffer != nil {
		return opts.Buffer, nil, BackingHeap, nil
	}
	capacity := opts.Capacity
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	if capacity < 0 {
		return nil, nil, 0, fmt.Errorf("%w: capacity %d", ErrInvalidSize, capacity)
	}

	switch opts.Backing {
	case BackingMmap:
		raw, unmap, err := mmfile.Map(capacity)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("arena: provision mmap backing: %w", err)
		}
		return raw, unmap, BackingMmap, nil
	default:
		return make([]byte, capacity), nil, BackingHeap, nil
	}
}

// reset installs the initial state: one free block covering the whole
// usable region, linked to itself.
func (a *Arena) reset() {
	a.writeFree(0, uint64(len(a.mem)), 0)
	a.head = 0
	a.registry.reset()
	a.live = 0
	a.requested = 0
	a.stats = opStats{}
}

// Reset discards every allocation and returns the arena to its initial
// state. Outstanding pointers become invalid.
func (a *Arena) Reset() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mem == nil {
		return ErrClosed
	}
	a.reset()
	a.log.Debug("arena reset", "capacity", len(a.mem))
	return nil
}

// Close releases the backing region. Any further call returns ErrClosed.
func (a *Arena) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mem == nil {
		return nil
	}
	a.mem, a.raw = nil, nil
	a.head = format.NoBlock
	if a.unmap != nil {
		err := a.unmap()
		a.unmap = nil
		return err
	}
	return nil
}

// Capacity returns the number of usable bytes in the arena, headers
// included.
func (a *Arena) Capacity() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.mem)
}
