package arena

import "log/slog"

// DefaultCapacity is the arena size used when Options.Capacity is zero.
const DefaultCapacity = 1 << 20 // 1 MiB

// Backing selects where the arena region comes from.
type Backing uint8

const (
	// BackingHeap allocates the region as a Go byte slice.
	BackingHeap Backing = iota

	// BackingMmap maps an anonymous private region outside the Go heap.
	// Falls back to BackingHeap on platforms without mmap.
	BackingMmap
)

func (b Backing) String() string {
	switch b {
	case BackingHeap:
		return "heap"
	case BackingMmap:
		return "mmap"
	default:
		return "unknown"
	}
}

// Options configures a new Arena.
type Options struct {
	// Capacity is the size of the backing region in bytes.
	// Default: DefaultCapacity
	Capacity int

	// Backing selects the region provider. Ignored when Buffer is set.
	// Default: BackingHeap
	Backing Backing

	// Buffer supplies the backing region directly. The arena takes
	// ownership; the caller must not touch it afterwards.
	Buffer []byte

	// DisableRegistry turns off tracking of live allocations. DumpState then
	// reports no allocated blocks; nothing else changes.
	DisableRegistry bool

	// Logger receives allocator events. When nil, events are discarded
	// unless ARENA_LOG_ALLOC is set in the environment.
	Logger *slog.Logger
}

// DefaultOptions returns the options used by the reference configuration:
// a 1 MiB heap-backed arena with the registry enabled.
func DefaultOptions() Options {
	return Options{
		Capacity: DefaultCapacity,
		Backing:  BackingHeap,
	}
}
