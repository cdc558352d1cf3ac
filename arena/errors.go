package arena

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSpace indicates that no free block large enough was found.
	ErrNoSpace = errors.New("arena: no free block large enough")

	// ErrInvalidSize indicates a negative size or capacity.
	ErrInvalidSize = errors.New("arena: invalid size")

	// ErrBadPtr indicates a pointer that does not address a live block.
	ErrBadPtr = errors.New("arena: bad pointer")

	// ErrDoubleFree indicates a pointer whose block is already free.
	ErrDoubleFree = errors.New("arena: block already free")

	// ErrArenaTooSmall indicates a backing region that cannot hold a single block.
	ErrArenaTooSmall = errors.New("arena: backing region too small")

	// ErrClosed indicates use of an Arena after Close.
	ErrClosed = errors.New("arena: closed")
)

// InvariantError describes a violated heap invariant. Verify returns it; the
// allocation paths panic with it when they run into a corrupt heap.
type InvariantError struct {
	Check   string
	Offset  uint64
	Message string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("arena: invariant %s violated at 0x%X: %s", e.Check, e.Offset, e.Message)
}
