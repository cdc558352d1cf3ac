package format

import "errors"

var (
	// ErrTruncated indicates the buffer lacked the bytes required for a header.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrBadMagic indicates a header without the allocator's magic tag.
	ErrBadMagic = errors.New("format: bad block magic")
	// ErrBadState indicates a header whose state is neither free nor used.
	ErrBadState = errors.New("format: bad block state")
	// ErrBadSize indicates a header whose size cannot describe a block at
	// its offset.
	ErrBadSize = errors.New("format: bad block size")
)
