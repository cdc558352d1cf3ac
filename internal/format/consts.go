// Package format defines the in-band block header layout used by the arena
// allocator. Every region carved from an arena is prefixed by a fixed-size
// header; the helpers here encode and decode that header directly in the
// arena bytes so the allocator never keeps a shadow copy of block metadata.
package format

const (
	// Alignment is the alignment of every block header and payload within an
	// arena. All block sizes are multiples of Alignment.
	Alignment = 16

	// AlignmentMask is Alignment - 1, used by the rounding helpers.
	AlignmentMask = Alignment - 1

	// HeaderSize is the number of bytes reserved in front of every payload.
	// Layout (little-endian):
	//   0x00  size       uint64  total block size including this header
	//   0x08  next       uint64  offset of the next free block (free blocks only)
	//   0x10  magic      uint32  BlockMagic for a live header
	//   0x14  state      uint32  StateFree or StateUsed
	//   0x18  requested  uint64  payload bytes requested by the caller
	HeaderSize = 32

	// MinSplit is the smallest remainder worth carving into its own block.
	// Anything smaller stays attached to the block being handed out.
	MinSplit = HeaderSize + Alignment

	// MinBlockSize is the smallest block that can ever exist in an arena.
	MinBlockSize = MinSplit
)

// Header field offsets.
const (
	SizeOffset      = 0x00
	NextOffset      = 0x08
	MagicOffset     = 0x10
	StateOffset     = 0x14
	RequestedOffset = 0x18
)

// BlockMagic tags a header as written by the allocator ("blk\x01").
const BlockMagic uint32 = 0x016b6c62

// Block states stored at StateOffset.
const (
	StateFree uint32 = 1
	StateUsed uint32 = 2
)

// NoBlock is the sentinel stored where a block offset is expected but none
// exists (the head of an empty free list).
const NoBlock = ^uint64(0)
