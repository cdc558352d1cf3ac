package format

import "github.com/joshuapare/heapkit/internal/buf"

// Header is the decoded form of an in-band block header.
type Header struct {
	Size      uint64
	Next      uint64
	Magic     uint32
	State     uint32
	Requested uint64
}

// Free reports whether the header describes a free block.
func (h Header) Free() bool { return h.State == StateFree }

// PayloadCap returns the number of payload bytes the block can hold.
func (h Header) PayloadCap() uint64 {
	if h.Size < HeaderSize {
		return 0
	}
	return h.Size - HeaderSize
}

// DecodeHeader reads the header at off without validating it.
func DecodeHeader(b []byte, off uint64) (Header, error) {
	if !buf.Has(b, off, HeaderSize) {
		return Header{}, ErrTruncated
	}
	return Header{
		Size:      ReadU64(b, off+SizeOffset),
		Next:      ReadU64(b, off+NextOffset),
		Magic:     ReadU32(b, off+MagicOffset),
		State:     ReadU32(b, off+StateOffset),
		Requested: ReadU64(b, off+RequestedOffset),
	}, nil
}

// PutHeader writes h at off.
func PutHeader(b []byte, off uint64, h Header) {
	PutU64(b, off+SizeOffset, h.Size)
	PutU64(b, off+NextOffset, h.Next)
	PutU32(b, off+MagicOffset, h.Magic)
	PutU32(b, off+StateOffset, h.State)
	PutU64(b, off+RequestedOffset, h.Requested)
}

// WipeHeader zeroes the header at off. Used when a block is absorbed into a
// neighbour so stale pointers into it no longer look like live blocks.
func WipeHeader(b []byte, off uint64) {
	clear(b[off : off+HeaderSize])
}

// ValidateHeader checks the structural fields of h for a block starting at
// off inside a region of length limit.
func ValidateHeader(h Header, off, limit uint64) error {
	if h.Magic != BlockMagic {
		return ErrBadMagic
	}
	if h.State != StateFree && h.State != StateUsed {
		return ErrBadState
	}
	if h.Size < MinBlockSize || !IsAligned(h.Size) || h.Size > limit-off {
		return ErrBadSize
	}
	return nil
}

// NextBlock decodes and validates the header at off and returns it together
// with the offset of the physically following block.
func NextBlock(b []byte, off uint64) (Header, uint64, error) {
	h, err := DecodeHeader(b, off)
	if err != nil {
		return Header{}, 0, err
	}
	if err := ValidateHeader(h, off, uint64(len(b))); err != nil {
		return Header{}, 0, err
	}
	return h, off + h.Size, nil
}
