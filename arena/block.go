package arena

import (
	"fmt"
	"unsafe"

	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/format"
)

// ============================================================================
// Header primitives
//
// Every read and write of block metadata goes through the helpers below. The
// engines above this layer only ever see block offsets.
// ============================================================================

func (a *Arena) size(off uint64) uint64 {
	return format.ReadU64(a.mem, off+format.SizeOffset)
}

func (a *Arena) setSize(off, size uint64) {
	format.PutU64(a.mem, off+format.SizeOffset, size)
}

func (a *Arena) next(off uint64) uint64 {
	return format.ReadU64(a.mem, off+format.NextOffset)
}

func (a *Arena) setNext(off, next uint64) {
	format.PutU64(a.mem, off+format.NextOffset, next)
}

func (a *Arena) isFree(off uint64) bool {
	return format.ReadU32(a.mem, off+format.StateOffset) == format.StateFree
}

func (a *Arena) setRequested(off, n uint64) {
	format.PutU64(a.mem, off+format.RequestedOffset, n)
}

// writeFree installs a free header at off.
func (a *Arena) writeFree(off, size, next uint64) {
	format.PutHeader(a.mem, off, format.Header{
		Size:  size,
		Next:  next,
		Magic: format.BlockMagic,
		State: format.StateFree,
	})
}

// writeUsed installs an allocated header at off. next is meaningless for an
// allocated block and is cleared to NoBlock.
func (a *Arena) writeUsed(off, size, requested uint64) {
	format.PutHeader(a.mem, off, format.Header{
		Size:      size,
		Next:      format.NoBlock,
		Magic:     format.BlockMagic,
		State:     format.StateUsed,
		Requested: requested,
	})
}

// wipe clears the header of a block that has been absorbed by a neighbour.
func (a *Arena) wipe(off uint64) {
	format.WipeHeader(a.mem, off)
}

// block decodes and validates the header at off. A bad header found while
// walking the heap means the heap is corrupt.
func (a *Arena) block(off uint64) format.Header {
	h, err := format.DecodeHeader(a.mem, off)
	if err == nil {
		err = format.ValidateHeader(h, off, uint64(len(a.mem)))
	}
	if err != nil {
		a.corrupt("header", off, err.Error())
	}
	return h
}

// usedBlock maps a caller-supplied payload pointer to its block offset.
func (a *Arena) usedBlock(p Ptr) (uint64, error) {
	off := uint64(p)
	switch {
	case off >= uint64(len(a.mem)):
		return 0, fmt.Errorf("%w: 0x%X outside arena", ErrBadPtr, off)
	case !format.IsAligned(off):
		return 0, fmt.Errorf("%w: 0x%X misaligned", ErrBadPtr, off)
	case off < format.HeaderSize:
		return 0, fmt.Errorf("%w: 0x%X has no room for a header", ErrBadPtr, off)
	}
	blk := off - format.HeaderSize
	h, err := format.DecodeHeader(a.mem, blk)
	if err == nil {
		err = format.ValidateHeader(h, blk, uint64(len(a.mem)))
	}
	if err != nil {
		return 0, fmt.Errorf("%w: 0x%X: %v", ErrBadPtr, off, err)
	}
	if h.Free() {
		return 0, fmt.Errorf("%w: 0x%X", ErrDoubleFree, off)
	}
	return blk, nil
}

func payloadOf(blk uint64) Ptr {
	return Ptr(blk + format.HeaderSize)
}

// neededFor returns the aligned block size for a payload of size bytes.
// ok is false for negative sizes and when the computation overflows.
func neededFor(size int) (uint64, bool) {
	s, ok := buf.FromInt(size)
	if !ok {
		return 0, false
	}
	n, ok := buf.AddU64(s, format.HeaderSize+format.AlignmentMask)
	if !ok {
		return 0, false
	}
	return format.AlignDown(n), true
}

// corrupt stops the process: the heap can no longer be trusted.
func (a *Arena) corrupt(check string, off uint64, msg string) {
	err := &InvariantError{Check: check, Offset: off, Message: msg}
	a.log.Error("heap corruption detected", "check", check, "offset", off, "error", msg)
	panic(err)
}

// baseAddr returns the absolute address of the first byte of b.
func baseAddr(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}

// Addr returns the absolute address of p's payload, or 0 for Nil or a
// closed arena. The address is only meaningful while p is live.
func (a *Arena) Addr(p Ptr) uintptr {
	a.mu.Lock()
	defer a.mu.Unlock()
	if p == Nil || a.mem == nil {
		return 0
	}
	return baseAddr(a.mem) + uintptr(p)
}

// Bytes returns the payload of p. The slice has the length requested at
// allocation and the block's full payload capacity.
func (a *Arena) Bytes(p Ptr) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mem == nil {
		return nil, ErrClosed
	}
	blk, err := a.usedBlock(p)
	if err != nil {
		return nil, err
	}
	h := a.block(blk)
	off := uint64(p)
	return a.mem[off : off+h.Requested : off+h.PayloadCap()], nil
}

// Usable returns the payload capacity of p, which may exceed the size
// originally requested.
func (a *Arena) Usable(p Ptr) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mem == nil {
		return 0, ErrClosed
	}
	blk, err := a.usedBlock(p)
	if err != nil {
		return 0, err
	}
	return int(a.block(blk).PayloadCap()), nil
}
