package format

import (
	"errors"
	"testing"
)

func TestPutDecodeHeader(t *testing.T) {
	buf := make([]byte, 256)
	want := Header{Size: 96, Next: 128, Magic: BlockMagic, State: StateFree, Requested: 0}
	PutHeader(buf, 32, want)

	got, err := DecodeHeader(buf, 32)
	if err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	if got != want {
		t.Fatalf("header mismatch: got %+v want %+v", got, want)
	}
	if !got.Free() {
		t.Fatalf("expected free header")
	}
	if got.PayloadCap() != 96-HeaderSize {
		t.Fatalf("payload cap: got %d", got.PayloadCap())
	}
}

func TestDecodeHeaderTruncated(t *testing.T) {
	buf := make([]byte, HeaderSize+8)
	if _, err := DecodeHeader(buf, 16); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
	if _, err := DecodeHeader(buf, 1<<20); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated past end, got %v", err)
	}
}

func TestNextBlock(t *testing.T) {
	buf := make([]byte, 256)
	PutHeader(buf, 0, Header{Size: 64, Magic: BlockMagic, State: StateUsed, Requested: 20})
	PutHeader(buf, 64, Header{Size: 192, Next: 64, Magic: BlockMagic, State: StateFree})

	h, next, err := NextBlock(buf, 0)
	if err != nil {
		t.Fatalf("NextBlock: %v", err)
	}
	if h.Free() || h.Requested != 20 || next != 64 {
		t.Fatalf("unexpected first block: %+v next=%d", h, next)
	}
	h, next, err = NextBlock(buf, next)
	if err != nil {
		t.Fatalf("NextBlock: %v", err)
	}
	if !h.Free() || next != uint64(len(buf)) {
		t.Fatalf("unexpected second block: %+v next=%d", h, next)
	}
}

func TestNextBlockErrors(t *testing.T) {
	tests := []struct {
		name string
		h    Header
		want error
	}{
		{"bad magic", Header{Size: 64, Magic: 0xdead, State: StateUsed}, ErrBadMagic},
		{"bad state", Header{Size: 64, Magic: BlockMagic, State: 7}, ErrBadState},
		{"misaligned", Header{Size: 72, Magic: BlockMagic, State: StateUsed}, ErrBadSize},
		{"too small", Header{Size: HeaderSize, Magic: BlockMagic, State: StateUsed}, ErrBadSize},
		{"past end", Header{Size: 512, Magic: BlockMagic, State: StateUsed}, ErrBadSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, 256)
			PutHeader(buf, 0, tt.h)
			if _, _, err := NextBlock(buf, 0); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestWipeHeader(t *testing.T) {
	buf := make([]byte, 128)
	PutHeader(buf, 64, Header{Size: 64, Magic: BlockMagic, State: StateFree})
	WipeHeader(buf, 64)
	h, err := DecodeHeader(buf, 64)
	if err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	if h != (Header{}) {
		t.Fatalf("expected zero header, got %+v", h)
	}
}
