package buf

import (
	"math"
	"testing"
)

func TestAddU64(t *testing.T) {
	if sum, ok := AddU64(10, 5); !ok || sum != 15 {
		t.Fatalf("AddU64(10,5)=%d,%v want 15,true", sum, ok)
	}
	if _, ok := AddU64(math.MaxUint64, 1); ok {
		t.Fatalf("expected overflow when adding to MaxUint64")
	}
	if sum, ok := AddU64(math.MaxUint64-1, 1); !ok || sum != math.MaxUint64 {
		t.Fatalf("AddU64 at the edge = %d,%v", sum, ok)
	}
}

func TestFromInt(t *testing.T) {
	if v, ok := FromInt(42); !ok || v != 42 {
		t.Fatalf("FromInt(42)=%d,%v", v, ok)
	}
	if _, ok := FromInt(-1); ok {
		t.Fatalf("FromInt should reject negative input")
	}
}

func TestCheckRange(t *testing.T) {
	if end, err := CheckRange(64, 16, 48); err != nil || end != 64 {
		t.Fatalf("CheckRange(64,16,48)=%d,%v", end, err)
	}
	if _, err := CheckRange(64, 16, 49); err == nil {
		t.Fatalf("expected bounds error")
	}
	if _, err := CheckRange(64, math.MaxUint64, 1); err == nil {
		t.Fatalf("expected overflow error")
	}
}

func TestSliceAndHas(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4}
	if got, ok := Slice(data, 1, 3); !ok || len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("Slice returned unexpected result: %v, %v", got, ok)
	}
	if _, ok := Slice(data, 4, 2); ok {
		t.Fatalf("Slice should fail when extending beyond len")
	}
	if Has(data, 2, 4) {
		t.Fatalf("Has should be false for out-of-bounds range")
	}
	if !Has(data, 2, 1) {
		t.Fatalf("Has should be true for valid range")
	}
	if _, ok := Slice(data, math.MaxUint64, 1); ok {
		t.Fatalf("Slice should reject overflowing offset")
	}
}
