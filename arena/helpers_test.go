package arena

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/internal/format"
)

// alignedBuffer returns an n-byte slice whose first byte sits on an
// Alignment boundary, so an arena built on it has exactly n usable bytes.
func alignedBuffer(n int) []byte {
	raw := make([]byte, n+format.Alignment)
	pad := format.AlignPadding(baseAddr(raw))
	return raw[pad : pad+uintptr(n)]
}

// newTestArena creates an arena with exactly capacity usable bytes.
func newTestArena(t testing.TB, capacity int) *Arena {
	t.Helper()
	a, err := New(Options{Buffer: alignedBuffer(capacity)})
	require.NoError(t, err)
	require.Equal(t, capacity, a.Capacity())
	t.Cleanup(func() { _ = a.Close() })
	return a
}

// assertInvariants fails the test if the arena is structurally inconsistent.
func assertInvariants(t testing.TB, a *Arena) {
	t.Helper()
	require.NoError(t, a.Verify())
}

// span is the (offset, size) pair of a free block.
type span struct {
	Off  uint64
	Size uint64
}

// freeSpans returns the free list in list order.
func freeSpans(a *Arena) []span {
	var out []span
	for _, b := range a.DumpState().FreeList {
		out = append(out, span{b.Offset, b.Size})
	}
	return out
}

// mustAlloc allocates size bytes and fills the payload with fill.
func mustAlloc(t testing.TB, a *Arena, size int, fill byte) Ptr {
	t.Helper()
	p, err := a.Alloc(size)
	require.NoError(t, err)
	require.NotEqual(t, Nil, p)
	b, err := a.Bytes(p)
	require.NoError(t, err)
	for i := range b {
		b[i] = fill
	}
	return p
}

// requireFilled checks that the first n payload bytes of p all equal fill.
func requireFilled(t testing.TB, a *Arena, p Ptr, n int, fill byte) {
	t.Helper()
	b, err := a.Bytes(p)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(b), n)
	for i := range n {
		if b[i] != fill {
			t.Fatalf("payload 0x%X byte %d = 0x%02X, want 0x%02X", p, i, b[i], fill)
		}
	}
}
