package trace

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/arena"
)

func newTestArena(t *testing.T, capacity int) *arena.Arena {
	t.Helper()
	a, err := arena.New(arena.Options{Capacity: capacity})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func mustParse(t *testing.T, s string) []Op {
	t.Helper()
	ops, err := Parse(strings.NewReader(s))
	require.NoError(t, err)
	return ops
}

func TestReplay_Sample(t *testing.T) {
	a := newTestArena(t, 4096)

	res, err := Replay(a, mustParse(t, sampleTrace), ReplayOptions{Verify: true})
	require.NoError(t, err)

	assert.Equal(t, 7, res.Ops)
	assert.Equal(t, 3, res.Allocs)
	assert.Equal(t, 3, res.Frees)
	assert.Equal(t, 1, res.Reallocs)
	assert.Zero(t, res.Failures)
	assert.Zero(t, res.Live)
	assert.Equal(t, 2, res.PeakLive)
	assert.Greater(t, res.PeakUsed, uint64(400))

	require.NoError(t, a.Verify())
	assert.Len(t, a.DumpState().FreeList, 1)
}

func TestReplay_CountsNoSpace(t *testing.T) {
	a := newTestArena(t, 1024)
	ops := mustParse(t, `
alloc a 100
alloc big 5000
free big
realloc a 5000
free a
`)
	res, err := Replay(a, ops, ReplayOptions{Verify: true})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Failures)
	assert.Equal(t, 5, res.Ops)
	assert.Zero(t, res.Live)
}

func TestReplay_StopOnNoSpace(t *testing.T) {
	a := newTestArena(t, 1024)
	ops := mustParse(t, "alloc a 100\nalloc big 5000\n")

	res, err := Replay(a, ops, ReplayOptions{StopOnNoSpace: true})
	require.ErrorIs(t, err, arena.ErrNoSpace)
	assert.Contains(t, err.Error(), "line 2")
	assert.Equal(t, 1, res.Ops)
}

func TestReplay_IDErrors(t *testing.T) {
	a := newTestArena(t, 4096)

	_, err := Replay(a, mustParse(t, "free ghost\n"), ReplayOptions{})
	require.ErrorIs(t, err, ErrUnknownID)

	_, err = Replay(a, mustParse(t, "alloc x 10\nalloc x 20\n"), ReplayOptions{})
	require.ErrorIs(t, err, ErrDuplicateID)
}

func TestReplay_ReallocUnknownAllocates(t *testing.T) {
	a := newTestArena(t, 4096)
	res, err := Replay(a, mustParse(t, "realloc n 64\nrealloc n 0\n"), ReplayOptions{Verify: true})
	require.NoError(t, err)
	assert.Zero(t, res.Live)
	assert.Equal(t, 1, res.PeakLive)
}

func TestReplay_DetectsCorruption(t *testing.T) {
	a := newTestArena(t, 4096)
	res, err := Replay(a, mustParse(t, "alloc a 64\n"), ReplayOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, res.Live)

	// Scribble over a's payload through a second replay sharing the arena.
	st := a.DumpState()
	require.Len(t, st.Allocated, 1)
	b, err := a.Bytes(st.Allocated[0].Payload)
	require.NoError(t, err)

	r := &replayer{a: a, live: map[string]liveID{}, failed: map[string]bool{}}
	l := liveID{ptr: st.Allocated[0].Payload, size: 64, seed: 7}
	require.NoError(t, r.fill(l, 0))
	b[10] ^= 0xFF
	require.ErrorIs(t, r.check(l, 64), ErrCorrupted)
}

func TestReplay_Generated(t *testing.T) {
	n := 5000
	if testing.Short() {
		n = 500
	}
	ops := Generate(GenerateOptions{Ops: n, MaxSize: 2048, MaxLive: 64, Seed: 99})
	require.Len(t, ops, n)

	a := newTestArena(t, 64*1024)
	res, err := Replay(a, ops, ReplayOptions{Verify: true})
	require.NoError(t, err)
	assert.Equal(t, n, res.Ops)
	assert.LessOrEqual(t, res.PeakLive, 64)
	require.NoError(t, a.Verify())
}

func TestGenerate_Deterministic(t *testing.T) {
	opts := GenerateOptions{Ops: 200, MaxSize: 100, Seed: 5}
	assert.Equal(t, Generate(opts), Generate(opts))

	live := map[string]bool{}
	for _, op := range Generate(opts) {
		switch op.Kind {
		case KindAlloc:
			assert.False(t, live[op.ID])
			live[op.ID] = true
		case KindFree:
			assert.True(t, live[op.ID], "free of %s before alloc", op.ID)
			delete(live, op.ID)
		case KindRealloc:
			assert.True(t, live[op.ID], "realloc of %s before alloc", op.ID)
		}
		if op.Kind != KindFree {
			assert.GreaterOrEqual(t, op.Size, 1)
			assert.LessOrEqual(t, op.Size, 100)
		}
	}
}
