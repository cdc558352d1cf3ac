package arena

import (
	"math/rand"
	"testing"
)

func BenchmarkAlloc_Free(b *testing.B) {
	a := newTestArena(b, 1<<20)
	b.ReportAllocs()
	for b.Loop() {
		p, err := a.Alloc(128)
		if err != nil {
			b.Fatal(err)
		}
		if err := a.Free(p); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAlloc_Fragmented(b *testing.B) {
	a := newTestArena(b, 1<<20)
	// Leave a run of small holes in front of the big free block.
	var ps []Ptr
	for range 1000 {
		p, err := a.Alloc(32)
		if err != nil {
			b.Fatal(err)
		}
		ps = append(ps, p)
	}
	for i := 0; i < len(ps); i += 2 {
		_ = a.Free(ps[i])
	}

	for b.Loop() {
		p, err := a.Alloc(256)
		if err != nil {
			b.Fatal(err)
		}
		_ = a.Free(p)
	}
}

func BenchmarkRealloc_Grow(b *testing.B) {
	a := newTestArena(b, 1<<20)
	for b.Loop() {
		p, err := a.Alloc(16)
		if err != nil {
			b.Fatal(err)
		}
		for size := 32; size <= 4096; size *= 2 {
			if p, err = a.Realloc(p, size); err != nil {
				b.Fatal(err)
			}
		}
		_ = a.Free(p)
	}
}

func BenchmarkMixedWorkload(b *testing.B) {
	a := newTestArena(b, 1<<20)
	rng := rand.New(rand.NewSource(1))
	live := make([]Ptr, 0, 256)

	for b.Loop() {
		if len(live) < 256 && rng.Intn(2) == 0 {
			p, err := a.Alloc(1 + rng.Intn(1024))
			if err == nil {
				live = append(live, p)
			}
			continue
		}
		if len(live) == 0 {
			continue
		}
		i := rng.Intn(len(live))
		_ = a.Free(live[i])
		live[i] = live[len(live)-1]
		live = live[:len(live)-1]
	}
}
