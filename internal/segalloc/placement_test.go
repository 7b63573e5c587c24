package segalloc

import (
	"testing"

	"github.com/segalloc/segalloc/internal/block"
	"github.com/segalloc/segalloc/internal/freelist"
)

func TestComputeAsizeMatchesScenarios(t *testing.T) {
	cases := []struct {
		name string
		size uint32
		min  int
		want uint32
	}{
		{"scenario-1", 100, 16, 112},
		{"scenario-2", 24, 16, 32},
		{"tiny-floors-to-min", 1, 16, 16},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := computeAsize(c.size, c.min); got != c.want {
				t.Errorf("computeAsize(%d, %d) = %d, want %d", c.size, c.min, got, c.want)
			}
		})
	}
}

func TestPlaceSplitsWhenRemainderIsLegal(t *testing.T) {
	a := newTestAllocator(t)

	// Grow the heap; the new block coalesces with the initial free block,
	// so its size is read back from the header below.
	bp, err := a.grow(4096 / block.WordSize)
	if err != nil {
		t.Fatalf("grow() error = %v", err)
	}

	heap := a.provider.Bytes()
	csize := block.ReadHeader(heap, bp).Size()

	a.place(bp, 32)

	hdr := block.ReadHeader(heap, bp)
	if hdr.Size() != 32 || !hdr.Alloc() {
		t.Fatalf("placed block = %+v, want size 32 alloc true", hdr)
	}

	remBP := block.NextBP(heap, bp)
	remHdr := block.ReadHeader(heap, remBP)

	if remHdr.Alloc() {
		t.Fatalf("remainder block should be free")
	}

	if remHdr.Size() != csize-32 {
		t.Fatalf("remainder size = %d, want %d", remHdr.Size(), csize-32)
	}

	found := false
	a.dir.Walk(heap, freelist.ClassOf(remHdr.Size()), func(b int) bool {
		if b == remBP {
			found = true

			return false
		}

		return true
	})

	if !found {
		t.Fatal("remainder was not reinserted into its free-list class")
	}
}

func TestAllocateTinyRequestGetsMinimumBlock(t *testing.T) {
	a := newTestAllocator(t)

	bp := a.Allocate(8) // asize rounds to 16, the minimum block
	heap := a.provider.Bytes()

	hdr := block.ReadHeader(heap, bp)
	if hdr.Size() != uint32(a.cfg.MinBlockSize) {
		t.Fatalf("block size = %d, want the minimum %d", hdr.Size(), a.cfg.MinBlockSize)
	}
}
