package segalloc

import (
	"testing"

	"github.com/segalloc/segalloc/internal/block"
)

func TestCheckInvariantsCleanAfterInit(t *testing.T) {
	a := newTestAllocator(t)

	if errs := a.CheckInvariants(); len(errs) > 0 {
		t.Fatalf("CheckInvariants() on a freshly initialized allocator: %v", errs)
	}
}

func TestCheckInvariantsDetectsTagMismatch(t *testing.T) {
	a := newTestAllocator(t)

	bp := a.Allocate(64)
	heap := a.provider.Bytes()

	// Corrupt the footer directly, bypassing the public API.
	block.WriteTag(heap, block.FooterOffset(heap, bp), block.Pack(9999, true))

	errs := a.CheckInvariants()
	if len(errs) == 0 {
		t.Fatal("CheckInvariants() did not detect a corrupted footer")
	}
}

func TestCheckInvariantsDetectsAdjacentFreeBlocks(t *testing.T) {
	a := newTestAllocator(t)

	left := a.Allocate(32)
	right := a.Allocate(32)

	heap := a.provider.Bytes()

	// Free both directly without going through coalesce, simulating a bug
	// where the coalescer failed to run.
	block.WriteBoundaryTags(heap, left, block.ReadHeader(heap, left).Size(), false)
	block.WriteBoundaryTags(heap, right, block.ReadHeader(heap, right).Size(), false)

	errs := a.CheckInvariants()
	if len(errs) == 0 {
		t.Fatal("CheckInvariants() did not detect two adjacent uncoalesced free blocks")
	}
}

func TestCheckInvariantsDetectsMissingFromFreeList(t *testing.T) {
	a := newTestAllocator(t)

	bp := a.Allocate(64)
	a.Free(bp)

	// Remove the now-free block from its list out-of-band.
	heap := a.provider.Bytes()
	a.dir.Remove(heap, bp)

	errs := a.CheckInvariants()
	if len(errs) == 0 {
		t.Fatal("CheckInvariants() did not detect a free block missing from its size class")
	}
}
