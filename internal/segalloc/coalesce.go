package segalloc

import "github.com/segalloc/segalloc/internal/block"

// coalesce merges the free block at bp with any free neighbors, in the
// four boundary-tag cases of spec.md §4.4, and inserts the resulting block
// into the free-list directory, returning its (possibly shifted) bp. bp's
// own boundary tags must already be written as free before calling this.
func (a *Allocator) coalesce(bp int) int {
	heap := a.provider.Bytes()
	size := block.ReadHeader(heap, bp).Size()

	prevAlloc := true
	if bp != a.heapListp {
		prevAlloc = block.ReadHeader(heap, block.PrevBP(heap, bp)).Alloc()
	}

	nextBP := block.NextBP(heap, bp)
	nextAlloc := block.ReadHeader(heap, nextBP).Alloc()

	switch {
	case prevAlloc && nextAlloc:
		// No neighbor to merge with.

	case prevAlloc && !nextAlloc:
		a.dir.Remove(heap, nextBP)
		size += block.ReadHeader(heap, nextBP).Size()
		block.WriteBoundaryTags(heap, bp, size, false)

	case !prevAlloc && nextAlloc:
		prevBP := block.PrevBP(heap, bp)
		a.dir.Remove(heap, prevBP)
		size += block.ReadHeader(heap, prevBP).Size()
		block.WriteBoundaryTags(heap, prevBP, size, false)
		bp = prevBP

	default:
		prevBP := block.PrevBP(heap, bp)
		a.dir.Remove(heap, prevBP)
		a.dir.Remove(heap, nextBP)
		size += block.ReadHeader(heap, prevBP).Size() + block.ReadHeader(heap, nextBP).Size()
		block.WriteBoundaryTags(heap, prevBP, size, false)
		bp = prevBP
	}

	a.dir.Insert(heap, bp, size)

	return bp
}
