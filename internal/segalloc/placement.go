package segalloc

import (
	"fmt"

	"github.com/segalloc/segalloc/internal/allocerrors"
	"github.com/segalloc/segalloc/internal/block"
)

// grow extends the heap by at least words*WordSize bytes (rounded up to an
// even word count to preserve 8-byte alignment), overwrites the former
// epilogue word with the new free block's header, writes a fresh epilogue
// past the new block, and returns the coalesced free block's bp.
//
// The new block's bp is always exactly the offset provider.Grow returns:
// that offset equals the heap's length before growth, which is one word
// past the epilogue sentinel's header word, so the new block's header
// overwrites the old epilogue — see block.NextBP's doc comment. No separate
// bookkeeping of "the epilogue location" is needed or kept.
func (a *Allocator) grow(words int) (int, error) {
	if words <= 0 {
		words = 2
	}

	if words%2 != 0 {
		words++
	}

	nBytes := words * block.WordSize

	off, err := a.provider.Grow(nBytes)
	if err != nil {
		return block.NullPtr, fmt.Errorf("segalloc: grow: %w", allocerrors.HeapExhausted(nBytes))
	}

	heap := a.provider.Bytes()
	bp := off

	block.WriteBoundaryTags(heap, bp, uint32(nBytes), false)

	newEpilogue := block.NextBP(heap, bp)
	block.WriteTag(heap, block.HeaderOffset(newEpilogue), block.Pack(0, true))

	return a.coalesce(bp), nil
}

// place carves asize bytes out of the free block at bp, splitting off and
// reinserting a remainder block when what's left would still be a legal
// block (spec.md §4.3); otherwise the whole block is handed over allocated,
// accepting the internal fragmentation.
func (a *Allocator) place(bp int, asize uint32) {
	heap := a.provider.Bytes()
	csize := block.ReadHeader(heap, bp).Size()

	a.dir.Remove(heap, bp)

	if csize-asize >= uint32(a.cfg.MinBlockSize) {
		block.WriteBoundaryTags(heap, bp, asize, true)

		remBP := block.NextBP(heap, bp)
		remSize := csize - asize
		block.WriteBoundaryTags(heap, remBP, remSize, false)
		a.dir.Insert(heap, remBP, remSize)

		return
	}

	block.WriteBoundaryTags(heap, bp, csize, true)
}
