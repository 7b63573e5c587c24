// Package block implements spec.md's Block Layout Module: pure,
// side-effect-free functions that encode and decode boundary tags
// (header/footer words) and compute neighbor-block addresses over a
// byte-addressable heap.
//
// Blocks are addressed by payload offset (bp), an int byte offset into a
// heap []byte supplied by the caller, never a raw pointer — see DESIGN.md
// for why this module avoids unsafe.Pointer.
package block

import "encoding/binary"

const (
	// WordSize is the tag/link field width in bytes (W in spec.md).
	WordSize = 4
	// Alignment is the payload alignment guarantee (A = 2W).
	Alignment = 2 * WordSize
	// MinBlockSize is the smallest legal block: header + pred + succ + footer.
	MinBlockSize = 4 * WordSize
)

// NullPtr is the sentinel for "no block" in free-list link fields and
// search results. It is never a valid bp, since the prologue's payload
// offset is always > 0.
const NullPtr = -1

// Tag is a packed header/footer word: size in the high bits, alloc bit 0.
type Tag uint32

// Pack encodes size and alloc state into a boundary-tag word.
func Pack(size uint32, alloc bool) Tag {
	t := Tag(size &^ 7)
	if alloc {
		t |= 1
	}

	return t
}

// Size returns the block size encoded in the tag, including header+footer.
func (t Tag) Size() uint32 { return uint32(t) &^ 7 }

// Alloc reports whether the tag's allocated bit is set.
func (t Tag) Alloc() bool { return uint32(t)&1 != 0 }

// AlignUp rounds n up to the nearest multiple of alignment (a power of two).
func AlignUp(n, alignment int) int {
	return (n + alignment - 1) &^ (alignment - 1)
}

// ReadTag reads the boundary-tag word at the given absolute heap offset.
func ReadTag(heap []byte, offset int) Tag {
	return Tag(binary.LittleEndian.Uint32(heap[offset : offset+WordSize]))
}

// WriteTag writes a boundary-tag word at the given absolute heap offset.
func WriteTag(heap []byte, offset int, t Tag) {
	binary.LittleEndian.PutUint32(heap[offset:offset+WordSize], uint32(t))
}

// HeaderOffset returns the absolute offset of bp's header word.
func HeaderOffset(bp int) int { return bp - WordSize }

// ReadHeader reads bp's header tag.
func ReadHeader(heap []byte, bp int) Tag {
	return ReadTag(heap, HeaderOffset(bp))
}

// WriteHeader writes bp's header tag.
func WriteHeader(heap []byte, bp int, size uint32, alloc bool) {
	WriteTag(heap, HeaderOffset(bp), Pack(size, alloc))
}

// FooterOffset returns the absolute offset of bp's footer word, computed
// from bp's own header (size is read fresh, never cached).
func FooterOffset(heap []byte, bp int) int {
	size := ReadHeader(heap, bp).Size()

	return bp + int(size) - 2*WordSize
}

// WriteFooter writes bp's footer tag directly from a known size, without
// requiring the header to already hold that size (used while splitting,
// where header and footer of the same new block are written back to back).
func WriteFooter(heap []byte, bp int, size uint32, alloc bool) {
	off := bp + int(size) - 2*WordSize
	WriteTag(heap, off, Pack(size, alloc))
}

// WriteBoundaryTags writes matching header and footer for bp.
func WriteBoundaryTags(heap []byte, bp int, size uint32, alloc bool) {
	WriteHeader(heap, bp, size, alloc)
	WriteFooter(heap, bp, size, alloc)
}

// NextBP returns the payload offset of the block immediately following bp,
// computed from bp's own size. For the last block before the epilogue this
// returns the epilogue's payload offset, one word past the epilogue
// sentinel's header word, so ReadHeader on the result reads the epilogue.
func NextBP(heap []byte, bp int) int {
	size := ReadHeader(heap, bp).Size()

	return bp + int(size)
}

// PrevBP returns the payload offset of the block immediately preceding bp,
// read from the previous block's footer — this is why every block,
// allocated or free, must carry a footer.
func PrevBP(heap []byte, bp int) int {
	prevFooterOffset := bp - 2*WordSize
	size := ReadTag(heap, prevFooterOffset).Size()

	return bp - int(size)
}

// ReadPred reads the predecessor free-list link stored in bp's payload.
func ReadPred(heap []byte, bp int) int { return readLink(heap, bp) }

// WritePred writes the predecessor free-list link into bp's payload.
func WritePred(heap []byte, bp, pred int) { writeLink(heap, bp, pred) }

// ReadSucc reads the successor free-list link stored in bp's payload.
func ReadSucc(heap []byte, bp int) int { return readLink(heap, bp+WordSize) }

// WriteSucc writes the successor free-list link into bp's payload.
func WriteSucc(heap []byte, bp, succ int) { writeLink(heap, bp+WordSize, succ) }

func readLink(heap []byte, offset int) int {
	v := binary.LittleEndian.Uint32(heap[offset : offset+WordSize])
	if v == 0 {
		return NullPtr
	}

	return int(v)
}

func writeLink(heap []byte, offset, ptr int) {
	v := uint32(0)
	if ptr != NullPtr {
		v = uint32(ptr)
	}

	binary.LittleEndian.PutUint32(heap[offset:offset+WordSize], v)
}
