package segalloc

import (
	"github.com/segalloc/segalloc/internal/allocerrors"
	"github.com/segalloc/segalloc/internal/block"
	"github.com/segalloc/segalloc/internal/freelist"
)

// CheckInvariants walks the whole heap from the prologue to the epilogue
// and every size class in the free-list directory, returning one error per
// structural violation found (spec.md §8's debug-mode checker). It never
// mutates anything and is safe to call between any two public operations.
// It is not called from the hot path unless Config.EnableInvariantChecks
// is set.
func (a *Allocator) CheckInvariants() []error {
	heap := a.provider.Bytes()

	var errs []error

	prologue := a.heapListp
	if h, f := block.ReadHeader(heap, prologue), block.ReadTag(heap, block.FooterOffset(heap, prologue)); h != f {
		errs = append(errs, allocerrors.InvariantViolation("prologue header/footer mismatch", map[string]interface{}{"bp": prologue}))
	}

	if h := block.ReadHeader(heap, prologue); h.Size() != 8 || !h.Alloc() {
		errs = append(errs, allocerrors.InvariantViolation("prologue malformed", map[string]interface{}{"size": h.Size(), "alloc": h.Alloc()}))
	}

	epilogueBP := len(heap)
	prevFree := false
	cur := block.NextBP(heap, prologue)

	for cur < epilogueBP {
		h := block.ReadHeader(heap, cur)
		f := block.ReadTag(heap, block.FooterOffset(heap, cur))

		if h != f {
			errs = append(errs, allocerrors.InvariantViolation("header/footer mismatch", map[string]interface{}{"bp": cur}))
		}

		if int(h.Size()) < a.cfg.MinBlockSize || h.Size()%uint32(block.Alignment) != 0 {
			errs = append(errs, allocerrors.InvariantViolation("block size misaligned or below minimum", map[string]interface{}{"bp": cur, "size": h.Size()}))
		}

		if !h.Alloc() {
			if prevFree {
				errs = append(errs, allocerrors.InvariantViolation("two adjacent free blocks escaped coalescing", map[string]interface{}{"bp": cur}))
			}

			if !a.inExpectedClass(heap, cur, h.Size()) {
				errs = append(errs, allocerrors.InvariantViolation("free block missing from its size class", map[string]interface{}{"bp": cur, "size": h.Size()}))
			}
		}

		prevFree = !h.Alloc()

		next := block.NextBP(heap, cur)
		if next <= cur {
			errs = append(errs, allocerrors.InvariantViolation("non-increasing block size during walk", map[string]interface{}{"bp": cur}))

			return errs
		}

		cur = next
	}

	if cur != epilogueBP {
		errs = append(errs, allocerrors.InvariantViolation("block walk did not land exactly on the epilogue", map[string]interface{}{"cur": cur, "epilogue": epilogueBP}))
	}

	if ep := block.ReadHeader(heap, epilogueBP); ep.Size() != 0 || !ep.Alloc() {
		errs = append(errs, allocerrors.InvariantViolation("epilogue malformed", map[string]interface{}{"size": ep.Size(), "alloc": ep.Alloc()}))
	}

	errs = append(errs, a.checkFreeLists(heap)...)

	return errs
}

func (a *Allocator) inExpectedClass(heap []byte, bp int, size uint32) bool {
	found := false

	a.dir.Walk(heap, freelist.ClassOf(size), func(b int) bool {
		if b == bp {
			found = true

			return false
		}

		return true
	})

	return found
}

// checkFreeLists verifies every class is sorted ascending by size and that
// pred/succ links are mutually consistent with the recorded head.
func (a *Allocator) checkFreeLists(heap []byte) []error {
	var errs []error

	for k := 0; k < freelist.ListLimit; k++ {
		prevBP := block.NullPtr
		var prevSize uint32

		a.dir.Walk(heap, k, func(bp int) bool {
			size := block.ReadHeader(heap, bp).Size()

			if prevBP != block.NullPtr && size < prevSize {
				errs = append(errs, allocerrors.InvariantViolation("free list not sorted ascending", map[string]interface{}{"class": k, "bp": bp}))
			}

			if pred := block.ReadPred(heap, bp); pred != prevBP {
				errs = append(errs, allocerrors.InvariantViolation("free list pred link inconsistent", map[string]interface{}{"class": k, "bp": bp}))
			}

			if block.ReadHeader(heap, bp).Alloc() {
				errs = append(errs, allocerrors.InvariantViolation("allocated block present in a free list", map[string]interface{}{"class": k, "bp": bp}))
			}

			prevBP = bp
			prevSize = size

			return true
		})

		if prevBP != block.NullPtr {
			if succ := block.ReadSucc(heap, prevBP); succ != block.NullPtr {
				errs = append(errs, allocerrors.InvariantViolation("free list tail succ is not NullPtr", map[string]interface{}{"class": k, "bp": prevBP}))
			}
		}
	}

	return errs
}
