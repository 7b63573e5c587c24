// Package segalloc implements spec.md's Placement Engine, Coalescer, and
// Allocator Facade (spec.md §4.3-4.6) over the Block Layout Module
// (internal/block) and Free-List Directory (internal/freelist). Its
// Config/Option construction shape and facade surface follow a standard
// functional-options allocator shape; its core placement/coalesce/grow
// algorithms follow the classic boundary-tag malloc case analysis.
package segalloc

import (
	"errors"
	"fmt"

	"github.com/segalloc/segalloc/internal/allocerrors"
	"github.com/segalloc/segalloc/internal/block"
	"github.com/segalloc/segalloc/internal/config"
	"github.com/segalloc/segalloc/internal/freelist"
	"github.com/segalloc/segalloc/internal/heapprovider"
)

// NullPtr is returned by Allocate, Free's argument contract, and
// Reallocate in place of a payload offset whenever spec.md's client API
// specifies "null" — a zero-size request, an allocation failure, or a
// size-0 reallocate.
const NullPtr = block.NullPtr

// ErrIncompatibleFormat is wrapped into the error New returns when this
// build's heap-layout FormatVersion, or the provider's reported format,
// does not satisfy the configured RequireFormat constraint.
var ErrIncompatibleFormat = errors.New("segalloc: incompatible heap format version")

// Stats mirrors an AllocatorStats shape, trimmed to the counters this
// module's testable properties and benchmark CLI actually use.
type Stats struct {
	TotalAllocated  uint64
	TotalFreed      uint64
	AllocationCount uint64
	FreeCount       uint64
	BytesInUse      uint64
	HeapSize        int
}

// Allocator is spec.md's Allocator Facade: it owns the heap provider, the
// segregated free-list directory, and orchestrates the placement engine
// and coalescer. Not safe for concurrent use by design (spec.md §5) —
// exactly one goroutine may call its methods, though independent
// Allocator instances (each with their own provider) are safe to run in
// separate goroutines simultaneously (see cmd/segalloc-bench's stress
// subcommand).
type Allocator struct {
	provider  heapprovider.Provider
	dir       *freelist.Directory
	cfg       *config.Config
	heapListp int
	stats     Stats
}

// New constructs an Allocator over provider and performs init(): it writes
// the prologue/epilogue sentinels and extends the heap once by
// cfg.ChunkSize bytes, returning a wrapped error (fmt.Errorf with %w) in
// place of a 0/-1 return code.
func New(provider heapprovider.Provider, opts ...config.Option) (*Allocator, error) {
	cfg, err := config.New(opts...)
	if err != nil {
		return nil, err
	}

	if err := cfg.CheckFormat(config.FormatVersion); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIncompatibleFormat, err)
	}

	if pv := provider.FormatVersion(); pv != "" {
		if err := cfg.CheckFormat(pv); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrIncompatibleFormat, err)
		}
	}

	a := &Allocator{
		provider: provider,
		dir:      freelist.NewDirectory(),
		cfg:      cfg,
	}

	if err := a.init(); err != nil {
		return nil, err
	}

	return a, nil
}

// init lays down the 4-word prologue/epilogue region and performs the
// initial CHUNKSIZE growth (spec.md §4.5).
func (a *Allocator) init() error {
	off, err := a.provider.Grow(4 * block.WordSize)
	if err != nil {
		return fmt.Errorf("segalloc: init: %w", allocerrors.HeapExhausted(4*block.WordSize))
	}

	heap := a.provider.Bytes()

	block.WriteTag(heap, off, 0)                                    // alignment padding
	block.WriteTag(heap, off+block.WordSize, block.Pack(8, true))   // prologue header
	block.WriteTag(heap, off+2*block.WordSize, block.Pack(8, true)) // prologue footer
	block.WriteTag(heap, off+3*block.WordSize, block.Pack(0, true)) // epilogue header

	a.heapListp = off + 2*block.WordSize

	if _, err := a.grow(a.cfg.ChunkSize / block.WordSize); err != nil {
		return err
	}

	return nil
}

// computeAsize applies spec.md §9's resolved open question:
// asize = max(align(size + 2*WordSize), minBlockSize).
func computeAsize(size uint32, minBlockSize int) uint32 {
	raw := int(size) + 2*block.WordSize
	aligned := block.AlignUp(raw, block.Alignment)

	if aligned < minBlockSize {
		aligned = minBlockSize
	}

	return uint32(aligned)
}

// Allocate implements spec.md's allocate operation.
func (a *Allocator) Allocate(size uint32) int {
	if size == 0 {
		return NullPtr
	}

	asize := computeAsize(size, a.cfg.MinBlockSize)

	heap := a.provider.Bytes()
	bp := a.dir.FindFit(heap, asize)

	if bp == NullPtr {
		want := asize
		if uint32(a.cfg.ChunkSize) > want {
			want = uint32(a.cfg.ChunkSize)
		}

		grown, err := a.grow(int(want) / block.WordSize)
		if err != nil {
			return NullPtr
		}

		bp = grown
	}

	a.place(bp, asize)

	a.stats.AllocationCount++
	a.stats.TotalAllocated += uint64(asize)
	a.stats.BytesInUse += uint64(block.ReadHeader(a.provider.Bytes(), bp).Size())
	a.stats.HeapSize = len(a.provider.Bytes())

	a.maybeCheckInvariants()

	return bp
}

// Free implements spec.md's free operation. Freeing NullPtr is a no-op;
// any other value not actually returned by Allocate/Reallocate is
// undefined per spec.md §6, and this module does not attempt to detect it.
func (a *Allocator) Free(bp int) {
	if bp == NullPtr {
		return
	}

	heap := a.provider.Bytes()
	size := block.ReadHeader(heap, bp).Size()

	block.WriteBoundaryTags(heap, bp, size, false)
	a.coalesce(bp)

	a.stats.FreeCount++
	a.stats.TotalFreed += uint64(size)
	a.stats.BytesInUse -= uint64(size)

	a.maybeCheckInvariants()
}

// Reallocate implements spec.md's reallocate operation: the baseline
// allocate-copy-free strategy, with the §9 known suboptimality (no
// in-place growth attempt) intact by design.
func (a *Allocator) Reallocate(bp int, size uint32) int {
	if bp == NullPtr {
		return a.Allocate(size)
	}

	if size == 0 {
		a.Free(bp)

		return NullPtr
	}

	heap := a.provider.Bytes()
	oldSize := block.ReadHeader(heap, bp).Size()
	oldPayload := oldSize - 2*block.WordSize

	newBP := a.Allocate(size)
	if newBP == NullPtr {
		return NullPtr
	}

	copyLen := oldPayload
	if size < copyLen {
		copyLen = size
	}

	heap = a.provider.Bytes() // Allocate may have grown and reallocated storage.
	copy(heap[newBP:newBP+int(copyLen)], heap[bp:bp+int(copyLen)])

	a.Free(bp)

	return newBP
}

// Stats returns a snapshot of allocation counters.
func (a *Allocator) Stats() Stats {
	s := a.stats
	s.HeapSize = len(a.provider.Bytes())

	return s
}

// Reconfigure applies a new Config's reloadable fields (ChunkSize,
// RequireFormat) to a live allocator. It never touches heap layout —
// SPEC_FULL.md §10.1 — so it is safe to call between operations, e.g. in
// response to internal/config.Watcher.Updates().
func (a *Allocator) Reconfigure(cfg *config.Config) error {
	if cfg.ListLimit != a.cfg.ListLimit || cfg.MinBlockSize != a.cfg.MinBlockSize {
		return allocerrors.InvalidConfig("ListLimit/MinBlockSize", "cannot change on a live allocator")
	}

	if err := cfg.CheckFormat(config.FormatVersion); err != nil {
		return fmt.Errorf("%w: %v", ErrIncompatibleFormat, err)
	}

	updated := *a.cfg
	updated.ChunkSize = cfg.ChunkSize
	updated.RequireFormat = cfg.RequireFormat
	a.cfg = &updated

	return nil
}

func (a *Allocator) maybeCheckInvariants() {
	if !a.cfg.EnableInvariantChecks {
		return
	}

	if errs := a.CheckInvariants(); len(errs) > 0 {
		panic(errs[0])
	}
}
