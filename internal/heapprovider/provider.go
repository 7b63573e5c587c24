// Package heapprovider defines the Heap Provider contract spec.md treats
// as an external collaborator (§6) and ships reference implementations,
// since segalloc.New cannot be constructed, tested, or demonstrated
// without a concrete one. The core allocator never imports a concrete
// provider type directly — only this package's Provider interface.
package heapprovider

// Provider is a monotone, byte-addressable region that can only grow.
// It stands in for spec.md's sbrk-like heap provider: heap_lo is always
// offset 0 of the slice returned by Bytes, heap_hi is len(Bytes())-1, and
// Grow is spec.md's extend.
type Provider interface {
	// Bytes returns the current heap region. The returned slice aliases
	// the provider's storage and may be a different underlying array than
	// a slice returned by a prior call, since Grow can reallocate —
	// callers must always re-fetch Bytes() after calling Grow and must
	// never retain a slice across a Grow call.
	Bytes() []byte

	// Grow extends the heap by exactly n bytes and returns the offset of
	// the first new byte (== the pre-growth length), or a non-nil error
	// if the provider refuses to extend. On error, the heap is unchanged.
	Grow(n int) (int, error)

	// FormatVersion optionally reports a semver version string identifying
	// the heap-layout format this provider was built against or persisted
	// under. An empty string means "unversioned, assume compatible."
	FormatVersion() string
}
