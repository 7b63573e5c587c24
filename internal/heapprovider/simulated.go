package heapprovider

import "github.com/segalloc/segalloc/internal/allocerrors"

// Simulated is an in-process Provider backed by a growable []byte, standing
// in for the monotone break when no OS region is available or desired
// (tests, the benchmark CLI's stress subcommand, embedders that don't need
// real memory isolation). Its growth style follows an arena allocator's
// buffer-growth pattern: bump-grow an owned slice rather than mmap'ing
// anything.
type Simulated struct {
	buf     []byte
	limit   int
	version string
}

// NewSimulated returns a Simulated provider that refuses to grow past
// limit total bytes (0 means unbounded), so tests can deterministically
// exercise heap exhaustion.
func NewSimulated(limit int) *Simulated {
	return &Simulated{limit: limit}
}

// Bytes implements Provider.
func (s *Simulated) Bytes() []byte { return s.buf }

// Grow implements Provider.
func (s *Simulated) Grow(n int) (int, error) {
	if n < 0 {
		return 0, allocerrors.InvalidConfig("n", n)
	}

	if s.limit > 0 && len(s.buf)+n > s.limit {
		return 0, allocerrors.HeapExhausted(n)
	}

	off := len(s.buf)
	s.buf = append(s.buf, make([]byte, n)...)

	return off, nil
}

// FormatVersion implements Provider.
func (s *Simulated) FormatVersion() string { return s.version }

// SetFormatVersion tags this provider with a heap-layout version, used by
// tests exercising segalloc's format-compatibility gate (SPEC_FULL.md §10.1).
func (s *Simulated) SetFormatVersion(v string) { s.version = v }
