//go:build linux || darwin

package heapprovider

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/segalloc/segalloc/internal/allocerrors"
)

// defaultReserve is how much virtual address space Mapped reserves up
// front. Anonymous mappings are lazily backed by physical pages, so
// reserving generously costs address space, not memory, until touched.
const defaultReserve = 1 << 30 // 1 GiB

// Mapped is a Provider backed by a real anonymous mmap region via
// golang.org/x/sys/unix.
//
// Growth never calls mremap or munmap: Mapped reserves a large region once
// and Grow simply advances a used-byte watermark within it, which matches
// spec.md's non-goal that the break never retreats — there is nothing to
// retreat, since nothing is ever unmapped until Close.
type Mapped struct {
	region  []byte
	used    int
	version string
}

// NewMapped reserves a region of at least reserve bytes (defaultReserve if
// reserve <= 0) and returns a Mapped provider over it.
func NewMapped(reserve int) (*Mapped, error) {
	if reserve <= 0 {
		reserve = defaultReserve
	}

	region, err := unix.Mmap(-1, 0, reserve, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("segalloc: mmap reserve of %d bytes: %w", reserve, err)
	}

	return &Mapped{region: region}, nil
}

// Bytes implements Provider.
func (m *Mapped) Bytes() []byte { return m.region[:m.used] }

// Grow implements Provider.
func (m *Mapped) Grow(n int) (int, error) {
	if n < 0 {
		return 0, allocerrors.InvalidConfig("n", n)
	}

	if m.used+n > len(m.region) {
		return 0, allocerrors.HeapExhausted(n)
	}

	off := m.used
	m.used += n

	return off, nil
}

// FormatVersion implements Provider.
func (m *Mapped) FormatVersion() string { return m.version }

// SetFormatVersion tags this provider with a heap-layout version.
func (m *Mapped) SetFormatVersion(v string) { m.version = v }

// Close unmaps the reserved region. Not part of Provider: nothing in
// spec.md's client API tears down a heap provider, but a long-lived
// embedder using Mapped directly needs a way to release the mapping.
func (m *Mapped) Close() error {
	if m.region == nil {
		return nil
	}

	err := unix.Munmap(m.region)
	m.region = nil

	return err
}
