// Package config holds segalloc's tunables, in the functional-options
// shape of a functional-options Config/Option pair, generalized from a
// pool/arena allocator's options to the segregated free-list core's
// options.
package config

import (
	"github.com/Masterminds/semver/v3"

	"github.com/segalloc/segalloc/internal/allocerrors"
	"github.com/segalloc/segalloc/internal/freelist"
)

// FormatVersion is the heap-layout format this module's internal/segalloc
// package implements (spec.md §3's block layout). Bump it only when the
// on-disk/in-memory block shape changes incompatibly.
const FormatVersion = "1.0.0"

// Config controls the tunables spec.md leaves as fixed constants.
type Config struct {
	// ChunkSize is the minimum growth increment requested from the heap
	// provider on a placement miss (spec.md's CHUNKSIZE).
	ChunkSize int

	// ListLimit must equal freelist.ListLimit; Validate rejects any other
	// value. The JSON tuning file read by LoadFile has no field for it, so
	// a list_limit key in that file is ignored, not checked.
	ListLimit int

	// MinBlockSize is the smallest legal block, in bytes (spec.md's 16).
	MinBlockSize int

	// RequireFormat is a semver constraint that this module's FormatVersion,
	// and any provider-reported heap format, must satisfy at Init.
	RequireFormat string

	// EnableInvariantChecks runs the debug invariant checker (spec.md §8)
	// after every public operation. Off by default: under release, the
	// checker must be unobservable (spec.md §7).
	EnableInvariantChecks bool
}

// Option mutates a Config during construction.
type Option func(*Config)

// Default returns segalloc's baseline configuration.
func Default() *Config {
	return &Config{
		ChunkSize:     4096,
		ListLimit:     freelist.ListLimit,
		MinBlockSize:  16,
		RequireFormat: "^1.0.0",
	}
}

// New builds a Config from Default() plus opts, and validates it.
func New(opts ...Option) (*Config, error) {
	cfg := Default()
	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that cfg is internally consistent and compatible with
// this build's fixed constants.
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 || c.ChunkSize%8 != 0 {
		return allocerrors.InvalidConfig("ChunkSize", c.ChunkSize)
	}

	if c.ListLimit != freelist.ListLimit {
		return allocerrors.InvalidConfig("ListLimit", c.ListLimit)
	}

	if c.MinBlockSize < 16 || c.MinBlockSize%8 != 0 {
		return allocerrors.InvalidConfig("MinBlockSize", c.MinBlockSize)
	}

	if _, err := semver.NewConstraint(c.RequireFormat); err != nil {
		return allocerrors.InvalidConfig("RequireFormat", c.RequireFormat)
	}

	return nil
}

// CheckFormat verifies that version satisfies c.RequireFormat. An empty
// version is treated as "unversioned, assume compatible" per
// heapprovider.Provider.FormatVersion's contract.
func (c *Config) CheckFormat(version string) error {
	if version == "" {
		return nil
	}

	constraint, err := semver.NewConstraint(c.RequireFormat)
	if err != nil {
		return allocerrors.InvalidConfig("RequireFormat", c.RequireFormat)
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return allocerrors.FormatMismatch(version, c.RequireFormat)
	}

	if !constraint.Check(v) {
		return allocerrors.FormatMismatch(version, c.RequireFormat)
	}

	return nil
}

// WithChunkSize overrides the growth increment.
func WithChunkSize(n int) Option {
	return func(c *Config) { c.ChunkSize = n }
}

// WithMinBlockSize overrides the minimum block size.
func WithMinBlockSize(n int) Option {
	return func(c *Config) { c.MinBlockSize = n }
}

// WithRequireFormat overrides the semver constraint checked at Init.
func WithRequireFormat(constraint string) Option {
	return func(c *Config) { c.RequireFormat = constraint }
}

// WithInvariantChecks enables or disables the debug invariant checker.
func WithInvariantChecks(enabled bool) Option {
	return func(c *Config) { c.EnableInvariantChecks = enabled }
}
