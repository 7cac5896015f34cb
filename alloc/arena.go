package alloc

import (
	"fmt"

	"github.com/joshuapare/memkit/vmem"
)

// PageArena is a Bump seeded from pages reserved through vmem. Unlike Bump
// it owns its memory: Close releases the pages exactly once.
//
// All Bump methods are available on PageArena; Cap reports the page-rounded
// size.
type PageArena struct {
	*Bump
	region *vmem.Region
}

// NewPageArena reserves at least size bytes (rounded up to whole pages) and
// builds a Bump over them. Reservation failures are returned as-is; they
// are platform errors, not OOM events.
func NewPageArena(size int, opts Options) (*PageArena, error) {
	r, err := vmem.Map(size)
	if err != nil {
		return nil, fmt.Errorf("alloc: page arena of %d bytes: %w", size, err)
	}
	if opts.Name == "" {
		opts.Name = "page-arena"
	}
	return &PageArena{
		Bump:   NewBump(r.Bytes(), opts),
		region: r,
	}, nil
}

// Close releases the arena's pages. Every slice handed out becomes invalid.
// A second Close reports vmem.CodeDoubleRelease.
func (a *PageArena) Close() error {
	if err := a.region.Release(); err != nil {
		return err
	}
	// Detach so later allocations fail through the OOM path instead of
	// touching unmapped memory.
	a.Bump.buf = nil
	a.Bump.off = 0
	return nil
}

// Closed reports whether Close has succeeded.
func (a *PageArena) Closed() bool {
	return a.region.Released()
}

var _ Allocator = (*PageArena)(nil)
