package hierarchy

import (
	"context"
	"fmt"
	"time"

	"github.com/DmitriyVTitov/size"
	"github.com/janelia-flyem/amr/amr"
	"golang.org/x/sync/errgroup"
)

// Validate checks each level concurrently.  Blocks of one level must not overlap
// and must have a positive refinement ratio.  Every block of a level other than 0
// must be properly nested, i.e., the coarser level's blocks must cover the cells of
// its coarsened extent.
func (h *Hierarchy) Validate(ctx context.Context) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for level := range h.levels {
		level := level
		g.Go(func() error {
			return h.validateLevel(ctx, level)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	amr.Elapsed(start, "Validated %d levels of %s hierarchy", len(h.levels), h.desc)
	return nil
}

func (h *Hierarchy) validateLevel(ctx context.Context, level int) error {
	lvl := h.levels[level]
	if lvl.Ratio < 1 {
		return fmt.Errorf("level %d has bad refinement ratio %d", level, lvl.Ratio)
	}
	for i, box := range lvl.Boxes {
		if box.GridDescription() != h.desc {
			return fmt.Errorf("level %d block %d: box %s does not match grid description %s", level, i, box, h.desc)
		}
		if box.Empty() {
			return fmt.Errorf("level %d block %d: box %s is empty", level, i, box)
		}
	}
	if pairs := lvl.Boxes.Overlaps(); len(pairs) != 0 {
		return fmt.Errorf("level %d: block %d (%s) overlaps block %d (%s)", level, pairs[0][0],
			lvl.Boxes[pairs[0][0]], pairs[0][1], lvl.Boxes[pairs[0][1]])
	}
	if level == 0 {
		return nil
	}
	coarser := h.levels[level-1]
	if coarser.Ratio < 1 {
		return fmt.Errorf("level %d cannot be nested in level %d with bad refinement ratio %d",
			level, level-1, coarser.Ratio)
	}
	for i, box := range lvl.Boxes {
		if err := ctx.Err(); err != nil {
			return err
		}
		cover := box.CoarseCover(coarser.Ratio)
		var covered int64
		for _, idx := range coarser.Boxes.Intersecting(cover) {
			overlap := cover
			overlap.Intersect(coarser.Boxes[idx])
			covered += overlap.NumberOfCells()
		}
		if covered != cover.NumberOfCells() {
			return fmt.Errorf("level %d block %d (%s) is not nested in level %d: %d of %d coarse cells covered",
				level, i, box, level-1, covered, cover.NumberOfCells())
		}
	}
	return nil
}

// Stats summarizes a hierarchy.
type Stats struct {
	Levels int
	Blocks []int
	Cells  []int64

	// Bytes is the approximate in-memory size of the levels.
	Bytes int

	CacheEntries int64
	CacheHitRate float64
}

// Stats returns the number of blocks and cells per level along with memory and cache
// usage.
func (h *Hierarchy) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	stats := Stats{
		Levels: len(h.levels),
		Blocks: make([]int, len(h.levels)),
		Cells:  make([]int64, len(h.levels)),
		Bytes:  size.Of(h.levels),
	}
	for level, lvl := range h.levels {
		stats.Blocks[level] = len(lvl.Boxes)
		stats.Cells[level] = lvl.Boxes.NumberOfCells()
	}
	if h.cache != nil {
		stats.CacheEntries = h.cache.EntryCount()
		stats.CacheHitRate = h.cache.HitRate()
	}
	return stats
}
