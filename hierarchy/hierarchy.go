/*
	Package hierarchy holds the blocks of a block-structured AMR dataset as lists of
	boxes per refinement level and answers the queries a consumer of boxes needs:
	which blocks of neighboring levels overlap a block, whether the levels are
	properly nested, and how the whole index space is encoded for another process.
*/
package hierarchy

import (
	"fmt"
	"sync"

	"github.com/coocood/freecache"
	"github.com/dustin/go-humanize"
	"github.com/janelia-flyem/amr/amr"
)

// Level is one refinement level of a hierarchy.
type Level struct {
	// Spacing is the real-space size of a cell at this level.
	Spacing amr.Vector3d

	// Ratio is the refinement ratio from this level to the next finer level.
	Ratio int32

	// Boxes are the blocks of this level in index space.
	Boxes amr.Boxes
}

// Hierarchy is a level-indexed, block-indexed collection of boxes that all share
// one grid description.  Level 0 is the coarsest level.  It is safe for concurrent
// use.
type Hierarchy struct {
	origin amr.Vector3d
	desc   amr.GridDescription

	mu     sync.RWMutex
	levels []Level

	cache *freecache.Cache
}

// New returns an empty hierarchy whose index space starts at the real-space origin.
// If cacheBytes is greater than zero, parent and child relations are cached in a
// freecache of roughly that size.
func New(origin amr.Vector3d, desc amr.GridDescription, cacheBytes int) *Hierarchy {
	h := &Hierarchy{
		origin: origin,
		desc:   desc,
	}
	if cacheBytes > 0 {
		h.cache = freecache.NewCache(cacheBytes)
		amr.Debugf("Created relation cache of ~ %s for %s hierarchy.\n", humanize.Bytes(uint64(cacheBytes)), desc)
	}
	return h
}

// Origin returns the real-space position of index (0,0,0).
func (h *Hierarchy) Origin() amr.Vector3d {
	return h.origin
}

// GridDescription returns the description every box of the hierarchy must share.
func (h *Hierarchy) GridDescription() amr.GridDescription {
	return h.desc
}

// AddLevel appends a finer level with the given cell spacing and refinement ratio
// to the next finer level, returning the new level's index.
func (h *Hierarchy) AddLevel(spacing amr.Vector3d, ratio int32) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.levels = append(h.levels, Level{Spacing: spacing, Ratio: ratio})
	h.clearCache()
	return len(h.levels) - 1
}

// AddBox appends a block to a level, returning the block's index within the level.
func (h *Hierarchy) AddBox(level int, box amr.Box) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if level < 0 || level >= len(h.levels) {
		return -1, fmt.Errorf("level %d does not exist in hierarchy with %d levels", level, len(h.levels))
	}
	if box.GridDescription() != h.desc {
		return -1, fmt.Errorf("box %s does not match hierarchy grid description %s", box, h.desc)
	}
	h.levels[level].Boxes = append(h.levels[level].Boxes, box)
	h.clearCache()
	return len(h.levels[level].Boxes) - 1, nil
}

// AddGrid appends a block given its real-space origin and number of cells along each
// axis, using the level's spacing to place it in index space.
func (h *Hierarchy) AddGrid(level int, gridOrigin amr.Vector3d, numCells amr.Point3d) (int, error) {
	h.mu.RLock()
	if level < 0 || level >= len(h.levels) {
		h.mu.RUnlock()
		return -1, fmt.Errorf("level %d does not exist in hierarchy with %d levels", level, len(h.levels))
	}
	spacing := h.levels[level].Spacing
	h.mu.RUnlock()

	box := amr.NewBoxFromOrigin(gridOrigin, numCells, spacing, h.origin, h.desc)
	return h.AddBox(level, box)
}

// NumLevels returns the number of refinement levels.
func (h *Hierarchy) NumLevels() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.levels)
}

// NumBlocks returns the number of blocks at a level or 0 if the level doesn't exist.
func (h *Hierarchy) NumBlocks(level int) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if level < 0 || level >= len(h.levels) {
		return 0
	}
	return len(h.levels[level].Boxes)
}

// Box returns a block's box.
func (h *Hierarchy) Box(level, idx int) (amr.Box, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.box(level, idx)
}

func (h *Hierarchy) box(level, idx int) (amr.Box, error) {
	if level < 0 || level >= len(h.levels) {
		return amr.Box{}, fmt.Errorf("level %d does not exist in hierarchy with %d levels", level, len(h.levels))
	}
	boxes := h.levels[level].Boxes
	if idx < 0 || idx >= len(boxes) {
		return amr.Box{}, fmt.Errorf("block %d does not exist at level %d with %d blocks", idx, level, len(boxes))
	}
	return boxes[idx], nil
}

// Level returns a copy of a level.
func (h *Hierarchy) Level(level int) (Level, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if level < 0 || level >= len(h.levels) {
		return Level{}, fmt.Errorf("level %d does not exist in hierarchy with %d levels", level, len(h.levels))
	}
	lvl := h.levels[level]
	lvl.Boxes = append(amr.Boxes(nil), lvl.Boxes...)
	return lvl, nil
}

// Bounds returns the real-space extent of a block.
func (h *Hierarchy) Bounds(level, idx int) (lower, upper amr.Vector3d, err error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var box amr.Box
	if box, err = h.box(level, idx); err != nil {
		return
	}
	lower, upper = box.Bounds(h.origin, h.levels[level].Spacing)
	return
}

// Locate returns the finest level block holding the real-space point x, with the
// index of the cell holding it.  False is returned if no block holds the point.
func (h *Hierarchy) Locate(x amr.Vector3d) (level, idx int, cell amr.Point3d, found bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for level = len(h.levels) - 1; level >= 0; level-- {
		lvl := h.levels[level]
		for idx = range lvl.Boxes {
			if cell, found = lvl.Boxes[idx].Locate(h.origin, lvl.Spacing, x); found {
				return
			}
		}
	}
	return -1, -1, amr.Point3d{}, false
}
