package hierarchy

import (
	"encoding/binary"
	"fmt"

	"github.com/coocood/freecache"
	"github.com/janelia-flyem/amr/amr"
)

type relationKind byte

const (
	parentRelation relationKind = iota + 1
	childRelation
)

// relationKey is a three tuple (kind, level, block index)
type relationKey struct {
	kind  relationKind
	level int
	idx   int
}

func (k relationKey) Bytes() []byte {
	b := make([]byte, 9)
	b[0] = byte(k.kind)
	binary.LittleEndian.PutUint32(b[1:5], uint32(k.level))
	binary.LittleEndian.PutUint32(b[5:9], uint32(k.idx))
	return b
}

func encodeIndices(indices []int) []byte {
	b := make([]byte, 4*len(indices))
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(b[i*4:i*4+4], uint32(idx))
	}
	return b
}

func decodeIndices(b []byte) ([]int, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("cached relation has bad size %d", len(b))
	}
	if len(b) == 0 {
		return nil, nil
	}
	indices := make([]int, len(b)/4)
	for i := range indices {
		indices[i] = int(binary.LittleEndian.Uint32(b[i*4 : i*4+4]))
	}
	return indices, nil
}

// clearCache drops all cached relations.  Must be called with the write lock held.
func (h *Hierarchy) clearCache() {
	if h.cache != nil {
		h.cache.Clear()
	}
}

// Parents returns the indices of blocks one level coarser that overlap the given
// block.  The block is coarsened using the coarser level's refinement ratio.  Blocks
// at level 0 have no parents.
func (h *Hierarchy) Parents(level, idx int) ([]int, error) {
	return h.relation(relationKey{kind: parentRelation, level: level, idx: idx})
}

// Children returns the indices of blocks one level finer that overlap the given
// block.  The block is refined using its level's refinement ratio.  Blocks at the
// finest level have no children.
func (h *Hierarchy) Children(level, idx int) ([]int, error) {
	return h.relation(relationKey{kind: childRelation, level: level, idx: idx})
}

func (h *Hierarchy) relation(k relationKey) ([]int, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	box, err := h.box(k.level, k.idx)
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		cached, err := h.cache.Get(k.Bytes())
		if err != nil && err != freecache.ErrNotFound {
			return nil, err
		}
		if err == nil {
			return decodeIndices(cached)
		}
	}

	var indices []int
	switch k.kind {
	case parentRelation:
		if k.level > 0 {
			coarser := h.levels[k.level-1]
			if coarser.Ratio < 1 {
				return nil, fmt.Errorf("level %d has bad refinement ratio %d", k.level-1, coarser.Ratio)
			}
			indices = coarser.Boxes.Intersecting(box.CoarseCover(coarser.Ratio))
		}
	case childRelation:
		if k.level < len(h.levels)-1 {
			ratio := h.levels[k.level].Ratio
			if ratio < 1 {
				return nil, fmt.Errorf("level %d has bad refinement ratio %d", k.level, ratio)
			}
			refined := box
			refined.Refine(ratio)
			indices = h.levels[k.level+1].Boxes.Intersecting(refined)
		}
	default:
		return nil, fmt.Errorf("unknown relation kind %d", k.kind)
	}

	if h.cache != nil {
		if err := h.cache.Set(k.Bytes(), encodeIndices(indices), 0); err != nil {
			amr.Errorf("unable to cache relation for block %d at level %d: %v\n", k.idx, k.level, err)
		}
	}
	return indices, nil
}
