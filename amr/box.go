package amr

import (
	"fmt"
)

// Box is the index-space extent of one structured block at one refinement level.
// The lower and upper corners are inclusive cell indices.  Axes that are not active
// for the box's GridDescription are pinned, i.e., their lower and upper index are
// equal, and no Box operation changes them.
//
// Box is a comparable value.  Two boxes are equal (==) only if their corners and
// grid descriptions are identical, so a plane and a volume spanning the same
// numeric extents are different boxes.  The zero Box has no valid grid description
// and holds no cells.
type Box struct {
	lo   Point3d
	hi   Point3d
	desc GridDescription
}

// EmptyBox returns a volumetric box with no cells.
func EmptyBox() Box {
	return Box{
		lo:   Point3d{0, 0, 0},
		hi:   Point3d{-1, -1, -1},
		desc: XYZGrid,
	}
}

// NewBox returns a box with the given inclusive corners.  The corners are stored
// as given, so callers must pin inactive axes (lo == hi) themselves.
func NewBox(lo, hi Point3d, desc GridDescription) Box {
	return Box{lo: lo, hi: hi, desc: desc}
}

// NewBoxFromOrigin returns the box for a block with a real-space origin and a number
// of cells along each axis, where the block's level has the given spacing and the
// whole grid starts at gridOrigin.  Along inactive axes, the box is the single index
// holding the origin and numCells is ignored.
func NewBoxFromOrigin(origin Vector3d, numCells Point3d, spacing, gridOrigin Vector3d, desc GridDescription) Box {
	var b Box
	b.desc = desc
	active := desc.ActiveAxes()
	for axis := 0; axis < 3; axis++ {
		b.lo[axis] = roundIndex((origin[axis] - gridOrigin[axis]) / spacing[axis])
		if active[axis] {
			b.hi[axis] = b.lo[axis] + numCells[axis] - 1
		} else {
			b.hi[axis] = b.lo[axis]
		}
	}
	return b
}

// NewBoxFromGrid returns the box for a structured grid with the given origin, spacing
// and number of nodes along each axis.  The grid description is determined by which
// axes are degenerate, i.e., have a single node.
func NewBoxFromGrid(origin, spacing Vector3d, nodeDims Point3d, gridOrigin Vector3d) (Box, error) {
	desc, err := GridDescriptionFromDims(nodeDims)
	if err != nil {
		return Box{}, err
	}
	numCells := nodeDims.AddScalar(-1)
	return NewBoxFromOrigin(origin, numCells, spacing, gridOrigin, desc), nil
}

// NewBoxFromStrings returns a Box given string representations of the lower corner
// ("0,10,20"), upper corner ("63,73,83"), and grid description ("xyz").
func NewBoxFromStrings(loStr, hiStr, descStr, sep string) (Box, error) {
	lo, err := StringToPoint3d(loStr, sep)
	if err != nil {
		return Box{}, fmt.Errorf("bad lower corner %q: %v", loStr, err)
	}
	hi, err := StringToPoint3d(hiStr, sep)
	if err != nil {
		return Box{}, fmt.Errorf("bad upper corner %q: %v", hiStr, err)
	}
	desc, err := GridDescriptionString(descStr).GridDescription()
	if err != nil {
		return Box{}, err
	}
	return NewBox(lo, hi, desc), nil
}

// Lo returns the inclusive lower corner.
func (b Box) Lo() Point3d {
	return b.lo
}

// Hi returns the inclusive upper corner.
func (b Box) Hi() Point3d {
	return b.hi
}

// GridDescription returns the grid description that determines the box's active axes.
func (b Box) GridDescription() GridDescription {
	return b.desc
}

// Dimensions returns the number of cells along each axis.  Values are zero or
// negative along axes where the box is empty.  An axis spanning 2^31 or more
// cells does not fit an int32 and wraps, so use NumberOfCells for counts.
func (b Box) Dimensions() Point3d {
	return Point3d{
		b.hi[0] - b.lo[0] + 1,
		b.hi[1] - b.lo[1] + 1,
		b.hi[2] - b.lo[2] + 1,
	}
}

// extent returns the number of cells along an axis without int32 wraparound.
func (b Box) extent(axis int) int64 {
	return int64(b.hi[axis]) - int64(b.lo[axis]) + 1
}

// NumberOfCells returns the number of cells in the box or 0 if it is empty.
func (b Box) NumberOfCells() int64 {
	if !b.desc.Valid() {
		return 0
	}
	cells := int64(1)
	for axis := 0; axis < 3; axis++ {
		n := b.extent(axis)
		if n <= 0 {
			return 0
		}
		cells *= n
	}
	return cells
}

// Empty returns true if the box holds no cells.
func (b Box) Empty() bool {
	return b.NumberOfCells() == 0
}

// NodeDimensions returns the number of nodes along each axis.  Inactive axes have
// a single node.  An empty box has no nodes.  Like Dimensions, an axis with 2^31 or
// more nodes wraps.
func (b Box) NodeDimensions() Point3d {
	if b.Empty() {
		return Point3d{}
	}
	nodes := Point3d{1, 1, 1}
	for axis, active := range b.desc.ActiveAxes() {
		if active {
			nodes[axis] = int32(b.extent(axis) + 1)
		}
	}
	return nodes
}

// NumberOfNodes returns the number of nodes in the box or 0 if it is empty.
func (b Box) NumberOfNodes() int64 {
	if b.Empty() {
		return 0
	}
	nodes := int64(1)
	for axis, active := range b.desc.ActiveAxes() {
		if active {
			nodes *= b.extent(axis) + 1
		}
	}
	return nodes
}

// --- Transformations.  All leave inactive axes unchanged. ----

// Refine converts the box into the index space of a level with ratio times the
// resolution.  The refined box covers exactly the fine cells of the original cells.
func (b *Box) Refine(ratio int32) {
	for axis, active := range b.desc.ActiveAxes() {
		if !active {
			continue
		}
		b.lo[axis] *= ratio
		b.hi[axis] = (b.hi[axis]+1)*ratio - 1
	}
}

// Coarsen converts the box into the index space of a level with 1/ratio times the
// resolution.  It undoes Refine with the same ratio.
func (b *Box) Coarsen(ratio int32) {
	for axis, active := range b.desc.ActiveAxes() {
		if !active {
			continue
		}
		b.lo[axis] = floorDiv(b.lo[axis], ratio)
		b.hi[axis] = floorDiv(b.hi[axis]+1, ratio) - 1
	}
}

// CoarseCover returns the smallest box at 1/ratio resolution whose refinement
// contains the receiver.  For boxes aligned to ratio, this equals Coarsen.
func (b Box) CoarseCover(ratio int32) Box {
	cover := b
	for axis, active := range b.desc.ActiveAxes() {
		if !active {
			continue
		}
		cover.lo[axis] = floorDiv(b.lo[axis], ratio)
		cover.hi[axis] = floorDiv(b.hi[axis], ratio)
	}
	return cover
}

// Grow expands the box by n cells on both sides of each active axis.
func (b *Box) Grow(n int32) {
	b.GrowAxes(Point3d{n, n, n})
}

// GrowAxes expands the box by n[axis] cells on both sides of each active axis.
func (b *Box) GrowAxes(n Point3d) {
	for axis, active := range b.desc.ActiveAxes() {
		if !active {
			continue
		}
		b.lo[axis] -= n[axis]
		b.hi[axis] += n[axis]
	}
}

// Shrink contracts the box by n cells on both sides of each active axis.
func (b *Box) Shrink(n int32) {
	b.ShrinkAxes(Point3d{n, n, n})
}

// ShrinkAxes contracts the box by n[axis] cells on both sides of each active axis.
func (b *Box) ShrinkAxes(n Point3d) {
	for axis, active := range b.desc.ActiveAxes() {
		if !active {
			continue
		}
		b.lo[axis] += n[axis]
		b.hi[axis] -= n[axis]
	}
}

// Shift translates the box by delta.  Components of delta along inactive axes
// are ignored.
func (b *Box) Shift(delta Point3d) {
	for axis, active := range b.desc.ActiveAxes() {
		if !active {
			continue
		}
		b.lo[axis] += delta[axis]
		b.hi[axis] += delta[axis]
	}
}

// --- Set operations.  Both boxes must share a grid description. ----

// Intersect sets the receiver to its overlap with the other box and returns true.
// If the boxes do not overlap, false is returned and the receiver is unchanged.
func (b *Box) Intersect(other Box) bool {
	if !b.desc.Valid() {
		return false
	}
	lo, hi := b.lo, b.hi
	for axis, active := range b.desc.ActiveAxes() {
		if !active {
			continue
		}
		if other.lo[axis] > lo[axis] {
			lo[axis] = other.lo[axis]
		}
		if other.hi[axis] < hi[axis] {
			hi[axis] = other.hi[axis]
		}
		if lo[axis] > hi[axis] {
			return false
		}
	}
	b.lo, b.hi = lo, hi
	return true
}

// Intersects returns true if the two boxes overlap.
func (b Box) Intersects(other Box) bool {
	return b.Intersect(other)
}

// IntersectsAlongAxis returns true if the index ranges of the two boxes along
// the given axis overlap.  Axes are 0 (x), 1 (y) and 2 (z); any other axis
// returns false.
func (b Box) IntersectsAlongAxis(other Box, axis uint8) bool {
	if axis > 2 {
		return false
	}
	lo, hi := b.lo[axis], b.hi[axis]
	if other.lo[axis] > lo {
		lo = other.lo[axis]
	}
	if other.hi[axis] < hi {
		hi = other.hi[axis]
	}
	return lo <= hi
}

// Contains returns true if the other box lies within the receiver along every
// active axis.
func (b Box) Contains(other Box) bool {
	if !b.desc.Valid() {
		return false
	}
	for axis, active := range b.desc.ActiveAxes() {
		if !active {
			continue
		}
		if other.lo[axis] < b.lo[axis] || other.hi[axis] > b.hi[axis] {
			return false
		}
	}
	return true
}

// ContainsPoint returns true if the cell index p lies within the box along every
// active axis.
func (b Box) ContainsPoint(p Point3d) bool {
	if !b.desc.Valid() {
		return false
	}
	for axis, active := range b.desc.ActiveAxes() {
		if !active {
			continue
		}
		if p[axis] < b.lo[axis] || p[axis] > b.hi[axis] {
			return false
		}
	}
	return true
}

// Equals returns true if the boxes have identical corners and grid description.
func (b Box) Equals(other Box) bool {
	return b == other
}

// --- Real-space and cell addressing ----

// Bounds returns the real-space extent of the box given the origin of the whole
// grid and the spacing of the box's level.  Along inactive axes, lower and upper are
// the position of the pinned index.
func (b Box) Bounds(origin, spacing Vector3d) (lower, upper Vector3d) {
	active := b.desc.ActiveAxes()
	for axis := 0; axis < 3; axis++ {
		lower[axis] = origin[axis] + float64(b.lo[axis])*spacing[axis]
		if active[axis] {
			upper[axis] = origin[axis] + float64(b.hi[axis]+1)*spacing[axis]
		} else {
			upper[axis] = lower[axis]
		}
	}
	return
}

// Locate returns the index of the cell holding the real-space point x and whether
// that cell is within the box.  Cells are closed at their lower face and open at
// their upper face.  Inactive axes always take the pinned index.
func (b Box) Locate(origin, spacing, x Vector3d) (Point3d, bool) {
	var p Point3d
	active := b.desc.ActiveAxes()
	for axis := 0; axis < 3; axis++ {
		if !active[axis] {
			p[axis] = b.lo[axis]
			continue
		}
		p[axis] = floorIndex((x[axis] - origin[axis]) / spacing[axis])
	}
	return p, b.ContainsPoint(p)
}

// CellOffset returns the linear index of cell p within the box, with x varying
// fastest, or false if p is outside the box.
func (b Box) CellOffset(p Point3d) (int64, bool) {
	if !b.ContainsPoint(p) {
		return -1, false
	}
	var rel [3]int64
	for axis, active := range b.desc.ActiveAxes() {
		if active {
			rel[axis] = int64(p[axis]) - int64(b.lo[axis])
		}
	}
	nx, ny := b.extent(0), b.extent(1)
	return rel[2]*nx*ny + rel[1]*nx + rel[0], true
}

func (b Box) String() string {
	return fmt.Sprintf("%s %s-%s", b.desc, b.lo, b.hi)
}
