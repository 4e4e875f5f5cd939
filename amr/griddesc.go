package amr

import (
	"fmt"
	"sort"
	"strings"
)

// GridDescription tags which axes of a block participate in its dimensionality.
// A box that is a plane has two active axes; the remaining axis is pinned so its
// lower and upper index are always equal.
type GridDescription uint8

const (
	// XYPlane describes a 2d grid of cells that share a z-index.
	XYPlane GridDescription = iota + 1

	// XZPlane describes a 2d grid of cells that share a y-index.
	XZPlane

	// YZPlane describes a 2d grid of cells that share an x-index.
	YZPlane

	// XYZGrid describes a 3d volume of cells.
	XYZGrid
)

// ActiveAxes returns for each of the X, Y, and Z axes whether it is active.
// Invalid descriptions have no active axes.
func (g GridDescription) ActiveAxes() [3]bool {
	switch g {
	case XYPlane:
		return [3]bool{true, true, false}
	case XZPlane:
		return [3]bool{true, false, true}
	case YZPlane:
		return [3]bool{false, true, true}
	case XYZGrid:
		return [3]bool{true, true, true}
	default:
		return [3]bool{}
	}
}

// NumDims returns the number of active axes.
func (g GridDescription) NumDims() int {
	var n int
	for _, active := range g.ActiveAxes() {
		if active {
			n++
		}
	}
	return n
}

// Valid returns true if the description is one of the known tags.
func (g GridDescription) Valid() bool {
	return g >= XYPlane && g <= XYZGrid
}

// AxisName returns X, Y, or Z for an axis.
func AxisName(axis uint8) string {
	switch axis {
	case 0:
		return "X"
	case 1:
		return "Y"
	case 2:
		return "Z"
	default:
		return fmt.Sprintf("Dim %d", axis)
	}
}

func (g GridDescription) String() string {
	switch g {
	case XYPlane:
		return "XY plane"
	case XZPlane:
		return "XZ plane"
	case YZPlane:
		return "YZ plane"
	case XYZGrid:
		return "XYZ grid"
	default:
		return fmt.Sprintf("Unknown grid description (%d)", uint8(g))
	}
}

// GridDescriptionFromDims returns the description of a structured grid with the
// given number of nodes along each axis.  An axis with a single node is degenerate.
// Grids with fewer than two non-degenerate axes have no box description.
func GridDescriptionFromDims(nodeDims Point3d) (GridDescription, error) {
	var flat [3]bool
	for axis, n := range nodeDims {
		if n < 1 {
			return 0, fmt.Errorf("grid dimensions %s has no nodes along axis %s", nodeDims, AxisName(uint8(axis)))
		}
		flat[axis] = n == 1
	}
	switch flat {
	case [3]bool{false, false, false}:
		return XYZGrid, nil
	case [3]bool{false, false, true}:
		return XYPlane, nil
	case [3]bool{false, true, false}:
		return XZPlane, nil
	case [3]bool{true, false, false}:
		return YZPlane, nil
	default:
		return 0, fmt.Errorf("grid dimensions %s describe a line or point, not a plane or volume", nodeDims)
	}
}

// GridDescriptionString is a string for specifying a grid description.
type GridDescriptionString string

var gridDescriptionStrings = map[string]GridDescription{
	"xy":    XYPlane,
	"xz":    XZPlane,
	"yz":    YZPlane,
	"xyz":   XYZGrid,
	"vol":   XYZGrid,
	"0_1":   XYPlane,
	"0_2":   XZPlane,
	"1_2":   YZPlane,
	"0_1_2": XYZGrid,
	"0,1":   XYPlane,
	"0,2":   XZPlane,
	"1,2":   YZPlane,
	"0,1,2": XYZGrid,
}

// ListGridDescriptions returns the accepted grid description names.
func ListGridDescriptions() []string {
	names := make([]string, 0, len(gridDescriptionStrings))
	for key := range gridDescriptionStrings {
		names = append(names, key)
	}
	sort.Strings(names)
	return names
}

// GridDescription returns the grid description constant associated with the string.
func (s GridDescriptionString) GridDescription() (GridDescription, error) {
	g, found := gridDescriptionStrings[strings.ToLower(strings.TrimSpace(string(s)))]
	if !found {
		return 0, fmt.Errorf("Unknown grid description specification (%s)", s)
	}
	return g, nil
}
