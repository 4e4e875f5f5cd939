package amr

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Point3d is an ordered list of three 32-bit signed integers, used for index-space
// coordinates and per-axis integer quantities like dimensions and shifts.
type Point3d [3]int32

// Point3dSize is the number of bytes in the little endian encoding of a Point3d.
const Point3dSize = 12

// Bytes returns a byte representation of the Point3d in little endian format.
func (p Point3d) Bytes() []byte {
	b := make([]byte, Point3dSize)
	p.putBytes(b)
	return b
}

func (p Point3d) putBytes(b []byte) {
	binary.LittleEndian.PutUint32(b[0:4], uint32(p[0]))
	binary.LittleEndian.PutUint32(b[4:8], uint32(p[1]))
	binary.LittleEndian.PutUint32(b[8:12], uint32(p[2]))
}

// Point3dFromBytes returns a Point3d from its little endian encoding.
func Point3dFromBytes(b []byte) (p Point3d, err error) {
	if len(b) < Point3dSize {
		err = fmt.Errorf("cannot decode Point3d from %d bytes", len(b))
		return
	}
	p[0] = int32(binary.LittleEndian.Uint32(b[0:4]))
	p[1] = int32(binary.LittleEndian.Uint32(b[4:8]))
	p[2] = int32(binary.LittleEndian.Uint32(b[8:12]))
	return
}

// SetMinimum sets the point to the minimum elements of current and passed points.
func (p *Point3d) SetMinimum(p2 Point3d) {
	if p[0] > p2[0] {
		p[0] = p2[0]
	}
	if p[1] > p2[1] {
		p[1] = p2[1]
	}
	if p[2] > p2[2] {
		p[2] = p2[2]
	}
}

// SetMaximum sets the point to the maximum elements of current and passed points.
func (p *Point3d) SetMaximum(p2 Point3d) {
	if p[0] < p2[0] {
		p[0] = p2[0]
	}
	if p[1] < p2[1] {
		p[1] = p2[1]
	}
	if p[2] < p2[2] {
		p[2] = p2[2]
	}
}

// Add returns the addition of two points.
func (p Point3d) Add(p2 Point3d) Point3d {
	return Point3d{p[0] + p2[0], p[1] + p2[1], p[2] + p2[2]}
}

// Sub returns the subtraction of the passed point from the receiver.
func (p Point3d) Sub(p2 Point3d) Point3d {
	return Point3d{p[0] - p2[0], p[1] - p2[1], p[2] - p2[2]}
}

// AddScalar adds a scalar value to each element of the point.
func (p Point3d) AddScalar(value int32) Point3d {
	return Point3d{p[0] + value, p[1] + value, p[2] + value}
}

// Prod returns the product of the point elements.
func (p Point3d) Prod() int64 {
	return int64(p[0]) * int64(p[1]) * int64(p[2])
}

func (p Point3d) String() string {
	return fmt.Sprintf("(%d,%d,%d)", p[0], p[1], p[2])
}

// floorDiv divides with rounding toward negative infinity, the same way block
// coordinates are computed for negative voxel coordinates.
func floorDiv(a, b int32) int32 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// -- Handle real-space vectors --------

// Vector3d is a 3D vector of 64-bit floats, used for origins and spacings.
type Vector3d [3]float64

// StringToVector3d parses a string of format "%f<sep>%f<sep>%f".
func StringToVector3d(str, separator string) (Vector3d, error) {
	elems := strings.Split(str, separator)
	if len(elems) != 3 {
		return Vector3d{}, fmt.Errorf("Can't convert string '%s' (length %d) to Vector3d", str, len(elems))
	}
	return NdString(elems).Vector3d()
}

func (v Vector3d) Subtract(x Vector3d) Vector3d {
	return Vector3d{v[0] - x[0], v[1] - x[1], v[2] - x[2]}
}

func (v Vector3d) Add(x Vector3d) Vector3d {
	return Vector3d{v[0] + x[0], v[1] + x[1], v[2] + x[2]}
}

func (v Vector3d) String() string {
	return fmt.Sprintf("(%g,%g,%g)", v[0], v[1], v[2])
}

// roundIndex rounds a real-space index to the nearest integer index, with halves
// going up.
func roundIndex(x float64) int32 {
	return int32(math.Floor(x + 0.5))
}

// floorIndex returns the index of the cell holding a real-space index.
func floorIndex(x float64) int32 {
	return int32(math.Floor(x))
}

// NdString is an N-dimensional slice of strings
type NdString []string

// StringToPoint3d parses a string of format "%d<sep>%d<sep>%d" into a Point3d.
func StringToPoint3d(str, separator string) (Point3d, error) {
	return NdString(strings.Split(str, separator)).Point3d()
}

func (n NdString) Point3d() (p Point3d, err error) {
	if len(n) != 3 {
		err = fmt.Errorf("Cannot parse %d elements into a 3d point", len(n))
		return
	}
	for i := range n {
		var v int64
		v, err = strconv.ParseInt(strings.TrimSpace(n[i]), 10, 32)
		if err != nil {
			return
		}
		p[i] = int32(v)
	}
	return
}

func (n NdString) Vector3d() (v Vector3d, err error) {
	if len(n) != 3 {
		err = fmt.Errorf("Cannot parse %d elements into a 3d vector", len(n))
		return
	}
	for i := range n {
		v[i], err = strconv.ParseFloat(strings.TrimSpace(n[i]), 64)
		if err != nil {
			return
		}
	}
	return
}
