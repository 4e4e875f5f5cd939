package amr

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// BoxBytes is the number of bytes in the binary layout of a Box: a little endian
// int32 grid description followed by the lower and upper corners as little endian
// int32 triples.  The layout is only meant for exchange between cooperating
// processes of the same build and carries no version.
const BoxBytes = 4 + 2*Point3dSize

var (
	// ErrBadBoxSize is returned when deserializing a box from a buffer that is not
	// exactly BoxBytes long.
	ErrBadBoxSize = errors.New("bad serialized box size")

	// ErrBadGridDescription is returned when a serialized box carries an unknown
	// grid description.
	ErrBadGridDescription = errors.New("bad grid description")
)

// Serialize returns the binary layout of the box in a newly allocated slice of
// BoxBytes bytes owned by the caller.
func (b Box) Serialize() []byte {
	buf := make([]byte, BoxBytes)
	b.putBytes(buf)
	return buf
}

func (b Box) putBytes(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], uint32(b.desc))
	b.lo.putBytes(buf[4 : 4+Point3dSize])
	b.hi.putBytes(buf[4+Point3dSize : BoxBytes])
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (b Box) MarshalBinary() ([]byte, error) {
	return b.Serialize(), nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.  The
// receiver is unchanged if an error is returned.
func (b *Box) UnmarshalBinary(data []byte) error {
	if len(data) != BoxBytes {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrBadBoxSize, BoxBytes, len(data))
	}
	tag := binary.LittleEndian.Uint32(data[0:4])
	desc := GridDescription(tag)
	if tag > 0xFF || !desc.Valid() {
		return fmt.Errorf("%w: tag %d", ErrBadGridDescription, tag)
	}
	lo, err := Point3dFromBytes(data[4 : 4+Point3dSize])
	if err != nil {
		return err
	}
	hi, err := Point3dFromBytes(data[4+Point3dSize : BoxBytes])
	if err != nil {
		return err
	}
	*b = Box{lo: lo, hi: hi, desc: desc}
	return nil
}

// DeserializeBox returns the box held in the binary layout produced by Serialize.
func DeserializeBox(data []byte) (Box, error) {
	var b Box
	err := b.UnmarshalBinary(data)
	return b, err
}

// Boxes is a list of boxes, e.g., the blocks of one refinement level.
type Boxes []Box

// MarshalBinary implements the encoding.BinaryMarshaler interface.  The layout is a
// little endian uint32 count followed by the binary layout of each box.
func (boxes Boxes) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 4+len(boxes)*BoxBytes)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(boxes)))
	pos := 4
	for _, b := range boxes {
		b.putBytes(buf[pos : pos+BoxBytes])
		pos += BoxBytes
	}
	return buf, nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (boxes *Boxes) UnmarshalBinary(data []byte) error {
	if len(data) < 4 {
		return fmt.Errorf("can't unmarshal boxes from %d bytes", len(data))
	}
	n := int(binary.LittleEndian.Uint32(data[0:4]))
	if len(data) != 4+n*BoxBytes {
		return fmt.Errorf("%w: %d boxes need %d bytes, got %d", ErrBadBoxSize, n, 4+n*BoxBytes, len(data))
	}
	out := make(Boxes, n)
	pos := 4
	for i := range out {
		if err := out[i].UnmarshalBinary(data[pos : pos+BoxBytes]); err != nil {
			return fmt.Errorf("box %d: %v", i, err)
		}
		pos += BoxBytes
	}
	*boxes = out
	return nil
}

// BoundingBox returns the smallest box containing all non-empty boxes in the list.
// False is returned if there are no non-empty boxes.  All boxes must share a grid
// description.
func (boxes Boxes) BoundingBox() (Box, bool) {
	var bound Box
	var found bool
	for _, b := range boxes {
		if b.Empty() {
			continue
		}
		if !found {
			bound = b
			found = true
			continue
		}
		bound.lo.SetMinimum(b.lo)
		bound.hi.SetMaximum(b.hi)
	}
	return bound, found
}

// Intersecting returns the indices of boxes that overlap the given box.
func (boxes Boxes) Intersecting(b Box) []int {
	var indices []int
	for i, other := range boxes {
		if other.Intersects(b) {
			indices = append(indices, i)
		}
	}
	return indices
}

// Overlaps returns the index pairs (i < j) of boxes that overlap each other.
func (boxes Boxes) Overlaps() [][2]int {
	var pairs [][2]int
	for i := 0; i < len(boxes); i++ {
		for j := i + 1; j < len(boxes); j++ {
			if boxes[i].Intersects(boxes[j]) {
				pairs = append(pairs, [2]int{i, j})
			}
		}
	}
	return pairs
}

// NumberOfCells returns the total number of cells in the list.
func (boxes Boxes) NumberOfCells() int64 {
	var total int64
	for _, b := range boxes {
		total += b.NumberOfCells()
	}
	return total
}
