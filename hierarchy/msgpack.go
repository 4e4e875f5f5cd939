package hierarchy

// Hierarchy metadata is encoded as msgpack tuples in the manner of msgp generated
// code.  Each level is an array of (spacing, ratio, boxes) where boxes is a msgpack
// bin holding the amr.Boxes binary layout.  A hierarchy is an array of (version,
// origin, grid description, levels).

import (
	"fmt"

	"github.com/janelia-flyem/amr/amr"
	"github.com/tinylib/msgp/msgp"
)

func appendVector3d(o []byte, v amr.Vector3d) []byte {
	o = msgp.AppendArrayHeader(o, 3)
	for i := range v {
		o = msgp.AppendFloat64(o, v[i])
	}
	return o
}

func readVector3dBytes(bts []byte) (v amr.Vector3d, o []byte, err error) {
	var asz uint32
	asz, bts, err = msgp.ReadArrayHeaderBytes(bts)
	if err != nil {
		return
	}
	if asz != 3 {
		err = msgp.ArrayError{Wanted: 3, Got: asz}
		return
	}
	for i := range v {
		v[i], bts, err = msgp.ReadFloat64Bytes(bts)
		if err != nil {
			return
		}
	}
	o = bts
	return
}

const vector3dMsgsize = msgp.ArrayHeaderSize + 3*msgp.Float64Size

// minLevelMsgsize is a lower bound on the encoded size of a Level: a fixarray
// header, a spacing of three float32s, a fixint ratio, and a bin8 prefix.
const minLevelMsgsize = 1 + (1 + 3*5) + 1 + 2

// MarshalMsg implements msgp.Marshaler
func (z *Level) MarshalMsg(b []byte) (o []byte, err error) {
	o = msgp.Require(b, z.Msgsize())
	o = msgp.AppendArrayHeader(o, 3)
	o = appendVector3d(o, z.Spacing)
	o = msgp.AppendInt32(o, z.Ratio)
	var boxes []byte
	if boxes, err = z.Boxes.MarshalBinary(); err != nil {
		return
	}
	o = msgp.AppendBytes(o, boxes)
	return
}

// UnmarshalMsg implements msgp.Unmarshaler
func (z *Level) UnmarshalMsg(bts []byte) (o []byte, err error) {
	var asz uint32
	asz, bts, err = msgp.ReadArrayHeaderBytes(bts)
	if err != nil {
		return
	}
	if asz != 3 {
		err = msgp.ArrayError{Wanted: 3, Got: asz}
		return
	}
	z.Spacing, bts, err = readVector3dBytes(bts)
	if err != nil {
		return
	}
	z.Ratio, bts, err = msgp.ReadInt32Bytes(bts)
	if err != nil {
		return
	}
	var boxes []byte
	boxes, bts, err = msgp.ReadBytesZC(bts)
	if err != nil {
		return
	}
	if err = z.Boxes.UnmarshalBinary(boxes); err != nil {
		return
	}
	o = bts
	return
}

// Msgsize returns an upper bound estimate of the number of bytes occupied by the serialized message
func (z *Level) Msgsize() (s int) {
	s = msgp.ArrayHeaderSize + vector3dMsgsize + msgp.Int32Size +
		msgp.BytesPrefixSize + 4 + len(z.Boxes)*amr.BoxBytes
	return
}

// snapshot is the encoded form of a hierarchy.
type snapshot struct {
	Version string
	Origin  amr.Vector3d
	Desc    amr.GridDescription
	Levels  []Level
}

// MarshalMsg implements msgp.Marshaler
func (z *snapshot) MarshalMsg(b []byte) (o []byte, err error) {
	o = msgp.Require(b, z.Msgsize())
	o = msgp.AppendArrayHeader(o, 4)
	o = msgp.AppendString(o, z.Version)
	o = appendVector3d(o, z.Origin)
	o = msgp.AppendUint8(o, uint8(z.Desc))
	o = msgp.AppendArrayHeader(o, uint32(len(z.Levels)))
	for i := range z.Levels {
		o, err = z.Levels[i].MarshalMsg(o)
		if err != nil {
			return
		}
	}
	return
}

// UnmarshalMsg implements msgp.Unmarshaler
func (z *snapshot) UnmarshalMsg(bts []byte) (o []byte, err error) {
	var asz uint32
	asz, bts, err = msgp.ReadArrayHeaderBytes(bts)
	if err != nil {
		return
	}
	if asz != 4 {
		err = msgp.ArrayError{Wanted: 4, Got: asz}
		return
	}
	z.Version, bts, err = msgp.ReadStringBytes(bts)
	if err != nil {
		return
	}
	z.Origin, bts, err = readVector3dBytes(bts)
	if err != nil {
		return
	}
	{
		var desc uint8
		desc, bts, err = msgp.ReadUint8Bytes(bts)
		z.Desc = amr.GridDescription(desc)
	}
	if err != nil {
		return
	}
	var xsz uint32
	xsz, bts, err = msgp.ReadArrayHeaderBytes(bts)
	if err != nil {
		return
	}
	if uint64(xsz) > uint64(len(bts)/minLevelMsgsize) {
		err = fmt.Errorf("%d levels can't fit in %d remaining bytes", xsz, len(bts))
		return
	}
	if cap(z.Levels) >= int(xsz) {
		z.Levels = z.Levels[:xsz]
	} else {
		z.Levels = make([]Level, xsz)
	}
	for i := range z.Levels {
		bts, err = z.Levels[i].UnmarshalMsg(bts)
		if err != nil {
			return
		}
	}
	o = bts
	return
}

// Msgsize returns an upper bound estimate of the number of bytes occupied by the serialized message
func (z *snapshot) Msgsize() (s int) {
	s = msgp.ArrayHeaderSize + msgp.StringPrefixSize + len(z.Version) + vector3dMsgsize +
		msgp.Uint8Size + msgp.ArrayHeaderSize
	for i := range z.Levels {
		s += z.Levels[i].Msgsize()
	}
	return
}
