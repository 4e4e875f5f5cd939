package amr

import (
	"bytes"

	. "github.com/janelia-flyem/go/gocheck"
)

func (suite *DataSuite) TestSerializationFormat(c *C) {
	for _, compression := range []Compression{Uncompressed, Snappy, Zstd} {
		for _, checksum := range []Checksum{NoChecksum, CRC32} {
			format := EncodeSerializationFormat(compression, checksum)
			gotCompression, gotChecksum := DecodeSerializationFormat(format)
			c.Assert(gotCompression, Equals, compression)
			c.Assert(gotChecksum, Equals, checksum)
		}
	}

	compression, err := CompressionFromString("zstd")
	c.Assert(err, IsNil)
	c.Assert(compression, Equals, Zstd)
	_, err = CompressionFromString("lz4")
	c.Assert(err, NotNil)

	checksum, err := ChecksumFromString("crc32")
	c.Assert(err, IsNil)
	c.Assert(checksum, Equals, CRC32)
	_, err = ChecksumFromString("md5")
	c.Assert(err, NotNil)
}

func (suite *DataSuite) TestSerialization(c *C) {
	boxes := Boxes{
		NewBox(Point3d{0, 0, 0}, Point3d{63, 63, 63}, XYZGrid),
		NewBox(Point3d{-32, 16, 7}, Point3d{31, 47, 7}, XYPlane),
		NewBox(Point3d{4, 4, 4}, Point3d{4, 9, 9}, YZPlane),
	}
	for i := 0; i < 50; i++ {
		b := boxes[0]
		b.Shift(Point3d{int32(i) * 64, 0, 0})
		boxes = append(boxes, b)
	}
	data, err := boxes.MarshalBinary()
	c.Assert(err, IsNil)

	for _, compression := range []Compression{Uncompressed, Snappy, Zstd} {
		for _, checksum := range []Checksum{NoChecksum, CRC32} {
			s, err := SerializeData(data, compression, checksum)
			c.Assert(err, IsNil)
			if len(s) == 0 {
				c.Errorf("Bad SerializeData() - output length 0")
			}

			out, gotCompression, err := DeserializeData(s, true)
			c.Assert(err, IsNil)
			c.Assert(gotCompression, Equals, compression)
			c.Assert(bytes.Equal(out, data), Equals, true)

			var returned Boxes
			c.Assert(returned.UnmarshalBinary(out), IsNil)
			c.Assert(returned, DeepEquals, boxes)

			if checksum != NoChecksum {
				s[5] = s[5] ^ 0x04 // Flip a bit
				_, _, err = DeserializeData(s, true)
				c.Assert(err, NotNil)
			}
		}
	}

	_, _, err = DeserializeData(nil, true)
	c.Assert(err, NotNil)
	_, err = SerializeData(data, Compression(7), NoChecksum)
	c.Assert(err, NotNil)
}

func (suite *DataSuite) TestDeserializeStored(c *C) {
	data := bytes.Repeat([]byte("refinement"), 100)
	s, err := SerializeData(data, Snappy, CRC32)
	c.Assert(err, IsNil)

	stored, compression, err := DeserializeData(s, false)
	c.Assert(err, IsNil)
	c.Assert(compression, Equals, Snappy)
	c.Assert(len(stored) < len(data), Equals, true)
	c.Assert(bytes.Equal(stored, s[5:]), Equals, true)
}
