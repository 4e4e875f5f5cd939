/*
	This file supports framing, compression, and checksums of serialized data, e.g.,
	box lists and hierarchy metadata that are handed to another process.
*/

package amr

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"sync"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
)

// Compression is the format of compression for serialized data.
// NOTE: Should be no more than 8 (3 bits) of compression types.
type Compression uint8

const (
	Uncompressed Compression = 0
	Snappy       Compression = 1
	Zstd         Compression = 2
)

func (compress Compression) String() string {
	switch compress {
	case Uncompressed:
		return "No compression"
	case Snappy:
		return "Go Snappy compression"
	case Zstd:
		return "Zstandard compression"
	default:
		return "Unknown compression"
	}
}

// CompressionFromString returns the compression named by "none", "snappy", or "zstd".
func CompressionFromString(s string) (Compression, error) {
	switch s {
	case "", "none":
		return Uncompressed, nil
	case "snappy":
		return Snappy, nil
	case "zstd":
		return Zstd, nil
	default:
		return Uncompressed, fmt.Errorf("unknown compression %q", s)
	}
}

// Checksum is the type of checksum employed for error checking serialized data.
// NOTE: Should be no more than 4 (2 bits) of checksum types.
type Checksum uint8

const (
	NoChecksum Checksum = 0
	CRC32      Checksum = 1
)

func (checksum Checksum) String() string {
	switch checksum {
	case NoChecksum:
		return "No checksum"
	case CRC32:
		return "CRC32 checksum"
	default:
		return "Unknown checksum"
	}
}

// ChecksumFromString returns the checksum named by "none" or "crc32".
func ChecksumFromString(s string) (Checksum, error) {
	switch s {
	case "", "none":
		return NoChecksum, nil
	case "crc32":
		return CRC32, nil
	default:
		return NoChecksum, fmt.Errorf("unknown checksum %q", s)
	}
}

// SerializationFormat is a single byte combining both compression and checksum methods.
type SerializationFormat uint8

func EncodeSerializationFormat(compress Compression, checksum Checksum) SerializationFormat {
	a := (uint8(compress) & 0x07) << 5
	b := (uint8(checksum) & 0x03) << 3
	return SerializationFormat(a | b)
}

func DecodeSerializationFormat(s SerializationFormat) (compress Compression, checksum Checksum) {
	compress = Compression(uint8(s) >> 5)
	checksum = Checksum((uint8(s) >> 3) & 0x03)
	return
}

// zstd encoders and decoders are safe for concurrent EncodeAll/DecodeAll calls.
var (
	zstdOnce    sync.Once
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
	zstdErr     error
)

func zstdCodecs() (*zstd.Encoder, *zstd.Decoder, error) {
	zstdOnce.Do(func() {
		zstdEncoder, zstdErr = zstd.NewWriter(nil)
		if zstdErr != nil {
			return
		}
		zstdDecoder, zstdErr = zstd.NewReader(nil)
	})
	return zstdEncoder, zstdDecoder, zstdErr
}

// SerializeData frames a slice of bytes using optional compression and checksum.
// The frame is a format byte, then a little endian CRC32 of the stored payload if
// requested, then the stored payload.
func SerializeData(data []byte, compress Compression, checksum Checksum) ([]byte, error) {
	var payload []byte
	switch compress {
	case Uncompressed:
		payload = data
	case Snappy:
		payload = snappy.Encode(nil, data)
	case Zstd:
		enc, _, err := zstdCodecs()
		if err != nil {
			return nil, err
		}
		payload = enc.EncodeAll(data, nil)
	default:
		return nil, fmt.Errorf("Illegal compression (%s) during serialization", compress)
	}

	var header []byte
	switch checksum {
	case NoChecksum:
		header = make([]byte, 1, 1+len(payload))
	case CRC32:
		header = make([]byte, 5, 5+len(payload))
		binary.LittleEndian.PutUint32(header[1:5], crc32.ChecksumIEEE(payload))
	default:
		return nil, fmt.Errorf("Illegal checksum (%s) during serialization", checksum)
	}
	header[0] = byte(EncodeSerializationFormat(compress, checksum))

	// Payload goes last so no length is needed when deserializing.
	return append(header, payload...), nil
}

// DeserializeData returns the payload of a frame produced by SerializeData.  If
// uncompress is false, the payload is returned as stored.
func DeserializeData(s []byte, uncompress bool) (data []byte, compress Compression, err error) {
	if len(s) < 1 {
		err = fmt.Errorf("can't deserialize empty data")
		return
	}
	var checksum Checksum
	compress, checksum = DecodeSerializationFormat(SerializationFormat(s[0]))

	var stored []byte
	switch checksum {
	case NoChecksum:
		stored = s[1:]
	case CRC32:
		if len(s) < 5 {
			err = fmt.Errorf("can't read CRC32 from %d bytes", len(s))
			return
		}
		storedCrc32 := binary.LittleEndian.Uint32(s[1:5])
		stored = s[5:]
		if crcChecksum := crc32.ChecksumIEEE(stored); crcChecksum != storedCrc32 {
			err = fmt.Errorf("Bad checksum.  Stored %x got %x", storedCrc32, crcChecksum)
			return
		}
	default:
		err = fmt.Errorf("Illegal checksum in deserializing data")
		return
	}

	if !uncompress {
		data = stored
		return
	}
	switch compress {
	case Uncompressed:
		data = stored
	case Snappy:
		data, err = snappy.Decode(nil, stored)
	case Zstd:
		var dec *zstd.Decoder
		if _, dec, err = zstdCodecs(); err != nil {
			return
		}
		data, err = dec.DecodeAll(stored, nil)
	default:
		err = fmt.Errorf("Illegal compression format (%d) in deserialization", compress)
	}
	return
}
