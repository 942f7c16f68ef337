// Package plain implements the parquet PLAIN encoding: fixed-width values
// in little-endian order, length-prefixed byte arrays, and booleans packed
// one bit per value.
package plain

import (
	"encoding/binary"
	"math"

	"github.com/columnhouse/parquet-lite/encoding"
)

// Int96Width is the size of an INT96 value in bytes.
const Int96Width = 12

// ReadInt32 reads a little-endian 32-bit value.
func ReadInt32(c *encoding.Cursor) (int32, error) {
	v, err := c.ReadUint32()
	return int32(v), err
}

// ReadInt64 reads a little-endian 64-bit value.
func ReadInt64(c *encoding.Cursor) (int64, error) {
	v, err := c.ReadUint64()
	return int64(v), err
}

// ReadFloat reads a little-endian 32-bit IEEE 754 value.
func ReadFloat(c *encoding.Cursor) (float32, error) {
	return c.ReadFloat()
}

// ReadDouble reads a little-endian 64-bit IEEE 754 value.
func ReadDouble(c *encoding.Cursor) (float64, error) {
	return c.ReadDouble()
}

// ReadByteArray reads a 4-byte little-endian length prefix followed by that
// many bytes. The returned slice aliases the input.
func ReadByteArray(c *encoding.Cursor) ([]byte, error) {
	n, err := c.ReadUint32()
	if err != nil {
		return nil, err
	}
	return c.ReadN(int(n))
}

// ReadInt96 reads a 12-byte value. The returned slice aliases the input.
func ReadInt96(c *encoding.Cursor) ([]byte, error) {
	return c.ReadN(Int96Width)
}

// ReadFixedLenByteArray reads size raw bytes. The returned slice aliases
// the input.
func ReadFixedLenByteArray(c *encoding.Cursor, size int) ([]byte, error) {
	return c.ReadN(size)
}

// BooleanReader unpacks booleans stored one bit per value, least
// significant bit first.
type BooleanReader struct {
	cursor *encoding.Cursor
	cur    byte
	nbits  int
}

// NewBooleanReader constructs a boolean reader over the cursor.
func NewBooleanReader(c *encoding.Cursor) *BooleanReader {
	return &BooleanReader{cursor: c}
}

// ReadBoolean returns the next bit of the stream.
func (r *BooleanReader) ReadBoolean() (bool, error) {
	if r.nbits == 0 {
		b, err := r.cursor.ReadByte()
		if err != nil {
			return false, err
		}
		r.cur = b
		r.nbits = 8
	}
	v := r.cur&1 != 0
	r.cur >>= 1
	r.nbits--
	return v, nil
}

// AppendInt32 appends a little-endian 32-bit value.
func AppendInt32(b []byte, v int32) []byte {
	return binary.LittleEndian.AppendUint32(b, uint32(v))
}

// AppendInt64 appends a little-endian 64-bit value.
func AppendInt64(b []byte, v int64) []byte {
	return binary.LittleEndian.AppendUint64(b, uint64(v))
}

// AppendFloat appends a little-endian 32-bit IEEE 754 value.
func AppendFloat(b []byte, v float32) []byte {
	return binary.LittleEndian.AppendUint32(b, math.Float32bits(v))
}

// AppendDouble appends a little-endian 64-bit IEEE 754 value.
func AppendDouble(b []byte, v float64) []byte {
	return binary.LittleEndian.AppendUint64(b, math.Float64bits(v))
}

// AppendByteArray appends a 4-byte little-endian length prefix followed by
// the bytes of v.
func AppendByteArray(b, v []byte) []byte {
	b = binary.LittleEndian.AppendUint32(b, uint32(len(v)))
	return append(b, v...)
}

// AppendBooleans appends booleans packed one bit per value, least
// significant bit first, the final byte zero padded.
func AppendBooleans(b []byte, values []bool) []byte {
	var cur byte
	nbits := 0
	for _, v := range values {
		if v {
			cur |= 1 << nbits
		}
		nbits++
		if nbits == 8 {
			b = append(b, cur)
			cur, nbits = 0, 0
		}
	}
	if nbits > 0 {
		b = append(b, cur)
	}
	return b
}
