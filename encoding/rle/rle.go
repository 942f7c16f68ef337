// Package rle implements the parquet hybrid RLE/bit-packing encoding used
// for repetition levels, definition levels, and dictionary indices.
//
// A stream is a sequence of runs, each introduced by an unsigned varint
// header. If the low bit is clear the run is repeated: the count is the
// header shifted right by one and a single value follows in the smallest
// whole number of little-endian bytes that holds the bit width. If the low
// bit is set the run is bit-packed: the header shifted right by one counts
// groups of eight values, packed least-significant-bit first.
package rle

import (
	"errors"
	"fmt"
)

var ErrTooShort = errors.New("rle: input shorter than the declared runs")

// Decoder reads levels or indices from a hybrid RLE/bit-packed stream.
type Decoder struct {
	data     []byte
	pos      int
	bitWidth uint

	repeatCount int
	repeatValue uint32

	// Bit-packed run state. The run's bytes are consumed from the input
	// when the run header is read; values are unpacked from packed as
	// they are requested.
	literalCount int
	packed       []byte
	bitOffset    int
}

// NewDecoder constructs a decoder over data with the given bit width.
func NewDecoder(data []byte, bitWidth uint) *Decoder {
	return &Decoder{data: data, bitWidth: bitWidth}
}

// Decode fills out with the next len(out) values of the stream.
func (d *Decoder) Decode(out []uint32) error {
	for i := range out {
		v, err := d.next()
		if err != nil {
			return err
		}
		out[i] = v
	}
	return nil
}

func (d *Decoder) next() (uint32, error) {
	if d.repeatCount == 0 && d.literalCount == 0 {
		if err := d.nextRun(); err != nil {
			return 0, err
		}
	}
	if d.repeatCount > 0 {
		d.repeatCount--
		return d.repeatValue, nil
	}
	d.literalCount--
	return d.unpack(), nil
}

func (d *Decoder) nextRun() error {
	header, err := d.readUvarint()
	if err != nil {
		return err
	}
	if header&1 != 0 {
		groups := int(header >> 1)
		// A group of eight values at bitWidth bits each spans bitWidth
		// bytes. Consuming the whole run here keeps the position on run
		// boundaries no matter how many of the values are unpacked.
		n := groups * int(d.bitWidth)
		if d.pos+n > len(d.data) {
			return fmt.Errorf("%w: bit-packed run of %d groups needs %d bytes, %d available",
				ErrTooShort, groups, n, len(d.data)-d.pos)
		}
		d.packed = d.data[d.pos : d.pos+n]
		d.pos += n
		d.bitOffset = 0
		d.literalCount = groups * 8
		return nil
	}
	count := int(header >> 1)
	byteWidth := int(d.bitWidth+7) / 8
	if d.pos+byteWidth > len(d.data) {
		return fmt.Errorf("%w: repeated run value needs %d bytes, %d available",
			ErrTooShort, byteWidth, len(d.data)-d.pos)
	}
	var v uint32
	for i := 0; i < byteWidth; i++ {
		v |= uint32(d.data[d.pos+i]) << (8 * i)
	}
	d.pos += byteWidth
	d.repeatCount = count
	d.repeatValue = v
	return nil
}

func (d *Decoder) unpack() uint32 {
	var v uint32
	for i := uint(0); i < d.bitWidth; i++ {
		if d.packed[d.bitOffset/8]&(1<<(d.bitOffset%8)) != 0 {
			v |= 1 << i
		}
		d.bitOffset++
	}
	return v
}

func (d *Decoder) readUvarint() (uint32, error) {
	var v uint32
	var shift uint
	for {
		if d.pos >= len(d.data) {
			return 0, ErrTooShort
		}
		b := d.data[d.pos]
		d.pos++
		v |= uint32(b&0x7F) << shift
		if b&0x80 == 0 {
			return v, nil
		}
		shift += 7
	}
}
