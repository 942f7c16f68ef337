package thrift

import (
	"fmt"

	"github.com/columnhouse/parquet-lite/encoding"
)

// Reader decodes compact protocol values from a byte slice.
//
// The reader tracks the last field id seen so that delta-encoded field
// headers resolve to absolute ids; entering a nested struct saves the
// current id on a stack and restores it on exit.
type Reader struct {
	cursor      *encoding.Cursor
	lastFieldID int16
	fieldStack  []int16
}

// FieldHeader is the decoded form of a compact field header. A Type of
// Stop marks the end of the enclosing struct.
type FieldHeader struct {
	FieldID int16
	Type    byte
}

// ListHeader is the decoded form of a compact list or set header.
type ListHeader struct {
	ElemType byte
	Count    int
}

// NewReader constructs a reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{cursor: encoding.NewCursor(data)}
}

// Position returns the number of bytes consumed so far.
func (r *Reader) Position() int {
	return r.cursor.Position()
}

// Remaining returns the number of bytes left to read.
func (r *Reader) Remaining() int {
	return r.cursor.Remaining()
}

// ReadFieldHeader decodes the next field header of the current struct.
func (r *Reader) ReadFieldHeader() (FieldHeader, error) {
	b, err := r.cursor.ReadByte()
	if err != nil {
		return FieldHeader{}, err
	}
	if b == Stop {
		return FieldHeader{Type: Stop}, nil
	}
	typ := b & 0x0F
	delta := int16(b>>4) & 0x0F
	var fieldID int16
	if delta != 0 {
		fieldID = r.lastFieldID + delta
	} else {
		id, err := r.cursor.ReadZigZag()
		if err != nil {
			return FieldHeader{}, err
		}
		fieldID = int16(id)
	}
	r.lastFieldID = fieldID
	return FieldHeader{FieldID: fieldID, Type: typ}, nil
}

// ReadBool interprets a boolean field from its header type tag; compact
// booleans carry their value in the header, not the payload.
func (r *Reader) ReadBool(headerType byte) bool {
	return headerType == BooleanTrue
}

// ReadI8 reads a single signed byte.
func (r *Reader) ReadI8() (int8, error) {
	b, err := r.cursor.ReadByte()
	return int8(b), err
}

// ReadI16 reads a zig-zag varint as a 16-bit value.
func (r *Reader) ReadI16() (int16, error) {
	v, err := r.cursor.ReadZigZag()
	return int16(v), err
}

// ReadI32 reads a zig-zag varint as a 32-bit value.
func (r *Reader) ReadI32() (int32, error) {
	v, err := r.cursor.ReadZigZag()
	return int32(v), err
}

// ReadI64 reads a zig-zag varint as a 64-bit value.
func (r *Reader) ReadI64() (int64, error) {
	return r.cursor.ReadZigZag()
}

// ReadDouble reads a little-endian 64-bit IEEE 754 value.
func (r *Reader) ReadDouble() (float64, error) {
	return r.cursor.ReadDouble()
}

// ReadBytes reads a varint length prefix followed by that many bytes.
// The returned slice aliases the input and must not be modified.
func (r *Reader) ReadBytes() ([]byte, error) {
	n, err := r.cursor.ReadUvarint()
	if err != nil {
		return nil, err
	}
	return r.cursor.ReadN(int(n))
}

// ReadString reads a varint length prefix followed by that many bytes,
// copied into a string.
func (r *Reader) ReadString() (string, error) {
	b, err := r.ReadBytes()
	return string(b), err
}

// ReadListHeader decodes a list or set header.
func (r *Reader) ReadListHeader() (ListHeader, error) {
	b, err := r.cursor.ReadByte()
	if err != nil {
		return ListHeader{}, err
	}
	h := ListHeader{ElemType: b & 0x0F, Count: int(b>>4) & 0x0F}
	if h.Count == 0x0F {
		n, err := r.cursor.ReadUvarint()
		if err != nil {
			return ListHeader{}, err
		}
		h.Count = int(n)
	}
	return h, nil
}

// ReadStructBegin saves the field id state before decoding a nested struct.
func (r *Reader) ReadStructBegin() {
	r.fieldStack = append(r.fieldStack, r.lastFieldID)
	r.lastFieldID = 0
}

// ReadStructEnd restores the field id state of the enclosing struct.
func (r *Reader) ReadStructEnd() {
	n := len(r.fieldStack) - 1
	r.lastFieldID = r.fieldStack[n]
	r.fieldStack = r.fieldStack[:n]
}

// Skip consumes a value of the given compact type without decoding it.
func (r *Reader) Skip(typ byte) error {
	return r.skip(typ, 0)
}

func (r *Reader) skip(typ byte, depth int) error {
	if depth > maxSkipDepth {
		return ErrSkipDepth
	}
	switch typ {
	case BooleanTrue, BooleanFalse:
		return nil
	case I8:
		_, err := r.cursor.ReadByte()
		return err
	case I16, I32, I64:
		_, err := r.cursor.ReadUvarint()
		return err
	case Double:
		return r.cursor.Skip(8)
	case Binary:
		_, err := r.ReadBytes()
		return err
	case List, Set:
		h, err := r.ReadListHeader()
		if err != nil {
			return err
		}
		for i := 0; i < h.Count; i++ {
			if err := r.skip(h.ElemType, depth+1); err != nil {
				return err
			}
		}
		return nil
	case Map:
		n, err := r.cursor.ReadUvarint()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		kv, err := r.cursor.ReadByte()
		if err != nil {
			return err
		}
		keyType, valType := kv>>4, kv&0x0F
		for i := uint64(0); i < n; i++ {
			if err := r.skip(keyType, depth+1); err != nil {
				return err
			}
			if err := r.skip(valType, depth+1); err != nil {
				return err
			}
		}
		return nil
	case Struct:
		r.ReadStructBegin()
		defer r.ReadStructEnd()
		for {
			h, err := r.ReadFieldHeader()
			if err != nil {
				return err
			}
			if h.Type == Stop {
				return nil
			}
			if err := r.skip(h.Type, depth+1); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: 0x%02X", ErrUnknownType, typ)
	}
}
