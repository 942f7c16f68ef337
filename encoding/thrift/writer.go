package thrift

import (
	"encoding/binary"
	"math"
)

// Writer encodes compact protocol values into an in-memory buffer.
//
// Field headers are delta-encoded against the last field id written;
// WriteStructBegin and WriteStructEnd bracket nested structs. Struct
// elements of lists carry no field header of their own, so callers
// encode them between PushFieldState and PopFieldState instead.
type Writer struct {
	buf         []byte
	lastFieldID int16
	fieldStack  []int16
}

// NewWriter constructs an empty writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the encoded output accumulated so far.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// WriteFieldHeader writes a field header for the given id and type tag.
func (w *Writer) WriteFieldHeader(fieldID int16, typ byte) {
	delta := fieldID - w.lastFieldID
	if delta > 0 && delta <= 15 {
		w.buf = append(w.buf, byte(delta)<<4|typ)
	} else {
		w.buf = append(w.buf, typ)
		w.writeZigZag(int64(fieldID))
	}
	w.lastFieldID = fieldID
}

// WriteBool writes a boolean field; the value lives in the header type tag.
func (w *Writer) WriteBool(fieldID int16, v bool) {
	typ := byte(BooleanFalse)
	if v {
		typ = BooleanTrue
	}
	w.WriteFieldHeader(fieldID, typ)
}

// WriteI32 writes a 32-bit field as a zig-zag varint.
func (w *Writer) WriteI32(fieldID int16, v int32) {
	w.WriteFieldHeader(fieldID, I32)
	w.writeZigZag(int64(v))
}

// WriteI64 writes a 64-bit field as a zig-zag varint.
func (w *Writer) WriteI64(fieldID int16, v int64) {
	w.WriteFieldHeader(fieldID, I64)
	w.writeZigZag(v)
}

// WriteDouble writes a 64-bit IEEE 754 field in little-endian order.
func (w *Writer) WriteDouble(fieldID int16, v float64) {
	w.WriteFieldHeader(fieldID, Double)
	w.buf = binary.LittleEndian.AppendUint64(w.buf, math.Float64bits(v))
}

// WriteString writes a length-prefixed string field.
func (w *Writer) WriteString(fieldID int16, v string) {
	w.WriteFieldHeader(fieldID, Binary)
	w.writeUvarint(uint64(len(v)))
	w.buf = append(w.buf, v...)
}

// WriteBytes writes a length-prefixed binary field.
func (w *Writer) WriteBytes(fieldID int16, v []byte) {
	w.WriteFieldHeader(fieldID, Binary)
	w.writeUvarint(uint64(len(v)))
	w.buf = append(w.buf, v...)
}

// WriteListBegin writes a list field header followed by the list header.
// The count elements that follow are written raw, without field headers.
func (w *Writer) WriteListBegin(fieldID int16, elemType byte, count int) {
	w.WriteFieldHeader(fieldID, List)
	if count < 15 {
		w.buf = append(w.buf, byte(count)<<4|elemType)
	} else {
		w.buf = append(w.buf, 0xF0|elemType)
		w.writeUvarint(uint64(count))
	}
}

// WriteStructBegin writes a struct field header and resets the field id
// state for the nested struct.
func (w *Writer) WriteStructBegin(fieldID int16) {
	w.WriteFieldHeader(fieldID, Struct)
	w.PushFieldState()
}

// WriteStructEnd terminates the nested struct and restores the field id
// state of the enclosing struct.
func (w *Writer) WriteStructEnd() {
	w.WriteStop()
	w.PopFieldState()
}

// WriteStop writes the stop byte that ends a struct.
func (w *Writer) WriteStop() {
	w.buf = append(w.buf, Stop)
}

// PushFieldState saves the current field id and resets it to zero, as when
// encoding a struct list element that carries no field header.
func (w *Writer) PushFieldState() {
	w.fieldStack = append(w.fieldStack, w.lastFieldID)
	w.lastFieldID = 0
}

// PopFieldState restores the field id saved by the matching push.
func (w *Writer) PopFieldState() {
	n := len(w.fieldStack) - 1
	w.lastFieldID = w.fieldStack[n]
	w.fieldStack = w.fieldStack[:n]
}

// WriteZigZagRaw writes a zig-zag varint with no field header, as for a
// list element.
func (w *Writer) WriteZigZagRaw(v int64) {
	w.writeZigZag(v)
}

// WriteUvarintRaw writes an unsigned varint with no field header.
func (w *Writer) WriteUvarintRaw(v uint64) {
	w.writeUvarint(v)
}

// WriteRaw appends bytes verbatim.
func (w *Writer) WriteRaw(b []byte) {
	w.buf = append(w.buf, b...)
}

func (w *Writer) writeUvarint(v uint64) {
	for v >= 0x80 {
		w.buf = append(w.buf, byte(v)|0x80)
		v >>= 7
	}
	w.buf = append(w.buf, byte(v))
}

func (w *Writer) writeZigZag(v int64) {
	w.writeUvarint(uint64(v<<1) ^ uint64(v>>63))
}
