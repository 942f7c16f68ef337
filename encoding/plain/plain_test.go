package plain

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/columnhouse/parquet-lite/encoding"
)

func TestFixedWidthRoundTrip(t *testing.T) {
	var b []byte
	b = AppendInt32(b, -123)
	b = AppendInt64(b, 1<<40)
	b = AppendFloat(b, 1.5)
	b = AppendDouble(b, -2.25)

	c := encoding.NewCursor(b)
	if v, err := ReadInt32(c); err != nil || v != -123 {
		t.Errorf("int32: got %d, %v", v, err)
	}
	if v, err := ReadInt64(c); err != nil || v != 1<<40 {
		t.Errorf("int64: got %d, %v", v, err)
	}
	if v, err := ReadFloat(c); err != nil || v != 1.5 {
		t.Errorf("float: got %g, %v", v, err)
	}
	if v, err := ReadDouble(c); err != nil || v != -2.25 {
		t.Errorf("double: got %g, %v", v, err)
	}
	if c.Remaining() != 0 {
		t.Errorf("%d bytes left over", c.Remaining())
	}
}

func TestByteArray(t *testing.T) {
	var b []byte
	b = AppendByteArray(b, []byte("hello"))
	b = AppendByteArray(b, nil)
	b = AppendByteArray(b, []byte{0xFF})

	c := encoding.NewCursor(b)
	if v, err := ReadByteArray(c); err != nil || string(v) != "hello" {
		t.Errorf("got %q, %v", v, err)
	}
	if v, err := ReadByteArray(c); err != nil || len(v) != 0 {
		t.Errorf("got %q, %v", v, err)
	}
	if v, err := ReadByteArray(c); err != nil || !bytes.Equal(v, []byte{0xFF}) {
		t.Errorf("got %v, %v", v, err)
	}
}

func TestByteArrayTruncated(t *testing.T) {
	b := AppendByteArray(nil, []byte("hello"))
	c := encoding.NewCursor(b[:len(b)-1])
	if _, err := ReadByteArray(c); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("got %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestInt96(t *testing.T) {
	b := make([]byte, Int96Width)
	for i := range b {
		b[i] = byte(i)
	}
	c := encoding.NewCursor(b)
	v, err := ReadInt96(c)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(v, b) {
		t.Errorf("got %v", v)
	}
}

func TestFixedLenByteArray(t *testing.T) {
	c := encoding.NewCursor([]byte("abcdef"))
	v, err := ReadFixedLenByteArray(c, 3)
	if err != nil {
		t.Fatal(err)
	}
	if string(v) != "abc" {
		t.Errorf("got %q", v)
	}
	v, err = ReadFixedLenByteArray(c, 3)
	if err != nil {
		t.Fatal(err)
	}
	if string(v) != "def" {
		t.Errorf("got %q", v)
	}
}

func TestBooleans(t *testing.T) {
	tests := []struct {
		scenario string
		values   []bool
		packed   []byte
	}{
		{
			scenario: "one byte",
			values:   []bool{true, false, true, true, false, false, false, false},
			packed:   []byte{0b00001101},
		},
		{
			scenario: "partial byte",
			values:   []bool{true, true, true},
			packed:   []byte{0b00000111},
		},
		{
			scenario: "two bytes",
			values: []bool{
				false, false, false, false, false, false, false, true,
				true,
			},
			packed: []byte{0b10000000, 0b00000001},
		},
	}

	for _, test := range tests {
		t.Run(test.scenario, func(t *testing.T) {
			b := AppendBooleans(nil, test.values)
			if !bytes.Equal(b, test.packed) {
				t.Fatalf("packed: got %08b, want %08b", b, test.packed)
			}

			r := NewBooleanReader(encoding.NewCursor(b))
			for i, want := range test.values {
				got, err := r.ReadBoolean()
				if err != nil {
					t.Fatal(err)
				}
				if got != want {
					t.Errorf("bit %d: got %t, want %t", i, got, want)
				}
			}
		})
	}
}
