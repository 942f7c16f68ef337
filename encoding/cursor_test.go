package encoding

import (
	"errors"
	"io"
	"testing"
	"testing/quick"
)

func TestCursorFixedReads(t *testing.T) {
	c := NewCursor([]byte{
		0x2A,
		0x01, 0x02, 0x03,
		0xD2, 0x04, 0x00, 0x00,
		0xEF, 0xCD, 0xAB, 0x89, 0x67, 0x45, 0x23, 0x01,
	})

	b, err := c.ReadByte()
	if err != nil {
		t.Fatal(err)
	}
	if b != 0x2A {
		t.Errorf("byte: got %#x", b)
	}

	s, err := c.ReadN(3)
	if err != nil {
		t.Fatal(err)
	}
	if string(s) != "\x01\x02\x03" {
		t.Errorf("slice: got %v", s)
	}

	u32, err := c.ReadUint32()
	if err != nil {
		t.Fatal(err)
	}
	if u32 != 1234 {
		t.Errorf("uint32: got %d", u32)
	}

	u64, err := c.ReadUint64()
	if err != nil {
		t.Fatal(err)
	}
	if u64 != 0x0123456789ABCDEF {
		t.Errorf("uint64: got %#x", u64)
	}

	if c.Remaining() != 0 {
		t.Errorf("remaining: got %d", c.Remaining())
	}
	if c.Position() != 16 {
		t.Errorf("position: got %d", c.Position())
	}
}

func TestCursorShortReads(t *testing.T) {
	tests := []struct {
		scenario string
		read     func(*Cursor) error
	}{
		{"byte", func(c *Cursor) error { _, err := c.ReadByte(); return err }},
		{"slice", func(c *Cursor) error { _, err := c.ReadN(4); return err }},
		{"uint32", func(c *Cursor) error { _, err := c.ReadUint32(); return err }},
		{"uint64", func(c *Cursor) error { _, err := c.ReadUint64(); return err }},
		{"uvarint", func(c *Cursor) error { _, err := c.ReadUvarint(); return err }},
		{"skip", func(c *Cursor) error { return c.Skip(1) }},
	}

	for _, test := range tests {
		t.Run(test.scenario, func(t *testing.T) {
			c := NewCursor(nil)
			if err := test.read(c); !errors.Is(err, io.ErrUnexpectedEOF) {
				t.Errorf("got %v, want io.ErrUnexpectedEOF", err)
			}
			if c.Position() != 0 {
				t.Errorf("failed read advanced the cursor to %d", c.Position())
			}
		})
	}
}

func TestCursorUvarint(t *testing.T) {
	tests := []struct {
		input []byte
		value uint64
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x7F}, 127},
		{[]byte{0x80, 0x01}, 128},
		{[]byte{0xAC, 0x02}, 300},
		{[]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01}, ^uint64(0)},
	}

	for _, test := range tests {
		c := NewCursor(test.input)
		v, err := c.ReadUvarint()
		if err != nil {
			t.Errorf("%v: %v", test.input, err)
			continue
		}
		if v != test.value {
			t.Errorf("%v: got %d, want %d", test.input, v, test.value)
		}
		if c.Remaining() != 0 {
			t.Errorf("%v: %d bytes left over", test.input, c.Remaining())
		}
	}
}

func TestCursorUvarintTooLong(t *testing.T) {
	c := NewCursor([]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x01})
	if _, err := c.ReadUvarint(); !errors.Is(err, ErrMalformedVarint) {
		t.Errorf("got %v, want ErrMalformedVarint", err)
	}
}

func TestCursorZigZag(t *testing.T) {
	tests := []struct {
		input []byte
		value int64
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x01}, -1},
		{[]byte{0x02}, 1},
		{[]byte{0x03}, -2},
		{[]byte{0x04}, 2},
	}

	for _, test := range tests {
		c := NewCursor(test.input)
		v, err := c.ReadZigZag()
		if err != nil {
			t.Errorf("%v: %v", test.input, err)
			continue
		}
		if v != test.value {
			t.Errorf("%v: got %d, want %d", test.input, v, test.value)
		}
	}
}

func TestCursorZigZagRoundTrip(t *testing.T) {
	encode := func(v int64) []byte {
		u := uint64(v<<1) ^ uint64(v>>63)
		b := make([]byte, 0, 10)
		for u >= 0x80 {
			b = append(b, byte(u)|0x80)
			u >>= 7
		}
		return append(b, byte(u))
	}

	f := func(v int64) bool {
		c := NewCursor(encode(v))
		got, err := c.ReadZigZag()
		return err == nil && got == v
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}
