package parquet_test

import (
	"testing"

	"github.com/google/uuid"

	parquet "github.com/columnhouse/parquet-lite"
)

func TestZeroValueIsNull(t *testing.T) {
	v := parquet.Value{}
	if !v.IsNull() {
		t.Error("zero value is not null")
	}
	if v.String() != "NULL" {
		t.Errorf("got %q, want NULL", v.String())
	}
}

func TestValueOf(t *testing.T) {
	tests := []struct {
		scenario string
		value    interface{}
		kind     parquet.Kind
		repr     string
	}{
		{"nil", nil, parquet.Kind(-1), "NULL"},
		{"bool", true, parquet.Boolean, "true"},
		{"int", 42, parquet.Int64, "42"},
		{"int32", int32(-7), parquet.Int32, "-7"},
		{"int64", int64(1 << 40), parquet.Int64, "1099511627776"},
		{"float32", float32(0.25), parquet.Float, "0.25"},
		{"float64", 2.5, parquet.Double, "2.5"},
		{"string", "hello", parquet.ByteArray, "hello"},
		{"bytes", []byte("raw"), parquet.ByteArray, "raw"},
	}

	for _, test := range tests {
		t.Run(test.scenario, func(t *testing.T) {
			v := parquet.ValueOf(test.value)
			if test.value == nil {
				if !v.IsNull() {
					t.Fatal("expected null")
				}
				return
			}
			if v.Kind() != test.kind {
				t.Errorf("kind: got %s, want %s", v.Kind(), test.kind)
			}
			if v.String() != test.repr {
				t.Errorf("string: got %q, want %q", v.String(), test.repr)
			}
		})
	}
}

func TestValueOfUUID(t *testing.T) {
	id := uuid.MustParse("9bbce2f1-70ac-4a47-a2c9-32a52e0a0a30")
	v := parquet.ValueOf(id)
	if v.Kind() != parquet.FixedLenByteArray {
		t.Errorf("kind: got %s, want FIXED_LEN_BYTE_ARRAY", v.Kind())
	}
	if got := v.ByteArray(); len(got) != 16 || string(got) != string(id[:]) {
		t.Errorf("bytes: got %x", got)
	}
}

func TestValueOfUnsupportedTypePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	parquet.ValueOf(struct{}{})
}

func TestInt96String(t *testing.T) {
	v := parquet.Int96Value(123456789, 42)
	if got := v.String(); got != "INT96(42:123456789)" {
		t.Errorf("got %q", got)
	}
}

func TestValueAccessors(t *testing.T) {
	if v := parquet.BooleanValue(true); !v.Boolean() {
		t.Error("boolean accessor")
	}
	if v := parquet.Int32Value(-42); v.Int32() != -42 {
		t.Error("int32 accessor")
	}
	if v := parquet.Int64Value(-1 << 60); v.Int64() != -1<<60 {
		t.Error("int64 accessor")
	}
	if v := parquet.FloatValue(1.5); v.Float() != 1.5 {
		t.Error("float accessor")
	}
	if v := parquet.DoubleValue(-2.5); v.Double() != -2.5 {
		t.Error("double accessor")
	}
	if v := parquet.ByteArrayValue(nil); v.ByteArray() != nil {
		t.Error("empty byte array accessor")
	}
	lo, hi := parquet.Int96Value(7, -3).Int96()
	if lo != 7 || hi != -3 {
		t.Error("int96 accessor")
	}
}

func TestValueLevels(t *testing.T) {
	v := parquet.Int32Value(1).Level(2, 3)
	if v.RepetitionLevel() != 2 {
		t.Errorf("repetition level: got %d, want 2", v.RepetitionLevel())
	}
	if v.DefinitionLevel() != 3 {
		t.Errorf("definition level: got %d, want 3", v.DefinitionLevel())
	}
	if v.IsNull() {
		t.Error("levels must not affect nullness")
	}
}
