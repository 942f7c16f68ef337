package parquet

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/google/uuid"

	"github.com/columnhouse/parquet-lite/format"
)

// Kind identifies the physical representation held by a Value. The constants
// match the physical types of the file format.
type Kind int8

const (
	Boolean           Kind = Kind(format.Boolean)
	Int32             Kind = Kind(format.Int32)
	Int64             Kind = Kind(format.Int64)
	Int96             Kind = Kind(format.Int96)
	Float             Kind = Kind(format.Float)
	Double            Kind = Kind(format.Double)
	ByteArray         Kind = Kind(format.ByteArray)
	FixedLenByteArray Kind = Kind(format.FixedLenByteArray)
)

func (k Kind) String() string { return format.Type(k).String() }

// Value is a single cell of a column. The zero value is the null value.
//
// The representation packs every physical type into three machine words:
// numeric values live in u64/u32, byte arrays point at their backing bytes
// through ptr with the length in u64. The kind is stored bitwise inverted so
// that the zero Value reads back as null.
type Value struct {
	ptr             *byte
	u64             uint64
	u32             uint32
	kind            int8
	definitionLevel int8
	repetitionLevel int8
}

// ValueOf constructs a Value from a Go value of one of the supported types.
// It panics when v is of an unsupported type.
func ValueOf(v interface{}) Value {
	switch x := v.(type) {
	case nil:
		return Value{}
	case bool:
		return BooleanValue(x)
	case int:
		return Int64Value(int64(x))
	case int32:
		return Int32Value(x)
	case int64:
		return Int64Value(x)
	case float32:
		return FloatValue(x)
	case float64:
		return DoubleValue(x)
	case string:
		return ByteArrayValue([]byte(x))
	case []byte:
		return ByteArrayValue(x)
	case uuid.UUID:
		return FixedLenByteArrayValue(x[:])
	default:
		panic(fmt.Sprintf("cannot create parquet value from go value of type %T", v))
	}
}

// BooleanValue constructs a BOOLEAN parquet value.
func BooleanValue(v bool) Value {
	u := uint64(0)
	if v {
		u = 1
	}
	return Value{kind: ^int8(Boolean), u64: u}
}

// Int32Value constructs an INT32 parquet value.
func Int32Value(v int32) Value {
	return Value{kind: ^int8(Int32), u64: uint64(int64(v))}
}

// Int64Value constructs an INT64 parquet value.
func Int64Value(v int64) Value {
	return Value{kind: ^int8(Int64), u64: uint64(v)}
}

// Int96Value constructs an INT96 parquet value from its low 64 and high 32
// bits.
func Int96Value(lo int64, hi int32) Value {
	return Value{kind: ^int8(Int96), u64: uint64(lo), u32: uint32(hi)}
}

// FloatValue constructs a FLOAT parquet value.
func FloatValue(v float32) Value {
	return Value{kind: ^int8(Float), u64: uint64(math.Float32bits(v))}
}

// DoubleValue constructs a DOUBLE parquet value.
func DoubleValue(v float64) Value {
	return Value{kind: ^int8(Double), u64: math.Float64bits(v)}
}

// ByteArrayValue constructs a BYTE_ARRAY parquet value sharing the bytes of v.
func ByteArrayValue(v []byte) Value {
	return makeByteArrayValue(ByteArray, v)
}

// FixedLenByteArrayValue constructs a FIXED_LEN_BYTE_ARRAY parquet value
// sharing the bytes of v.
func FixedLenByteArrayValue(v []byte) Value {
	return makeByteArrayValue(FixedLenByteArray, v)
}

// NullValue returns the null value.
func NullValue() Value { return Value{} }

func makeByteArrayValue(kind Kind, v []byte) Value {
	val := Value{kind: ^int8(kind), u64: uint64(len(v))}
	if len(v) > 0 {
		val.ptr = &v[0]
	}
	return val
}

// Kind returns the physical representation of v. Null values, including the
// nulls produced when reading a file, are the zero Value and report -1.
func (v Value) Kind() Kind { return Kind(^v.kind) }

// IsNull returns true when v is a null value.
func (v Value) IsNull() bool { return v.kind >= 0 }

// Boolean returns v as a bool.
func (v Value) Boolean() bool { return v.u64 != 0 }

// Int32 returns v as an int32.
func (v Value) Int32() int32 { return int32(v.u64) }

// Int64 returns v as an int64.
func (v Value) Int64() int64 { return int64(v.u64) }

// Int96 returns the low 64 and high 32 bits of an INT96 value.
func (v Value) Int96() (lo int64, hi int32) { return int64(v.u64), int32(v.u32) }

// Float returns v as a float32.
func (v Value) Float() float32 { return math.Float32frombits(uint32(v.u64)) }

// Double returns v as a float64.
func (v Value) Double() float64 { return math.Float64frombits(v.u64) }

// ByteArray returns the bytes of a BYTE_ARRAY or FIXED_LEN_BYTE_ARRAY value.
// The returned slice shares its backing array with the value.
func (v Value) ByteArray() []byte {
	if v.ptr == nil {
		return nil
	}
	return unsafe.Slice(v.ptr, v.u64)
}

// DefinitionLevel returns the definition level of v.
func (v Value) DefinitionLevel() int { return int(v.definitionLevel) }

// RepetitionLevel returns the repetition level of v.
func (v Value) RepetitionLevel() int { return int(v.repetitionLevel) }

// Level returns v with the given repetition and definition levels.
func (v Value) Level(repetitionLevel, definitionLevel int) Value {
	v.repetitionLevel = int8(repetitionLevel)
	v.definitionLevel = int8(definitionLevel)
	return v
}

// String returns a human-readable representation of v. INT96 values format
// as INT96(high:low).
func (v Value) String() string {
	if v.IsNull() {
		return "NULL"
	}
	switch v.Kind() {
	case Boolean:
		return fmt.Sprintf("%t", v.Boolean())
	case Int32:
		return fmt.Sprintf("%d", v.Int32())
	case Int64:
		return fmt.Sprintf("%d", v.Int64())
	case Int96:
		lo, hi := v.Int96()
		return fmt.Sprintf("INT96(%d:%d)", hi, lo)
	case Float:
		return fmt.Sprintf("%g", v.Float())
	case Double:
		return fmt.Sprintf("%g", v.Double())
	case ByteArray, FixedLenByteArray:
		return string(v.ByteArray())
	default:
		return "<?>"
	}
}

// GoString returns a Go-syntax representation of v.
func (v Value) GoString() string {
	if v.IsNull() {
		return "parquet.NullValue()"
	}
	return fmt.Sprintf("parquet.ValueOf(%s)", v.String())
}

// valueKey is a comparable projection of a Value used to deduplicate values
// when building dictionaries.
type valueKey struct {
	kind Kind
	u64  uint64
	str  string
}

func (v Value) key() valueKey {
	k := valueKey{kind: v.Kind(), u64: v.u64}
	if k.kind == ByteArray || k.kind == FixedLenByteArray {
		k.u64 = 0
		k.str = string(v.ByteArray())
	}
	return k
}
