// Package format defines the metadata structures found in parquet files,
// along with their thrift compact protocol decoding and encoding.
package format

// Type is the physical type of values stored in a column.
type Type int32

const (
	Boolean           Type = 0
	Int32             Type = 1
	Int64             Type = 2
	Int96             Type = 3
	Float             Type = 4
	Double            Type = 5
	ByteArray         Type = 6
	FixedLenByteArray Type = 7
)

func (t Type) String() string {
	switch t {
	case Boolean:
		return "BOOLEAN"
	case Int32:
		return "INT32"
	case Int64:
		return "INT64"
	case Int96:
		return "INT96"
	case Float:
		return "FLOAT"
	case Double:
		return "DOUBLE"
	case ByteArray:
		return "BYTE_ARRAY"
	case FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "Type(?)"
	}
}

// Encoding identifies how values, levels, or indices are serialized.
type Encoding int32

const (
	Plain                Encoding = 0
	GroupVarInt          Encoding = 1
	PlainDictionary      Encoding = 2
	RLE                  Encoding = 3
	BitPacked            Encoding = 4
	DeltaBinaryPacked    Encoding = 5
	DeltaLengthByteArray Encoding = 6
	DeltaByteArray       Encoding = 7
	RLEDictionary        Encoding = 8
	ByteStreamSplit      Encoding = 9
)

func (e Encoding) String() string {
	switch e {
	case Plain:
		return "PLAIN"
	case GroupVarInt:
		return "GROUP_VAR_INT"
	case PlainDictionary:
		return "PLAIN_DICTIONARY"
	case RLE:
		return "RLE"
	case BitPacked:
		return "BIT_PACKED"
	case DeltaBinaryPacked:
		return "DELTA_BINARY_PACKED"
	case DeltaLengthByteArray:
		return "DELTA_LENGTH_BYTE_ARRAY"
	case DeltaByteArray:
		return "DELTA_BYTE_ARRAY"
	case RLEDictionary:
		return "RLE_DICTIONARY"
	case ByteStreamSplit:
		return "BYTE_STREAM_SPLIT"
	default:
		return "Encoding(?)"
	}
}

// CompressionCodec identifies the compression applied to page data.
type CompressionCodec int32

const (
	Uncompressed CompressionCodec = 0
	Snappy       CompressionCodec = 1
	Gzip         CompressionCodec = 2
	Lzo          CompressionCodec = 3
	Brotli       CompressionCodec = 4
	Lz4          CompressionCodec = 5
	Zstd         CompressionCodec = 6
	Lz4Raw       CompressionCodec = 7
)

func (c CompressionCodec) String() string {
	switch c {
	case Uncompressed:
		return "UNCOMPRESSED"
	case Snappy:
		return "SNAPPY"
	case Gzip:
		return "GZIP"
	case Lzo:
		return "LZO"
	case Brotli:
		return "BROTLI"
	case Lz4:
		return "LZ4"
	case Zstd:
		return "ZSTD"
	case Lz4Raw:
		return "LZ4_RAW"
	default:
		return "CompressionCodec(?)"
	}
}

// PageType identifies the kind of a page within a column chunk.
type PageType int32

const (
	DataPage       PageType = 0
	IndexPage      PageType = 1
	DictionaryPage PageType = 2
	DataPageV2     PageType = 3
)

func (p PageType) String() string {
	switch p {
	case DataPage:
		return "DATA_PAGE"
	case IndexPage:
		return "INDEX_PAGE"
	case DictionaryPage:
		return "DICTIONARY_PAGE"
	case DataPageV2:
		return "DATA_PAGE_V2"
	default:
		return "PageType(?)"
	}
}

// FieldRepetitionType describes how often a schema field may occur.
type FieldRepetitionType int32

const (
	Required FieldRepetitionType = 0
	Optional FieldRepetitionType = 1
	Repeated FieldRepetitionType = 2
)

func (r FieldRepetitionType) String() string {
	switch r {
	case Required:
		return "REQUIRED"
	case Optional:
		return "OPTIONAL"
	case Repeated:
		return "REPEATED"
	default:
		return "FieldRepetitionType(?)"
	}
}

// ConvertedType is the deprecated logical type annotation of a column.
type ConvertedType int32

const (
	UTF8            ConvertedType = 0
	Map             ConvertedType = 1
	MapKeyValue     ConvertedType = 2
	List            ConvertedType = 3
	Enum            ConvertedType = 4
	Decimal         ConvertedType = 5
	Date            ConvertedType = 6
	TimeMillis      ConvertedType = 7
	TimeMicros      ConvertedType = 8
	TimestampMillis ConvertedType = 9
	TimestampMicros ConvertedType = 10
	Uint8           ConvertedType = 11
	Uint16          ConvertedType = 12
	Uint32          ConvertedType = 13
	Uint64          ConvertedType = 14
	Int8            ConvertedType = 15
	Int16           ConvertedType = 16
	IntType32       ConvertedType = 17
	IntType64       ConvertedType = 18
	Json            ConvertedType = 19
	Bson            ConvertedType = 20
	Interval        ConvertedType = 21
)

func (c ConvertedType) String() string {
	names := [...]string{
		"UTF8", "MAP", "MAP_KEY_VALUE", "LIST", "ENUM", "DECIMAL", "DATE",
		"TIME_MILLIS", "TIME_MICROS", "TIMESTAMP_MILLIS", "TIMESTAMP_MICROS",
		"UINT_8", "UINT_16", "UINT_32", "UINT_64",
		"INT_8", "INT_16", "INT_32", "INT_64",
		"JSON", "BSON", "INTERVAL",
	}
	if c >= 0 && int(c) < len(names) {
		return names[c]
	}
	return "ConvertedType(?)"
}

// SchemaElement is one node of the flattened schema tree stored in the file
// footer. Group nodes carry NumChildren; leaf nodes carry a physical type.
type SchemaElement struct {
	Type           *Type                `thrift:"1,optional"`
	TypeLength     *int32               `thrift:"2,optional"`
	RepetitionType *FieldRepetitionType `thrift:"3,optional"`
	Name           string               `thrift:"4"`
	NumChildren    int32                `thrift:"5,optional"`
	ConvertedType  *ConvertedType       `thrift:"6,optional"`
	Scale          *int32               `thrift:"7,optional"`
	Precision      *int32               `thrift:"8,optional"`
	FieldID        *int32               `thrift:"9,optional"`
}

// ColumnMetaData describes one column chunk's pages.
type ColumnMetaData struct {
	Type                  Type             `thrift:"1"`
	Encoding              []Encoding       `thrift:"2"`
	PathInSchema          []string         `thrift:"3"`
	Codec                 CompressionCodec `thrift:"4"`
	NumValues             int64            `thrift:"5"`
	TotalUncompressedSize int64            `thrift:"6"`
	TotalCompressedSize   int64            `thrift:"7"`
	DataPageOffset        int64            `thrift:"9"`
	IndexPageOffset       *int64           `thrift:"10,optional"`
	DictionaryPageOffset  *int64           `thrift:"11,optional"`
}

// ColumnChunk ties a column's metadata to its position in the file.
type ColumnChunk struct {
	FilePath   string          `thrift:"1,optional"`
	FileOffset int64           `thrift:"2"`
	MetaData   *ColumnMetaData `thrift:"3,optional"`
}

// RowGroup is a horizontal slice of the file holding one chunk per column.
type RowGroup struct {
	Columns       []ColumnChunk `thrift:"1"`
	TotalByteSize int64         `thrift:"2"`
	NumRows       int64         `thrift:"3"`
}

// KeyValue is an application-defined metadata entry.
type KeyValue struct {
	Key   string `thrift:"1"`
	Value string `thrift:"2,optional"`
}

// FileMetaData is the footer of a parquet file.
type FileMetaData struct {
	Version          int32           `thrift:"1"`
	Schema           []SchemaElement `thrift:"2"`
	NumRows          int64           `thrift:"3"`
	RowGroups        []RowGroup      `thrift:"4"`
	KeyValueMetadata []KeyValue      `thrift:"5,optional"`
	CreatedBy        string          `thrift:"6,optional"`
}

// DataPageHeader describes the contents of a data page.
type DataPageHeader struct {
	NumValues               int32    `thrift:"1"`
	Encoding                Encoding `thrift:"2"`
	DefinitionLevelEncoding Encoding `thrift:"3"`
	RepetitionLevelEncoding Encoding `thrift:"4"`
}

// DictionaryPageHeader describes the contents of a dictionary page.
type DictionaryPageHeader struct {
	NumValues int32    `thrift:"1"`
	Encoding  Encoding `thrift:"2"`
	IsSorted  bool     `thrift:"3,optional"`
}

// PageHeader precedes every page in a column chunk.
type PageHeader struct {
	Type                 PageType              `thrift:"1"`
	UncompressedPageSize int32                 `thrift:"2"`
	CompressedPageSize   int32                 `thrift:"3"`
	CRC                  *int32                `thrift:"4,optional"`
	DataPageHeader       *DataPageHeader       `thrift:"5,optional"`
	DictionaryPageHeader *DictionaryPageHeader `thrift:"7,optional"`
}
