package parquet

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/columnhouse/parquet-lite/encoding/plain"
	"github.com/columnhouse/parquet-lite/encoding/rle"
	"github.com/columnhouse/parquet-lite/encoding/thrift"
	"github.com/columnhouse/parquet-lite/format"
)

// maxUncompressedPageSize is the estimated payload size at which a data page
// is cut.
const maxUncompressedPageSize = 1024

// ColumnSpec declares one column of the schema written by a Writer.
type ColumnSpec struct {
	Name          string
	Type          format.Type
	Repetition    format.FieldRepetitionType
	ConvertedType *format.ConvertedType
	Scale         *int32
	Precision     *int32
}

// Writer produces a parquet file from row groups of column values. Pages are
// written uncompressed; columns whose distinct value count is small relative
// to the value count are dictionary encoded.
type Writer struct {
	writer    io.Writer
	offset    int64
	columns   []ColumnSpec
	rowGroups []format.RowGroup
	totalRows int64
	closed    bool
}

// NewWriter writes the leading magic and returns a writer for the given
// schema.
func NewWriter(w io.Writer, columns []ColumnSpec) (*Writer, error) {
	for _, c := range columns {
		switch c.Type {
		case format.Boolean, format.Int32, format.Int64, format.Float, format.Double, format.ByteArray:
		default:
			return nil, fmt.Errorf("%w: cannot write columns of type %s", ErrUnsupported, c.Type)
		}
		if c.Repetition == format.Repeated {
			return nil, fmt.Errorf("%w: cannot write repeated column %q", ErrUnsupported, c.Name)
		}
	}
	pw := &Writer{writer: w, columns: columns}
	if err := pw.write([]byte(magic)); err != nil {
		return nil, err
	}
	return pw, nil
}

func (w *Writer) write(b []byte) error {
	if _, err := w.writer.Write(b); err != nil {
		return fmt.Errorf("%w: %s", ErrIO, err)
	}
	w.offset += int64(len(b))
	return nil
}

// WriteRowGroup writes one row group holding the given values, one slice per
// column of the schema. All slices must be the same length; REQUIRED columns
// reject null values.
func (w *Writer) WriteRowGroup(columns [][]Value) error {
	if w.closed {
		return fmt.Errorf("%w: writer is closed", ErrUsage)
	}
	if len(columns) != len(w.columns) {
		return fmt.Errorf("%w: got %d columns, schema has %d", ErrUsage, len(columns), len(w.columns))
	}

	numRows := int64(0)
	if len(columns) > 0 {
		numRows = int64(len(columns[0]))
	}
	for i, values := range columns {
		if int64(len(values)) != numRows {
			return fmt.Errorf("%w: column %q has %d values, expected %d", ErrUsage, w.columns[i].Name, len(values), numRows)
		}
		if w.columns[i].Repetition == format.Required {
			for _, v := range values {
				if v.IsNull() {
					return fmt.Errorf("%w: null value in required column %q", ErrUsage, w.columns[i].Name)
				}
			}
		}
	}

	rowGroup := format.RowGroup{NumRows: numRows}

	for i, values := range columns {
		spec := &w.columns[i]
		maxDef := 0
		if spec.Repetition == format.Optional {
			maxDef = 1
		}

		dict := analyzeColumn(values)
		colStart := w.offset

		meta := &format.ColumnMetaData{
			Type:         spec.Type,
			PathInSchema: []string{spec.Name},
			Codec:        format.Uncompressed,
			NumValues:    int64(len(values)),
		}

		if dict.use {
			dictPageOffset := colStart
			page, err := encodeDictionaryPage(dict.values, spec.Type)
			if err != nil {
				return err
			}
			if err := w.write(page); err != nil {
				return err
			}
			dataPageStart := w.offset

			bw := dictBitWidth(len(dict.values))
			for _, pb := range dictPageBoundaries(len(values), bw) {
				page := encodeDictDataPage(values[pb.offset:pb.offset+pb.count], dict, bw, maxDef)
				if err := w.write(page); err != nil {
					return err
				}
			}

			colSize := w.offset - colStart
			meta.Encoding = []format.Encoding{format.Plain, format.RLEDictionary}
			meta.TotalUncompressedSize = colSize
			meta.TotalCompressedSize = colSize
			meta.DataPageOffset = dataPageStart
			meta.DictionaryPageOffset = &dictPageOffset
		} else {
			for _, pb := range pageBoundaries(values, spec.Type) {
				page, err := encodeDataPage(values[pb.offset:pb.offset+pb.count], spec.Type, maxDef)
				if err != nil {
					return err
				}
				if err := w.write(page); err != nil {
					return err
				}
			}

			colSize := w.offset - colStart
			meta.Encoding = []format.Encoding{format.Plain}
			meta.TotalUncompressedSize = colSize
			meta.TotalCompressedSize = colSize
			meta.DataPageOffset = colStart
		}

		fileOffset := meta.DataPageOffset
		if meta.DictionaryPageOffset != nil {
			fileOffset = *meta.DictionaryPageOffset
		}
		rowGroup.Columns = append(rowGroup.Columns, format.ColumnChunk{
			FileOffset: fileOffset,
			MetaData:   meta,
		})
		rowGroup.TotalByteSize += meta.TotalCompressedSize
	}

	w.totalRows += numRows
	w.rowGroups = append(w.rowGroups, rowGroup)
	return nil
}

// Close writes the footer and the trailing magic. Closing an already closed
// writer is a no-op.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	footerStart := w.offset

	meta := format.FileMetaData{
		Version:   2,
		NumRows:   w.totalRows,
		RowGroups: w.rowGroups,
	}
	meta.Schema = make([]format.SchemaElement, 0, 1+len(w.columns))
	meta.Schema = append(meta.Schema, format.SchemaElement{
		Name:        "schema",
		NumChildren: int32(len(w.columns)),
	})
	for i := range w.columns {
		spec := &w.columns[i]
		typ := spec.Type
		rep := spec.Repetition
		meta.Schema = append(meta.Schema, format.SchemaElement{
			Type:           &typ,
			RepetitionType: &rep,
			Name:           spec.Name,
			ConvertedType:  spec.ConvertedType,
			Scale:          spec.Scale,
			Precision:      spec.Precision,
		})
	}

	tw := thrift.NewWriter()
	meta.Encode(tw)
	if err := w.write(tw.Bytes()); err != nil {
		return err
	}

	length := make([]byte, 4)
	binary.LittleEndian.PutUint32(length, uint32(w.offset-footerStart))
	if err := w.write(length); err != nil {
		return err
	}
	return w.write([]byte(magic))
}

// dictionary holds the distinct non-null values of a column in order of
// first appearance.
type dictionary struct {
	use     bool
	values  []Value
	indexes map[valueKey]uint32
}

// analyzeColumn decides whether a column is worth dictionary encoding.
// Columns with no values or more than one distinct value per five non-null
// values stay plain.
func analyzeColumn(values []Value) dictionary {
	d := dictionary{indexes: make(map[valueKey]uint32)}
	numNonNull := 0
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		numNonNull++
		k := v.key()
		if _, ok := d.indexes[k]; !ok {
			d.indexes[k] = uint32(len(d.values))
			d.values = append(d.values, v)
		}
	}
	if len(d.values) == 0 || len(d.values) > numNonNull/5 {
		return dictionary{}
	}
	d.use = true
	return d
}

// dictBitWidth returns the bit width of dictionary indices. Dictionary
// encoding uses at least one bit.
func dictBitWidth(dictSize int) uint {
	if dictSize <= 1 {
		return 1
	}
	return bitWidth(uint32(dictSize - 1))
}

type pageBoundary struct {
	offset int
	count  int
}

// estimateRowSize approximates the serialized size of a value for page
// splitting.
func estimateRowSize(v Value, typ format.Type) int {
	if v.IsNull() {
		return 0
	}
	switch typ {
	case format.Boolean:
		return 1
	case format.Int32, format.Float:
		return 4
	case format.Int64, format.Double:
		return 8
	case format.ByteArray:
		return 4 + len(v.ByteArray())
	default:
		return 0
	}
}

func pageBoundaries(values []Value, typ format.Type) []pageBoundary {
	var pages []pageBoundary
	if len(values) == 0 {
		return pages
	}
	pageStart := 0
	estimated := 0
	for i := range values {
		estimated += estimateRowSize(values[i], typ)
		if estimated >= maxUncompressedPageSize {
			pages = append(pages, pageBoundary{pageStart, i - pageStart + 1})
			pageStart = i + 1
			estimated = 0
		}
	}
	if pageStart < len(values) {
		pages = append(pages, pageBoundary{pageStart, len(values) - pageStart})
	}
	return pages
}

func dictPageBoundaries(numValues int, bw uint) []pageBoundary {
	var pages []pageBoundary
	if numValues == 0 {
		return pages
	}
	bytesPerValue := int(bw+7) / 8
	if bytesPerValue < 1 {
		bytesPerValue = 1
	}
	valuesPerPage := maxUncompressedPageSize / bytesPerValue
	if valuesPerPage == 0 {
		valuesPerPage = 1
	}
	for offset := 0; offset < numValues; offset += valuesPerPage {
		count := numValues - offset
		if count > valuesPerPage {
			count = valuesPerPage
		}
		pages = append(pages, pageBoundary{offset, count})
	}
	return pages
}

// plainEncodeValues appends the PLAIN encoding of the non-null values.
// Booleans are bit-packed.
func plainEncodeValues(values []Value, typ format.Type) ([]byte, error) {
	var b []byte
	if typ == format.Boolean {
		bits := make([]bool, 0, len(values))
		for _, v := range values {
			if v.IsNull() {
				continue
			}
			bits = append(bits, v.Boolean())
		}
		return plain.AppendBooleans(b, bits), nil
	}
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		switch typ {
		case format.Int32:
			b = plain.AppendInt32(b, v.Int32())
		case format.Int64:
			b = plain.AppendInt64(b, v.Int64())
		case format.Float:
			b = plain.AppendFloat(b, v.Float())
		case format.Double:
			b = plain.AppendDouble(b, v.Double())
		case format.ByteArray:
			b = plain.AppendByteArray(b, v.ByteArray())
		default:
			return nil, fmt.Errorf("%w: cannot encode values of type %s", ErrUnsupported, typ)
		}
	}
	return b, nil
}

// encodeDefinitionLevels appends the length-prefixed RLE definition levels
// of the page values.
func encodeDefinitionLevels(payload []byte, values []Value, maxDef int) []byte {
	levels := make([]uint32, len(values))
	for i, v := range values {
		if !v.IsNull() {
			levels[i] = uint32(maxDef)
		}
	}
	run := rle.EncodeLevels(levels, bitWidth(uint32(maxDef)))
	payload = binary.LittleEndian.AppendUint32(payload, uint32(len(run)))
	return append(payload, run...)
}

func encodePageHeader(header *format.PageHeader) []byte {
	tw := thrift.NewWriter()
	header.Encode(tw)
	return tw.Bytes()
}

func encodeDataPage(values []Value, typ format.Type, maxDef int) ([]byte, error) {
	var payload []byte
	if maxDef > 0 {
		payload = encodeDefinitionLevels(payload, values, maxDef)
	}
	data, err := plainEncodeValues(values, typ)
	if err != nil {
		return nil, err
	}
	payload = append(payload, data...)

	header := encodePageHeader(&format.PageHeader{
		Type:                 format.DataPage,
		UncompressedPageSize: int32(len(payload)),
		CompressedPageSize:   int32(len(payload)),
		DataPageHeader: &format.DataPageHeader{
			NumValues:               int32(len(values)),
			Encoding:                format.Plain,
			DefinitionLevelEncoding: format.RLE,
			RepetitionLevelEncoding: format.RLE,
		},
	})
	return append(header, payload...), nil
}

func encodeDictionaryPage(values []Value, typ format.Type) ([]byte, error) {
	payload, err := plainEncodeValues(values, typ)
	if err != nil {
		return nil, err
	}
	header := encodePageHeader(&format.PageHeader{
		Type:                 format.DictionaryPage,
		UncompressedPageSize: int32(len(payload)),
		CompressedPageSize:   int32(len(payload)),
		DictionaryPageHeader: &format.DictionaryPageHeader{
			NumValues: int32(len(values)),
			Encoding:  format.PlainDictionary,
		},
	})
	return append(header, payload...), nil
}

func encodeDictDataPage(values []Value, dict dictionary, bw uint, maxDef int) []byte {
	var payload []byte
	if maxDef > 0 {
		payload = encodeDefinitionLevels(payload, values, maxDef)
	}

	payload = append(payload, byte(bw))
	enc := rle.NewEncoder(bw)
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		enc.Encode(dict.indexes[v.key()])
	}
	payload = append(payload, enc.Finish()...)

	header := encodePageHeader(&format.PageHeader{
		Type:                 format.DataPage,
		UncompressedPageSize: int32(len(payload)),
		CompressedPageSize:   int32(len(payload)),
		DataPageHeader: &format.DataPageHeader{
			NumValues:               int32(len(values)),
			Encoding:                format.RLEDictionary,
			DefinitionLevelEncoding: format.RLE,
			RepetitionLevelEncoding: format.RLE,
		},
	})
	return append(header, payload...)
}
