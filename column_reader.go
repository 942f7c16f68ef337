package parquet

import (
	"encoding/binary"
	"fmt"

	"github.com/columnhouse/parquet-lite/encoding"
	"github.com/columnhouse/parquet-lite/encoding/plain"
	"github.com/columnhouse/parquet-lite/encoding/rle"
	"github.com/columnhouse/parquet-lite/encoding/thrift"
	"github.com/columnhouse/parquet-lite/format"
)

// ColumnReader decodes the values of one column chunk. A chunk is read page
// by page; a leading dictionary page, when present, provides the values that
// dictionary-encoded data pages index into.
type ColumnReader struct {
	file   *File
	column *Column
	meta   *format.ColumnMetaData
}

// PageResult holds the decoded values of one page of a column chunk.
// Dictionary pages report their value count but decode no values.
type PageResult struct {
	PageID    int
	Type      format.PageType
	NumValues int32
	Values    []Value
}

// NewColumnReader returns a reader over the chunk of col in the given row
// group.
func (f *File) NewColumnReader(rowGroup int, col *Column) (*ColumnReader, error) {
	if rowGroup < 0 || rowGroup >= len(f.metadata.RowGroups) {
		return nil, fmt.Errorf("%w: row group %d out of range [0,%d)", ErrUsage, rowGroup, len(f.metadata.RowGroups))
	}
	chunks := f.metadata.RowGroups[rowGroup].Columns
	if col.Index() >= len(chunks) {
		return nil, fmt.Errorf("%w: row group %d has no chunk for column %q", ErrMalformedTagged, rowGroup, col.Name())
	}
	meta := chunks[col.Index()].MetaData
	if meta == nil {
		return nil, fmt.Errorf("%w: column chunk %q has no metadata", ErrMalformedTagged, col.Name())
	}
	if meta.Codec != format.Uncompressed {
		return nil, fmt.Errorf("%w: compression codec %s", ErrUnsupported, meta.Codec)
	}
	return &ColumnReader{file: f, column: col, meta: meta}, nil
}

// ReadColumn decodes every value of the named column across all row groups.
func (f *File) ReadColumn(name string) ([]Value, error) {
	col, ok := f.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: no column named %q", ErrUsage, name)
	}
	var values []Value
	for rg := 0; rg < f.NumRowGroups(); rg++ {
		cr, err := f.NewColumnReader(rg, col)
		if err != nil {
			return nil, err
		}
		v, err := cr.ReadAll()
		if err != nil {
			return nil, err
		}
		values = append(values, v...)
	}
	return values, nil
}

// ReadColumnRowGroup decodes every value of the named column in one row
// group.
func (f *File) ReadColumnRowGroup(name string, rowGroup int) ([]Value, error) {
	col, ok := f.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: no column named %q", ErrUsage, name)
	}
	cr, err := f.NewColumnReader(rowGroup, col)
	if err != nil {
		return nil, err
	}
	return cr.ReadAll()
}

// ReadColumnPages decodes the named column of one row group page by page.
func (f *File) ReadColumnPages(name string, rowGroup int) ([]PageResult, error) {
	col, ok := f.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: no column named %q", ErrUsage, name)
	}
	cr, err := f.NewColumnReader(rowGroup, col)
	if err != nil {
		return nil, err
	}
	return cr.ReadPages()
}

// ReadAll decodes every value of the chunk in page order.
func (cr *ColumnReader) ReadAll() ([]Value, error) {
	var values []Value
	err := cr.forEachPage(func(_ format.PageType, _ int32, pageValues []Value) {
		values = append(values, pageValues...)
	})
	return values, err
}

// ReadPages decodes the chunk one page at a time. Page ids restart at zero
// for every chunk and count dictionary pages too.
func (cr *ColumnReader) ReadPages() ([]PageResult, error) {
	var pages []PageResult
	err := cr.forEachPage(func(typ format.PageType, numValues int32, pageValues []Value) {
		pages = append(pages, PageResult{
			PageID:    len(pages),
			Type:      typ,
			NumValues: numValues,
			Values:    pageValues,
		})
	})
	return pages, err
}

func (cr *ColumnReader) forEachPage(visit func(format.PageType, int32, []Value)) error {
	offset := cr.meta.DataPageOffset
	if cr.meta.DictionaryPageOffset != nil && *cr.meta.DictionaryPageOffset < offset {
		offset = *cr.meta.DictionaryPageOffset
	}

	var dictionary []Value
	valuesRead := int64(0)

	for valuesRead < cr.meta.NumValues {
		window, err := cr.file.readHeaderWindow(offset)
		if err != nil {
			return err
		}
		r := thrift.NewReader(window)
		header := format.PageHeader{}
		if err := header.Decode(r); err != nil {
			return fmt.Errorf("%w: decoding page header at offset %d: %s", ErrMalformedTagged, offset, err)
		}
		offset += int64(r.Position())

		pageData := make([]byte, header.CompressedPageSize)
		if err := cr.file.readRange(pageData, offset); err != nil {
			return err
		}
		offset += int64(header.CompressedPageSize)

		switch header.Type {
		case format.DictionaryPage:
			if header.DictionaryPageHeader == nil {
				return fmt.Errorf("%w: dictionary page has no dictionary page header", ErrMalformedTagged)
			}
			dictionary, err = cr.readDictionaryPage(pageData, header.DictionaryPageHeader)
			if err != nil {
				return err
			}
			visit(format.DictionaryPage, header.DictionaryPageHeader.NumValues, nil)

		case format.DataPage:
			if header.DataPageHeader == nil {
				return fmt.Errorf("%w: data page has no data page header", ErrMalformedTagged)
			}
			pageValues, err := cr.readDataPage(pageData, header.DataPageHeader, dictionary)
			if err != nil {
				return err
			}
			valuesRead += int64(header.DataPageHeader.NumValues)
			visit(format.DataPage, header.DataPageHeader.NumValues, pageValues)
		}
	}
	return nil
}

func (cr *ColumnReader) readDictionaryPage(data []byte, header *format.DictionaryPageHeader) ([]Value, error) {
	c := encoding.NewCursor(data)
	dict := make([]Value, 0, header.NumValues)
	if cr.column.Type() == format.Boolean {
		br := plain.NewBooleanReader(c)
		for i := int32(0); i < header.NumValues; i++ {
			b, err := br.ReadBoolean()
			if err != nil {
				return nil, fmt.Errorf("%w: dictionary value %d: %s", ErrMalformedPayload, i, err)
			}
			dict = append(dict, BooleanValue(b))
		}
		return dict, nil
	}
	for i := int32(0); i < header.NumValues; i++ {
		v, err := cr.readPlainValue(c)
		if err != nil {
			return nil, fmt.Errorf("%w: dictionary value %d: %s", ErrMalformedPayload, i, err)
		}
		dict = append(dict, v)
	}
	return dict, nil
}

func (cr *ColumnReader) readDataPage(data []byte, header *format.DataPageHeader, dictionary []Value) ([]Value, error) {
	c := encoding.NewCursor(data)
	numValues := int(header.NumValues)
	maxDef := cr.column.MaxDefinitionLevel()
	maxRep := cr.column.MaxRepetitionLevel()

	defLevels, err := readLevels(c, numValues, maxDef)
	if err != nil {
		return nil, fmt.Errorf("%w: definition levels: %s", ErrMalformedPayload, err)
	}
	repLevels, err := readLevels(c, numValues, maxRep)
	if err != nil {
		return nil, fmt.Errorf("%w: repetition levels: %s", ErrMalformedPayload, err)
	}

	numNonNull := 0
	for _, d := range defLevels {
		if int(d) == maxDef {
			numNonNull++
		}
	}

	values := make([]Value, 0, numValues)
	useDict := header.Encoding == format.PlainDictionary || header.Encoding == format.RLEDictionary

	switch {
	case useDict && dictionary != nil:
		bw, err := c.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: dictionary index bit width: %s", ErrMalformedPayload, err)
		}
		indices := make([]uint32, numNonNull)
		if err := rle.NewDecoder(c.Rest(), uint(bw)).Decode(indices); err != nil {
			return nil, fmt.Errorf("%w: dictionary indices: %s", ErrMalformedPayload, err)
		}
		pos := 0
		for i := 0; i < numValues; i++ {
			if int(defLevels[i]) < maxDef {
				values = append(values, Value{})
			} else {
				idx := int(int32(indices[pos]))
				pos++
				if idx >= 0 && idx < len(dictionary) {
					values = append(values, dictionary[idx])
				} else {
					values = append(values, Value{})
				}
			}
		}

	case useDict:
		return nil, fmt.Errorf("%w: dictionary encoded page with no preceding dictionary", ErrMalformedPayload)

	case cr.column.Type() == format.Boolean:
		br := plain.NewBooleanReader(c)
		for i := 0; i < numValues; i++ {
			if int(defLevels[i]) < maxDef {
				values = append(values, Value{})
				continue
			}
			b, err := br.ReadBoolean()
			if err != nil {
				return nil, fmt.Errorf("%w: boolean value %d: %s", ErrMalformedPayload, i, err)
			}
			values = append(values, BooleanValue(b))
		}

	default:
		for i := 0; i < numValues; i++ {
			if int(defLevels[i]) < maxDef {
				values = append(values, Value{})
				continue
			}
			v, err := cr.readPlainValue(c)
			if err != nil {
				return nil, fmt.Errorf("%w: value %d: %s", ErrMalformedPayload, i, err)
			}
			values = append(values, v)
		}
	}

	for i := range values {
		values[i] = values[i].Level(int(repLevels[i]), int(defLevels[i]))
	}
	return values, nil
}

// readLevels decodes an RLE-encoded level run prefixed by its 4-byte length.
// When maxLevel is zero no levels are stored and every value is at the
// maximum level.
func readLevels(c *encoding.Cursor, numValues, maxLevel int) ([]uint32, error) {
	levels := make([]uint32, numValues)
	if maxLevel == 0 {
		return levels, nil
	}
	length, err := c.ReadUint32()
	if err != nil {
		return nil, err
	}
	runData, err := c.ReadN(int(length))
	if err != nil {
		return nil, err
	}
	if err := rle.NewDecoder(runData, bitWidth(uint32(maxLevel))).Decode(levels); err != nil {
		return nil, err
	}
	return levels, nil
}

func (cr *ColumnReader) readPlainValue(c *encoding.Cursor) (Value, error) {
	switch cr.column.Type() {
	case format.Boolean:
		b, err := c.ReadByte()
		if err != nil {
			return Value{}, err
		}
		return BooleanValue(b != 0), nil
	case format.Int32:
		v, err := plain.ReadInt32(c)
		if err != nil {
			return Value{}, err
		}
		return Int32Value(v), nil
	case format.Int64:
		v, err := plain.ReadInt64(c)
		if err != nil {
			return Value{}, err
		}
		return Int64Value(v), nil
	case format.Float:
		v, err := plain.ReadFloat(c)
		if err != nil {
			return Value{}, err
		}
		return FloatValue(v), nil
	case format.Double:
		v, err := plain.ReadDouble(c)
		if err != nil {
			return Value{}, err
		}
		return DoubleValue(v), nil
	case format.ByteArray:
		b, err := plain.ReadByteArray(c)
		if err != nil {
			return Value{}, err
		}
		return ByteArrayValue(append([]byte(nil), b...)), nil
	case format.Int96:
		b, err := plain.ReadInt96(c)
		if err != nil {
			return Value{}, err
		}
		lo := int64(binary.LittleEndian.Uint64(b[:8]))
		hi := int32(binary.LittleEndian.Uint32(b[8:]))
		return Int96Value(lo, hi), nil
	case format.FixedLenByteArray:
		size := cr.column.TypeLength()
		if size == 0 {
			return Value{}, fmt.Errorf("%w: FIXED_LEN_BYTE_ARRAY column %q has no type length", ErrUnsupported, cr.column.Name())
		}
		b, err := plain.ReadFixedLenByteArray(c, int(size))
		if err != nil {
			return Value{}, err
		}
		return FixedLenByteArrayValue(append([]byte(nil), b...)), nil
	default:
		return Value{}, fmt.Errorf("%w: physical type %s", ErrUnsupported, cr.column.Type())
	}
}

// bitWidth returns the number of bits needed to represent v.
func bitWidth(v uint32) uint {
	w := uint(0)
	for v > 0 {
		w++
		v >>= 1
	}
	return w
}
