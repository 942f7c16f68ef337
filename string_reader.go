package parquet

import (
	"fmt"

	"github.com/columnhouse/parquet-lite/encoding"
	"github.com/columnhouse/parquet-lite/encoding/plain"
	"github.com/columnhouse/parquet-lite/encoding/rle"
	"github.com/columnhouse/parquet-lite/encoding/thrift"
	"github.com/columnhouse/parquet-lite/format"
)

// StringIterator is a pull-based iterator over the non-null strings of a
// BYTE_ARRAY column. Pages are decoded lazily, one at a time, advancing
// across row groups as each is exhausted. Nulls are skipped.
type StringIterator struct {
	file   *File
	column *Column

	rowGroup   int
	offset     int64
	valuesRead int64
	total      int64
	dictionary []string
	hasDict    bool

	strings []string
	pos     int
	err     error
}

// StringColumn returns an iterator over the named column, which must be of
// type BYTE_ARRAY.
func (f *File) StringColumn(name string) (*StringIterator, error) {
	col, ok := f.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: no column named %q", ErrUsage, name)
	}
	if col.Type() != format.ByteArray {
		return nil, fmt.Errorf("%w: column %q is not BYTE_ARRAY (type: %s)", ErrUsage, name, col.Type())
	}
	it := &StringIterator{file: f, column: col}
	if f.NumRowGroups() > 0 {
		if err := it.initRowGroup(); err != nil {
			return nil, err
		}
		it.decodeNextPage()
	}
	return it, nil
}

func (it *StringIterator) initRowGroup() error {
	chunks := it.file.metadata.RowGroups[it.rowGroup].Columns
	if it.column.Index() >= len(chunks) {
		return fmt.Errorf("%w: row group %d has no chunk for column %q", ErrMalformedTagged, it.rowGroup, it.column.Name())
	}
	meta := chunks[it.column.Index()].MetaData
	if meta == nil {
		return fmt.Errorf("%w: column chunk %q has no metadata", ErrMalformedTagged, it.column.Name())
	}
	if meta.Codec != format.Uncompressed {
		return fmt.Errorf("%w: compression codec %s", ErrUnsupported, meta.Codec)
	}

	offset := meta.DataPageOffset
	if meta.DictionaryPageOffset != nil && *meta.DictionaryPageOffset < offset {
		offset = *meta.DictionaryPageOffset
	}
	it.offset = offset
	it.valuesRead = 0
	it.total = meta.NumValues
	it.hasDict = false
	it.dictionary = it.dictionary[:0]
	return nil
}

// HasNext reports whether another string remains.
func (it *StringIterator) HasNext() bool { return it.pos < len(it.strings) }

// Err returns the first error encountered while decoding pages. Iteration
// stops at the point of the error.
func (it *StringIterator) Err() error { return it.err }

// Next returns the next non-null string of the column. The returned bytes
// are owned by the caller.
func (it *StringIterator) Next() ([]byte, error) {
	if !it.HasNext() {
		if it.err != nil {
			return nil, it.err
		}
		return nil, fmt.Errorf("%w: string iterator is exhausted", ErrUsage)
	}
	s := it.strings[it.pos]
	it.pos++
	if it.pos >= len(it.strings) {
		it.decodeNextPage()
	}
	return []byte(s), nil
}

// decodeNextPage refills the string buffer from the next data page holding
// at least one non-null value, crossing row group boundaries as needed.
func (it *StringIterator) decodeNextPage() {
	it.strings = it.strings[:0]
	it.pos = 0

	for len(it.strings) == 0 {
		if it.valuesRead >= it.total {
			it.rowGroup++
			for it.rowGroup < it.file.NumRowGroups() {
				if err := it.initRowGroup(); err != nil {
					it.err = err
					return
				}
				if it.total > 0 {
					break
				}
				it.rowGroup++
			}
			if it.rowGroup >= it.file.NumRowGroups() {
				return
			}
		}

		window, err := it.file.readHeaderWindow(it.offset)
		if err != nil {
			it.err = err
			return
		}
		r := thrift.NewReader(window)
		header := format.PageHeader{}
		if err := header.Decode(r); err != nil {
			it.err = fmt.Errorf("%w: decoding page header at offset %d: %s", ErrMalformedTagged, it.offset, err)
			return
		}
		it.offset += int64(r.Position())

		pageData := make([]byte, header.CompressedPageSize)
		if err := it.file.readRange(pageData, it.offset); err != nil {
			it.err = err
			return
		}
		it.offset += int64(header.CompressedPageSize)

		switch header.Type {
		case format.DictionaryPage:
			if header.DictionaryPageHeader == nil {
				it.err = fmt.Errorf("%w: dictionary page has no dictionary page header", ErrMalformedTagged)
				return
			}
			if err := it.decodeDictionaryPage(pageData, header.DictionaryPageHeader); err != nil {
				it.err = err
				return
			}

		case format.DataPage:
			if header.DataPageHeader == nil {
				it.err = fmt.Errorf("%w: data page has no data page header", ErrMalformedTagged)
				return
			}
			if err := it.decodeDataPage(pageData, header.DataPageHeader); err != nil {
				it.err = err
				return
			}
			it.valuesRead += int64(header.DataPageHeader.NumValues)
		}
	}
}

func (it *StringIterator) decodeDictionaryPage(data []byte, header *format.DictionaryPageHeader) error {
	c := encoding.NewCursor(data)
	it.dictionary = it.dictionary[:0]
	for i := int32(0); i < header.NumValues; i++ {
		b, err := plain.ReadByteArray(c)
		if err != nil {
			return fmt.Errorf("%w: dictionary value %d: %s", ErrMalformedPayload, i, err)
		}
		it.dictionary = append(it.dictionary, string(b))
	}
	it.hasDict = true
	return nil
}

func (it *StringIterator) decodeDataPage(data []byte, header *format.DataPageHeader) error {
	c := encoding.NewCursor(data)
	numValues := int(header.NumValues)
	maxDef := it.column.MaxDefinitionLevel()
	maxRep := it.column.MaxRepetitionLevel()

	defLevels, err := readLevels(c, numValues, maxDef)
	if err != nil {
		return fmt.Errorf("%w: definition levels: %s", ErrMalformedPayload, err)
	}
	if maxRep > 0 {
		length, err := c.ReadUint32()
		if err != nil {
			return fmt.Errorf("%w: repetition levels: %s", ErrMalformedPayload, err)
		}
		if err := c.Skip(int(length)); err != nil {
			return fmt.Errorf("%w: repetition levels: %s", ErrMalformedPayload, err)
		}
	}

	numNonNull := 0
	for _, d := range defLevels {
		if int(d) == maxDef {
			numNonNull++
		}
	}

	useDict := header.Encoding == format.PlainDictionary || header.Encoding == format.RLEDictionary
	if useDict && it.hasDict {
		bw, err := c.ReadByte()
		if err != nil {
			return fmt.Errorf("%w: dictionary index bit width: %s", ErrMalformedPayload, err)
		}
		indices := make([]uint32, numNonNull)
		if err := rle.NewDecoder(c.Rest(), uint(bw)).Decode(indices); err != nil {
			return fmt.Errorf("%w: dictionary indices: %s", ErrMalformedPayload, err)
		}
		pos := 0
		for i := 0; i < numValues; i++ {
			if int(defLevels[i]) == maxDef {
				idx := int(int32(indices[pos]))
				pos++
				if idx >= 0 && idx < len(it.dictionary) {
					it.strings = append(it.strings, it.dictionary[idx])
				}
			}
		}
		return nil
	}

	for i := 0; i < numValues; i++ {
		if int(defLevels[i]) == maxDef {
			b, err := plain.ReadByteArray(c)
			if err != nil {
				return fmt.Errorf("%w: value %d: %s", ErrMalformedPayload, i, err)
			}
			it.strings = append(it.strings, string(b))
		}
	}
	return nil
}
