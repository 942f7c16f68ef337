package parquet

import (
	"fmt"

	"github.com/columnhouse/parquet-lite/encoding/thrift"
	"github.com/columnhouse/parquet-lite/format"
)

// PageIndexEntry locates one data page in the file. Page ids are positions
// in the index, assigned in file order; dictionary pages are walked while
// building the index but receive no id.
type PageIndexEntry struct {
	Offset   int64
	Size     int64
	RowGroup int
	Column   int
}

// RawPage carries the raw bytes of one data page, header excluded.
type RawPage struct {
	PageID   int
	RowGroup int
	Column   int
	Data     []byte
}

// buildPageIndex walks the page headers of every column chunk and records an
// entry per data page. The walk stops once the values announced by the chunk
// metadata have been accounted for.
func (f *File) buildPageIndex() error {
	for rg := range f.metadata.RowGroups {
		rowGroup := &f.metadata.RowGroups[rg]
		for col := range rowGroup.Columns {
			chunk := &rowGroup.Columns[col]
			meta := chunk.MetaData
			if meta == nil {
				return fmt.Errorf("%w: column chunk %d of row group %d has no metadata", ErrMalformedTagged, col, rg)
			}

			offset := meta.DataPageOffset
			if meta.DictionaryPageOffset != nil && *meta.DictionaryPageOffset < offset {
				offset = *meta.DictionaryPageOffset
			}

			valuesRead := int64(0)
			for valuesRead < meta.NumValues {
				window, err := f.readHeaderWindow(offset)
				if err != nil {
					return err
				}
				r := thrift.NewReader(window)
				header := format.PageHeader{}
				if err := header.Decode(r); err != nil {
					return fmt.Errorf("%w: decoding page header at offset %d: %s", ErrMalformedTagged, offset, err)
				}
				headerSize := int64(r.Position())
				dataOffset := offset + headerSize
				dataSize := int64(header.CompressedPageSize)

				switch header.Type {
				case format.DataPage, format.DataPageV2:
					f.index = append(f.index, PageIndexEntry{
						Offset:   dataOffset,
						Size:     dataSize,
						RowGroup: rg,
						Column:   col,
					})
				}
				if header.Type == format.DataPage {
					if header.DataPageHeader == nil {
						return fmt.Errorf("%w: data page at offset %d has no data page header", ErrMalformedTagged, offset)
					}
					valuesRead += int64(header.DataPageHeader.NumValues)
				}

				offset = dataOffset + dataSize
			}
		}
	}
	return nil
}

// PageIterator yields the raw data pages of a file in index order.
type PageIterator struct {
	file    *File
	start   int
	end     int
	current int
}

// HasNext reports whether another page remains in the range.
func (it *PageIterator) HasNext() bool { return it.current < it.end }

// Next reads and returns the next page in the range.
func (it *PageIterator) Next() (RawPage, error) {
	if !it.HasNext() {
		return RawPage{}, fmt.Errorf("%w: page iterator is exhausted", ErrUsage)
	}
	id := it.current
	data, err := it.file.ReadPageData(id)
	if err != nil {
		return RawPage{}, err
	}
	e := it.file.index[id]
	it.current++
	return RawPage{PageID: id, RowGroup: e.RowGroup, Column: e.Column, Data: data}, nil
}

// Reset rewinds the iterator to the start of its range.
func (it *PageIterator) Reset() { it.current = it.start }
