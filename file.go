package parquet

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/columnhouse/parquet-lite/encoding/thrift"
	"github.com/columnhouse/parquet-lite/format"
)

// File represents an open parquet file. The underlying reader is accessed
// lazily; opening a file reads the footer and builds the leaf column set and
// the data page index, nothing else.
type File struct {
	reader   io.ReaderAt
	size     int64
	metadata format.FileMetaData
	columns  []*Column
	names    map[string]int
	index    []PageIndexEntry
}

// OpenFile probes the file envelope, decodes the footer metadata, and indexes
// the data pages of every column chunk.
func OpenFile(r io.ReaderAt, size int64) (*File, error) {
	f := &File{reader: r, size: size}

	if size < magicSize+footerSize {
		return nil, fmt.Errorf("%w: file of size %d is too small to hold a footer", ErrEnvelope, size)
	}

	head := make([]byte, magicSize)
	if err := f.readRange(head, 0); err != nil {
		return nil, err
	}
	if string(head) != magic {
		return nil, fmt.Errorf("%w: missing leading magic", ErrEnvelope)
	}

	tail := make([]byte, footerSize)
	if err := f.readRange(tail, size-footerSize); err != nil {
		return nil, err
	}
	if string(tail[4:]) != magic {
		return nil, fmt.Errorf("%w: missing trailing magic", ErrEnvelope)
	}

	footerLength := int64(binary.LittleEndian.Uint32(tail[:4]))
	if footerLength+footerSize > size {
		return nil, fmt.Errorf("%w: footer length %d exceeds file size %d", ErrEnvelope, footerLength, size)
	}

	footer := make([]byte, footerLength)
	if err := f.readRange(footer, size-footerSize-footerLength); err != nil {
		return nil, err
	}
	if err := f.metadata.Decode(thrift.NewReader(footer)); err != nil {
		return nil, fmt.Errorf("%w: decoding footer: %s", ErrMalformedTagged, err)
	}

	columns, names, err := loadColumns(f.metadata.Schema)
	if err != nil {
		return nil, err
	}
	f.columns = columns
	f.names = names

	if err := f.buildPageIndex(); err != nil {
		return nil, err
	}
	return f, nil
}

// readRange fills b from the given offset, failing on short reads.
func (f *File) readRange(b []byte, off int64) error {
	if _, err := f.reader.ReadAt(b, off); err != nil {
		return fmt.Errorf("%w: reading %d bytes at offset %d: %s", ErrIO, len(b), off, err)
	}
	return nil
}

// readHeaderWindow reads up to headerReadSize bytes at the given offset,
// clamped to the end of the file.
func (f *File) readHeaderWindow(off int64) ([]byte, error) {
	n := int64(headerReadSize)
	if off+n > f.size {
		n = f.size - off
	}
	if n <= 0 {
		return nil, fmt.Errorf("%w: page header offset %d is past the end of the file", ErrMalformedTagged, off)
	}
	b := make([]byte, n)
	if err := f.readRange(b, off); err != nil {
		return nil, err
	}
	return b, nil
}

// Size returns the size of the file in bytes.
func (f *File) Size() int64 { return f.size }

// Metadata returns the decoded footer of the file.
func (f *File) Metadata() *format.FileMetaData { return &f.metadata }

// NumRows returns the number of rows recorded in the footer.
func (f *File) NumRows() int64 { return f.metadata.NumRows }

// NumRowGroups returns the number of row groups in the file.
func (f *File) NumRowGroups() int { return len(f.metadata.RowGroups) }

// NumColumns returns the number of leaf columns in the schema.
func (f *File) NumColumns() int { return len(f.columns) }

// Columns returns the leaf columns of the schema in schema order.
func (f *File) Columns() []*Column { return f.columns }

// Lookup returns the leaf column with the given name. When several leaves
// share a name the first one in schema order wins.
func (f *File) Lookup(name string) (*Column, bool) {
	i, ok := f.names[name]
	if !ok {
		return nil, false
	}
	return f.columns[i], true
}

// NumPages returns the number of indexed data pages in the file.
func (f *File) NumPages() int { return len(f.index) }

// PageIndex returns the data page index entries in file order.
func (f *File) PageIndex() []PageIndexEntry { return f.index }

// ReadPageData returns the raw bytes of the data page with the given id,
// header excluded.
func (f *File) ReadPageData(pageID int) ([]byte, error) {
	if pageID < 0 || pageID >= len(f.index) {
		return nil, fmt.Errorf("%w: page id %d out of range [0,%d)", ErrUsage, pageID, len(f.index))
	}
	e := f.index[pageID]
	b := make([]byte, e.Size)
	if err := f.readRange(b, e.Offset); err != nil {
		return nil, err
	}
	return b, nil
}

// ReadPagesChunk reads the raw bytes of consecutive data pages starting at
// startPage, stopping before the page that would push the total past
// maxBytes. At least one page is always returned. The second return value is
// the id of the next page to request, which equals endPage once the range
// has been read in full.
func (f *File) ReadPagesChunk(startPage, endPage int, maxBytes int64) ([]RawPage, int, error) {
	if startPage < 0 || endPage > len(f.index) || startPage >= endPage {
		return nil, 0, fmt.Errorf("%w: page range [%d,%d) out of range [0,%d)", ErrUsage, startPage, endPage, len(f.index))
	}
	var pages []RawPage
	var total int64
	next := startPage
	for next < endPage {
		e := f.index[next]
		if len(pages) > 0 && total+e.Size > maxBytes {
			break
		}
		data, err := f.ReadPageData(next)
		if err != nil {
			return nil, 0, err
		}
		pages = append(pages, RawPage{
			PageID:   next,
			RowGroup: e.RowGroup,
			Column:   e.Column,
			Data:     data,
		})
		total += e.Size
		next++
	}
	return pages, next, nil
}

// Pages returns an iterator over every indexed data page of the file.
func (f *File) Pages() *PageIterator {
	return &PageIterator{file: f, start: 0, end: len(f.index), current: 0}
}

// PagesRange returns an iterator over the data pages in [startPage, endPage).
func (f *File) PagesRange(startPage, endPage int) (*PageIterator, error) {
	if startPage < 0 || endPage > len(f.index) || startPage > endPage {
		return nil, fmt.Errorf("%w: page range [%d,%d) out of range [0,%d)", ErrUsage, startPage, endPage, len(f.index))
	}
	return &PageIterator{file: f, start: startPage, end: endPage, current: startPage}, nil
}
