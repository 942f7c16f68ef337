package format

import (
	"github.com/columnhouse/parquet-lite/encoding/thrift"
)

// Encode methods serialize a complete struct body, fields in id order
// followed by the stop byte. Nested structs and struct list elements are
// bracketed with PushFieldState/PopFieldState so their field ids delta
// against a fresh state.

func (s *SchemaElement) Encode(w *thrift.Writer) {
	if s.Type != nil {
		w.WriteI32(1, int32(*s.Type))
	}
	if s.TypeLength != nil {
		w.WriteI32(2, *s.TypeLength)
	}
	if s.RepetitionType != nil {
		w.WriteI32(3, int32(*s.RepetitionType))
	}
	w.WriteString(4, s.Name)
	if s.NumChildren > 0 {
		w.WriteI32(5, s.NumChildren)
	}
	if s.ConvertedType != nil {
		w.WriteI32(6, int32(*s.ConvertedType))
	}
	if s.Scale != nil {
		w.WriteI32(7, *s.Scale)
	}
	if s.Precision != nil {
		w.WriteI32(8, *s.Precision)
	}
	if s.FieldID != nil {
		w.WriteI32(9, *s.FieldID)
	}
	w.WriteStop()
}

func (c *ColumnMetaData) Encode(w *thrift.Writer) {
	w.WriteI32(1, int32(c.Type))
	w.WriteListBegin(2, thrift.I32, len(c.Encoding))
	for _, e := range c.Encoding {
		w.WriteZigZagRaw(int64(e))
	}
	w.WriteListBegin(3, thrift.Binary, len(c.PathInSchema))
	for _, p := range c.PathInSchema {
		w.WriteUvarintRaw(uint64(len(p)))
		w.WriteRaw([]byte(p))
	}
	w.WriteI32(4, int32(c.Codec))
	w.WriteI64(5, c.NumValues)
	w.WriteI64(6, c.TotalUncompressedSize)
	w.WriteI64(7, c.TotalCompressedSize)
	w.WriteI64(9, c.DataPageOffset)
	if c.IndexPageOffset != nil {
		w.WriteI64(10, *c.IndexPageOffset)
	}
	if c.DictionaryPageOffset != nil {
		w.WriteI64(11, *c.DictionaryPageOffset)
	}
	w.WriteStop()
}

func (c *ColumnChunk) Encode(w *thrift.Writer) {
	if c.FilePath != "" {
		w.WriteString(1, c.FilePath)
	}
	w.WriteI64(2, c.FileOffset)
	if c.MetaData != nil {
		w.WriteFieldHeader(3, thrift.Struct)
		w.PushFieldState()
		c.MetaData.Encode(w)
		w.PopFieldState()
	}
	w.WriteStop()
}

func (g *RowGroup) Encode(w *thrift.Writer) {
	w.WriteListBegin(1, thrift.Struct, len(g.Columns))
	for i := range g.Columns {
		w.PushFieldState()
		g.Columns[i].Encode(w)
		w.PopFieldState()
	}
	w.WriteI64(2, g.TotalByteSize)
	w.WriteI64(3, g.NumRows)
	w.WriteStop()
}

func (kv *KeyValue) Encode(w *thrift.Writer) {
	w.WriteString(1, kv.Key)
	if kv.Value != "" {
		w.WriteString(2, kv.Value)
	}
	w.WriteStop()
}

func (f *FileMetaData) Encode(w *thrift.Writer) {
	w.WriteI32(1, f.Version)
	w.WriteListBegin(2, thrift.Struct, len(f.Schema))
	for i := range f.Schema {
		w.PushFieldState()
		f.Schema[i].Encode(w)
		w.PopFieldState()
	}
	w.WriteI64(3, f.NumRows)
	w.WriteListBegin(4, thrift.Struct, len(f.RowGroups))
	for i := range f.RowGroups {
		w.PushFieldState()
		f.RowGroups[i].Encode(w)
		w.PopFieldState()
	}
	if len(f.KeyValueMetadata) > 0 {
		w.WriteListBegin(5, thrift.Struct, len(f.KeyValueMetadata))
		for i := range f.KeyValueMetadata {
			w.PushFieldState()
			f.KeyValueMetadata[i].Encode(w)
			w.PopFieldState()
		}
	}
	if f.CreatedBy != "" {
		w.WriteString(6, f.CreatedBy)
	}
	w.WriteStop()
}

func (d *DataPageHeader) Encode(w *thrift.Writer) {
	w.WriteI32(1, d.NumValues)
	w.WriteI32(2, int32(d.Encoding))
	w.WriteI32(3, int32(d.DefinitionLevelEncoding))
	w.WriteI32(4, int32(d.RepetitionLevelEncoding))
	w.WriteStop()
}

func (d *DictionaryPageHeader) Encode(w *thrift.Writer) {
	w.WriteI32(1, d.NumValues)
	w.WriteI32(2, int32(d.Encoding))
	if d.IsSorted {
		w.WriteBool(3, true)
	}
	w.WriteStop()
}

func (p *PageHeader) Encode(w *thrift.Writer) {
	w.WriteI32(1, int32(p.Type))
	w.WriteI32(2, p.UncompressedPageSize)
	w.WriteI32(3, p.CompressedPageSize)
	if p.CRC != nil {
		w.WriteI32(4, *p.CRC)
	}
	if p.DataPageHeader != nil {
		w.WriteFieldHeader(5, thrift.Struct)
		w.PushFieldState()
		p.DataPageHeader.Encode(w)
		w.PopFieldState()
	}
	if p.DictionaryPageHeader != nil {
		w.WriteFieldHeader(7, thrift.Struct)
		w.PushFieldState()
		p.DictionaryPageHeader.Encode(w)
		w.PopFieldState()
	}
	w.WriteStop()
}
