package format

import (
	"github.com/columnhouse/parquet-lite/encoding/thrift"
)

// Decoding walks the compact protocol field by field, dispatching on field
// ids and skipping anything unrecognized, so footers written with newer
// schema revisions still load.

func (s *SchemaElement) Decode(r *thrift.Reader) error {
	for {
		h, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if h.Type == thrift.Stop {
			return nil
		}
		switch h.FieldID {
		case 1:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			t := Type(v)
			s.Type = &t
		case 2:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			s.TypeLength = &v
		case 3:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			rt := FieldRepetitionType(v)
			s.RepetitionType = &rt
		case 4:
			if s.Name, err = r.ReadString(); err != nil {
				return err
			}
		case 5:
			if s.NumChildren, err = r.ReadI32(); err != nil {
				return err
			}
		case 6:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			ct := ConvertedType(v)
			s.ConvertedType = &ct
		case 7:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			s.Scale = &v
		case 8:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			s.Precision = &v
		case 9:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			s.FieldID = &v
		default:
			if err := r.Skip(h.Type); err != nil {
				return err
			}
		}
	}
}

func (c *ColumnMetaData) Decode(r *thrift.Reader) error {
	for {
		h, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if h.Type == thrift.Stop {
			return nil
		}
		switch h.FieldID {
		case 1:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			c.Type = Type(v)
		case 2:
			lh, err := r.ReadListHeader()
			if err != nil {
				return err
			}
			c.Encoding = make([]Encoding, lh.Count)
			for i := range c.Encoding {
				v, err := r.ReadI32()
				if err != nil {
					return err
				}
				c.Encoding[i] = Encoding(v)
			}
		case 3:
			lh, err := r.ReadListHeader()
			if err != nil {
				return err
			}
			c.PathInSchema = make([]string, lh.Count)
			for i := range c.PathInSchema {
				if c.PathInSchema[i], err = r.ReadString(); err != nil {
					return err
				}
			}
		case 4:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			c.Codec = CompressionCodec(v)
		case 5:
			if c.NumValues, err = r.ReadI64(); err != nil {
				return err
			}
		case 6:
			if c.TotalUncompressedSize, err = r.ReadI64(); err != nil {
				return err
			}
		case 7:
			if c.TotalCompressedSize, err = r.ReadI64(); err != nil {
				return err
			}
		case 9:
			if c.DataPageOffset, err = r.ReadI64(); err != nil {
				return err
			}
		case 10:
			v, err := r.ReadI64()
			if err != nil {
				return err
			}
			c.IndexPageOffset = &v
		case 11:
			v, err := r.ReadI64()
			if err != nil {
				return err
			}
			c.DictionaryPageOffset = &v
		default:
			if err := r.Skip(h.Type); err != nil {
				return err
			}
		}
	}
}

func (c *ColumnChunk) Decode(r *thrift.Reader) error {
	for {
		h, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if h.Type == thrift.Stop {
			return nil
		}
		switch h.FieldID {
		case 1:
			if c.FilePath, err = r.ReadString(); err != nil {
				return err
			}
		case 2:
			if c.FileOffset, err = r.ReadI64(); err != nil {
				return err
			}
		case 3:
			r.ReadStructBegin()
			c.MetaData = new(ColumnMetaData)
			if err := c.MetaData.Decode(r); err != nil {
				return err
			}
			r.ReadStructEnd()
		default:
			if err := r.Skip(h.Type); err != nil {
				return err
			}
		}
	}
}

func (g *RowGroup) Decode(r *thrift.Reader) error {
	for {
		h, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if h.Type == thrift.Stop {
			return nil
		}
		switch h.FieldID {
		case 1:
			lh, err := r.ReadListHeader()
			if err != nil {
				return err
			}
			g.Columns = make([]ColumnChunk, lh.Count)
			for i := range g.Columns {
				r.ReadStructBegin()
				if err := g.Columns[i].Decode(r); err != nil {
					return err
				}
				r.ReadStructEnd()
			}
		case 2:
			if g.TotalByteSize, err = r.ReadI64(); err != nil {
				return err
			}
		case 3:
			if g.NumRows, err = r.ReadI64(); err != nil {
				return err
			}
		default:
			if err := r.Skip(h.Type); err != nil {
				return err
			}
		}
	}
}

func (kv *KeyValue) Decode(r *thrift.Reader) error {
	for {
		h, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if h.Type == thrift.Stop {
			return nil
		}
		switch h.FieldID {
		case 1:
			if kv.Key, err = r.ReadString(); err != nil {
				return err
			}
		case 2:
			if kv.Value, err = r.ReadString(); err != nil {
				return err
			}
		default:
			if err := r.Skip(h.Type); err != nil {
				return err
			}
		}
	}
}

func (f *FileMetaData) Decode(r *thrift.Reader) error {
	for {
		h, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if h.Type == thrift.Stop {
			return nil
		}
		switch h.FieldID {
		case 1:
			if f.Version, err = r.ReadI32(); err != nil {
				return err
			}
		case 2:
			lh, err := r.ReadListHeader()
			if err != nil {
				return err
			}
			f.Schema = make([]SchemaElement, lh.Count)
			for i := range f.Schema {
				r.ReadStructBegin()
				if err := f.Schema[i].Decode(r); err != nil {
					return err
				}
				r.ReadStructEnd()
			}
		case 3:
			if f.NumRows, err = r.ReadI64(); err != nil {
				return err
			}
		case 4:
			lh, err := r.ReadListHeader()
			if err != nil {
				return err
			}
			f.RowGroups = make([]RowGroup, lh.Count)
			for i := range f.RowGroups {
				r.ReadStructBegin()
				if err := f.RowGroups[i].Decode(r); err != nil {
					return err
				}
				r.ReadStructEnd()
			}
		case 5:
			lh, err := r.ReadListHeader()
			if err != nil {
				return err
			}
			f.KeyValueMetadata = make([]KeyValue, lh.Count)
			for i := range f.KeyValueMetadata {
				r.ReadStructBegin()
				if err := f.KeyValueMetadata[i].Decode(r); err != nil {
					return err
				}
				r.ReadStructEnd()
			}
		case 6:
			if f.CreatedBy, err = r.ReadString(); err != nil {
				return err
			}
		default:
			if err := r.Skip(h.Type); err != nil {
				return err
			}
		}
	}
}

func (d *DataPageHeader) Decode(r *thrift.Reader) error {
	for {
		h, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if h.Type == thrift.Stop {
			return nil
		}
		switch h.FieldID {
		case 1:
			if d.NumValues, err = r.ReadI32(); err != nil {
				return err
			}
		case 2:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			d.Encoding = Encoding(v)
		case 3:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			d.DefinitionLevelEncoding = Encoding(v)
		case 4:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			d.RepetitionLevelEncoding = Encoding(v)
		default:
			if err := r.Skip(h.Type); err != nil {
				return err
			}
		}
	}
}

func (d *DictionaryPageHeader) Decode(r *thrift.Reader) error {
	for {
		h, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if h.Type == thrift.Stop {
			return nil
		}
		switch h.FieldID {
		case 1:
			if d.NumValues, err = r.ReadI32(); err != nil {
				return err
			}
		case 2:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			d.Encoding = Encoding(v)
		case 3:
			d.IsSorted = r.ReadBool(h.Type)
		default:
			if err := r.Skip(h.Type); err != nil {
				return err
			}
		}
	}
}

func (p *PageHeader) Decode(r *thrift.Reader) error {
	for {
		h, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if h.Type == thrift.Stop {
			return nil
		}
		switch h.FieldID {
		case 1:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			p.Type = PageType(v)
		case 2:
			if p.UncompressedPageSize, err = r.ReadI32(); err != nil {
				return err
			}
		case 3:
			if p.CompressedPageSize, err = r.ReadI32(); err != nil {
				return err
			}
		case 4:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			p.CRC = &v
		case 5:
			r.ReadStructBegin()
			p.DataPageHeader = new(DataPageHeader)
			if err := p.DataPageHeader.Decode(r); err != nil {
				return err
			}
			r.ReadStructEnd()
		case 7:
			r.ReadStructBegin()
			p.DictionaryPageHeader = new(DictionaryPageHeader)
			if err := p.DictionaryPageHeader.Decode(r); err != nil {
				return err
			}
			r.ReadStructEnd()
		default:
			if err := r.Skip(h.Type); err != nil {
				return err
			}
		}
	}
}
