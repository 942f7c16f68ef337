package parquet

import (
	"fmt"

	"github.com/columnhouse/parquet-lite/format"
)

// Column describes one leaf of the file schema. Columns are produced by
// walking the flattened schema tree in the footer; each leaf is assigned the
// index of its chunk within every row group and the maximum repetition and
// definition levels accumulated along the path from the root.
type Column struct {
	schema *format.SchemaElement
	path   []string
	index  int
	maxRep int8
	maxDef int8
}

// Name returns the name of the leaf schema element.
func (c *Column) Name() string { return c.schema.Name }

// Path returns the dotted path of the column from the schema root.
func (c *Column) Path() []string { return c.path }

// Index returns the position of the column's chunk within each row group.
func (c *Column) Index() int { return c.index }

// Type returns the physical type of the column. Leaves that do not declare a
// type read as BYTE_ARRAY.
func (c *Column) Type() format.Type {
	if c.schema.Type != nil {
		return *c.schema.Type
	}
	return format.ByteArray
}

// TypeLength returns the declared length of a FIXED_LEN_BYTE_ARRAY column,
// or zero when none was declared.
func (c *Column) TypeLength() int32 {
	if c.schema.TypeLength != nil {
		return *c.schema.TypeLength
	}
	return 0
}

// ConvertedType returns the logical annotation of the column, or nil.
func (c *Column) ConvertedType() *format.ConvertedType { return c.schema.ConvertedType }

// MaxRepetitionLevel returns the maximum repetition level of the column.
func (c *Column) MaxRepetitionLevel() int { return int(c.maxRep) }

// MaxDefinitionLevel returns the maximum definition level of the column.
func (c *Column) MaxDefinitionLevel() int { return int(c.maxDef) }

func (c *Column) repetition() format.FieldRepetitionType {
	if c.schema.RepetitionType != nil {
		return *c.schema.RepetitionType
	}
	return format.Required
}

// Required returns true if the column may not hold nulls.
func (c *Column) Required() bool { return c.repetition() == format.Required }

// Optional returns true if the column may hold nulls.
func (c *Column) Optional() bool { return c.repetition() == format.Optional }

// Repeated returns true if the column belongs to a repeated field.
func (c *Column) Repeated() bool { return c.repetition() == format.Repeated }

func (c *Column) String() string {
	return fmt.Sprintf("%s{%s,%s,R=%d,D=%d}",
		c.Name(), c.Type(), c.repetition(), c.maxRep, c.maxDef)
}

// columnLoader walks the flattened schema, producing one Column per leaf in
// schema order. Chunk indices count leaves only.
type columnLoader struct {
	schema  []format.SchemaElement
	columns []*Column
	names   map[string]int
	leaf    int
}

func loadColumns(schema []format.SchemaElement) ([]*Column, map[string]int, error) {
	if len(schema) == 0 {
		return nil, nil, fmt.Errorf("%w: schema has no root element", ErrMalformedTagged)
	}
	cl := &columnLoader{schema: schema, names: make(map[string]int)}
	next := 1
	for c := int32(0); c < schema[0].NumChildren; c++ {
		var err error
		next, err = cl.load(next, nil, 0, 0)
		if err != nil {
			return nil, nil, err
		}
	}
	return cl.columns, cl.names, nil
}

// load visits the element at position i with the levels accumulated so far
// and returns the position of the next sibling.
func (cl *columnLoader) load(i int, path []string, maxRep, maxDef int8) (int, error) {
	if i >= len(cl.schema) {
		return 0, fmt.Errorf("%w: schema tree is truncated", ErrMalformedTagged)
	}
	el := &cl.schema[i]

	if el.RepetitionType != nil {
		switch *el.RepetitionType {
		case format.Optional:
			maxDef++
		case format.Repeated:
			maxDef++
			maxRep++
		}
	}

	path = append(path[:len(path):len(path)], el.Name)

	if el.NumChildren == 0 {
		col := &Column{
			schema: el,
			path:   path,
			index:  cl.leaf,
			maxRep: maxRep,
			maxDef: maxDef,
		}
		if _, seen := cl.names[el.Name]; !seen {
			cl.names[el.Name] = len(cl.columns)
		}
		cl.columns = append(cl.columns, col)
		cl.leaf++
		return i + 1, nil
	}

	next := i + 1
	for c := int32(0); c < el.NumChildren; c++ {
		var err error
		next, err = cl.load(next, path, maxRep, maxDef)
		if err != nil {
			return 0, err
		}
	}
	return next, nil
}
