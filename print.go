package parquet

import (
	"fmt"
	"strings"
)

// SchemaString returns a human-readable description of the file schema,
// one line per leaf column, followed by the row and row group counts.
func (f *File) SchemaString() string {
	s := new(strings.Builder)
	s.WriteString("Schema:\n")
	for i, col := range f.columns {
		fmt.Fprintf(s, "  %d: %s (%s", i, col.Name(), col.Type())
		if ct := col.ConvertedType(); ct != nil {
			fmt.Fprintf(s, ", converted=%s", *ct)
		}
		if col.schema.RepetitionType != nil {
			fmt.Fprintf(s, ", %s", *col.schema.RepetitionType)
		}
		s.WriteString(")\n")
	}
	fmt.Fprintf(s, "Rows: %d\n", f.NumRows())
	fmt.Fprintf(s, "Row groups: %d\n", f.NumRowGroups())
	return s.String()
}
