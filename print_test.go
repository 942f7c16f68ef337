package parquet_test

import (
	"fmt"
	"testing"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	parquet "github.com/columnhouse/parquet-lite"
	"github.com/columnhouse/parquet-lite/format"
)

func assertText(t *testing.T, got, want string) {
	t.Helper()
	if got != want {
		edits := myers.ComputeEdits(span.URIFromPath("schema"), want, got)
		t.Errorf("schema mismatch:\n%s", fmt.Sprint(gotextdiff.ToUnified("want", "got", want, edits)))
	}
}

func TestSchemaString(t *testing.T) {
	converted := format.UTF8
	data := writeFile(t, []parquet.ColumnSpec{
		{Name: "id", Type: format.Int64, Repetition: format.Required},
		{Name: "name", Type: format.ByteArray, Repetition: format.Optional, ConvertedType: &converted},
		{Name: "score", Type: format.Double, Repetition: format.Required},
	}, [][]parquet.Value{
		values(int64(1), int64(2)),
		values("a", nil),
		values(0.5, 1.5),
	})
	f := openFile(t, data)

	assertText(t, f.SchemaString(), `Schema:
  0: id (INT64, REQUIRED)
  1: name (BYTE_ARRAY, converted=UTF8, OPTIONAL)
  2: score (DOUBLE, REQUIRED)
Rows: 2
Row groups: 1
`)
}

func TestSchemaStringEmptyFile(t *testing.T) {
	data := writeFile(t, []parquet.ColumnSpec{
		{Name: "id", Type: format.Int32, Repetition: format.Required},
	})
	f := openFile(t, data)

	assertText(t, f.SchemaString(), `Schema:
  0: id (INT32, REQUIRED)
Rows: 0
Row groups: 0
`)
}
