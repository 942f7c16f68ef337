package parquet_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	parquet "github.com/columnhouse/parquet-lite"
	"github.com/columnhouse/parquet-lite/format"
)

func writeFile(t *testing.T, specs []parquet.ColumnSpec, rowGroups ...[][]parquet.Value) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	w, err := parquet.NewWriter(buf, specs)
	if err != nil {
		t.Fatal(err)
	}
	for _, rg := range rowGroups {
		if err := w.WriteRowGroup(rg); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func openFile(t *testing.T, b []byte) *parquet.File {
	t.Helper()
	f, err := parquet.OpenFile(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func values(vs ...interface{}) []parquet.Value {
	out := make([]parquet.Value, len(vs))
	for i, v := range vs {
		out[i] = parquet.ValueOf(v)
	}
	return out
}

func checkValues(t *testing.T, got []parquet.Value, want ...interface{}) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d values, want %d", len(got), len(want))
	}
	for i := range want {
		if want[i] == nil {
			if !got[i].IsNull() {
				t.Errorf("value %d: got %v, want null", i, got[i])
			}
			continue
		}
		if got[i].IsNull() {
			t.Errorf("value %d: got null, want %v", i, want[i])
			continue
		}
		if g, w := got[i].String(), parquet.ValueOf(want[i]).String(); g != w {
			t.Errorf("value %d: got %s, want %s", i, g, w)
		}
	}
}

func TestOpenFileEnvelope(t *testing.T) {
	valid := writeFile(t, []parquet.ColumnSpec{
		{Name: "id", Type: format.Int64, Repetition: format.Required},
	}, [][]parquet.Value{values(int64(1), int64(2))})

	tests := []struct {
		scenario string
		data     []byte
		err      error
	}{
		{
			scenario: "empty file",
			data:     nil,
			err:      parquet.ErrEnvelope,
		},
		{
			scenario: "too small",
			data:     []byte("PAR1PAR"),
			err:      parquet.ErrEnvelope,
		},
		{
			scenario: "missing leading magic",
			data: append([]byte("XXXX"), valid[4:]...),
			err:  parquet.ErrEnvelope,
		},
		{
			scenario: "missing trailing magic",
			data: append(append([]byte{}, valid[:len(valid)-4]...), "XXXX"...),
			err:  parquet.ErrEnvelope,
		},
		{
			scenario: "footer length exceeds file size",
			data: func() []byte {
				b := append([]byte{}, valid...)
				binary.LittleEndian.PutUint32(b[len(b)-8:], uint32(len(b)))
				return b
			}(),
			err: parquet.ErrEnvelope,
		},
	}

	for _, test := range tests {
		t.Run(test.scenario, func(t *testing.T) {
			_, err := parquet.OpenFile(bytes.NewReader(test.data), int64(len(test.data)))
			if !errors.Is(err, test.err) {
				t.Errorf("got %v, want %v", err, test.err)
			}
		})
	}

	if _, err := parquet.OpenFile(bytes.NewReader(valid), int64(len(valid))); err != nil {
		t.Errorf("valid file: %v", err)
	}
}

func TestRoundTripPlainColumns(t *testing.T) {
	specs := []parquet.ColumnSpec{
		{Name: "id", Type: format.Int64, Repetition: format.Required},
		{Name: "score", Type: format.Double, Repetition: format.Required},
		{Name: "ratio", Type: format.Float, Repetition: format.Required},
		{Name: "count", Type: format.Int32, Repetition: format.Required},
	}
	data := writeFile(t, specs, [][]parquet.Value{
		values(int64(1), int64(2), int64(3)),
		values(1.5, 2.5, -3.25),
		values(float32(0.5), float32(1.5), float32(2.5)),
		values(int32(-1), int32(0), int32(1)),
	})
	f := openFile(t, data)

	if f.NumRows() != 3 {
		t.Errorf("rows: got %d, want 3", f.NumRows())
	}
	if f.NumColumns() != 4 {
		t.Errorf("columns: got %d, want 4", f.NumColumns())
	}

	got, err := f.ReadColumn("id")
	if err != nil {
		t.Fatal(err)
	}
	checkValues(t, got, int64(1), int64(2), int64(3))

	got, err = f.ReadColumn("score")
	if err != nil {
		t.Fatal(err)
	}
	checkValues(t, got, 1.5, 2.5, -3.25)

	got, err = f.ReadColumn("ratio")
	if err != nil {
		t.Fatal(err)
	}
	checkValues(t, got, float32(0.5), float32(1.5), float32(2.5))

	got, err = f.ReadColumn("count")
	if err != nil {
		t.Fatal(err)
	}
	checkValues(t, got, int32(-1), int32(0), int32(1))
}

func TestRoundTripOptionalColumn(t *testing.T) {
	specs := []parquet.ColumnSpec{
		{Name: "name", Type: format.ByteArray, Repetition: format.Optional},
	}
	data := writeFile(t, specs, [][]parquet.Value{
		values("alpha", nil, "gamma", nil, "epsilon"),
	})
	f := openFile(t, data)

	got, err := f.ReadColumn("name")
	if err != nil {
		t.Fatal(err)
	}
	checkValues(t, got, "alpha", nil, "gamma", nil, "epsilon")

	if got[0].DefinitionLevel() != 1 {
		t.Errorf("definition level: got %d, want 1", got[0].DefinitionLevel())
	}
	if got[1].DefinitionLevel() != 0 {
		t.Errorf("null definition level: got %d, want 0", got[1].DefinitionLevel())
	}
}

func TestRoundTripBooleanColumn(t *testing.T) {
	specs := []parquet.ColumnSpec{
		{Name: "flag", Type: format.Boolean, Repetition: format.Required},
	}
	data := writeFile(t, specs, [][]parquet.Value{
		values(true, false, true, true, false, false, true, true, false, true),
	})
	f := openFile(t, data)

	got, err := f.ReadColumn("flag")
	if err != nil {
		t.Fatal(err)
	}
	checkValues(t, got, true, false, true, true, false, false, true, true, false, true)
}

func TestRoundTripDictionaryColumn(t *testing.T) {
	// Three distinct values over a hundred rows triggers dictionary encoding.
	specs := []parquet.ColumnSpec{
		{Name: "status", Type: format.ByteArray, Repetition: format.Required},
	}
	statuses := []string{"ok", "warn", "fail"}
	rows := make([]interface{}, 100)
	for i := range rows {
		rows[i] = statuses[i%len(statuses)]
	}
	data := writeFile(t, specs, [][]parquet.Value{values(rows...)})
	f := openFile(t, data)

	meta := f.Metadata().RowGroups[0].Columns[0].MetaData
	if len(meta.Encoding) != 2 || meta.Encoding[1] != format.RLEDictionary {
		t.Errorf("encodings: got %v, want [PLAIN RLE_DICTIONARY]", meta.Encoding)
	}
	if meta.DictionaryPageOffset == nil {
		t.Error("dictionary page offset not recorded")
	}

	got, err := f.ReadColumn("status")
	if err != nil {
		t.Fatal(err)
	}
	checkValues(t, got, rows...)
}

func TestRoundTripMultipleRowGroups(t *testing.T) {
	specs := []parquet.ColumnSpec{
		{Name: "id", Type: format.Int64, Repetition: format.Required},
	}
	data := writeFile(t, specs,
		[][]parquet.Value{values(int64(1), int64(2))},
		[][]parquet.Value{values(int64(3))},
		[][]parquet.Value{values(int64(4), int64(5), int64(6))},
	)
	f := openFile(t, data)

	if f.NumRowGroups() != 3 {
		t.Fatalf("row groups: got %d, want 3", f.NumRowGroups())
	}
	if f.NumRows() != 6 {
		t.Errorf("rows: got %d, want 6", f.NumRows())
	}

	got, err := f.ReadColumn("id")
	if err != nil {
		t.Fatal(err)
	}
	checkValues(t, got, int64(1), int64(2), int64(3), int64(4), int64(5), int64(6))

	got, err = f.ReadColumnRowGroup("id", 1)
	if err != nil {
		t.Fatal(err)
	}
	checkValues(t, got, int64(3))
}

func TestRoundTripMultiplePages(t *testing.T) {
	// 1000 distinct int64 rows at 8 bytes each exceed the page budget and
	// split into several pages.
	specs := []parquet.ColumnSpec{
		{Name: "n", Type: format.Int64, Repetition: format.Required},
	}
	rows := make([]interface{}, 1000)
	for i := range rows {
		rows[i] = int64(i)
	}
	data := writeFile(t, specs, [][]parquet.Value{values(rows...)})
	f := openFile(t, data)

	if f.NumPages() < 2 {
		t.Fatalf("pages: got %d, want several", f.NumPages())
	}

	got, err := f.ReadColumn("n")
	if err != nil {
		t.Fatal(err)
	}
	checkValues(t, got, rows...)
}

func TestReadColumnPages(t *testing.T) {
	specs := []parquet.ColumnSpec{
		{Name: "status", Type: format.ByteArray, Repetition: format.Required},
	}
	rows := make([]interface{}, 50)
	for i := range rows {
		rows[i] = "steady"
	}
	data := writeFile(t, specs, [][]parquet.Value{values(rows...)})
	f := openFile(t, data)

	pages, err := f.ReadColumnPages("status", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) < 2 {
		t.Fatalf("pages: got %d, want dictionary page plus data pages", len(pages))
	}
	if pages[0].Type != format.DictionaryPage {
		t.Errorf("first page type: got %s, want DICTIONARY_PAGE", pages[0].Type)
	}
	if pages[0].Values != nil {
		t.Errorf("dictionary page values: got %d, want none", len(pages[0].Values))
	}
	total := 0
	for _, p := range pages[1:] {
		if p.Type != format.DataPage {
			t.Errorf("page type: got %s, want DATA_PAGE", p.Type)
		}
		total += len(p.Values)
	}
	if total != len(rows) {
		t.Errorf("values across pages: got %d, want %d", total, len(rows))
	}
}

func TestLookupUnknownColumn(t *testing.T) {
	data := writeFile(t, []parquet.ColumnSpec{
		{Name: "id", Type: format.Int64, Repetition: format.Required},
	}, [][]parquet.Value{values(int64(1))})
	f := openFile(t, data)

	if _, ok := f.Lookup("missing"); ok {
		t.Error("lookup of unknown column succeeded")
	}
	if _, err := f.ReadColumn("missing"); !errors.Is(err, parquet.ErrUsage) {
		t.Errorf("got %v, want %v", err, parquet.ErrUsage)
	}
}
