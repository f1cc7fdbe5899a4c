package storage

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

func fieldTypes(tbl arrow.Table) map[string]arrow.Type {
	out := map[string]arrow.Type{}
	for _, f := range tbl.Schema().Fields() {
		out[f.Name] = f.Type.ID()
	}
	return out
}

func TestToArrow_RowsInferTypes(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	tbl, err := ToArrow([]map[string]any{
		{"n": 1, "f": 1.5, "mixed": 1, "s": "x", "b": true, "t": ts, "empty": nil},
		{"n": int64(2), "f": nil, "mixed": 2.5, "s": nil, "b": false, "t": nil},
	})
	if err != nil {
		t.Fatalf("ToArrow error: %v", err)
	}
	defer tbl.Release()

	want := map[string]arrow.Type{
		"n":     arrow.INT64,
		"f":     arrow.FLOAT64,
		"mixed": arrow.FLOAT64,
		"s":     arrow.STRING,
		"b":     arrow.BOOL,
		"t":     arrow.TIMESTAMP,
		"empty": arrow.STRING,
	}
	got := fieldTypes(tbl)
	for name, typ := range want {
		if got[name] != typ {
			t.Fatalf("column %s: got %s, want %s", name, got[name], typ)
		}
	}
	if tbl.NumRows() != 2 {
		t.Fatalf("expected 2 rows, got %d", tbl.NumRows())
	}

	idx := tbl.Schema().FieldIndices("t")[0]
	col := tbl.Column(idx).Data().Chunk(0).(*array.Timestamp)
	if int64(col.Value(0)) != ts.UnixMicro() || !col.IsNull(1) {
		t.Fatalf("unexpected timestamps %v", col)
	}
}

func TestToArrow_ColumnOrder(t *testing.T) {
	tbl, err := ToArrow(map[string]any{"b": 1, "a": "x"}, "b", "a", "c")
	if err != nil {
		t.Fatalf("ToArrow error: %v", err)
	}
	defer tbl.Release()
	var names []string
	for _, f := range tbl.Schema().Fields() {
		names = append(names, f.Name)
	}
	if strings.Join(names, ",") != "b,a,c" {
		t.Fatalf("unexpected column order %v", names)
	}

	tbl2, err := ToArrow(map[string]any{"b": 1, "a": "x"})
	if err != nil {
		t.Fatalf("ToArrow error: %v", err)
	}
	defer tbl2.Release()
	if tbl2.Schema().Field(0).Name != "a" {
		t.Fatalf("expected sorted columns, got %s", tbl2.Schema())
	}
}

func TestToArrow_Matrix(t *testing.T) {
	tbl, err := ToArrow([][]any{{1, "a"}, {2, "b"}, {3, "c"}}, "id", "name")
	if err != nil {
		t.Fatalf("ToArrow error: %v", err)
	}
	defer tbl.Release()
	if tbl.NumRows() != 3 || tbl.NumCols() != 2 {
		t.Fatalf("unexpected shape %dx%d", tbl.NumRows(), tbl.NumCols())
	}

	if _, err := ToArrow([][]any{{1}}); err == nil {
		t.Fatalf("expected error without column names")
	}
	if _, err := ToArrow([][]any{{1, 2}}, "only"); err == nil {
		t.Fatalf("expected error for ragged row")
	}
}

func TestToArrow_Columns(t *testing.T) {
	tbl, err := ToArrow(map[string][]any{
		"id":    {json.Number("1"), json.Number("2")},
		"score": {json.Number("1.25"), json.Number("3")},
	})
	if err != nil {
		t.Fatalf("ToArrow error: %v", err)
	}
	defer tbl.Release()
	got := fieldTypes(tbl)
	if got["id"] != arrow.INT64 || got["score"] != arrow.FLOAT64 {
		t.Fatalf("unexpected types %v", got)
	}

	if _, err := ToArrow(map[string][]any{"a": {1}, "b": {1, 2}}); err == nil {
		t.Fatalf("expected error for uneven columns")
	}
}

func TestToArrow_AnyRows(t *testing.T) {
	var rows []any
	if err := json.Unmarshal([]byte(`[{"a":1},{"a":2}]`), &rows); err != nil {
		t.Fatal(err)
	}
	tbl, err := ToArrow(rows)
	if err != nil {
		t.Fatalf("ToArrow error: %v", err)
	}
	defer tbl.Release()
	if fieldTypes(tbl)["a"] != arrow.FLOAT64 {
		t.Fatalf("expected float64 from decoded JSON numbers")
	}

	if _, err := ToArrow([]any{"not a row"}); err == nil {
		t.Fatalf("expected error for non-object row")
	}
}

func TestToArrow_Errors(t *testing.T) {
	cases := map[string]any{
		"nil":             nil,
		"unsupported":     42,
		"mixed":           []map[string]any{{"a": 1}, {"a": "x"}},
		"bad value":       []map[string]any{{"a": struct{}{}}},
		"no columns":      []map[string]any{},
		"uint overflow":   []map[string]any{{"n": uint(math.MaxUint64)}},
		"uint64 overflow": []map[string]any{{"n": uint64(math.MaxInt64) + 1}},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ToArrow(in); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestToArrow_Unsigned(t *testing.T) {
	tbl, err := ToArrow([]map[string]any{
		{"n": uint64(7)},
		{"n": uint(math.MaxInt64)},
	})
	if err != nil {
		t.Fatalf("ToArrow error: %v", err)
	}
	defer tbl.Release()
	if fieldTypes(tbl)["n"] != arrow.INT64 {
		t.Fatalf("expected int64 column, got %v", fieldTypes(tbl)["n"])
	}
	col := tbl.Column(0).Data().Chunk(0).(*array.Int64)
	if col.Value(0) != 7 || col.Value(1) != math.MaxInt64 {
		t.Fatalf("unexpected values %d, %d", col.Value(0), col.Value(1))
	}
}

func TestToArrow_PassesThroughArrow(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{{Name: "x", Type: arrow.PrimitiveTypes.Int64}}, nil)
	b := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer b.Release()
	b.Field(0).(*array.Int64Builder).AppendValues([]int64{1, 2, 3}, nil)
	rec := b.NewRecord()
	defer rec.Release()

	tbl, err := ToArrow(rec)
	if err != nil {
		t.Fatalf("ToArrow error: %v", err)
	}
	defer tbl.Release()
	if tbl.NumRows() != 3 {
		t.Fatalf("expected 3 rows, got %d", tbl.NumRows())
	}

	same, err := ToArrow(tbl)
	if err != nil {
		t.Fatalf("ToArrow error: %v", err)
	}
	defer same.Release()
	if same != tbl {
		t.Fatalf("expected table to pass through")
	}
}
