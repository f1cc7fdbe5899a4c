package storage

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

type kind int

const (
	kindNull kind = iota
	kindBool
	kindInt
	kindFloat
	kindString
	kindTime
)

func (k kind) String() string {
	switch k {
	case kindBool:
		return "bool"
	case kindInt:
		return "int"
	case kindFloat:
		return "float"
	case kindString:
		return "string"
	case kindTime:
		return "timestamp"
	}
	return "null"
}

func (k kind) arrowType() arrow.DataType {
	switch k {
	case kindBool:
		return arrow.FixedWidthTypes.Boolean
	case kindInt:
		return arrow.PrimitiveTypes.Int64
	case kindFloat:
		return arrow.PrimitiveTypes.Float64
	case kindTime:
		return arrow.FixedWidthTypes.Timestamp_us
	}
	return arrow.BinaryTypes.String
}

// ToArrow converts tabular Go data into an Arrow table. Supported inputs are
// arrow.Table, arrow.Record, a single row as map[string]any, rows as
// []map[string]any or []any of maps, rows as [][]any (column names
// required) and columns as map[string][]any.
//
// When columns is empty the column order is the sorted union of keys.
// The caller must Release the returned table.
func ToArrow(data any, columns ...string) (arrow.Table, error) {
	switch v := data.(type) {
	case nil:
		return nil, fmt.Errorf("no data to convert")
	case arrow.Table:
		v.Retain()
		return v, nil
	case arrow.Record:
		return array.NewTableFromRecords(v.Schema(), []arrow.Record{v}), nil
	case map[string]any:
		return fromRows([]map[string]any{v}, columns)
	case []map[string]any:
		return fromRows(v, columns)
	case []any:
		rows := make([]map[string]any, 0, len(v))
		for i, r := range v {
			m, ok := r.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("row %d: expected object, got %T", i, r)
			}
			rows = append(rows, m)
		}
		return fromRows(rows, columns)
	case [][]any:
		return fromMatrix(v, columns)
	case map[string][]any:
		return fromColumns(v, columns)
	}
	return nil, fmt.Errorf("unsupported data type %T", data)
}

func fromRows(rows []map[string]any, columns []string) (arrow.Table, error) {
	if len(columns) == 0 {
		seen := map[string]struct{}{}
		for _, r := range rows {
			for k := range r {
				seen[k] = struct{}{}
			}
		}
		columns = sortedKeys(seen)
	}
	cols := make(map[string][]any, len(columns))
	for _, name := range columns {
		vals := make([]any, len(rows))
		for i, r := range rows {
			vals[i] = r[name]
		}
		cols[name] = vals
	}
	return build(columns, cols)
}

func fromMatrix(rows [][]any, columns []string) (arrow.Table, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("column names are required for row arrays")
	}
	cols := make(map[string][]any, len(columns))
	for _, name := range columns {
		cols[name] = make([]any, len(rows))
	}
	for i, r := range rows {
		if len(r) != len(columns) {
			return nil, fmt.Errorf("row %d: has %d values, expected %d", i, len(r), len(columns))
		}
		for j, name := range columns {
			cols[name][i] = r[j]
		}
	}
	return build(columns, cols)
}

func fromColumns(data map[string][]any, columns []string) (arrow.Table, error) {
	if len(columns) == 0 {
		seen := make(map[string]struct{}, len(data))
		for k := range data {
			seen[k] = struct{}{}
		}
		columns = sortedKeys(seen)
	}
	n := -1
	for _, name := range columns {
		vals, ok := data[name]
		if !ok {
			return nil, fmt.Errorf("column %q not found", name)
		}
		if n >= 0 && len(vals) != n {
			return nil, fmt.Errorf("column %q has %d values, expected %d", name, len(vals), n)
		}
		n = len(vals)
	}
	return build(columns, data)
}

func build(columns []string, cols map[string][]any) (arrow.Table, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("no columns to convert")
	}
	kinds := make([]kind, len(columns))
	fields := make([]arrow.Field, len(columns))
	for i, name := range columns {
		k, err := inferKind(cols[name])
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		kinds[i] = k
		fields[i] = arrow.Field{Name: name, Type: k.arrowType(), Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	bldr := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer bldr.Release()
	for i, name := range columns {
		if err := appendColumn(bldr.Field(i), kinds[i], cols[name]); err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
	}
	rec := bldr.NewRecord()
	defer rec.Release()
	return array.NewTableFromRecords(schema, []arrow.Record{rec}), nil
}

func inferKind(vals []any) (kind, error) {
	out := kindNull
	for i, v := range vals {
		k, err := kindOf(v)
		if err != nil {
			return kindNull, fmt.Errorf("value %d: %w", i, err)
		}
		switch {
		case k == kindNull || k == out:
		case out == kindNull:
			out = k
		case (out == kindInt && k == kindFloat) || (out == kindFloat && k == kindInt):
			out = kindFloat
		default:
			return kindNull, fmt.Errorf("mixed value types %s and %s", out, k)
		}
	}
	return out, nil
}

func kindOf(v any) (kind, error) {
	switch x := v.(type) {
	case nil:
		return kindNull, nil
	case bool:
		return kindBool, nil
	case int, int8, int16, int32, int64, uint8, uint16, uint32:
		return kindInt, nil
	case uint, uint64:
		if _, err := toInt64(v); err != nil {
			return kindNull, err
		}
		return kindInt, nil
	case float32, float64:
		return kindFloat, nil
	case json.Number:
		if _, err := x.Int64(); err == nil {
			return kindInt, nil
		}
		return kindFloat, nil
	case string:
		return kindString, nil
	case time.Time, *time.Time:
		return kindTime, nil
	}
	return kindNull, fmt.Errorf("unsupported value type %T", v)
}

func appendColumn(b array.Builder, k kind, vals []any) error {
	for _, v := range vals {
		if v == nil {
			b.AppendNull()
			continue
		}
		if t, ok := v.(*time.Time); ok {
			if t == nil {
				b.AppendNull()
				continue
			}
			v = *t
		}
		switch k {
		case kindBool:
			b.(*array.BooleanBuilder).Append(v.(bool))
		case kindInt:
			n, err := toInt64(v)
			if err != nil {
				return err
			}
			b.(*array.Int64Builder).Append(n)
		case kindFloat:
			f, err := toFloat64(v)
			if err != nil {
				return err
			}
			b.(*array.Float64Builder).Append(f)
		case kindTime:
			b.(*array.TimestampBuilder).Append(arrow.Timestamp(v.(time.Time).UTC().UnixMicro()))
		default:
			b.(*array.StringBuilder).Append(fmt.Sprint(v))
		}
	}
	return nil
}

func toInt64(v any) (int64, error) {
	switch x := v.(type) {
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint:
		return unsignedToInt64(uint64(x))
	case uint64:
		return unsignedToInt64(x)
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case json.Number:
		return x.Int64()
	}
	return 0, fmt.Errorf("cannot convert %T to int64", v)
}

func unsignedToInt64(x uint64) (int64, error) {
	if x > math.MaxInt64 {
		return 0, fmt.Errorf("unsigned value %d overflows int64", x)
	}
	return int64(x), nil
}

func toFloat64(v any) (float64, error) {
	switch x := v.(type) {
	case float32:
		return float64(x), nil
	case float64:
		return x, nil
	case json.Number:
		return x.Float64()
	}
	n, err := toInt64(v)
	if err != nil {
		return 0, fmt.Errorf("cannot convert %T to float64", v)
	}
	return float64(n), nil
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
