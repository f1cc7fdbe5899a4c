package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"go.uber.org/zap"
)

// RowGroupSize is the maximum number of rows written per Parquet row group.
const RowGroupSize = 64 * 1024

var parquetMagic = []byte("PAR1")

// WriteParquet encodes tbl as a Snappy-compressed Parquet file into w.
func WriteParquet(tbl arrow.Table, w io.Writer) error {
	if tbl == nil {
		return fmt.Errorf("nil table")
	}
	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	if err := pqarrow.WriteTable(tbl, w, RowGroupSize, props, pqarrow.DefaultWriterProps()); err != nil {
		return fmt.Errorf("failed to write parquet: %w", err)
	}
	return nil
}

// EncodeParquet returns tbl encoded as Parquet bytes.
func EncodeParquet(tbl arrow.Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteParquet(tbl, &buf); err != nil {
		return nil, err
	}
	zap.L().Debug("Encoded parquet", zap.Int64("rows", tbl.NumRows()), zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

// ReadParquet decodes Parquet bytes into an Arrow table. The caller must
// Release the returned table.
func ReadParquet(ctx context.Context, data []byte) (arrow.Table, error) {
	if !IsParquet(data) {
		return nil, fmt.Errorf("payload is not a parquet file (%d bytes)", len(data))
	}
	mem := memory.DefaultAllocator
	tbl, err := pqarrow.ReadTable(ctx, bytes.NewReader(data), parquet.NewReaderProperties(mem), pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet: %w", err)
	}
	return tbl, nil
}

// IsParquet reports whether data starts and ends with the Parquet magic bytes.
func IsParquet(data []byte) bool {
	return len(data) >= 2*len(parquetMagic) &&
		bytes.HasPrefix(data, parquetMagic) &&
		bytes.HasSuffix(data, parquetMagic)
}
