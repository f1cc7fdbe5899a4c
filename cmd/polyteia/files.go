package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/polyteia-connect/polyteia-sdk-go/pkg/storage"
)

func newUploadCmd(opts *rootOptions) *cobra.Command {
	var columns []string
	cmd := &cobra.Command{
		Use:   "upload <dataset id> <file>",
		Short: "Replace a dataset's contents with a Parquet or JSON file",
		Long: `Uploads a file as the new contents of a dataset.

Parquet files are read into a table and encoded again before upload. JSON
files must hold an array of objects (rows) or an object of arrays (columns)
and are converted to Parquet first.

Examples:
  polyteia upload 0f1c... population.parquet
  polyteia upload 0f1c... rows.json --columns city,population`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			datasetID, path := args[0], args[1]
			data, err := readTableFile(cmd, path)
			if err != nil {
				return err
			}
			if tbl, ok := data.(arrow.Table); ok {
				defer tbl.Release()
			}

			c, err := opts.client(cmd.Context())
			if err != nil {
				return err
			}
			if err := c.UploadData(cmd.Context(), datasetID, data, columns...); err != nil {
				return err
			}
			zap.L().Info("Uploaded file", zap.String("dataset_id", datasetID), zap.String("file", path))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "column order for JSON input")
	return cmd
}

// readTableFile returns either an arrow.Table (Parquet) or decoded JSON
// ready for storage.ToArrow.
func readTableFile(cmd *cobra.Command, path string) (any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return storage.ReadParquet(cmd.Context(), raw)
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return normalizeJSON(v)
	default:
		return nil, fmt.Errorf("unsupported file type %q: use .parquet or .json", filepath.Ext(path))
	}
}

func normalizeJSON(v any) (any, error) {
	switch data := v.(type) {
	case []any:
		return data, nil
	case map[string]any:
		cols := make(map[string][]any, len(data))
		for name, col := range data {
			vals, ok := col.([]any)
			if !ok {
				return nil, fmt.Errorf("column %q is not an array", name)
			}
			cols[name] = vals
		}
		return cols, nil
	default:
		return nil, fmt.Errorf("expected an array of rows or an object of columns, got %T", v)
	}
}

func newDownloadCmd(opts *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "download <dataset id>",
		Short: "Export a dataset as a Parquet file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			datasetID := args[0]
			if output == "" {
				output = datasetID + ".parquet"
			}

			c, err := opts.client(cmd.Context())
			if err != nil {
				return err
			}
			tbl, err := c.DownloadDataset(cmd.Context(), datasetID)
			if err != nil {
				return err
			}
			defer tbl.Release()

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			if err := storage.WriteParquet(tbl, f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rows, %d columns\n", output, tbl.NumRows(), tbl.NumCols())
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <dataset id>.parquet)")
	return cmd
}
