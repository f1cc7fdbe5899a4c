// Package storage moves columnar payloads between callers and the platform.
//
// Uploads are Parquet files sent as multipart forms authorized by a
// single-use upload token. Downloads are Parquet query exports fetched with a
// download token. Both directions are exposed as raw bytes and as Arrow
// tables.
//
// # Transfers
//
// The Client shares the transport of an api.Client:
//
//	transport := api.NewClient(cfg.APIURL)
//	files := storage.NewStorage(transport)
//
//	// Upload a table with a token from generate_dataset_upload_token
//	err := files.UploadTable(ctx, accessToken, uploadToken, tbl)
//
//	// Download an export with a token from generate_query_export_token
//	tbl, err := files.DownloadTable(ctx, accessToken, downloadToken)
//	defer tbl.Release()
//
// # Conversion
//
// ToArrow turns common Go shapes into an Arrow table. Column types are
// inferred per column:
//
//   - integers become int64, floats float64 (a column mixing both widens
//     to float64)
//   - strings become utf8, booleans bool
//   - time.Time becomes timestamp[us, UTC]
//   - nil is a null; an all-null column is utf8
//
// Mixing any other pair of types in one column is an error.
//
//	tbl, err := storage.ToArrow([]map[string]any{
//		{"city": "Berlin", "population": 3_850_809},
//		{"city": "Hamburg", "population": 1_892_122},
//	})
//
// # Parquet
//
// WriteParquet and EncodeParquet write Snappy-compressed Parquet with row
// groups of at most RowGroupSize rows. ReadParquet rejects payloads that do
// not carry the Parquet magic bytes before decoding.
package storage
