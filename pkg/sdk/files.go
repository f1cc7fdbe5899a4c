package sdk

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/polyteia-connect/polyteia-sdk-go/pkg/api"
	"github.com/polyteia-connect/polyteia-sdk-go/pkg/model"
	"github.com/polyteia-connect/polyteia-sdk-go/pkg/storage"
	"go.uber.org/zap"
)

// ReportImageTokenPath is the dedicated endpoint for report image upload tokens.
const ReportImageTokenPath = "/api/generate_report_image_upload_token"

// GenerateUploadToken returns a single-use token authorizing an upload into
// datasetID. An empty contentType means Parquet.
func (c *Client) GenerateUploadToken(ctx context.Context, datasetID, contentType string) (string, error) {
	if contentType == "" {
		contentType = storage.ParquetContentType
	}
	doc, err := c.command(ctx, "Generate upload token", "generate_dataset_upload_token", map[string]any{
		"id":           datasetID,
		"content_type": contentType,
	}, "data.token")
	if err != nil {
		return "", err
	}
	return doc.String("data.token")
}

// UploadFile encodes tbl as Parquet and uploads it with uploadToken.
func (c *Client) UploadFile(ctx context.Context, uploadToken string, tbl arrow.Table) error {
	if err := c.checkToken(); err != nil {
		return err
	}
	ctx, cancel := c.withTimeout(ctx, c.cfg.Timeouts.Upload)
	defer cancel()
	return c.files.UploadTable(ctx, c.token, uploadToken, tbl)
}

// UploadData converts data with storage.ToArrow, requests an upload token
// for datasetID and uploads the result.
func (c *Client) UploadData(ctx context.Context, datasetID string, data any, columns ...string) error {
	tbl, err := storage.ToArrow(data, columns...)
	if err != nil {
		return fmt.Errorf("failed to convert data: %w", err)
	}
	defer tbl.Release()

	token, err := c.GenerateUploadToken(ctx, datasetID, storage.ParquetContentType)
	if err != nil {
		return err
	}
	if err := c.UploadFile(ctx, token, tbl); err != nil {
		return err
	}
	zap.L().Info("Uploaded data", zap.String("dataset_id", datasetID), zap.Int64("rows", tbl.NumRows()))
	return nil
}

// GenerateDownloadToken returns a token for a Parquet export of the whole
// dataset.
func (c *Client) GenerateDownloadToken(ctx context.Context, datasetID string) (string, error) {
	doc, err := c.command(ctx, "Generate download token", "generate_query_export_token", map[string]any{
		"sql":      "FROM '{{" + datasetID + "}}'",
		"datasets": []string{datasetID},
		"args":     []any{},
		"format":   storage.ParquetContentType,
	}, "data.token")
	if err != nil {
		return "", err
	}
	return doc.String("data.token")
}

// DownloadFile fetches the export addressed by downloadToken as an Arrow
// table. The caller must Release it.
func (c *Client) DownloadFile(ctx context.Context, downloadToken string) (arrow.Table, error) {
	if err := c.checkToken(); err != nil {
		return nil, err
	}
	ctx, cancel := c.withTimeout(ctx, c.cfg.Timeouts.Download)
	defer cancel()
	return c.files.DownloadTable(ctx, c.token, downloadToken)
}

// DownloadDataset generates a download token for datasetID and fetches the
// export.
func (c *Client) DownloadDataset(ctx context.Context, datasetID string) (arrow.Table, error) {
	token, err := c.GenerateDownloadToken(ctx, datasetID)
	if err != nil {
		return nil, err
	}
	return c.DownloadFile(ctx, token)
}

// GetImageUploadToken returns the upload URL, token and server-side file
// name for an image attached to reportID. The upload URL defaults to the
// platform upload endpoint.
func (c *Client) GetImageUploadToken(ctx context.Context, reportID, contentType string) (model.ImageUploadToken, error) {
	if err := c.checkToken(); err != nil {
		return model.ImageUploadToken{}, err
	}
	ctx, cancel := c.withTimeout(ctx, c.cfg.Timeouts.Request)
	defer cancel()

	doc, err := c.api.Send(ctx, c.token, ReportImageTokenPath, api.Envelope{
		Command: "generate_report_image_upload_token",
		Params:  map[string]any{"id": reportID, "content_type": contentType},
	}, api.ValidateOptions{
		Context:      "Get image upload token",
		RequiredKeys: []string{"data.token", "data.filename"},
	})
	if err != nil {
		return model.ImageUploadToken{}, err
	}

	tok := model.ImageUploadToken{UploadURL: c.api.URL(storage.UploadPath)}
	if err := doc.Decode("data", &tok); err != nil {
		return model.ImageUploadToken{}, fmt.Errorf("decode image upload token: %w", err)
	}
	if tok.UploadURL == "" {
		tok.UploadURL = c.api.URL(storage.UploadPath)
	}
	return tok, nil
}

// UploadLocalFile uploads the file at localPath to uploadURL. It is
// authorized by uploadToken alone, as returned by GetImageUploadToken.
func (c *Client) UploadLocalFile(ctx context.Context, uploadURL, uploadToken, localPath, contentType string) error {
	f, err := os.Open(localPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("file not found: %s: %w", localPath, err)
		}
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer f.Close()

	ctx, cancel := c.withTimeout(ctx, c.cfg.Timeouts.Upload)
	defer cancel()
	err = c.files.Upload(ctx, "", uploadToken, storage.File{
		Name:        filepath.Base(localPath),
		ContentType: contentType,
		Body:        f,
		URL:         uploadURL,
	})
	if err != nil {
		return fmt.Errorf("failed to upload file %s: %w", localPath, err)
	}
	return nil
}
