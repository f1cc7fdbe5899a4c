package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/polyteia-connect/polyteia-sdk-go/pkg/api"
	"go.uber.org/zap"
)

const (
	// UploadPath receives multipart file uploads.
	UploadPath = "/upload"
	// DownloadPath serves query exports addressed by a download token.
	DownloadPath = "/download"
	// UploadTokenHeader carries the single-use upload token.
	UploadTokenHeader = "X-Upload-Token"
	// ParquetContentType is the media type of Parquet payloads.
	ParquetContentType = "application/vnd.apache.parquet"
	// OctetStream is the part content type used for dataset uploads.
	OctetStream = "application/octet-stream"
)

// File is one multipart upload.
type File struct {
	// Name is the file name reported in the form part. Default: "filename".
	Name string
	// ContentType of the part. Default: application/octet-stream.
	ContentType string
	// Body is the file content.
	Body io.Reader
	// URL overrides the upload endpoint, e.g. the one returned with an image
	// upload token. Relative URLs are resolved against the platform root.
	URL string
}

// Client uploads and downloads files through the platform API client.
type Client struct {
	api *api.Client
}

// NewStorage constructs a storage client sharing the transport of c.
func NewStorage(c *api.Client) *Client {
	return &Client{api: c}
}

// Upload sends f as the "file" field of a multipart form. The access token
// is optional: image uploads are authorized by the upload token alone.
func (s *Client) Upload(ctx context.Context, accessToken, uploadToken string, f File) error {
	if uploadToken == "" {
		return fmt.Errorf("upload token is required")
	}
	if f.Body == nil {
		return fmt.Errorf("upload body is required")
	}
	name := f.Name
	if name == "" {
		name = "filename"
	}
	contentType := f.ContentType
	if contentType == "" {
		contentType = OctetStream
	}
	target := f.URL
	if target == "" {
		target = UploadPath
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(name)))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create form part: %w", err)
	}
	n, err := io.Copy(part, f.Body)
	if err != nil {
		return fmt.Errorf("failed to write form part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to close form: %w", err)
	}

	req, err := s.api.NewRequest(ctx, http.MethodPost, target, accessToken, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(UploadTokenHeader, uploadToken)

	zap.L().Debug("Uploading file", zap.String("name", name), zap.Int64("bytes", n))
	_, err = s.api.Do(req, api.ValidateOptions{
		Context:        "Upload file",
		ExpectedStatus: []int{http.StatusOK, http.StatusCreated, http.StatusNoContent},
		AllowNonJSON:   true,
	})
	return err
}

// UploadTable encodes tbl as Parquet and uploads it.
func (s *Client) UploadTable(ctx context.Context, accessToken, uploadToken string, tbl arrow.Table) error {
	data, err := EncodeParquet(tbl)
	if err != nil {
		return err
	}
	return s.Upload(ctx, accessToken, uploadToken, File{
		Body:        bytes.NewReader(data),
		ContentType: OctetStream,
	})
}

// Download fetches the export addressed by downloadToken. Only 200 is accepted.
func (s *Client) Download(ctx context.Context, accessToken, downloadToken string) ([]byte, error) {
	if downloadToken == "" {
		return nil, fmt.Errorf("download token is required")
	}
	target := DownloadPath + "?token=" + url.QueryEscape(downloadToken)
	req, err := s.api.NewRequest(ctx, http.MethodGet, target, accessToken, nil)
	if err != nil {
		return nil, err
	}
	data, err := s.api.DoRaw(req, api.ValidateOptions{
		Context:        "Download file",
		ExpectedStatus: []int{http.StatusOK},
	})
	if err != nil {
		return nil, err
	}
	zap.L().Debug("Downloaded file", zap.Int("bytes", len(data)))
	return data, nil
}

// DownloadTable fetches a Parquet export and decodes it as an Arrow table.
// The caller owns the returned table and must Release it.
func (s *Client) DownloadTable(ctx context.Context, accessToken, downloadToken string) (arrow.Table, error) {
	data, err := s.Download(ctx, accessToken, downloadToken)
	if err != nil {
		return nil, err
	}
	return ReadParquet(ctx, data)
}

func escapeQuotes(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '"' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
