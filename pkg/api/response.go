package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"slices"
	"strings"
)

// DefaultExpectedStatus is the status set accepted when none is given.
var DefaultExpectedStatus = []int{http.StatusOK, http.StatusCreated}

// ValidateOptions describes what a response must look like to be accepted.
type ValidateOptions struct {
	// Context is a human-readable label for the operation, e.g. "Create dataset".
	Context string
	// ExpectedStatus lists acceptable status codes. Empty means DefaultExpectedStatus.
	ExpectedStatus []int
	// RequiredKeys are dot-separated paths that must resolve in the body, e.g. "data.id".
	RequiredKeys []string
	// AllowNonJSON accepts a non-JSON body (by Content-Type) as an empty
	// document when the status is expected. Used by file uploads.
	AllowNonJSON bool
}

func (o ValidateOptions) context() string {
	if o.Context == "" {
		return "API call"
	}
	return o.Context
}

func (o ValidateOptions) expected() []int {
	if len(o.ExpectedStatus) == 0 {
		return DefaultExpectedStatus
	}
	return o.ExpectedStatus
}

// Validate reads and closes resp.Body and validates it with ValidateResponse.
func Validate(resp *http.Response, opts ValidateOptions) (Document, error) {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Document{}, fmt.Errorf("%s: read response body: %w", opts.context(), err)
	}
	return ValidateResponse(resp.StatusCode, resp.Header.Get("Content-Type"), body, opts)
}

// ValidateResponse checks a raw response in three steps: the body must parse
// as JSON, the status must be in the expected set, and every required key
// path must resolve. The first failing step determines the error kind.
func ValidateResponse(status int, contentType string, body []byte, opts ValidateOptions) (Document, error) {
	ctx := opts.context()
	expected := opts.expected()

	if opts.AllowNonJSON && !isJSONContentType(contentType) {
		if !slices.Contains(expected, status) {
			return Document{}, &StatusError{Context: ctx, StatusCode: status, Expected: expected, Body: body}
		}
		return Document{root: map[string]any{}, raw: body}, nil
	}

	root, err := decodeJSON(body)
	if err != nil {
		return Document{}, &ParseError{Context: ctx, Body: body, Err: err}
	}

	if !slices.Contains(expected, status) {
		return Document{}, &StatusError{Context: ctx, StatusCode: status, Expected: expected, Body: body}
	}

	for _, path := range opts.RequiredKeys {
		if _, ok := lookup(root, path); !ok {
			return Document{}, &MissingKeyError{Context: ctx, Path: path, Body: body}
		}
	}

	return Document{root: root, raw: body}, nil
}

func decodeJSON(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty body")
		}
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after JSON value")
	}
	return v, nil
}

func isJSONContentType(ct string) bool {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.Contains(ct, "application/json")
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

// lookup walks a dotted path through nested JSON objects. The empty path
// resolves to the root.
func lookup(v any, path string) (any, bool) {
	if path == "" {
		return v, true
	}
	cur := v
	for _, seg := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = obj[seg]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// Document is a validated JSON response. Numbers are kept as json.Number.
type Document struct {
	root any
	raw  []byte
}

// NewDocument wraps an already decoded value, mostly for tests and callers
// composing documents from several responses.
func NewDocument(v any) Document {
	return Document{root: v}
}

// Root returns the parsed value exactly as decoded.
func (d Document) Root() any { return d.root }

// Raw returns the response body the document was parsed from, if any.
func (d Document) Raw() []byte { return d.raw }

// Has reports whether path resolves.
func (d Document) Has(path string) bool {
	_, ok := lookup(d.root, path)
	return ok
}

// Lookup returns the value at path.
func (d Document) Lookup(path string) (any, bool) {
	return lookup(d.root, path)
}

// Value returns the value at path or an error wrapping ErrMissingKey.
func (d Document) Value(path string) (any, error) {
	v, ok := lookup(d.root, path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingKey, path)
	}
	return v, nil
}

// String returns the string at path.
func (d Document) String(path string) (string, error) {
	v, err := d.Value(path)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("key %s: expected string, got %T", path, v)
	}
	return s, nil
}

// Int returns the integer at path.
func (d Document) Int(path string) (int64, error) {
	v, err := d.Value(path)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case json.Number:
		return n.Int64()
	case float64:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("key %s: expected number, got %T", path, v)
	}
}

// Map returns the object at path.
func (d Document) Map(path string) (map[string]any, error) {
	v, err := d.Value(path)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("key %s: expected object, got %T", path, v)
	}
	return m, nil
}

// Slice returns the array at path.
func (d Document) Slice(path string) ([]any, error) {
	v, err := d.Value(path)
	if err != nil {
		return nil, err
	}
	s, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("key %s: expected array, got %T", path, v)
	}
	return s, nil
}

// Sub returns the document rooted at path.
func (d Document) Sub(path string) (Document, error) {
	v, err := d.Value(path)
	if err != nil {
		return Document{}, err
	}
	return Document{root: v}, nil
}

// Decode re-encodes the value at path into v.
func (d Document) Decode(path string, v any) error {
	sub, err := d.Value(path)
	if err != nil {
		return err
	}
	b, err := json.Marshal(sub)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// MarshalJSON encodes the parsed value.
func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.root)
}
