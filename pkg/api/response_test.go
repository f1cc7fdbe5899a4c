package api

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"testing"
)

const jsonCT = "application/json"

func TestValidateResponse_NonJSONBody(t *testing.T) {
	bodies := []string{"", "<html>oops</html>", "{\"data\":", "{} trailing", "null null"}
	for _, status := range []int{200, 201, 404, 500} {
		for _, body := range bodies {
			_, err := ValidateResponse(status, jsonCT, []byte(body), ValidateOptions{Context: "Create dataset"})
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("status %d body %q: expected *ParseError, got %v", status, body, err)
			}
			if !errors.Is(err, ErrInvalidJSON) {
				t.Fatalf("expected errors.Is ErrInvalidJSON")
			}
			if !strings.Contains(err.Error(), "Create dataset") || !strings.Contains(err.Error(), body) {
				t.Fatalf("message lacks context or body: %q", err.Error())
			}
		}
	}
}

func TestValidateResponse_UnexpectedStatus(t *testing.T) {
	bodies := []string{`{"error":"nope"}`, `[]`, `"text"`, `42`, `null`, `{"data":{"id":"x"}}`}
	for _, body := range bodies {
		_, err := ValidateResponse(http.StatusBadRequest, jsonCT, []byte(body), ValidateOptions{
			Context:      "Delete tag",
			RequiredKeys: []string{"data.id"},
		})
		var se *StatusError
		if !errors.As(err, &se) {
			t.Fatalf("body %q: expected *StatusError, got %v", body, err)
		}
		if se.StatusCode != http.StatusBadRequest {
			t.Fatalf("unexpected status in error: %d", se.StatusCode)
		}
		if !strings.Contains(err.Error(), "HTTP 400") || !strings.Contains(err.Error(), "Delete tag") {
			t.Fatalf("unexpected message: %q", err.Error())
		}
	}
}

func TestValidateResponse_CustomExpectedStatus(t *testing.T) {
	opts := ValidateOptions{ExpectedStatus: []int{http.StatusAccepted}}
	if _, err := ValidateResponse(http.StatusAccepted, jsonCT, []byte(`{}`), opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ValidateResponse(http.StatusOK, jsonCT, []byte(`{}`), opts); !errors.Is(err, ErrUnexpectedStatus) {
		t.Fatalf("expected status error for 200 outside custom set, got %v", err)
	}
}

func TestValidateResponse_MissingKey(t *testing.T) {
	tests := []struct {
		body string
		keys []string
		want string
	}{
		{`{}`, []string{"data"}, "data"},
		{`{"data":{}}`, []string{"data.id"}, "data.id"},
		{`{"data":"flat"}`, []string{"data.id"}, "data.id"},
		{`{"data":null}`, []string{"data.id"}, "data.id"},
		{`{"data":{"id":"1"}}`, []string{"data.id", "data.items"}, "data.items"},
		{`[1,2]`, []string{"token"}, "token"},
	}
	for _, tt := range tests {
		_, err := ValidateResponse(200, jsonCT, []byte(tt.body), ValidateOptions{RequiredKeys: tt.keys})
		var mk *MissingKeyError
		if !errors.As(err, &mk) {
			t.Fatalf("body %s: expected *MissingKeyError, got %v", tt.body, err)
		}
		if mk.Path != tt.want {
			t.Fatalf("body %s: missing path %q, want %q", tt.body, mk.Path, tt.want)
		}
		if !strings.Contains(err.Error(), "'"+tt.want+"'") || !strings.Contains(err.Error(), "API call") {
			t.Fatalf("unexpected message: %q", err.Error())
		}
	}
}

func TestValidateResponse_ReturnsDocumentUnchanged(t *testing.T) {
	body := []byte(`{"data":{"id":"ds-1","total":3,"items":[{"id":"a"},null]},"ok":true}`)
	doc, err := ValidateResponse(201, "application/json; charset=utf-8", body, ValidateOptions{
		RequiredKeys: []string{"data.id", "data.items", "ok"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, err := decodeJSON(body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(doc.Root(), want) {
		t.Fatalf("document changed:\n got %#v\nwant %#v", doc.Root(), want)
	}
	if string(doc.Raw()) != string(body) {
		t.Fatal("raw body not preserved")
	}
}

func TestValidateResponse_KeyOrderIndependent(t *testing.T) {
	body := []byte(`{"data":{"id":"x","token":"t","nested":{"a":{"b":1}}}}`)
	keys := []string{"data.id", "data.token", "data.nested.a.b", "data"}
	perms := [][]string{
		keys,
		{keys[3], keys[2], keys[1], keys[0]},
		{keys[2], keys[0], keys[3], keys[1]},
		append(append([]string{}, keys...), keys...),
	}
	var first Document
	for i, p := range perms {
		doc, err := ValidateResponse(200, jsonCT, body, ValidateOptions{RequiredKeys: p})
		if err != nil {
			t.Fatalf("permutation %d: unexpected error: %v", i, err)
		}
		if i == 0 {
			first = doc
			continue
		}
		if !reflect.DeepEqual(first.Root(), doc.Root()) {
			t.Fatalf("permutation %d produced a different document", i)
		}
	}

	// The outcome of a failing set does not depend on order either.
	for _, p := range [][]string{{"data.id", "data.gone"}, {"data.gone", "data.id"}} {
		_, err := ValidateResponse(200, jsonCT, body, ValidateOptions{RequiredKeys: p})
		var mk *MissingKeyError
		if !errors.As(err, &mk) || mk.Path != "data.gone" {
			t.Fatalf("order %v: expected missing data.gone, got %v", p, err)
		}
	}
}

func TestValidateResponse_AllowNonJSON(t *testing.T) {
	opts := ValidateOptions{Context: "Upload file", ExpectedStatus: []int{200, 201, 204}, AllowNonJSON: true}

	doc, err := ValidateResponse(http.StatusNoContent, "text/plain", nil, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m, ok := doc.Root().(map[string]any); !ok || len(m) != 0 {
		t.Fatalf("expected empty document, got %#v", doc.Root())
	}

	if _, err := ValidateResponse(http.StatusBadGateway, "text/html", []byte("bad gateway"), opts); !errors.Is(err, ErrUnexpectedStatus) {
		t.Fatalf("expected status error, got %v", err)
	}

	// A JSON content type is still parsed strictly.
	if _, err := ValidateResponse(200, jsonCT, []byte("nope"), opts); !errors.Is(err, ErrInvalidJSON) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestDocumentAccessors(t *testing.T) {
	doc, err := ValidateResponse(200, jsonCT, []byte(`{"data":{"id":"x","page":2,"items":["a","b"],"meta":{"k":"v"}}}`), ValidateOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s, err := doc.String("data.id"); err != nil || s != "x" {
		t.Fatalf("String: %q %v", s, err)
	}
	if n, err := doc.Int("data.page"); err != nil || n != 2 {
		t.Fatalf("Int: %d %v", n, err)
	}
	if items, err := doc.Slice("data.items"); err != nil || len(items) != 2 {
		t.Fatalf("Slice: %v %v", items, err)
	}
	if m, err := doc.Map("data.meta"); err != nil || m["k"] != "v" {
		t.Fatalf("Map: %v %v", m, err)
	}
	if _, err := doc.String("data.page"); err == nil {
		t.Fatal("expected type error for String on number")
	}
	if _, err := doc.String("data.absent"); !errors.Is(err, ErrMissingKey) {
		t.Fatalf("expected ErrMissingKey, got %v", err)
	}
	if !doc.Has("data.meta.k") || doc.Has("data.meta.z") {
		t.Fatal("Has returned wrong result")
	}

	var meta struct {
		K string `json:"k"`
	}
	if err := doc.Decode("data.meta", &meta); err != nil || meta.K != "v" {
		t.Fatalf("Decode: %#v %v", meta, err)
	}

	sub, err := doc.Sub("data")
	if err != nil {
		t.Fatalf("Sub: %v", err)
	}
	if s, _ := sub.String("id"); s != "x" {
		t.Fatalf("Sub lookup returned %q", s)
	}
}

func TestIsNotFound(t *testing.T) {
	_, err := ValidateResponse(404, jsonCT, []byte(`{"error":"not found"}`), ValidateOptions{})
	if !IsNotFound(err) {
		t.Fatal("expected IsNotFound")
	}
	if !IsAPIError(err) {
		t.Fatal("expected IsAPIError")
	}
	if IsNotFound(errors.New("boom")) || IsAPIError(errors.New("boom")) {
		t.Fatal("plain error misclassified")
	}
}
