package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyteia-connect/polyteia-sdk-go/internal/testutil/fakeapi"
	"github.com/polyteia-connect/polyteia-sdk-go/pkg/config"
	"github.com/polyteia-connect/polyteia-sdk-go/pkg/sdk"
	"github.com/polyteia-connect/polyteia-sdk-go/pkg/storage"
)

// setEnv points the CLI at srv and isolates it from the caller's environment.
func setEnv(t *testing.T, srv *fakeapi.Server, vars map[string]string) {
	t.Helper()
	for _, k := range []string{config.EnvOrgID, config.EnvPAK, config.EnvAccessToken, config.EnvDebug} {
		t.Setenv(k, "")
	}
	t.Setenv(config.EnvAPIURL, srv.URL)
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "missing.env")))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestToken_ExchangesKey(t *testing.T) {
	srv := fakeapi.New(t)
	srv.Route(http.MethodPut, sdk.AuthTokenPath, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer pak-1", r.Header.Get("Authorization"))
		fakeapi.WriteJSON(w, http.StatusOK, map[string]any{"token": "acc-1"})
	})
	setEnv(t, srv, map[string]string{config.EnvPAK: "pak-1"})

	out, err := run(t, "token", "--org", "org-1")
	require.NoError(t, err)
	assert.Equal(t, "acc-1\n", out)
}

func TestToken_NoCredentials(t *testing.T) {
	srv := fakeapi.New(t)
	setEnv(t, srv, nil)

	_, err := run(t, "token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no credentials")
	assert.Empty(t, srv.Calls())
}

func TestTagsList(t *testing.T) {
	srv := fakeapi.New(t)
	srv.Reply("list_tags", fakeapi.Page([]any{
		map[string]any{"id": "t-1", "name": "census", "color": "#1F009D"},
	}, 1, 1))
	setEnv(t, srv, map[string]string{config.EnvAccessToken: "tok", config.EnvOrgID: "org-1"})

	out, err := run(t, "tags", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "census")
	assert.Equal(t, "org-1", srv.CallsTo("list_tags")[0].Params["organization_id"])
}

func TestTagsCreate_RequiresOrganization(t *testing.T) {
	srv := fakeapi.New(t)
	setEnv(t, srv, map[string]string{config.EnvAccessToken: "tok"})

	_, err := run(t, "tags", "create", "census")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "organization id is required")
}

func TestUpload_JSONRows(t *testing.T) {
	srv := fakeapi.New(t)
	srv.Reply("generate_dataset_upload_token", fakeapi.Data(map[string]any{"token": "up-1"}))
	var payload []byte
	srv.Route(http.MethodPost, storage.UploadPath, func(w http.ResponseWriter, r *http.Request) {
		f, _, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		payload, _ = io.ReadAll(f)
		w.WriteHeader(http.StatusOK)
	})
	setEnv(t, srv, map[string]string{config.EnvAccessToken: "tok"})

	path := filepath.Join(t.TempDir(), "rows.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"city":"Bonn","population":336465},{"city":"Köln","population":1084831}]`), 0o600))

	_, err := run(t, "upload", "ds-1", path)
	require.NoError(t, err)

	tbl, err := storage.ReadParquet(context.Background(), payload)
	require.NoError(t, err)
	defer tbl.Release()
	assert.EqualValues(t, 2, tbl.NumRows())
	assert.EqualValues(t, 2, tbl.NumCols())
}

func TestUpload_ParquetFile(t *testing.T) {
	srv := fakeapi.New(t)
	srv.Reply("generate_dataset_upload_token", fakeapi.Data(map[string]any{"token": "up-1"}))
	var payload []byte
	srv.Route(http.MethodPost, storage.UploadPath, func(w http.ResponseWriter, r *http.Request) {
		f, _, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		payload, _ = io.ReadAll(f)
		w.WriteHeader(http.StatusOK)
	})
	setEnv(t, srv, map[string]string{config.EnvAccessToken: "tok"})

	src, err := storage.ToArrow([]map[string]any{{"city": "Bonn"}, {"city": "Köln"}, {"city": "Essen"}})
	require.NoError(t, err)
	raw, err := storage.EncodeParquet(src)
	src.Release()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "cities.parquet")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	_, err = run(t, "upload", "ds-1", path)
	require.NoError(t, err)

	tbl, err := storage.ReadParquet(context.Background(), payload)
	require.NoError(t, err)
	defer tbl.Release()
	assert.EqualValues(t, 3, tbl.NumRows())
}

func TestUpload_UnsupportedFile(t *testing.T) {
	srv := fakeapi.New(t)
	setEnv(t, srv, map[string]string{config.EnvAccessToken: "tok"})

	path := filepath.Join(t.TempDir(), "rows.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0o600))

	_, err := run(t, "upload", "ds-1", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
	assert.Empty(t, srv.Calls())
}

func TestNormalizeJSON(t *testing.T) {
	cols, err := normalizeJSON(map[string]any{"a": []any{1.0, 2.0}})
	require.NoError(t, err)
	assert.Equal(t, map[string][]any{"a": {1.0, 2.0}}, cols)

	_, err = normalizeJSON(map[string]any{"a": 1.0})
	require.Error(t, err)

	_, err = normalizeJSON("rows")
	require.Error(t, err)
}
