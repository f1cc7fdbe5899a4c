package sdk

import (
	"context"
	"net/http"
	"testing"

	"github.com/polyteia-connect/polyteia-sdk-go/internal/testutil/fakeapi"
	"github.com/polyteia-connect/polyteia-sdk-go/pkg/api"
	"github.com/polyteia-connect/polyteia-sdk-go/pkg/insight"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insightNames(names map[string]string) fakeapi.Handler {
	return func(params map[string]any) (int, any) {
		id, _ := params["id"].(string)
		name, ok := names[id]
		if !ok {
			return http.StatusNotFound, map[string]any{"error": "not found"}
		}
		return http.StatusOK, fakeapi.Data(map[string]any{"id": id, "name": name})
	}
}

func TestCreateAndUpdateInsight(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()
	srv.Reply("create_insight", fakeapi.ID("ins-1"))
	srv.Reply("update_insight", map[string]any{})
	srv.Reply("delete_insight", map[string]any{})

	body := map[string]any{"name": "K1 - Population", "solution_id": "sol-1"}
	doc, err := c.CreateInsight(ctx, body)
	require.NoError(t, err)
	id, _ := doc.String("data.id")
	assert.Equal(t, "ins-1", id)

	require.NoError(t, c.UpdateInsight(ctx, "ins-1", body))
	params := srv.CallsTo("update_insight")[0].Params
	assert.Equal(t, "ins-1", params["id"])
	assert.Equal(t, "K1 - Population", params["name"])
	assert.NotContains(t, body, "id", "caller body must not be mutated")

	require.NoError(t, c.DeleteInsight(ctx, "ins-1"))
}

func TestCreateInsight_StructBody(t *testing.T) {
	c, srv := newTestClient(t)
	srv.Reply("create_insight", fakeapi.ID("ins-1"))

	body := struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}{Name: "n", Slug: "s"}
	_, err := c.CreateInsight(context.Background(), body)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "n", "slug": "s"}, srv.CallsTo("create_insight")[0].Params)

	_, err = c.CreateInsight(context.Background(), []string{"not", "an", "object"})
	require.Error(t, err)
}

func TestCreateInsight_BuiltBody(t *testing.T) {
	c, srv := newTestClient(t)
	srv.Reply("create_insight", fakeapi.ID("ins-1"))

	body, err := insight.New().
		SolutionID("sol-1").
		Name("K9 - Inhabitants").
		AddDataset("ds-1", "").
		AddSelect(insight.Select{ColumnID: "inhabitants", Aggregate: insight.Agg("sum")}).
		Build()
	require.NoError(t, err)

	_, err = c.CreateInsight(context.Background(), body)
	require.NoError(t, err)

	params := srv.CallsTo("create_insight")[0].Params
	assert.Equal(t, "sol-1", params["solution_id"])
	query := params["query"].(map[string]any)
	assert.Equal(t, float64(insight.QueryVersion), query["version"])
	sel := query["queryBuilder"].(map[string]any)["select"].([]any)[0].(map[string]any)
	assert.Equal(t, "ds-1", sel["datasetId"])
	assert.Equal(t, "sum", sel["aggregate"])
}

func TestGetInsightBySlug(t *testing.T) {
	c, srv := newTestClient(t)
	srv.Reply("get_insight", fakeapi.ID("ins-1"))

	_, err := c.GetInsightBySlug(context.Background(), "sol-1", "kpi")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"solution_id": "sol-1", "slug": "kpi"}, srv.CallsTo("get_insight")[0].Params)
}

func TestFindInsightByKPIID(t *testing.T) {
	c, srv := newTestClient(t)
	srv.Reply("list_resources", fakeapi.Page([]any{"a", "b", "c"}, 1, 3))
	srv.Handle("get_insight", insightNames(map[string]string{
		"a": "K10 - Other",
		"b": "K1 - Population",
		"c": "K1 - Duplicate",
	}))

	doc, err := c.FindInsightByKPIID(context.Background(), "K1", "sol-1")
	require.NoError(t, err)
	id, _ := doc.String("data.id")
	assert.Equal(t, "b", id)
	assert.Len(t, srv.CallsTo("get_insight"), 2)

	list := srv.CallsTo("list_resources")[0].Params
	assert.Equal(t, "insight", list["resource_type"])
	assert.Equal(t, "can_edit", list["permission"])

	_, err = c.FindInsightByKPIID(context.Background(), "K99", "sol-1")
	assert.ErrorIs(t, err, ErrInsightNotFound)
}

func TestFindInsightByKPIID_UnnamedInsight(t *testing.T) {
	c, srv := newTestClient(t)
	srv.Reply("list_resources", fakeapi.Page([]any{"a"}, 1, 1))
	srv.Reply("get_insight", fakeapi.Data(map[string]any{"id": "a"}))

	_, err := c.FindInsightByKPIID(context.Background(), "K1", "sol-1")
	require.ErrorIs(t, err, ErrInsightUnnamed)
	assert.ErrorIs(t, err, api.ErrMissingKey)

	_, err = c.CreateOrUpdateInsight(context.Background(), map[string]any{"name": "K1 - x"}, "sol-1", "K1")
	require.ErrorIs(t, err, ErrInsightUnnamed)
	assert.Empty(t, srv.CallsTo("create_insight"))
}

func TestCreateOrUpdateInsight_Updates(t *testing.T) {
	c, srv := newTestClient(t)
	srv.Reply("list_resources", fakeapi.Page([]any{"b"}, 1, 1))
	srv.Handle("get_insight", insightNames(map[string]string{"b": "K1 - Population"}))
	srv.Reply("update_insight", map[string]any{})

	id, err := c.CreateOrUpdateInsight(context.Background(), map[string]any{"name": "K1 - Population v2"}, "sol-1", "K1")
	require.NoError(t, err)
	assert.Equal(t, "b", id)
	assert.Len(t, srv.CallsTo("update_insight"), 1)
	assert.Empty(t, srv.CallsTo("create_insight"))
}

func TestCreateOrUpdateInsight_Creates(t *testing.T) {
	c, srv := newTestClient(t)
	srv.Reply("list_resources", fakeapi.Page(nil, 1, 0))
	srv.Reply("create_insight", fakeapi.ID("new"))

	id, err := c.CreateOrUpdateInsight(context.Background(), map[string]any{"name": "K2 - Budget"}, "sol-1", "K2")
	require.NoError(t, err)
	assert.Equal(t, "new", id)
	assert.Empty(t, srv.CallsTo("update_insight"))
}

func TestCreateOrUpdateInsight_UpdateFailurePropagates(t *testing.T) {
	c, srv := newTestClient(t)
	srv.Reply("list_resources", fakeapi.Page([]any{"b"}, 1, 1))
	srv.Handle("get_insight", insightNames(map[string]string{"b": "K1 - Population"}))
	srv.Fail("update_insight", http.StatusConflict)

	_, err := c.CreateOrUpdateInsight(context.Background(), map[string]any{"name": "K1"}, "sol-1", "K1")
	require.Error(t, err)
	assert.Empty(t, srv.CallsTo("create_insight"))
}
