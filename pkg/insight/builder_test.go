package insight

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Defaults(t *testing.T) {
	body, err := New().
		SolutionID("sol-1").
		Name("KPI-1 - Population").
		AddDataset("ds-1", "").
		AddSelect(Select{ColumnID: "city"}).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "sol-1", body.SolutionID)
	assert.Equal(t, QueryVersion, body.Query.Version)
	assert.Equal(t, BuilderVersion, body.Query.QueryBuilder.Version)
	assert.Equal(t, ModeQueryBuilder, body.Query.Mode)

	require.Len(t, body.Query.QueryBuilder.Datasets, 1)
	assert.Equal(t, Join{Type: "inner", On: []any{}}, body.Query.QueryBuilder.Datasets[0].Join)

	sel := body.Query.QueryBuilder.Select[0]
	assert.Equal(t, "ds-1", sel.DatasetID)
	assert.Equal(t, "city", sel.Label)
	assert.Nil(t, sel.Aggregate)
	_, err = uuid.Parse(sel.ID)
	assert.NoError(t, err)

	assert.NotNil(t, body.Query.QueryBuilder.Pivot)
	assert.Nil(t, body.Query.QueryBuilder.Limit)
}

func TestBuilder_JSONShape(t *testing.T) {
	body, err := New().AddDataset("ds-1", "").Build()
	require.NoError(t, err)

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	query := m["query"].(map[string]any)
	qb := query["queryBuilder"].(map[string]any)
	assert.Equal(t, []any{}, qb["where"])
	assert.Equal(t, []any{}, qb["orderBy"])
	assert.Nil(t, qb["limit"])
	assert.Contains(t, qb, "pivot")
	assert.Equal(t, []any{}, query["sqlEditor"].(map[string]any)["variables"])
}

func TestBuilder_Legacy(t *testing.T) {
	b := NewLegacy().AddDataset("ds-1", "").SQL("SELECT 1")
	body, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, LegacyQueryVersion, body.Query.Version)
	assert.Equal(t, LegacyBuilderVersion, body.Query.QueryBuilder.Version)

	raw, err := json.Marshal(body)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	query := m["query"].(map[string]any)
	assert.NotContains(t, query["queryBuilder"], "pivot")
	assert.Equal(t, map[string]any{"sqlString": "SELECT 1"}, query["sqlEditor"])

	_, err = NewLegacy().Pivot(Pivot{Enabled: true}).Build()
	assert.Error(t, err)
	_, err = NewLegacy().AddSQLVariable(Variable{ID: "v", Name: "v"}).Build()
	assert.Error(t, err)
}

func TestBuilder_Filters(t *testing.T) {
	body, err := New().
		AddDataset("ds-1", "").
		AddFilter(Filter{ColumnID: "year", Operator: "equals", Value: 2024}).
		AddFilter(Filter{ColumnID: "city", Operator: "is_null", DatasetID: "ds-2"}).
		Build()
	require.NoError(t, err)

	where := body.Query.QueryBuilder.Where
	require.Len(t, where, 2)
	assert.Equal(t, ColumnRef{DatasetID: "ds-1", ColumnID: "year"}, where[0].Column)
	assert.Equal(t, 2024, where[0].Value)
	assert.Equal(t, "ds-2", where[1].Column.DatasetID)
	assert.NotEqual(t, where[0].ID, where[1].ID)
}

func TestBuilder_Errors(t *testing.T) {
	tests := []struct {
		name string
		b    *Builder
		want string
	}{
		{"unknown operator", New().AddFilter(Filter{ColumnID: "a", Operator: "between"}), "between"},
		{"negative limit", New().Limit(-1), "non-negative"},
		{"bad mode", New().Mode("graph"), "invalid mode"},
		{"bad direction", New().AddOrderBy(Order{ColumnID: "a", Direction: "up"}), "invalid order by"},
		{"missing column", New().AddSelect(Select{}), "invalid select"},
		{"empty dataset", New().AddDataset("", ""), "dataset id"},
		{"bad layer", New().MapChart(MapChart{LayerType: "heat"}), "layer type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.b.Build()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBuilder_ErrorsAreJoined(t *testing.T) {
	_, err := New().Limit(-5).Mode("x").Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit")
	assert.Contains(t, err.Error(), "mode")
}

func TestBuilder_OrderAndLimit(t *testing.T) {
	body, err := New().
		AddDataset("ds-1", "").
		AddOrderBy(Order{ColumnID: "pop", Aggregate: "sum"}).
		Limit(0).
		Build()
	require.NoError(t, err)

	ob := body.Query.QueryBuilder.OrderBy[0]
	assert.Equal(t, "asc", ob.Direction)
	require.NotNil(t, ob.Column.Aggregate)
	assert.Equal(t, "sum", *ob.Column.Aggregate)
	require.NotNil(t, body.Query.QueryBuilder.Limit)
	assert.Equal(t, 0, *body.Query.QueryBuilder.Limit)
}

func TestBuilder_SQLVariable(t *testing.T) {
	no := false
	body, err := New().
		Mode(ModeSQLEditor).
		SQL("SELECT * FROM t WHERE year = {{year}}").
		AddSQLVariable(Variable{ID: "v1", Name: "year", Label: "Year"}).
		AddSQLVariable(Variable{ID: "v2", Name: "city", Type: "number", AlwaysRequired: &no}).
		Build()
	require.NoError(t, err)

	vars := body.Query.SQLEditor.Variables
	require.Len(t, vars, 2)
	assert.Equal(t, "text", vars[0].Type)
	assert.Equal(t, "dropdown", vars[0].InputOption)
	assert.Equal(t, "single", vars[0].DropdownOption)
	assert.Equal(t, "custom", vars[0].AvailableValuesSource)
	assert.True(t, *vars[0].AlwaysRequired)
	assert.Equal(t, "number", vars[1].Type)
	assert.False(t, *vars[1].AlwaysRequired)
}

func TestBuilder_SelectByColumn(t *testing.T) {
	b := New().AddDataset("ds-1", "").
		AddSelects(Select{ColumnID: "a", Label: "A"}, Select{ColumnID: "b"})

	a, ok := b.SelectByColumn("a")
	require.True(t, ok)
	assert.Equal(t, "A", a.Label)
	_, ok = b.SelectByColumn("c")
	assert.False(t, ok)
	assert.Len(t, b.Selects(), 2)
}
