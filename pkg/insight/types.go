package insight

// Query and builder versions emitted by New and NewLegacy.
const (
	QueryVersion         = 4
	BuilderVersion       = 3
	LegacyQueryVersion   = 3
	LegacyBuilderVersion = 2
)

// Query modes.
const (
	ModeQueryBuilder = "queryBuilder"
	ModeSQLEditor    = "sqlEditor"
)

// Operators lists the filter operators accepted by the query builder.
var Operators = []string{
	"equals",
	"not_equals",
	"like",
	"not_like",
	"starts_with",
	"ends_with",
	"contains",
	"not_contains",
	"is_null",
	"is_not_null",
	"greater_than",
	"less_than",
	"greater_or_equals",
	"less_or_equals",
	"is_null_or_empty",
	"is_not_null_or_empty",
}

// Body is the params object of create_insight and update_insight.
type Body struct {
	SolutionID  string         `json:"solution_id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Slug        string         `json:"slug"`
	Query       Query          `json:"query"`
	Config      map[string]any `json:"config"`
}

// Query holds both editors; Mode selects the active one.
type Query struct {
	Version      int          `json:"version"`
	Mode         string       `json:"mode"`
	SQLEditor    SQLEditor    `json:"sqlEditor"`
	QueryBuilder QueryBuilder `json:"queryBuilder"`
}

// SQLEditor is the raw SQL side of a query. Variables are omitted by the
// legacy format.
type SQLEditor struct {
	SQLString string     `json:"sqlString"`
	Variables []Variable `json:"variables,omitzero"`
}

// Variable is a user-facing parameter of a SQL query. A nil
// AlwaysRequired is sent as true.
type Variable struct {
	ID                    string  `json:"id" validate:"required"`
	Name                  string  `json:"name" validate:"required"`
	Label                 string  `json:"label"`
	Type                  string  `json:"type"`
	InputOption           string  `json:"inputOption"`
	DropdownOption        string  `json:"dropdownOption"`
	AvailableValuesSource string  `json:"availableValuesSource"`
	CustomValues          string  `json:"customValues"`
	DefaultValue          *string `json:"defaultValue"`
	AlwaysRequired        *bool   `json:"alwaysRequired"`
}

// QueryBuilder is the structured side of a query.
type QueryBuilder struct {
	Version  int       `json:"version"`
	Datasets []Dataset `json:"datasets"`
	Select   []Select  `json:"select"`
	Where    []Where   `json:"where"`
	OrderBy  []OrderBy `json:"orderBy"`
	Pivot    *Pivot    `json:"pivot,omitempty"`
	Limit    *int      `json:"limit"`
}

// Join describes how a dataset joins the previous ones.
type Join struct {
	Type string `json:"type"`
	On   []any  `json:"on"`
}

// Dataset is a dataset taking part in the query.
type Dataset struct {
	DatasetID string `json:"datasetId"`
	Join      Join   `json:"join"`
}

// Select is an output column of the query.
type Select struct {
	ID        string  `json:"id"`
	DatasetID string  `json:"datasetId"`
	ColumnID  string  `json:"columnId" validate:"required"`
	Aggregate *string `json:"aggregate"`
	Label     string  `json:"label"`
}

// ColumnRef addresses a column of a dataset in filters and ordering.
type ColumnRef struct {
	DatasetID string  `json:"datasetId"`
	ColumnID  string  `json:"columnId"`
	Aggregate *string `json:"aggregate"`
}

// Where is a filter condition.
type Where struct {
	ID       string    `json:"id"`
	Column   ColumnRef `json:"column"`
	Operator string    `json:"operator"`
	Value    any       `json:"value"`
}

// OrderBy is a sort key.
type OrderBy struct {
	ID        string    `json:"id"`
	Column    ColumnRef `json:"column"`
	Direction string    `json:"direction"`
}

// Pivot configures pivoting of the query result.
type Pivot struct {
	Enabled bool  `json:"enabled"`
	Columns []any `json:"columns"`
	Rows    []any `json:"rows"`
	Values  []any `json:"values"`
}

// Filter is the input of AddFilter. DatasetID defaults to the first dataset.
type Filter struct {
	ColumnID  string `validate:"required"`
	Operator  string `validate:"required,operator"`
	Value     any
	DatasetID string
}

// Order is the input of AddOrderBy. Direction defaults to "asc".
type Order struct {
	ColumnID  string `validate:"required"`
	DatasetID string
	Aggregate string
	Direction string `validate:"omitempty,oneof=asc desc"`
}

// Agg returns a pointer to an aggregate name for Select.Aggregate.
func Agg(name string) *string {
	return &name
}
