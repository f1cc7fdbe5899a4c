package insight

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("operator", func(fl validator.FieldLevel) bool {
		return slices.Contains(Operators, fl.Field().String())
	})
	return v
}

// Builder assembles an insight Body. Setters record validation errors
// instead of failing immediately; Build returns them joined.
type Builder struct {
	body   Body
	legacy bool
	errs   []error
}

// New returns a builder for the current query format (query version 4,
// builder version 3, with pivot and SQL variables).
func New() *Builder {
	return &Builder{body: Body{Query: Query{
		Version:   QueryVersion,
		Mode:      ModeQueryBuilder,
		SQLEditor: SQLEditor{Variables: []Variable{}},
		QueryBuilder: QueryBuilder{
			Version:  BuilderVersion,
			Datasets: []Dataset{},
			Select:   []Select{},
			Where:    []Where{},
			OrderBy:  []OrderBy{},
			Pivot:    &Pivot{Columns: []any{}, Rows: []any{}, Values: []any{}},
		},
	}}}
}

// NewLegacy returns a builder for the deprecated format (query version 3,
// builder version 2) without pivot and SQL variables.
//
// Deprecated: use New.
func NewLegacy() *Builder {
	zap.L().Warn("Legacy insight format is deprecated, use insight.New")
	return &Builder{legacy: true, body: Body{Query: Query{
		Version: LegacyQueryVersion,
		Mode:    ModeQueryBuilder,
		QueryBuilder: QueryBuilder{
			Version:  LegacyBuilderVersion,
			Datasets: []Dataset{},
			Select:   []Select{},
			Where:    []Where{},
			OrderBy:  []OrderBy{},
		},
	}}}
}

func (b *Builder) fail(format string, args ...any) *Builder {
	b.errs = append(b.errs, fmt.Errorf(format, args...))
	return b
}

// SolutionID sets the solution the insight belongs to.
func (b *Builder) SolutionID(id string) *Builder {
	b.body.SolutionID = id
	return b
}

// Name sets the insight name.
func (b *Builder) Name(name string) *Builder {
	b.body.Name = name
	return b
}

// Slug sets the insight slug.
func (b *Builder) Slug(slug string) *Builder {
	b.body.Slug = slug
	return b
}

// Description sets the insight description.
func (b *Builder) Description(desc string) *Builder {
	b.body.Description = desc
	return b
}

// Mode selects ModeQueryBuilder or ModeSQLEditor.
func (b *Builder) Mode(mode string) *Builder {
	if mode != ModeQueryBuilder && mode != ModeSQLEditor {
		return b.fail("invalid mode %q: valid modes are %s, %s", mode, ModeQueryBuilder, ModeSQLEditor)
	}
	b.body.Query.Mode = mode
	return b
}

// AddDataset adds a dataset joined with joinType ("inner" when empty) on
// the given conditions.
func (b *Builder) AddDataset(datasetID, joinType string, on ...any) *Builder {
	if datasetID == "" {
		return b.fail("dataset id is required")
	}
	if joinType == "" {
		joinType = "inner"
	}
	if on == nil {
		on = []any{}
	}
	qb := &b.body.Query.QueryBuilder
	qb.Datasets = append(qb.Datasets, Dataset{DatasetID: datasetID, Join: Join{Type: joinType, On: on}})
	return b
}

func (b *Builder) defaultDataset(id string) string {
	if id != "" {
		return id
	}
	if ds := b.body.Query.QueryBuilder.Datasets; len(ds) > 0 {
		return ds[0].DatasetID
	}
	return ""
}

// AddSelect adds an output column. Empty ID gets a random UUID, empty
// DatasetID the first dataset and empty Label the column id.
func (b *Builder) AddSelect(sel Select) *Builder {
	if err := validate.Struct(sel); err != nil {
		return b.fail("invalid select: %w", err)
	}
	if sel.ID == "" {
		sel.ID = uuid.NewString()
	}
	sel.DatasetID = b.defaultDataset(sel.DatasetID)
	if sel.Label == "" {
		sel.Label = sel.ColumnID
	}
	qb := &b.body.Query.QueryBuilder
	qb.Select = append(qb.Select, sel)
	return b
}

// AddSelects adds several output columns.
func (b *Builder) AddSelects(sels ...Select) *Builder {
	for _, s := range sels {
		b.AddSelect(s)
	}
	return b
}

// Selects returns the output columns added so far with defaults filled in.
// Chart setters take these values.
func (b *Builder) Selects() []Select {
	return slices.Clone(b.body.Query.QueryBuilder.Select)
}

// SelectByColumn returns the first output column for columnID.
func (b *Builder) SelectByColumn(columnID string) (Select, bool) {
	for _, s := range b.body.Query.QueryBuilder.Select {
		if s.ColumnID == columnID {
			return s, true
		}
	}
	return Select{}, false
}

// AddFilter adds a filter condition. The operator must be one of Operators.
func (b *Builder) AddFilter(f Filter) *Builder {
	if err := validate.Struct(f); err != nil {
		return b.fail("invalid filter on %q (operator %q): valid operators are %s",
			f.ColumnID, f.Operator, strings.Join(Operators, ", "))
	}
	qb := &b.body.Query.QueryBuilder
	qb.Where = append(qb.Where, Where{
		ID:       uuid.NewString(),
		Column:   ColumnRef{DatasetID: b.defaultDataset(f.DatasetID), ColumnID: f.ColumnID},
		Operator: f.Operator,
		Value:    f.Value,
	})
	return b
}

// AddFilters adds several filter conditions.
func (b *Builder) AddFilters(fs ...Filter) *Builder {
	for _, f := range fs {
		b.AddFilter(f)
	}
	return b
}

// AddOrderBy adds a sort key.
func (b *Builder) AddOrderBy(o Order) *Builder {
	if err := validate.Struct(o); err != nil {
		return b.fail("invalid order by %q: %w", o.ColumnID, err)
	}
	if o.Direction == "" {
		o.Direction = "asc"
	}
	var agg *string
	if o.Aggregate != "" {
		agg = Agg(o.Aggregate)
	}
	qb := &b.body.Query.QueryBuilder
	qb.OrderBy = append(qb.OrderBy, OrderBy{
		ID:        uuid.NewString(),
		Column:    ColumnRef{DatasetID: b.defaultDataset(o.DatasetID), ColumnID: o.ColumnID, Aggregate: agg},
		Direction: o.Direction,
	})
	return b
}

// Limit caps the number of result rows.
func (b *Builder) Limit(n int) *Builder {
	if n < 0 {
		return b.fail("limit must be a non-negative integer, got %d", n)
	}
	b.body.Query.QueryBuilder.Limit = &n
	return b
}

// Pivot sets the pivot configuration.
func (b *Builder) Pivot(p Pivot) *Builder {
	if b.legacy {
		return b.fail("pivot is not supported by the legacy query format")
	}
	for _, s := range []*[]any{&p.Columns, &p.Rows, &p.Values} {
		if *s == nil {
			*s = []any{}
		}
	}
	b.body.Query.QueryBuilder.Pivot = &p
	return b
}

// SQL sets the SQL editor query string.
func (b *Builder) SQL(sql string) *Builder {
	b.body.Query.SQLEditor.SQLString = sql
	return b
}

// AddSQLVariable adds a SQL variable. Empty fields default to an always
// required text dropdown with single selection and custom values.
func (b *Builder) AddSQLVariable(v Variable) *Builder {
	if b.legacy {
		return b.fail("SQL variables are not supported by the legacy query format")
	}
	if err := validate.Struct(v); err != nil {
		return b.fail("invalid SQL variable: %w", err)
	}
	if v.Type == "" {
		v.Type = "text"
	}
	if v.InputOption == "" {
		v.InputOption = "dropdown"
	}
	if v.DropdownOption == "" {
		v.DropdownOption = "single"
	}
	if v.AvailableValuesSource == "" {
		v.AvailableValuesSource = "custom"
	}
	if v.AlwaysRequired == nil {
		required := true
		v.AlwaysRequired = &required
	}
	ed := &b.body.Query.SQLEditor
	ed.Variables = append(ed.Variables, v)
	return b
}

// Config replaces the visualization config.
func (b *Builder) Config(cfg map[string]any) *Builder {
	b.body.Config = cfg
	return b
}

// Build returns the assembled body, or the joined errors recorded by setters.
func (b *Builder) Build() (Body, error) {
	if err := errors.Join(b.errs...); err != nil {
		return Body{}, err
	}
	return b.body, nil
}
