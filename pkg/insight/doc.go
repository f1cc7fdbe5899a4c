// Package insight builds the params of create_insight and update_insight.
//
// An insight is a saved query over one or more datasets plus a
// visualization config. The Builder fills in generated ids and platform
// defaults so callers only name what differs:
//
//	b := insight.New().
//		SolutionID(solutionID).
//		Name("KPI-7 - Population").
//		AddDataset(datasetID, "").
//		AddSelect(insight.Select{ColumnID: "city"}).
//		AddSelect(insight.Select{ColumnID: "population", Aggregate: insight.Agg("sum")}).
//		AddFilter(insight.Filter{ColumnID: "population", Operator: "greater_than", Value: 1000}).
//		AddOrderBy(insight.Order{ColumnID: "population", Direction: "desc"}).
//		Limit(10)
//
//	city, _ := b.SelectByColumn("city")
//	pop, _ := b.SelectByColumn("population")
//	body, err := b.BarChart(insight.BarChart{XAxis: city, YAxis: pop}).Build()
//
// Setters never fail on their own. Invalid input such as an unknown filter
// operator or a negative limit is recorded and Build returns all recorded
// errors joined.
//
// NewLegacy emits the older query format, which has no pivot and no SQL
// variables. It is kept for insights that still use that format.
package insight
