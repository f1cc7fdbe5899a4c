package insight

import (
	"strings"

	"github.com/google/uuid"
)

// Chart types written to the config "type" field.
const (
	ChartBigNumber = "big-number"
	ChartBar       = "bar-chart"
	ChartLine      = "line-chart"
	ChartPie       = "pie-chart"
	ChartMap       = "map-chart"
)

// Map layer types.
const (
	LayerChoropleth = "choropleth"
	LayerScatter    = "scatter"
)

// BarChart configures a bar chart. Zero values select the platform defaults.
type BarChart struct {
	XAxis       Select
	YAxis       Select
	Metric      *Select
	GroupType   string // "group" when empty
	Layout      string // "vertical" when empty
	HideLabel   bool
	Title       string
	Subtitle    string
	TicksLayout string // "normal" when empty
}

// LineChart configures a line chart. Zero values select the platform defaults.
type LineChart struct {
	XAxis         Select
	YAxis         Select
	Metric        *Select
	Interpolation string // "linear" when empty
	Stack         string // "none" when empty
	HideLabel     bool
	Title         string
	Subtitle      string
	TicksLayout   string
}

// PieChart configures a pie chart.
type PieChart struct {
	Label      Select
	Measure    Select
	Appearance string // "pie" when empty
	Title      string
	Subtitle   string
}

// MapChart configures a single layer map. Grouping fields apply to scatter
// layers only.
type MapChart struct {
	Geometry              Select
	Label                 *Select
	Value                 *Select
	HideLabel             bool
	Title                 string
	Subtitle              string
	LayerType             string // LayerChoropleth when empty
	LayerTitle            string
	FillStyle             string // "opaque" when empty
	BackgroundMap         string // "osm" when empty
	EnableFeatureGrouping bool
	Group                 *Select
}

func or(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func column(s Select, typ string) map[string]any {
	return map[string]any{
		"id":    s.ID,
		"key":   s.ColumnID,
		"label": s.Label,
		"type":  typ,
	}
}

func optionalColumn(s *Select, typ string) any {
	if s == nil {
		return nil
	}
	return column(*s, typ)
}

// BigNumber shows a single aggregated measure.
func (b *Builder) BigNumber(measure Select, aggregate, title, subtitle string) *Builder {
	return b.Config(map[string]any{
		"type":     ChartBigNumber,
		"title":    title,
		"subtitle": subtitle,
		"measure": map[string]any{
			"column":    column(measure, "number"),
			"aggregate": or(aggregate, "sum"),
		},
		"filters": []any{},
	})
}

// BarChart shows a bar chart.
func (b *Builder) BarChart(c BarChart) *Builder {
	return b.Config(map[string]any{
		"type":         ChartBar,
		"barGroupType": or(c.GroupType, "group"),
		"barLayout":    or(c.Layout, "vertical"),
		"showLabel":    !c.HideLabel,
		"title":        c.Title,
		"subtitle":     c.Subtitle,
		"xAxis": map[string]any{
			"column":      column(c.XAxis, "text"),
			"ticksLayout": or(c.TicksLayout, "normal"),
		},
		"yAxis":   map[string]any{"column": column(c.YAxis, "number")},
		"metric":  map[string]any{"column": optionalColumn(c.Metric, "text")},
		"filters": []any{},
	})
}

// LineChart shows a line chart.
func (b *Builder) LineChart(c LineChart) *Builder {
	return b.Config(map[string]any{
		"type":              ChartLine,
		"lineInterpolation": or(c.Interpolation, "linear"),
		"showLabel":         !c.HideLabel,
		"title":             c.Title,
		"subtitle":          c.Subtitle,
		"stack":             or(c.Stack, "none"),
		"xAxis": map[string]any{
			"column":      column(c.XAxis, "text"),
			"ticksLayout": or(c.TicksLayout, "normal"),
		},
		"yAxis":   map[string]any{"column": column(c.YAxis, "number")},
		"metric":  map[string]any{"column": optionalColumn(c.Metric, "text")},
		"filters": []any{},
	})
}

// PieChart shows a pie or donut chart.
func (b *Builder) PieChart(c PieChart) *Builder {
	return b.Config(map[string]any{
		"type":       ChartPie,
		"appearance": or(c.Appearance, "pie"),
		"title":      c.Title,
		"subtitle":   c.Subtitle,
		"label":      map[string]any{"column": column(c.Label, "text")},
		"measure":    map[string]any{"column": column(c.Measure, "number")},
		"filters":    []any{},
	})
}

// MapChart shows a map with one layer.
func (b *Builder) MapChart(c MapChart) *Builder {
	layerType := or(c.LayerType, LayerChoropleth)
	if layerType != LayerChoropleth && layerType != LayerScatter {
		return b.fail("invalid map layer type %q", layerType)
	}
	layer := map[string]any{
		"type":           layerType,
		"fillStyle":      or(c.FillStyle, "opaque"),
		"id":             strings.ReplaceAll(uuid.NewString(), "-", ""),
		"showLabel":      !c.HideLabel,
		"title":          c.LayerTitle,
		"tooltip":        map[string]any{"fields": nil},
		"geometryColumn": column(c.Geometry, "text"),
	}
	if c.Label != nil {
		layer["labelColumn"] = column(*c.Label, "text")
	}
	if c.Value != nil {
		layer["valueColumn"] = column(*c.Value, "number")
	}
	if layerType == LayerScatter {
		layer["enableFeatureGrouping"] = c.EnableFeatureGrouping
		layer["groupColumn"] = optionalColumn(c.Group, "text")
	}
	return b.Config(map[string]any{
		"type":          ChartMap,
		"title":         c.Title,
		"subtitle":      c.Subtitle,
		"backgroundMap": or(c.BackgroundMap, "osm"),
		"version":       2,
		"layers":        []any{layer},
		"filters":       []any{},
	})
}
