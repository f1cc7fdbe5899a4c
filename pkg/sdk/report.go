package sdk

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"sort"

	"github.com/polyteia-connect/polyteia-sdk-go/pkg/api"
	"github.com/polyteia-connect/polyteia-sdk-go/pkg/model"
	"go.uber.org/zap"
)

// CreateReport creates a report from body, typically built with the report
// package, and then adds every insight listed in metadata.insights to it.
func (c *Client) CreateReport(ctx context.Context, body any) (api.Document, error) {
	params, err := toParams(body)
	if err != nil {
		return api.Document{}, err
	}
	doc, err := c.command(ctx, "Create report", "create_report", params, "data.id")
	if err != nil {
		return api.Document{}, err
	}
	reportID, err := doc.String("data.id")
	if err != nil {
		return api.Document{}, err
	}

	for _, insightID := range metadataInsights(params) {
		if _, err := c.AddInsightToReport(ctx, reportID, insightID); err != nil {
			return api.Document{}, err
		}
	}
	return doc, nil
}

// GetReport returns the full get_resource response for reportID.
func (c *Client) GetReport(ctx context.Context, reportID string) (api.Document, error) {
	return c.query(ctx, "Get report", "get_resource", map[string]any{"id": reportID})
}

// UpdateReport reads the report and sends update_report with its current
// name, description, version, structure and metadata, overridden by fields.
//
// When fields carries a new structure, the insights attached to the report
// are reconciled with the widgets in it: missing insights are added and
// unused ones removed. Reconciliation failures are logged, not returned.
func (c *Client) UpdateReport(ctx context.Context, reportID string, fields map[string]any) (api.Document, error) {
	current, err := c.GetReport(ctx, reportID)
	if err != nil {
		return api.Document{}, err
	}
	data, err := current.Map("data")
	if err != nil {
		return api.Document{}, err
	}
	before := metadataInsights(data)

	params := map[string]any{"id": reportID}
	for _, key := range []string{"name", "description", "version", "structure"} {
		params[key] = data[key]
	}
	if md, ok := data["metadata"]; ok {
		params["metadata"] = md
	}
	maps.Copy(params, fields)

	result, err := c.command(ctx, "Update report", "update_report", params)
	if err != nil {
		return api.Document{}, err
	}

	structure, ok := fields["structure"]
	if !ok {
		return result, nil
	}
	after := ExtractInsightIDs(structure)
	add, remove := diffIDs(before, after)
	for _, id := range add {
		if _, err := c.AddInsightToReport(ctx, reportID, id); err != nil {
			zap.L().Warn("Failed to add insight", zap.String("report_id", reportID), zap.String("insight_id", id), zap.Error(err))
		}
	}
	for _, id := range remove {
		if _, err := c.RemoveInsightFromReport(ctx, reportID, id); err != nil {
			zap.L().Warn("Failed to remove insight", zap.String("report_id", reportID), zap.String("insight_id", id), zap.Error(err))
		}
	}
	return result, nil
}

// DeleteReport deletes a report.
func (c *Client) DeleteReport(ctx context.Context, reportID string) error {
	_, err := c.command(ctx, "Delete report", "delete_report", map[string]any{"id": reportID})
	return err
}

// AddInsightToReport attaches insightID to reportID.
func (c *Client) AddInsightToReport(ctx context.Context, reportID, insightID string) (api.Document, error) {
	return c.command(ctx, "Add insight to report", "add_insight_to_report", map[string]any{
		"insight_id": insightID,
		"report_id":  reportID,
	})
}

// RemoveInsightFromReport detaches insightID from reportID.
func (c *Client) RemoveInsightFromReport(ctx context.Context, reportID, insightID string) (api.Document, error) {
	return c.command(ctx, "Remove insight from report", "remove_insight_from_report", map[string]any{
		"insight_id": insightID,
		"report_id":  reportID,
	})
}

// ShareReportWithGroup grants role on reportID to groupID.
func (c *Client) ShareReportWithGroup(ctx context.Context, reportID, groupID, role string) error {
	return c.bulkRoleUpdate(ctx, "Share report with group", model.Grant(reportID, groupID, role))
}

// GetReportView returns a single report view.
func (c *Client) GetReportView(ctx context.Context, viewID string) (api.Document, error) {
	return c.query(ctx, "Get report view", "get_report_view", map[string]any{"id": viewID})
}

// ListReportViews returns one page of the views created from reportID.
func (c *Client) ListReportViews(ctx context.Context, reportID string, page, size int) (api.Document, error) {
	opts := model.ListOptions{Page: page, Size: size}.WithDefaults()
	return c.query(ctx, "List report views", "list_report_views", map[string]any{
		"report_id": reportID,
		"page":      opts.Page,
		"size":      opts.Size,
	})
}

// ExtractInsightIDs walks a report structure and returns the sorted, unique
// insight ids referenced by widget blocks (type "widget" with
// widgetData.insightId).
// Typed structures are walked through their JSON encoding.
func ExtractInsightIDs(structure any) []string {
	seen := map[string]struct{}{}
	collectInsights(asJSONValue(structure), seen)
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func collectInsights(v any, seen map[string]struct{}) {
	switch node := v.(type) {
	case map[string]any:
		if node["type"] == "widget" {
			if wd, ok := node["widgetData"].(map[string]any); ok {
				if id, ok := wd["insightId"].(string); ok && id != "" {
					seen[id] = struct{}{}
				}
			}
		}
		for _, child := range node {
			collectInsights(child, seen)
		}
	case []any:
		for _, child := range node {
			collectInsights(child, seen)
		}
	case []map[string]any:
		for _, child := range node {
			collectInsights(child, seen)
		}
	}
}

func asJSONValue(v any) any {
	switch v.(type) {
	case nil, map[string]any, []any:
		return v
	}
	b, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return v
	}
	return out
}

// metadataInsights returns metadata.insights of a report body.
func metadataInsights(body map[string]any) []string {
	md, ok := body["metadata"].(map[string]any)
	if !ok {
		return nil
	}
	var out []string
	switch list := md["insights"].(type) {
	case []any:
		for _, v := range list {
			if s, ok := v.(string); ok {
				out = append(out, s)
			} else {
				zap.L().Warn("Ignoring non-string insight id", zap.String("type", fmt.Sprintf("%T", v)))
			}
		}
	case []string:
		out = append(out, list...)
	}
	return out
}

func diffIDs(before, after []string) (add, remove []string) {
	in := func(list []string) map[string]struct{} {
		m := make(map[string]struct{}, len(list))
		for _, s := range list {
			m[s] = struct{}{}
		}
		return m
	}
	b, a := in(before), in(after)
	for _, id := range after {
		if _, ok := b[id]; !ok {
			add = append(add, id)
		}
	}
	for _, id := range before {
		if _, ok := a[id]; !ok {
			remove = append(remove, id)
		}
	}
	sort.Strings(add)
	sort.Strings(remove)
	return add, remove
}
