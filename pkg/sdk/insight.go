package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/polyteia-connect/polyteia-sdk-go/pkg/api"
	"github.com/polyteia-connect/polyteia-sdk-go/pkg/model"
	"go.uber.org/zap"
)

// ErrInsightNotFound is returned by FindInsightByKPIID when no insight name
// carries the KPI id.
var ErrInsightNotFound = errors.New("insight not found")

// ErrInsightUnnamed is returned by FindInsightByKPIID when a scanned insight
// has no string name.
var ErrInsightUnnamed = errors.New("insight has no name")

// kpiSeparator splits a KPI id from the rest of an insight name.
const kpiSeparator = " - "

// CreateInsight creates an insight from body, typically built with the
// insight package, and returns the full response.
func (c *Client) CreateInsight(ctx context.Context, body any) (api.Document, error) {
	params, err := toParams(body)
	if err != nil {
		return api.Document{}, err
	}
	return c.command(ctx, "Create insight", "create_insight", params)
}

// UpdateInsight replaces insightID with body.
func (c *Client) UpdateInsight(ctx context.Context, insightID string, body any) error {
	params, err := toParams(body)
	if err != nil {
		return err
	}
	params["id"] = insightID
	_, err = c.command(ctx, "Update insight", "update_insight", params)
	return err
}

// GetInsight returns the full get_insight response for insightID.
func (c *Client) GetInsight(ctx context.Context, insightID string) (api.Document, error) {
	return c.query(ctx, "Get insight", "get_insight", map[string]any{"id": insightID})
}

// GetInsightBySlug returns the full get_insight response for the insight
// with slug in solutionID.
func (c *Client) GetInsightBySlug(ctx context.Context, solutionID, slug string) (api.Document, error) {
	return c.query(ctx, "Get insight by slug", "get_insight", map[string]any{
		"solution_id": solutionID,
		"slug":        slug,
	})
}

// FindInsightByKPIID scans the editable insights of solutionID and returns
// the first whose name starts with kpiID followed by " - " (or equals it).
func (c *Client) FindInsightByKPIID(ctx context.Context, kpiID, solutionID string) (api.Document, error) {
	items, err := c.ListAllResources(ctx, model.ResourceFilter{
		ContainerID:  solutionID,
		ResourceType: model.ResourceInsight,
		Permission:   model.PermissionCanEdit,
	})
	if err != nil {
		return api.Document{}, err
	}
	ids, err := model.ItemIDs(items)
	if err != nil {
		return api.Document{}, err
	}
	for _, id := range ids {
		doc, err := c.GetInsight(ctx, id)
		if err != nil {
			return api.Document{}, err
		}
		name, err := doc.String("data.name")
		if err != nil {
			return api.Document{}, fmt.Errorf("%w: %s: %w", ErrInsightUnnamed, id, err)
		}
		if prefix, _, _ := strings.Cut(name, kpiSeparator); prefix == kpiID {
			return doc, nil
		}
	}
	return api.Document{}, fmt.Errorf("%w: KPI id %s in solution %s", ErrInsightNotFound, kpiID, solutionID)
}

// CreateOrUpdateInsight updates the insight matching kpiID in solutionID
// with body, or creates it when none matches. It returns the insight id.
func (c *Client) CreateOrUpdateInsight(ctx context.Context, body any, solutionID, kpiID string) (string, error) {
	found, err := c.FindInsightByKPIID(ctx, kpiID, solutionID)
	switch {
	case err == nil:
		id, err := found.String("data.id")
		if err != nil {
			return "", err
		}
		if err := c.UpdateInsight(ctx, id, body); err != nil {
			return "", err
		}
		zap.L().Info("Updated insight", zap.String("kpi_id", kpiID), zap.String("insight_id", id))
		return id, nil
	case errors.Is(err, ErrInsightUnnamed):
		return "", err
	case errors.Is(err, ErrInsightNotFound) || api.IsAPIError(err):
		zap.L().Debug("Insight lookup failed, creating", zap.String("kpi_id", kpiID), zap.Error(err))
	default:
		return "", err
	}

	doc, err := c.CreateInsight(ctx, body)
	if err != nil {
		return "", err
	}
	id, err := doc.String("data.id")
	if err != nil {
		return "", fmt.Errorf("create insight: %w", err)
	}
	zap.L().Info("Created insight", zap.String("kpi_id", kpiID), zap.String("insight_id", id))
	return id, nil
}

// DeleteInsight deletes an insight.
func (c *Client) DeleteInsight(ctx context.Context, insightID string) error {
	_, err := c.command(ctx, "Delete insight", "delete_insight", map[string]any{"id": insightID})
	return err
}

// toParams turns a request body into a fresh params object so callers can
// add fields without touching the caller's value.
func toParams(body any) (map[string]any, error) {
	switch v := body.(type) {
	case nil:
		return nil, fmt.Errorf("request body is required")
	case map[string]any:
		return maps.Clone(v), nil
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	var params map[string]any
	if err := json.Unmarshal(b, &params); err != nil {
		return nil, fmt.Errorf("request body must encode to a JSON object: %w", err)
	}
	return params, nil
}
