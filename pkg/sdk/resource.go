package sdk

import (
	"context"
	"fmt"

	"github.com/polyteia-connect/polyteia-sdk-go/pkg/api"
	"github.com/polyteia-connect/polyteia-sdk-go/pkg/model"
	"go.uber.org/zap"
)

// ListResources returns one page of the resources matching filter.
func (c *Client) ListResources(ctx context.Context, filter model.ResourceFilter, page, size int) (api.Document, error) {
	filter = filter.WithDefaults()
	if err := c.check(filter); err != nil {
		return api.Document{}, err
	}
	opts := model.ListOptions{Page: page, Size: size}.WithDefaults()
	return c.query(ctx, "List resources", "list_resources", map[string]any{
		"page":          opts.Page,
		"size":          opts.Size,
		"resource_type": filter.ResourceType,
		"permission":    filter.Permission,
		"filters":       []any{map[string]any{"container_id": filter.ContainerID}},
		"search":        "",
		"tags":          []any{},
	})
}

// ListAllResources walks every page of ListResources and returns all items.
func (c *Client) ListAllResources(ctx context.Context, filter model.ResourceFilter) ([]any, error) {
	return c.allPages(ctx, "List resources", func(ctx context.Context, page, size int) (api.Document, error) {
		return c.ListResources(ctx, filter, page, size)
	})
}

type pageFunc func(ctx context.Context, page, size int) (api.Document, error)

// allPages calls fetch for page 1, 2, ... until page*size reaches the
// reported total. Requests are paced by the client's limiter.
func (c *Client) allPages(ctx context.Context, label string, fetch pageFunc) ([]any, error) {
	size := c.cfg.Pagination.PageSize
	if size <= 0 {
		size = model.DefaultPageSize
	}
	var items []any
	for page := 1; ; page++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		doc, err := fetch(ctx, page, size)
		if err != nil {
			return nil, err
		}
		var p model.Page
		for _, key := range []string{"data.items", "data.page", "data.total"} {
			if !doc.Has(key) {
				return nil, &api.MissingKeyError{Context: label, Path: key, Body: doc.Raw()}
			}
		}
		if err := doc.Decode("data", &p); err != nil {
			return nil, fmt.Errorf("%s: decode page %d: %w", label, page, err)
		}
		items = append(items, p.Items...)
		zap.L().Debug("Fetched page", zap.String("context", label), zap.Int("page", p.Page), zap.Int("total", p.Total))
		if p.Last(size) {
			return items, nil
		}
	}
}
