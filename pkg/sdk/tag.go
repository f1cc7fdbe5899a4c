package sdk

import (
	"context"

	"github.com/polyteia-connect/polyteia-sdk-go/pkg/api"
	"github.com/polyteia-connect/polyteia-sdk-go/pkg/model"
)

// CreateTag creates a tag in orgID and returns its id. An empty color means
// model.DefaultTagColor.
func (c *Client) CreateTag(ctx context.Context, orgID, name, description, color string) (string, error) {
	if err := required("organization id", orgID, "name", name); err != nil {
		return "", err
	}
	if color == "" {
		color = model.DefaultTagColor
	}
	doc, err := c.command(ctx, "Create tag", "create_tag", map[string]any{
		"organization_id": orgID,
		"name":            name,
		"description":     description,
		"color":           color,
	}, "data.id")
	if err != nil {
		return "", err
	}
	return doc.String("data.id")
}

// SearchTags returns the tags of orgID matching search on the given page.
func (c *Client) SearchTags(ctx context.Context, orgID, search string, page, size int) ([]any, error) {
	opts := model.ListOptions{Page: page, Size: size, Search: search}.WithDefaults()
	doc, err := c.query(ctx, "Search tags", "list_tags", map[string]any{
		"organization_id": orgID,
		"search":          opts.Search,
		"page":            opts.Page,
		"size":            opts.Size,
	}, "data.items")
	if err != nil {
		return nil, err
	}
	return doc.Slice("data.items")
}

// ListTags returns one page of the tags in orgID.
func (c *Client) ListTags(ctx context.Context, orgID string, opts model.ListOptions) (api.Document, error) {
	opts = opts.WithDefaults()
	return c.query(ctx, "List tags", "list_tags", map[string]any{
		"organization_id": orgID,
		"page":            opts.Page,
		"size":            opts.Size,
		"search":          opts.Search,
	})
}

// ListAllTags walks every page of ListTags and returns all items.
func (c *Client) ListAllTags(ctx context.Context, orgID string) ([]any, error) {
	return c.allPages(ctx, "List tags", func(ctx context.Context, page, size int) (api.Document, error) {
		return c.ListTags(ctx, orgID, model.ListOptions{Page: page, Size: size})
	})
}

// AddTagToResource attaches tagID to resourceID.
func (c *Client) AddTagToResource(ctx context.Context, tagID, resourceID string) error {
	_, err := c.command(ctx, "Add tag to resource", "add_tag_to_resource", map[string]any{
		"tag_id":      tagID,
		"resource_id": resourceID,
	})
	return err
}

// DeleteTag deletes a tag.
func (c *Client) DeleteTag(ctx context.Context, tagID string) error {
	_, err := c.command(ctx, "Delete tag", "delete_tag", map[string]any{"id": tagID})
	return err
}
