package sdk

import (
	"context"

	"github.com/polyteia-connect/polyteia-sdk-go/pkg/api"
	"github.com/polyteia-connect/polyteia-sdk-go/pkg/model"
)

// CreateGroup creates a user group in orgID and returns its id.
func (c *Client) CreateGroup(ctx context.Context, orgID, name, description string) (string, error) {
	if err := required("organization id", orgID, "name", name); err != nil {
		return "", err
	}
	doc, err := c.command(ctx, "Create group", "create_group", map[string]any{
		"organization_id": orgID,
		"name":            name,
		"description":     description,
	}, "data.id")
	if err != nil {
		return "", err
	}
	return doc.String("data.id")
}

// ListGroups returns the items of one page of the groups in orgID.
func (c *Client) ListGroups(ctx context.Context, orgID string, opts model.ListOptions) ([]any, error) {
	opts = opts.WithDefaults()
	params := map[string]any{
		"organization_id": orgID,
		"page":            opts.Page,
		"size":            opts.Size,
		"search":          opts.Search,
		"order":           []any{},
	}
	if len(opts.Filters) > 0 {
		params["filters"] = opts.Filters
	}
	doc, err := c.query(ctx, "List groups", "list_groups", params, "data.items")
	if err != nil {
		return nil, err
	}
	return doc.Slice("data.items")
}

// DeleteGroup deletes groupID from orgID.
func (c *Client) DeleteGroup(ctx context.Context, orgID, groupID string) error {
	_, err := c.command(ctx, "Delete group", "delete_group", map[string]any{
		"organization_id": orgID,
		"id":              groupID,
	})
	return err
}

// AddUserToGroup grants role in groupID to userID.
func (c *Client) AddUserToGroup(ctx context.Context, groupID, userID, role string) error {
	return c.bulkRoleUpdate(ctx, "Add user to group", model.Grant(groupID, userID, role))
}

// CheckGroup returns the users and groups with access to groupID, narrowed
// by filters when given.
func (c *Client) CheckGroup(ctx context.Context, groupID string, filters map[string]any) (api.Document, error) {
	params := map[string]any{"resource_id": groupID}
	if len(filters) > 0 {
		params["filters"] = filters
	}
	return c.query(ctx, "Check group", "get_users_or_groups_for_resource", params)
}
