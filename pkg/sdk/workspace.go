package sdk

import (
	"context"

	"github.com/polyteia-connect/polyteia-sdk-go/pkg/api"
	"github.com/polyteia-connect/polyteia-sdk-go/pkg/model"
)

// CreateWorkspace creates a workspace in orgID and returns its id.
func (c *Client) CreateWorkspace(ctx context.Context, orgID, name, description string) (string, error) {
	if err := required("organization id", orgID, "name", name); err != nil {
		return "", err
	}
	doc, err := c.command(ctx, "Create workspace", "create_workspace", map[string]any{
		"organization_id": orgID,
		"name":            name,
		"description":     description,
		"settings":        map[string]any{"seats": 10},
	}, "data.id")
	if err != nil {
		return "", err
	}
	return doc.String("data.id")
}

// DeleteWorkspace deletes a workspace.
func (c *Client) DeleteWorkspace(ctx context.Context, workspaceID string) error {
	_, err := c.command(ctx, "Delete workspace", "delete_workspace", map[string]any{"id": workspaceID})
	return err
}

// ListWorkspaces returns one page of the workspaces in orgID.
func (c *Client) ListWorkspaces(ctx context.Context, orgID string, opts model.ListOptions) (api.Document, error) {
	opts = opts.WithDefaults()
	return c.query(ctx, "List workspaces", "list_workspaces", map[string]any{
		"organization_id": orgID,
		"page":            opts.Page,
		"size":            opts.Size,
		"search":          opts.Search,
	})
}

// AddUserToWorkspace makes userID a member of workspaceID. An empty role
// means admin.
func (c *Client) AddUserToWorkspace(ctx context.Context, workspaceID, userID, role string) error {
	if role == "" {
		role = model.RoleAdmin
	}
	_, err := c.command(ctx, "Add user to workspace", "add_workspace_member", map[string]any{
		"id":      workspaceID,
		"user_id": userID,
		"role":    role,
	})
	return err
}

// AddGroupToWorkspace grants role on workspaceID to groupID.
func (c *Client) AddGroupToWorkspace(ctx context.Context, workspaceID, groupID, role string) error {
	return c.bulkRoleUpdate(ctx, "Add group to workspace", model.Grant(workspaceID, groupID, role))
}

func (c *Client) bulkRoleUpdate(ctx context.Context, label string, update model.BulkRoleUpdate) error {
	if err := c.check(update); err != nil {
		return err
	}
	_, err := c.command(ctx, label, "bulk_role_update", update)
	return err
}
