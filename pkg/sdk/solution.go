package sdk

import (
	"context"

	"github.com/polyteia-connect/polyteia-sdk-go/pkg/api"
	"github.com/polyteia-connect/polyteia-sdk-go/pkg/model"
)

// CreateSolution creates a solution in workspaceID and returns its id.
func (c *Client) CreateSolution(ctx context.Context, workspaceID, name, description string) (string, error) {
	if err := required("workspace id", workspaceID, "name", name); err != nil {
		return "", err
	}
	doc, err := c.command(ctx, "Create solution", "create_solution", map[string]any{
		"workspace_id": workspaceID,
		"name":         name,
		"description":  description,
	}, "data.id")
	if err != nil {
		return "", err
	}
	return doc.String("data.id")
}

// GetSolution returns the solution object.
func (c *Client) GetSolution(ctx context.Context, solutionID string) (map[string]any, error) {
	doc, err := c.query(ctx, "Get solution", "get_solution", map[string]any{"id": solutionID}, "data")
	if err != nil {
		return nil, err
	}
	return doc.Map("data")
}

// UpdateSolutionDocumentation replaces the documentation of a solution and
// keeps its current name and description.
func (c *Client) UpdateSolutionDocumentation(ctx context.Context, solutionID string, documentation map[string]any) (api.Document, error) {
	current, err := c.GetSolution(ctx, solutionID)
	if err != nil {
		return api.Document{}, err
	}
	return c.command(ctx, "Update solution", "update_solution", map[string]any{
		"id":            solutionID,
		"name":          current["name"],
		"description":   current["description"],
		"documentation": documentation,
	})
}

// DeleteSolution deletes a solution.
func (c *Client) DeleteSolution(ctx context.Context, solutionID string) error {
	_, err := c.command(ctx, "Delete solution", "delete_solution", map[string]any{"id": solutionID})
	return err
}

// ListSolutions returns one page of the solutions in orgID.
func (c *Client) ListSolutions(ctx context.Context, orgID string, opts model.ListOptions) (api.Document, error) {
	opts = opts.WithDefaults()
	return c.query(ctx, "List solutions", "list_solutions", map[string]any{
		"organization_id": orgID,
		"page":            opts.Page,
		"size":            opts.Size,
		"search":          opts.Search,
	})
}

// AddUserToSolution makes userID a member of solutionID. An empty role
// means admin.
func (c *Client) AddUserToSolution(ctx context.Context, solutionID, userID, role string) error {
	if role == "" {
		role = model.RoleAdmin
	}
	_, err := c.command(ctx, "Add user to solution", "add_solution_member", map[string]any{
		"id":      solutionID,
		"user_id": userID,
		"role":    role,
	})
	return err
}

// AddGroupToSolution grants role on solutionID to groupID.
func (c *Client) AddGroupToSolution(ctx context.Context, solutionID, groupID, role string) error {
	return c.bulkRoleUpdate(ctx, "Add group to solution", model.Grant(solutionID, groupID, role))
}
