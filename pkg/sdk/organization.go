package sdk

import (
	"context"

	"github.com/polyteia-connect/polyteia-sdk-go/pkg/api"
	"github.com/polyteia-connect/polyteia-sdk-go/pkg/model"
)

// GetOrganization returns the organization object.
func (c *Client) GetOrganization(ctx context.Context, orgID string) (map[string]any, error) {
	doc, err := c.query(ctx, "Get organization", "get_organization",
		map[string]any{"id": orgID}, "data")
	if err != nil {
		return nil, err
	}
	return doc.Map("data")
}

// CreateOrganization creates an organization with ten seats and returns its id.
func (c *Client) CreateOrganization(ctx context.Context, name, description, slug string) (string, error) {
	if err := required("name", name, "slug", slug); err != nil {
		return "", err
	}
	doc, err := c.command(ctx, "Create organization", "create_organization", map[string]any{
		"name":        name,
		"description": description,
		"slug":        slug,
		"settings":    map[string]any{"seats": 10},
		"attributes":  map[string]any{"key": "value"},
	}, "data.id")
	if err != nil {
		return "", err
	}
	return doc.String("data.id")
}

// DeleteOrganization deletes an organization. The platform only accepts this
// for organizations without resources and users.
func (c *Client) DeleteOrganization(ctx context.Context, orgID string) error {
	_, err := c.command(ctx, "Delete organization", "delete_organization", map[string]any{"id": orgID})
	return err
}

// InviteUserToOrganization invites email to orgID with role.
func (c *Client) InviteUserToOrganization(ctx context.Context, orgID, email, role string) (api.Document, error) {
	if err := required("email", email, "role", role); err != nil {
		return api.Document{}, err
	}
	return c.command(ctx, "Invite user to organization", "invite_user_to_organization", map[string]any{
		"id":      orgID,
		"email":   email,
		"role":    role,
		"message": model.DefaultInviteMessage,
	})
}

// ListOrganizationMembers returns one page of organization members.
func (c *Client) ListOrganizationMembers(ctx context.Context, orgID string, opts model.ListOptions) (api.Document, error) {
	opts = opts.WithDefaults()
	params := map[string]any{
		"id":     orgID,
		"page":   opts.Page,
		"size":   opts.Size,
		"search": opts.Search,
		"order":  []any{},
	}
	if len(opts.Filters) > 0 {
		params["filters"] = opts.Filters
	}
	return c.query(ctx, "List org members", "list_organization_members", params)
}

// GetOrganizationMember returns the membership of userID in orgID.
func (c *Client) GetOrganizationMember(ctx context.Context, orgID, userID string) (api.Document, error) {
	return c.query(ctx, "Get org user by user id", "get_organization_member", map[string]any{
		"id":      orgID,
		"user_id": userID,
	})
}
