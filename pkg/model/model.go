package model

import (
	"fmt"
)

// Resource types understood by list_resources.
const (
	ResourceDataset   = "dataset"
	ResourceInsight   = "insight"
	ResourceReport    = "report"
	ResourceSolution  = "solution"
	ResourceWorkspace = "workspace"
)

// Permissions used to filter list_resources.
const (
	PermissionCanEdit = "can_edit"
	PermissionCanView = "can_view"
)

// Roles accepted by membership and sharing commands.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
	RoleMember = "member"
)

// DefaultTagColor is used by create_tag when no color is given.
const DefaultTagColor = "#1F009D"

// DefaultPageSize is the page size of list queries when none is given.
const DefaultPageSize = 100

// DefaultInviteMessage accompanies organization invitations.
const DefaultInviteMessage = "Ich lade Sie zur einer Polyteia-Organisation ein."

// Page is the "data" object of a paginated list query.
type Page struct {
	Items []any `json:"items"`
	Page  int   `json:"page"`
	Size  int   `json:"size,omitempty"`
	Total int   `json:"total"`
}

// Last reports whether p is the final page when pages hold size items.
func (p Page) Last(size int) bool {
	return p.Page*size >= p.Total
}

// ListOptions are the common parameters of list queries.
type ListOptions struct {
	Page    int            `json:"page"`
	Size    int            `json:"size"`
	Search  string         `json:"search"`
	Filters map[string]any `json:"filters,omitempty"`
}

// WithDefaults returns a copy with page 1 and DefaultPageSize filled in.
func (o ListOptions) WithDefaults() ListOptions {
	if o.Page <= 0 {
		o.Page = 1
	}
	if o.Size <= 0 {
		o.Size = DefaultPageSize
	}
	return o
}

// ResourceFilter selects resources inside a container for list_resources.
type ResourceFilter struct {
	ContainerID  string `validate:"required"`
	ResourceType string
	Permission   string
}

// WithDefaults fills in the dataset resource type and edit permission.
func (f ResourceFilter) WithDefaults() ResourceFilter {
	if f.ResourceType == "" {
		f.ResourceType = ResourceDataset
	}
	if f.Permission == "" {
		f.Permission = PermissionCanEdit
	}
	return f
}

// RoleAssignment grants role to a user or group id.
type RoleAssignment struct {
	ID   string `json:"id" validate:"required"`
	Role string `json:"role" validate:"required"`
}

// BulkRoleUpdate is the params object of bulk_role_update.
type BulkRoleUpdate struct {
	ResourceID    string           `json:"resource_id" validate:"required"`
	Assignments   []RoleAssignment `json:"assignments" validate:"dive"`
	Unassignments []RoleAssignment `json:"unassignments" validate:"dive"`
}

// Grant builds a bulk_role_update that assigns role on resourceID to
// principalID and removes nothing.
func Grant(resourceID, principalID, role string) BulkRoleUpdate {
	return BulkRoleUpdate{
		ResourceID:    resourceID,
		Assignments:   []RoleAssignment{{ID: principalID, Role: role}},
		Unassignments: []RoleAssignment{},
	}
}

// DatasetSpec is the params object of create_dataset.
type DatasetSpec struct {
	SolutionID    string         `json:"solution_id" validate:"required"`
	Name          string         `json:"name" validate:"required"`
	Description   string         `json:"description"`
	Source        string         `json:"source"`
	Slug          string         `json:"slug" validate:"required"`
	Documentation map[string]any `json:"documentation,omitempty"`
}

// ImageUploadToken authorizes a single report image upload.
type ImageUploadToken struct {
	UploadURL string `json:"upload_url"`
	Token     string `json:"token"`
	Filename  string `json:"filename"`
}

// ItemIDs extracts resource ids from list items. Items are either bare id
// strings or objects carrying an "id" field.
func ItemIDs(items []any) ([]string, error) {
	ids := make([]string, 0, len(items))
	for i, item := range items {
		switch v := item.(type) {
		case string:
			ids = append(ids, v)
		case map[string]any:
			id, ok := v["id"].(string)
			if !ok {
				return nil, fmt.Errorf("item %d has no string id", i)
			}
			ids = append(ids, id)
		default:
			return nil, fmt.Errorf("item %d: unexpected type %T", i, item)
		}
	}
	return ids, nil
}
