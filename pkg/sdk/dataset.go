package sdk

import (
	"context"
	"maps"

	"github.com/polyteia-connect/polyteia-sdk-go/pkg/api"
	"github.com/polyteia-connect/polyteia-sdk-go/pkg/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// datasetFetchLimit bounds concurrent get_dataset calls in GetAllDatasetsInSolution.
const datasetFetchLimit = 4

// CreateDataset creates a dataset and returns its id.
func (c *Client) CreateDataset(ctx context.Context, spec model.DatasetSpec) (string, error) {
	if err := c.check(spec); err != nil {
		return "", err
	}
	doc, err := c.command(ctx, "Create dataset", "create_dataset", spec, "data.id")
	if err != nil {
		return "", err
	}
	return doc.String("data.id")
}

// GetDatasetByID returns the full get_dataset response for datasetID.
func (c *Client) GetDatasetByID(ctx context.Context, datasetID string) (api.Document, error) {
	return c.query(ctx, "Get dataset by id", "get_dataset", map[string]any{"id": datasetID})
}

// GetDatasetBySlug returns the full get_dataset response for the dataset
// with slug in solutionID.
func (c *Client) GetDatasetBySlug(ctx context.Context, solutionID, slug string) (api.Document, error) {
	return c.query(ctx, "Get dataset by slug", "get_dataset", map[string]any{
		"solution_id": solutionID,
		"slug":        slug,
	})
}

// GetOrCreateDataset returns the id of the dataset with spec.Slug in
// spec.SolutionID, creating it when the platform rejects the lookup.
// Transport and context errors are returned as is.
func (c *Client) GetOrCreateDataset(ctx context.Context, spec model.DatasetSpec) (string, error) {
	doc, err := c.query(ctx, "Get dataset by slug", "get_dataset", map[string]any{
		"solution_id": spec.SolutionID,
		"slug":        spec.Slug,
	}, "data.id")
	if err == nil {
		return doc.String("data.id")
	}
	if !api.IsAPIError(err) {
		return "", err
	}
	zap.L().Debug("Dataset not found, creating", zap.String("slug", spec.Slug), zap.Error(err))
	return c.CreateDataset(ctx, spec)
}

// UpdateDataset reads the dataset and sends update_dataset with its current
// name, solution, description, source, slug and documentation, overridden
// by fields.
func (c *Client) UpdateDataset(ctx context.Context, datasetID string, fields map[string]any) (api.Document, error) {
	current, err := c.GetDatasetByID(ctx, datasetID)
	if err != nil {
		return api.Document{}, err
	}
	data, err := current.Map("data")
	if err != nil {
		return api.Document{}, err
	}

	params := map[string]any{"id": datasetID}
	for _, key := range []string{"name", "solution_id", "description", "source", "slug"} {
		params[key] = data[key]
	}
	if doc, ok := data["documentation"]; ok {
		params["documentation"] = doc
	}
	maps.Copy(params, fields)

	return c.command(ctx, "Update dataset", "update_dataset", params)
}

// DeleteDataset deletes a dataset.
func (c *Client) DeleteDataset(ctx context.Context, datasetID string) error {
	_, err := c.command(ctx, "Delete dataset", "delete_dataset", map[string]any{"id": datasetID})
	return err
}

// UpdateDatasetMetadata replaces the column metadata of a dataset.
func (c *Client) UpdateDatasetMetadata(ctx context.Context, datasetID string, columns map[string]any) error {
	_, err := c.command(ctx, "Update dataset metadata", "update_dataset_metadata", map[string]any{
		"id":      datasetID,
		"columns": columns,
	})
	return err
}

// GetDatasetMetadataColumns returns data.metadata.schema.columns of a dataset,
// or an empty map when the dataset has no schema yet.
func (c *Client) GetDatasetMetadataColumns(ctx context.Context, datasetID string) (map[string]any, error) {
	doc, err := c.GetDatasetByID(ctx, datasetID)
	if err != nil {
		return nil, err
	}
	cols, ok := doc.Lookup("data.metadata.schema.columns")
	if !ok {
		return map[string]any{}, nil
	}
	m, ok := cols.(map[string]any)
	if !ok {
		return map[string]any{}, nil
	}
	return m, nil
}

// GetAllDatasetsInSolution lists every dataset in solutionID and returns the
// data object of each, in listing order.
func (c *Client) GetAllDatasetsInSolution(ctx context.Context, solutionID string) ([]map[string]any, error) {
	items, err := c.ListAllResources(ctx, model.ResourceFilter{ContainerID: solutionID, ResourceType: model.ResourceDataset})
	if err != nil {
		return nil, err
	}
	ids, err := model.ItemIDs(items)
	if err != nil {
		return nil, err
	}

	out := make([]map[string]any, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(datasetFetchLimit)
	for i, id := range ids {
		g.Go(func() error {
			doc, err := c.GetDatasetByID(gctx, id)
			if err != nil {
				return err
			}
			data, err := doc.Map("data")
			if err != nil {
				return err
			}
			out[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ShareDatasetWithGroup grants role on datasetID to groupID.
func (c *Client) ShareDatasetWithGroup(ctx context.Context, datasetID, groupID, role string) error {
	return c.bulkRoleUpdate(ctx, "Share dataset with group", model.Grant(datasetID, groupID, role))
}
