// Package model defines the request shapes the SDK sends to the platform.
//
// The platform's own entities (organizations, workspaces, solutions,
// datasets, insights, reports, tags, groups) are not modelled: operations
// forward identifiers and return the untyped JSON the platform answers with.
// What this package does type is the small set of shapes the SDK itself
// builds or interprets.
//
// # Pagination
//
// List queries answer with a Page:
//
//	{"data": {"items": [...], "page": 1, "total": 250}}
//
// Page.Last tells the list-all helpers when to stop: the walk ends once
// page*size reaches total. Items are either bare id strings or objects with
// an "id" field; ItemIDs normalizes both.
//
// # Sharing
//
// Membership of workspaces, solutions, groups, datasets and reports is
// changed through bulk_role_update. Grant builds the common single
// assignment:
//
//	update := model.Grant(datasetID, groupID, model.RoleViewer)
//
// # Datasets
//
// DatasetSpec carries the create_dataset parameters. SolutionID, Name and
// Slug are required; Documentation is sent only when set.
package model
