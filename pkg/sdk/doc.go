// Package sdk provides the high-level entry point for working with the
// Polyteia platform.
//
// Every operation is one validated round trip: build the params object,
// POST it as a command or query envelope, validate the response and return
// the extracted field. There is no retry, no caching and no local model of
// platform entities; identifiers go in, identifiers and untyped JSON come out.
//
// # Quick Start
//
// Build a configuration, exchange the personal access key for an access
// token and call operations:
//
//	import (
//		"github.com/polyteia-connect/polyteia-sdk-go/pkg/config"
//		"github.com/polyteia-connect/polyteia-sdk-go/pkg/model"
//		"github.com/polyteia-connect/polyteia-sdk-go/pkg/sdk"
//	)
//
//	func main() {
//		ctx := context.Background()
//		cfg, err := config.FromEnv(".env")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		client, err := sdk.Connect(ctx, cfg)
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		id, err := client.GetOrCreateDataset(ctx, model.DatasetSpec{
//			SolutionID: "sol_123",
//			Name:       "Population",
//			Slug:       "population",
//		})
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		err = client.UploadData(ctx, id, []map[string]any{
//			{"district": "Mitte", "population": 397134},
//		})
//	}
//
// # Operations
//
// Operations are grouped by platform resource:
//
//   - Auth: GetOrgAccessToken
//   - Organizations: GetOrganization, CreateOrganization, DeleteOrganization,
//     InviteUserToOrganization, ListOrganizationMembers, GetOrganizationMember
//   - Workspaces: CreateWorkspace, DeleteWorkspace, ListWorkspaces,
//     AddUserToWorkspace, AddGroupToWorkspace
//   - Solutions: CreateSolution, GetSolution, UpdateSolutionDocumentation,
//     DeleteSolution, ListSolutions, AddUserToSolution, AddGroupToSolution
//   - Datasets: CreateDataset, GetDatasetByID, GetDatasetBySlug,
//     GetOrCreateDataset, UpdateDataset, DeleteDataset, UpdateDatasetMetadata,
//     GetDatasetMetadataColumns, GetAllDatasetsInSolution, ShareDatasetWithGroup
//   - Files: GenerateUploadToken, UploadFile, UploadData,
//     GenerateDownloadToken, DownloadFile, DownloadDataset,
//     GetImageUploadToken, UploadLocalFile
//   - Insights: CreateInsight, UpdateInsight, GetInsight, GetInsightBySlug,
//     FindInsightByKPIID, CreateOrUpdateInsight, DeleteInsight
//   - Reports: CreateReport, GetReport, UpdateReport, DeleteReport,
//     AddInsightToReport, RemoveInsightFromReport, ShareReportWithGroup,
//     GetReportView, ListReportViews
//   - Tags: CreateTag, SearchTags, ListTags, ListAllTags, AddTagToResource,
//     DeleteTag
//   - Groups: CreateGroup, ListGroups, DeleteGroup, AddUserToGroup, CheckGroup
//   - Resources: ListResources, ListAllResources
//
// Operations that extract a single field (an id, a token) return it typed.
// Operations that return the platform answer as a whole return an
// api.Document.
//
// CreateInsight, UpdateInsight, CreateOrUpdateInsight and CreateReport take
// any body that encodes to a JSON object. The insight and report packages
// build such bodies.
//
// # Pagination
//
// ListAllResources and ListAllTags walk pages until page*size reaches the
// reported total. Page requests are paced by a token-bucket limiter
// (config.Pagination.Interval, 200ms by default).
//
// # Read-modify-write
//
// UpdateDataset, UpdateSolutionDocumentation and UpdateReport fetch the
// current resource first and resend its fields with the caller's overrides.
// UpdateReport also reconciles the insights attached to the report with the
// widgets of a new structure; failures there are logged as warnings.
//
// # Error Handling
//
// Response failures are one of api.ParseError, api.StatusError or
// api.MissingKeyError, each carrying the operation label and the raw body:
//
//	_, err := client.GetSolution(ctx, id)
//	switch {
//	case api.IsNotFound(err):
//		// no such solution
//	case errors.Is(err, api.ErrUnexpectedStatus):
//		// any other rejected status
//	}
//
// Calls on a client without an access token fail with ErrNoAccessToken.
//
// # Thread Safety
//
// A Client is safe for concurrent use. WithAccessToken returns a copy bound
// to another token that shares the transport and the pagination limiter.
package sdk
