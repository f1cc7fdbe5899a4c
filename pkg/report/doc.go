// Package report builds the params of create_report.
//
// A report is a rich text document whose blocks can embed insights as
// widgets. Builder appends blocks in order and keeps metadata.insights in
// sync with the widgets it adds, which is what sdk.Client.CreateReport uses
// to attach the insights after creation.
//
//	body, err := report.New().
//		SolutionID(solutionID).
//		Name("Monthly overview").
//		Heading("Population", report.H1, "").
//		Text("Figures as of the last census.").
//		StartColumns(report.TwoEqual).
//		Widget(barInsightID, 0).
//		NextColumn().
//		Widget(mapInsightID, 400).
//		EndColumns().
//		Build()
//
// Misuse such as NextColumn past the last column is recorded and returned
// by Build.
package report
