package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/polyteia-connect/polyteia-sdk-go/pkg/model"
)

func newDatasetsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datasets",
		Short: "Inspect datasets",
	}
	cmd.AddCommand(newDatasetsListCmd(opts), newDatasetsGetCmd(opts), newResourcesCmd(opts))
	return cmd
}

func newDatasetsListCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list <solution id>",
		Short: "List every dataset in a solution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client(cmd.Context())
			if err != nil {
				return err
			}
			datasets, err := c.GetAllDatasetsInSolution(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), datasets)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSLUG\tNAME")
			for _, ds := range datasets {
				fmt.Fprintf(tw, "%v\t%v\t%v\n", ds["id"], ds["slug"], ds["name"])
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print full dataset objects as JSON")
	return cmd
}

func newResourcesCmd(opts *rootOptions) *cobra.Command {
	filter := model.ResourceFilter{}
	cmd := &cobra.Command{
		Use:   "resources <container id>",
		Short: "List every resource of a type inside a container",
		Long: `Walks all pages of list_resources for a container such as a solution.

Example:
  polyteia datasets resources <solution id> --type insight --permission can_view`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client(cmd.Context())
			if err != nil {
				return err
			}
			filter.ContainerID = args[0]
			items, err := c.ListAllResources(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), items)
		},
	}
	cmd.Flags().StringVar(&filter.ResourceType, "type", model.ResourceDataset, "resource type")
	cmd.Flags().StringVar(&filter.Permission, "permission", model.PermissionCanEdit, "required permission")
	return cmd
}

func newDatasetsGetCmd(opts *rootOptions) *cobra.Command {
	var (
		solutionID string
		columns    bool
	)
	cmd := &cobra.Command{
		Use:   "get <dataset id | slug>",
		Short: "Show a dataset by id, or by slug with --solution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client(cmd.Context())
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			id := args[0]
			if solutionID != "" {
				doc, err := c.GetDatasetBySlug(ctx, solutionID, args[0])
				if err != nil {
					return err
				}
				if id, err = doc.String("data.id"); err != nil {
					return err
				}
			}

			if columns {
				cols, err := c.GetDatasetMetadataColumns(ctx, id)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), cols)
			}
			doc, err := c.GetDatasetByID(ctx, id)
			if err != nil {
				return err
			}
			data, err := doc.Map("data")
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), data)
		},
	}
	cmd.Flags().StringVar(&solutionID, "solution", "", "look the dataset up by slug in this solution")
	cmd.Flags().BoolVar(&columns, "columns", false, "print only the column metadata")
	return cmd
}
