package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/polyteia-connect/polyteia-sdk-go/pkg/model"
	"github.com/polyteia-connect/polyteia-sdk-go/pkg/sdk"
)

func newTagsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Manage organization tags",
	}
	cmd.AddCommand(newTagsListCmd(opts), newTagsCreateCmd(opts), newTagsAttachCmd(opts))
	return cmd
}

func organization(c *sdk.Client) (string, error) {
	org := c.Config().OrganizationID
	if org == "" {
		return "", errors.New("organization id is required: pass --org or set POLYTEIA_ORG_ID")
	}
	return org, nil
}

func newTagsListCmd(opts *rootOptions) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the organization's tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client(cmd.Context())
			if err != nil {
				return err
			}
			org, err := organization(c)
			if err != nil {
				return err
			}

			var tags []any
			if search != "" {
				tags, err = c.SearchTags(cmd.Context(), org, search, 1, model.DefaultPageSize)
			} else {
				tags, err = c.ListAllTags(cmd.Context(), org)
			}
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCOLOR")
			for _, t := range tags {
				tag, ok := t.(map[string]any)
				if !ok {
					fmt.Fprintf(tw, "%v\t\t\n", t)
					continue
				}
				fmt.Fprintf(tw, "%v\t%v\t%v\n", tag["id"], tag["name"], tag["color"])
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "only tags matching this text")
	return cmd
}

func newTagsCreateCmd(opts *rootOptions) *cobra.Command {
	var description, color string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a tag and print its id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client(cmd.Context())
			if err != nil {
				return err
			}
			org, err := organization(c)
			if err != nil {
				return err
			}
			id, err := c.CreateTag(cmd.Context(), org, args[0], description, color)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), id)
			return err
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "tag description")
	cmd.Flags().StringVar(&color, "color", model.DefaultTagColor, "tag color")
	return cmd
}

func newTagsAttachCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "attach <tag id> <resource id>...",
		Short: "Attach a tag to one or more resources",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client(cmd.Context())
			if err != nil {
				return err
			}
			for _, resourceID := range args[1:] {
				if err := c.AddTagToResource(cmd.Context(), args[0], resourceID); err != nil {
					return fmt.Errorf("tag %s: %w", resourceID, err)
				}
			}
			return nil
		},
	}
}
