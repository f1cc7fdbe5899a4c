package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTokenCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Exchange the personal access key for an access token",
		Long: `Prints an organization access token. When an access token is already
configured it is printed unchanged.

Example:
  export POLYTEIA_ACCESS_TOKEN=$(polyteia token --org <organization id>)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), c.AccessToken())
			return err
		},
	}
}
