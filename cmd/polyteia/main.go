// Command polyteia is a small command line client for the Polyteia platform
// built on the SDK. It covers the common scripting tasks: obtaining an
// access token, moving dataset contents in and out, and inspecting datasets
// and tags.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/polyteia-connect/polyteia-sdk-go/pkg/config"
	"github.com/polyteia-connect/polyteia-sdk-go/pkg/sdk"
)

type rootOptions struct {
	configFile string
	envFile    string
	apiURL     string
	orgID      string
	debug      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "polyteia",
		Short:         "Command line client for the Polyteia platform",
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `polyteia talks to the Polyteia platform API using a personal access key
or an access token.

Credentials are read from a YAML config file (--config) or from POLYTEIA_*
environment variables, optionally loaded from a .env file (--env-file).`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.debug {
				zap.ReplaceGlobals(zap.Must(debugLogger()))
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "YAML config file")
	flags.StringVar(&opts.envFile, "env-file", ".env", "dotenv file with POLYTEIA_* variables")
	flags.StringVar(&opts.apiURL, "api-url", "", "platform API URL (overrides config)")
	flags.StringVar(&opts.orgID, "org", "", "organization id (overrides config)")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(
		newTokenCmd(opts),
		newUploadCmd(opts),
		newDownloadCmd(opts),
		newDatasetsCmd(opts),
		newTagsCmd(opts),
	)
	return cmd
}

func debugLogger() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	return cfg.Build()
}

func (o *rootOptions) config() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configFile != "" {
		cfg, err = config.LoadFile(o.configFile)
	} else {
		cfg, err = config.FromEnv(o.envFile)
	}
	if err != nil {
		return nil, err
	}
	if o.apiURL != "" {
		cfg.APIURL = o.apiURL
	}
	if o.orgID != "" {
		cfg.OrganizationID = o.orgID
	}
	if o.debug {
		cfg.Debug = true
	}
	return cfg, nil
}

func (o *rootOptions) client(ctx context.Context) (*sdk.Client, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, err
	}
	if !cfg.HasCredentials() {
		return nil, fmt.Errorf("no credentials: set %s, or %s and %s", config.EnvAccessToken, config.EnvOrgID, config.EnvPAK)
	}
	return sdk.Connect(ctx, cfg)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	defer zap.L().Sync() //nolint:errcheck

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
