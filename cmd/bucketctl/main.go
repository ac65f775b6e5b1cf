package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sagarc03/bucketctl/clientcli"
	"github.com/sagarc03/bucketctl/config"
)

var (
	version = "dev"

	cfgFiles []string
	dotEnv   string
)

var rootCmd = &cobra.Command{
	Use:     "bucketctl",
	Version: version,
	Short:   "List, filter, upload and delete objects in S3 buckets",
	Long: `bucketctl - a small command line tool for S3-compatible buckets.

Commands:
  list:        list the keys of a bucket under an optional prefix
  list-filter: list the keys matched by a regular expression
  upload:      upload a local file to a key
  delete:      delete every key matched by a regular expression

Buckets live on AWS S3, on any S3-compatible endpoint (--endpoint), or in
a local directory tree (--backend filesystem --root <dir>).`,
	Args:          cobra.ArbitraryArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, _ = fmt.Fprint(cmd.OutOrStdout(), clientcli.Usage)
		return nil
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if cmd == cmd.Root() || cmd.Name() == cobra.ShellCompRequestCmd {
			return nil
		}
		return setup(cmd)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringSliceVarP(&cfgFiles, "config", "c", nil, "config file(s), merged in order (default: ~/.bucketctl/config.yaml)")
	pf.StringVar(&dotEnv, "dot-env", config.DefaultDotEnv, "comma separated .env files to load")
	pf.String("profile", "", "profile to use (env: BUCKETCTL_PROFILE)")
	pf.String("profiles-file", "", "profiles file (default: ~/.bucketctl/config.yaml)")
	pf.String("backend", "", "storage backend: s3, filesystem (default: s3, env: BUCKETCTL_BACKEND_TYPE)")
	pf.String("endpoint", "", "custom S3 endpoint URL (env: BUCKETCTL_S3_ENDPOINT)")
	pf.String("region", "", "S3 region (env: BUCKETCTL_S3_REGION)")
	pf.Bool("path-style", false, "use path-style S3 addressing")
	pf.String("aws-profile", "", "AWS shared config profile")
	pf.String("root", "", "root directory of the filesystem backend (default: ./data)")
	pf.Int32("page-size", 0, "objects requested per page (max: 1000)")
	pf.Bool("json", false, "output as JSON")
	pf.BoolP("quiet", "q", false, "suppress non-essential output")
	pf.String("log-level", "", "log level: debug, info, warn, error (default: warn)")
	pf.String("log-format", "", "log format: text, json (default: text)")

	_ = rootCmd.RegisterFlagCompletionFunc("profile", completeProfileNames)

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(listFilterCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(configureCmd)
}

// setup loads .env files and configuration, then stores the config in the
// command context.
func setup(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(dotEnv, cmd.Flags().Changed("dot-env")); err != nil {
		return err
	}

	cfg, err := config.Load(cfgFiles, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.ApplyProfile(); err != nil {
		return err
	}

	setupLogging(cfg.Log)
	cmd.SetContext(config.WithContext(cmd.Context(), cfg))
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}

	var ee *exitError
	if !errors.As(err, &ee) {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Exit(ee.code)
}

// exitError is returned when we want to exit with a specific code
// but the error has already been reported.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return ""
}
