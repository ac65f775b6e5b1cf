package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/bucketctl"
	"github.com/sagarc03/bucketctl/clientcli"
	"github.com/sagarc03/bucketctl/config"
)

// getFormatter returns the formatter selected by the loaded config.
func getFormatter(cfg *config.Config, long bool) clientcli.Formatter {
	return clientcli.NewFormatter(cfg.Output.JSON, cfg.Output.Quiet, long)
}

// runVerb parses the arguments of a bucket command, opens the backend and
// dispatches the invocation. Arguments are checked before any backend is
// constructed.
func runVerb(cmd *cobra.Command, args []string, flags clientcli.InvocationFlags, long bool, confirm clientcli.ConfirmFunc) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}
	formatter := getFormatter(cfg, long)

	inv, err := clientcli.ParseInvocation(cmd.Name(), args, flags)
	if err != nil {
		_ = formatter.FormatError(os.Stderr, err)
		return &exitError{code: 1}
	}

	store, closeStore, err := openStore(cmd.Context(), cfg)
	if err != nil {
		_ = formatter.FormatError(os.Stderr, err)
		return &exitError{code: 1}
	}
	defer func() { _ = closeStore() }()

	svc, err := bucketctl.NewService(store, bucketctl.ServiceConfig{PageSize: cfg.Service.PageSize})
	if err != nil {
		return err
	}

	d := &clientcli.Dispatcher{
		Service:   svc,
		Formatter: formatter,
		Out:       cmd.OutOrStdout(),
		Err:       os.Stderr,
		Confirm:   confirm,
	}
	if err := d.Run(cmd.Context(), inv); err != nil {
		return &exitError{code: 1}
	}
	return nil
}
