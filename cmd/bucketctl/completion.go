package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/sagarc03/bucketctl/config"
)

// completeProfileNames completes profile names from the profiles file the
// command would read, honoring --config, --profiles-file and the environment.
func completeProfileNames(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := config.Load(cfgFiles, cmd.Flags())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	file, err := config.LoadOrEmpty(cfg.ProfilesFile)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var names []string
	for _, name := range file.ProfileNames() {
		if strings.HasPrefix(name, toComplete) {
			names = append(names, name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// completeProfileArg completes the single profile name argument of the
// configure subcommands.
func completeProfileArg(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return completeProfileNames(cmd, args, toComplete)
}
