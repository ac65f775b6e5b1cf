package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/sagarc03/bucketctl/clientcli"
)

var (
	deleteAll         bool
	deleteMaxKeys     int32
	deleteDryRun      bool
	deleteInteractive bool
)

var deleteCmd = &cobra.Command{
	Use:   "delete <bucket-name> [prefix] <filter>",
	Short: "Delete the keys matched by a regular expression",
	Long: `Delete every key under an optional prefix that the filter matches.
Matched keys are removed with bulk-delete requests. With two arguments
the second one is the filter. Put -- before a prefix or filter that
starts with '-'.

Examples:
  bucketctl delete logs '^tmp-'
  bucketctl delete logs 2023/ '\.gz$' --dry-run
  bucketctl delete logs 2023/ '\.gz$' -i
  bucketctl delete logs --dry-run -- '-old\.gz$'`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := clientcli.InvocationFlags{
			All:         deleteAll,
			MaxKeys:     deleteMaxKeys,
			DryRun:      deleteDryRun,
			Interactive: deleteInteractive,
		}
		return runVerb(cmd, args, flags, false, confirmDelete)
	},
}

func init() {
	deleteCmd.Flags().BoolVar(&deleteAll, "all", false, "match keys on every page")
	deleteCmd.Flags().Int32Var(&deleteMaxKeys, "max-keys", 0, "max keys per page (max: 1000)")
	deleteCmd.Flags().BoolVar(&deleteDryRun, "dry-run", false, "print the matched keys without deleting them")
	deleteCmd.Flags().BoolVarP(&deleteInteractive, "interactive", "i", false, "ask before deleting")
}

// confirmDelete prompts on stderr before a bulk delete.
func confirmDelete(bucket string, keys []string) (bool, error) {
	const preview = 10
	for i, key := range keys {
		if i == preview {
			_, _ = fmt.Fprintf(os.Stderr, "  ... and %d more\n", len(keys)-preview)
			break
		}
		_, _ = fmt.Fprintf(os.Stderr, "  %s\n", key)
	}

	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("Delete %d file(s) from %s", len(keys), bucket),
		IsConfirm: true,
		Stdout:    os.Stderr,
	}
	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
