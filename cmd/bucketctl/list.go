package main

import (
	"github.com/spf13/cobra"

	"github.com/sagarc03/bucketctl/clientcli"
)

var (
	listAll     bool
	listMaxKeys int32
	listLong    bool
)

var listCmd = &cobra.Command{
	Use:   "list <bucket-name> [prefix]",
	Short: "List the keys of a bucket",
	Long: `List the keys of a bucket, one per line, in the order the backend
returns them. Only the first page is read unless --all is given.
Put -- before a prefix that starts with '-'.

Examples:
  bucketctl list photos
  bucketctl list photos 2024/
  bucketctl list photos --all --long
  bucketctl list photos -- -drafts/`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerb(cmd, args, clientcli.InvocationFlags{All: listAll, MaxKeys: listMaxKeys}, listLong, nil)
	},
}

var listFilterCmd = &cobra.Command{
	Use:   "list-filter <bucket-name> [prefix] <filter>",
	Short: "List the keys matched by a regular expression",
	Long: `List the keys under an optional prefix that the filter matches.
The filter is a regular expression matched anywhere in the key.
With two arguments the second one is the filter. Put -- before a
prefix or filter that starts with '-'.

Examples:
  bucketctl list-filter photos '\.jpg$'
  bucketctl list-filter photos 2024/ '^2024/0[1-3]/'
  bucketctl list-filter photos -- '-thumb\.jpg$'`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerb(cmd, args, clientcli.InvocationFlags{All: listAll, MaxKeys: listMaxKeys}, listLong, nil)
	},
}

func init() {
	for _, c := range []*cobra.Command{listCmd, listFilterCmd} {
		c.Flags().BoolVar(&listAll, "all", false, "read every page")
		c.Flags().Int32Var(&listMaxKeys, "max-keys", 0, "max keys per page (max: 1000)")
		c.Flags().BoolVarP(&listLong, "long", "l", false, "show size and last-modified time")
	}
}
