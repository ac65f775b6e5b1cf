package main

import (
	"github.com/spf13/cobra"

	"github.com/sagarc03/bucketctl/clientcli"
)

var uploadContentType string

var uploadCmd = &cobra.Command{
	Use:   "upload <bucket-name> <file-path> <key>",
	Short: "Upload a local file",
	Long: `Upload a local file to a key, replacing any existing object.
The content type is detected from the file extension unless given.

Examples:
  bucketctl upload docs ./report.pdf reports/2024/q1.pdf
  bucketctl upload docs ./data.bin raw/data --content-type application/x-custom`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerb(cmd, args, clientcli.InvocationFlags{ContentType: uploadContentType}, false, nil)
	},
}

func init() {
	uploadCmd.Flags().StringVar(&uploadContentType, "content-type", "", "content type of the object")
}
