package cmd

import (
	"github.com/sanix-darker/grok-search/internal/provider/grok"
	"github.com/spf13/cobra"
)

// Output flags shared by search and fetch.
const (
	flagCopy        = "copy"
	flagRaw         = "raw"
	flagMetricsFile = "metrics-file"
)

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().Bool(flagCopy, false, "copy the result to the clipboard")
	cmd.Flags().Bool(flagRaw, false, "print the raw text even on a terminal")
	cmd.Flags().String(flagMetricsFile, "", "write prometheus metrics of the request to this file")
}

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Search the web and print the answer.",
		Long: `Search the web through Grok and print the answer.

Without arguments the query is read from stdin when it is piped, otherwise
from the clipboard.`,
		Example: "grok-search search golang 1.24 release notes\necho 'rust vs go' | grok-search search --raw",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperation(cmd, args, nil)
		},
	}
	addOutputFlags(cmd)
	return cmd
}

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fetch <url>",
		Short:   "Fetch a web page and print its content as markdown.",
		Example: "grok-search fetch https://go.dev/doc/go1.24",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperation(cmd, args, grok.ValidateURL)
		},
	}
	addOutputFlags(cmd)
	return cmd
}
