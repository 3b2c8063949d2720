/*
Copyright © 2023 sanix-darker <s4nixd@gmail.com>

*/

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/sanix-darker/grok-search/internal/provider/init"
	"github.com/spf13/cobra"
)

// Persistent flag names shared by every command.
const (
	flagConfig   = "config"
	flagDebug    = "debug"
	flagLogDir   = "log-dir"
	flagLogLevel = "log-level"
	flagProvider = "provider"
	flagModel    = "model"
	flagAPIURL   = "api-url"
)

// NewRootCmd builds the command tree. Each call returns an independent tree
// so tests can execute commands without sharing flag state.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "grok-search",
		Short: "Web search and page fetch through Grok, from your terminal.",
		Long: `Search the web or fetch a page through the Grok streaming API.

Blank answers, dropped connections and configured HTTP status codes are
retried under one shared budget (see "grok-search config show").`,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.String(flagConfig, "", "config file (default is ~/.config/grok-search/config.yml)")
	pf.Bool(flagDebug, false, "log every attempt to stderr")
	pf.String(flagLogDir, "", "directory for grok-search.log (default is ~/.config/grok-search/logs)")
	pf.String(flagLogLevel, "", "log level: debug, info, warn or error")
	pf.String(flagProvider, "", "provider name (grok, openai-compat)")
	pf.String(flagModel, "", "model to request")
	pf.String(flagAPIURL, "", "API base URL")

	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newFetchCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newManCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). An interrupt cancels the in-flight request.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
