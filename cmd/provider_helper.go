package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sanix-darker/grok-search/internal/cmd/version"
	"github.com/sanix-darker/grok-search/internal/common"
	"github.com/sanix-darker/grok-search/internal/config"
	"github.com/sanix-darker/grok-search/internal/logging"
	"github.com/sanix-darker/grok-search/internal/metrics"
	"github.com/sanix-darker/grok-search/internal/printers"
	"github.com/sanix-darker/grok-search/internal/provider"
	"github.com/sanix-darker/grok-search/internal/renders"
	"github.com/spf13/cobra"
)

// Swapped in tests.
var (
	newPrinters     = func() printers.IPrinters { return printers.NewPrinters() }
	copyToClipboard = common.SetClipboardValue
)

// loadConfig builds the command configuration: .env first, then the config
// file, the GROK_* environment and finally the command line flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config.Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	path, _ := cmd.Flags().GetString(flagConfig)
	conf, err := config.NewConfig(path)
	if err != nil {
		return conf, err
	}

	conf.Version = version.Version()
	conf.Printers = newPrinters()
	conf.InReader = cmd.InOrStdin()
	conf.OutWriter = cmd.OutOrStdout()
	conf.ErrWriter = cmd.ErrOrStderr()
	applyFlags(cmd, &conf)
	return conf, nil
}

// applyFlags copies the flags set on the command line into conf and its
// store, where they take precedence over the environment and the file.
func applyFlags(cmd *cobra.Command, conf *config.Config) {
	flags := cmd.Flags()

	if flags.Changed(flagDebug) {
		conf.Debug, _ = flags.GetBool(flagDebug)
		conf.Store.Set(config.KeyDebug, conf.Debug)
	}
	if v, _ := common.GetArgByKey(flagLogDir, flags, false); v != "" {
		conf.LogDir = v
		conf.Store.Set(config.KeyLogDir, v)
	}
	if v, _ := common.GetArgByKey(flagLogLevel, flags, false); v != "" {
		conf.LogLevel = v
		conf.Store.Set(config.KeyLogLevel, v)
	}
	if v, _ := common.GetArgByKey(flagProvider, flags, false); v != "" {
		conf.Provider = v
		conf.Store.Set(provider.ConfigKeyProvider, v)
	}
	if v, _ := common.GetArgByKey(flagModel, flags, false); v != "" {
		conf.Model = v
		conf.Store.Set(provider.ConfigKeyModel, v)
	}
	if v, _ := common.GetArgByKey(flagAPIURL, flags, false); v != "" {
		conf.APIURL = v
		conf.Store.Set(provider.ConfigKeyAPIURL, v)
	}

	conf.Raw, _ = flags.GetBool(flagRaw)
	conf.Copy, _ = flags.GetBool(flagCopy)
	conf.MetricsFile, _ = common.GetArgByKey(flagMetricsFile, flags, false)
}

// resolveProvider creates a SearchProvider from the current config.
func resolveProvider(conf config.Config, deps provider.Deps) (provider.SearchProvider, error) {
	pcfg := provider.ResolveProvider(conf.Store)

	// Override provider name from CLI
	if conf.Provider != "" {
		pcfg.Name = conf.Provider
	}

	return provider.Get(pcfg.Name, pcfg.Store, deps)
}

// runOperation resolves the input, runs the operation named after cmd
// against the configured provider and prints the result.
func runOperation(cmd *cobra.Command, args []string, check func(string) error) error {
	op, err := provider.ParseOperation(cmd.Name())
	if err != nil {
		return err
	}

	conf, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, closer, err := logging.New(logging.Options{
		Dir:     conf.LogDir,
		Level:   conf.LogLevel,
		Debug:   conf.Debug,
		Console: conf.ErrWriter,
	})
	if err != nil {
		fmt.Fprintf(conf.ErrWriter, "Warning: %v, logging disabled\n", err)
		logger = logging.Discard()
	}
	defer closer.Close()

	input, source, err := common.ResolveInput(args, conf.InReader, isTerminal(conf.InReader))
	if err != nil {
		return err
	}
	if check != nil {
		if err := check(input); err != nil {
			return err
		}
	}

	reg := prometheus.NewRegistry()
	deps := provider.Deps{Logger: logger, Recorder: metrics.NewRecorder(reg)}
	p, err := resolveProvider(conf, deps)
	if err != nil {
		return err
	}

	info := p.Info()
	logger.Debug("request started",
		slog.String("version", conf.Version),
		slog.String("provider", info.Name),
		slog.String("model", info.Model),
		slog.String("operation", string(op)),
		slog.String("input_source", string(source)),
	)

	stop := startSpinner(conf.ErrWriter, op)
	out, err := provider.Dispatch(cmd.Context(), p, op, input)
	stop()

	if conf.MetricsFile != "" {
		if werr := metrics.WriteTextfile(conf.MetricsFile, reg); werr != nil {
			logger.Warn("failed to write metrics", slog.String("path", conf.MetricsFile), slog.String("error", werr.Error()))
			fmt.Fprintf(conf.ErrWriter, "Warning: failed to write metrics: %v\n", werr)
		}
	}
	if err != nil {
		return err
	}

	if out == "" {
		fmt.Fprintln(conf.ErrWriter, "No results.")
		return nil
	}

	tty := !conf.Raw && isTerminal(conf.OutWriter)
	if err := renders.Write(conf.OutWriter, out, tty); err != nil {
		return err
	}

	if conf.Copy {
		if err := copyToClipboard(out); err != nil {
			logger.Warn("failed to copy to clipboard", slog.String("error", err.Error()))
			fmt.Fprintf(conf.ErrWriter, "Warning: failed to copy to clipboard: %v\n", err)
		}
	}
	return nil
}

// startSpinner shows progress on w while a request runs. It does nothing
// unless w is a terminal. The returned func stops it.
func startSpinner(w io.Writer, op provider.Operation) func() {
	if !isTerminal(w) {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + string(op) + "ing..."
	s.Start()
	return s.Stop
}

func isTerminal(v interface{}) bool {
	f, ok := v.(*os.File)
	return ok && renders.IsTerminal(f)
}
