package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmgilman/go/shell/config"
	"github.com/jmgilman/go/shell/exec"
	"github.com/jmgilman/go/shell/logging"
	"github.com/jmgilman/go/shell/resolve"
	"github.com/jmgilman/go/shell/sh"
)

// app holds the state shared by all subcommands.
type app struct {
	jsonErrors bool
	logLevel   string
	dev        bool

	cfg    *config.Config
	logger *zap.Logger
	shell  *sh.Shell
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "shrun",
		Short: "Run composable process pipelines",
		Long: `shrun runs pipelines of external commands, file reads and file writes
described in YAML manifests.

A stage runs only after the previous one exits zero; the first non-zero exit
ends the pipeline and becomes shrun's exit code.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	root.PersistentFlags().BoolVar(&a.jsonErrors, "json", false, "Print errors as JSON")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")
	root.PersistentFlags().BoolVar(&a.dev, "dev", false, "Use development logging (overrides LOG_DEV)")

	root.AddCommand(newRunCmd(a))
	root.AddCommand(newWhichCmd(a))
	return root
}

// setup loads configuration and builds the logger and shell.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if cmd.Flags().Changed("dev") {
		cfg.Logging.Development = a.dev
	}

	logger, err := logging.New(loggingConfig(cfg.Logging))
	if err != nil {
		return err
	}

	resolver := resolve.New(
		resolve.WithLookup(&resolve.ShellLookup{
			Shell:  cfg.Resolve.Shell,
			Login:  cfg.Resolve.LoginShell,
			Logger: logger,
		}),
		resolve.WithLauncher(cfg.Resolve.Launcher),
		resolve.WithLogger(logger),
	)

	policy := resolve.Cached
	if !cfg.Resolve.PathCache {
		policy = resolve.Uncached
	}

	a.cfg = cfg
	a.logger = logger
	a.shell = sh.New(
		sh.WithResolver(resolver),
		sh.WithPolicy(policy),
		sh.WithProcessOptions(exec.WithLogger(logger)),
	)
	return nil
}

// loggingConfig picks the logging preset and applies an explicit level on top.
func loggingConfig(cfg config.LogConfig) logging.Config {
	logCfg := logging.DefaultConfig()
	if cfg.Development {
		logCfg = logging.DevelopmentConfig()
	}
	if cfg.Level != "" {
		logCfg.Level = cfg.Level
	}
	return logCfg
}

func (a *app) close() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}
