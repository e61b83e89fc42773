package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"debatecore/internal/config"
	"debatecore/internal/gateway"
	"debatecore/internal/logging"
	"debatecore/internal/source"
)

// env is what every subcommand runs with, resolved once per invocation
type env struct {
	cfg      *config.Config
	logger   *zap.Logger
	closeLog func() error
	gw       *gateway.Client
}

func (e *env) loader() source.Loader {
	return source.Loader{MaxSize: e.cfg.Upload.MaxSize, Extensions: e.cfg.Upload.Extensions}
}

// rootFlags override config values for a single run
type rootFlags struct {
	configPath string
	apiBase    string
	debug      bool
}

// newRootCmd creates the root debatecore command with all subcommands attached.
func newRootCmd() *cobra.Command {
	var flags rootFlags
	e := &env{}

	cmd := &cobra.Command{
		Use:   "debatecore",
		Short: "Terminal client for the multi-agent debate backend",
		Long: "debatecore asks questions of a debate backend, where Pro, Contra,\n" +
			"Judge and Synthesizer agents argue over your indexed documents.\n" +
			"Run without a subcommand to open the interactive view.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup(flags)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return e.teardown()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, e)
		},
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default "+config.ConfigPath()+")")
	cmd.PersistentFlags().StringVar(&flags.apiBase, "api-base", "", "backend base URL (overrides config)")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(
		newAskCmd(e),
		newStatusCmd(e),
		newUploadCmd(e),
	)

	return cmd
}

func (e *env) setup(flags rootFlags) error {
	if flags.configPath != "" {
		if err := os.Setenv(config.EnvConfigPath, flags.configPath); err != nil {
			return err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if flags.apiBase != "" {
		cfg.Backend.BaseURL = flags.apiBase
		if err := config.Validate(cfg); err != nil {
			return err
		}
	}
	if flags.debug {
		cfg.Log.Debug = true
	}

	logger, closeLog, err := logging.New(cfg.Log.File, cfg.Log.Debug)
	if err != nil {
		return err
	}

	e.cfg = cfg
	e.logger = logger
	e.closeLog = closeLog
	e.gw = gateway.NewClient(cfg.Backend.BaseURL,
		gateway.WithTimeout(cfg.Backend.Timeout),
		gateway.WithLogger(logger))

	logger.Info("starting",
		zap.String("base_url", cfg.Backend.BaseURL),
		zap.Duration("poll_interval", cfg.Poll.Interval))
	return nil
}

func (e *env) teardown() error {
	if e.closeLog == nil {
		return nil
	}
	err := e.closeLog()
	e.closeLog = nil
	return err
}

// isTerminal reports whether w is an interactive terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// errorf formats an error for a failed backend operation
func errorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
