package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/j-erickson/aws-security-hub-automated-response-and-remediation/internal/config"
	"github.com/j-erickson/aws-security-hub-automated-response-and-remediation/pkg/log"
)

type (
	// Streams are the writers the command line prints to. Synthesized
	// documents go to Out, logs go to Err
	Streams struct {
		Out io.Writer
		Err io.Writer
	}

	app struct {
		streams Streams
		cfg     *config.Config
		logger  *slog.Logger
	}
)

const (
	Name    = "sfn-synth"
	Version = "0.1.0"
)

// Execute runs the command line with args and returns the process exit
// status
func Execute(args []string, streams Streams) int {
	a := newApp(streams)
	root := a.rootCommand()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		a.logger.Error("Command failed", log.Error(err))
		return 1
	}
	return 0
}

func newApp(streams Streams) *app {
	cfg := config.NewDefaultConfig()
	return &app{
		streams: streams,
		cfg:     cfg,
		logger:  log.New(streams.Err, Name, cfg.Env, Version),
	}
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               Name,
		Short:             "Synthesize Step Functions definitions",
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(a.streams.Out)
	root.SetErr(a.streams.Err)
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(a.synthCommand(), a.previewCommand())
	return root
}

func (a *app) setup(*cobra.Command, []string) error {
	if err := a.cfg.LoadFromEnv(); err != nil {
		return err
	}
	return a.setupLogging()
}

func (a *app) setupLogging() error {
	level, ok := log.ParseLevel(a.cfg.LogLevel)
	if !ok {
		return fmt.Errorf("%w: %s", config.ErrInvalidLogLevel, a.cfg.LogLevel)
	}
	a.logger = log.NewWithLevel(
		a.streams.Err, Name, a.cfg.Env, Version, level,
	)
	a.logger.Debug("Configuration loaded",
		slog.String("log_level", a.cfg.LogLevel),
		log.Partition(a.cfg.Partition),
		slog.String("output_url", a.cfg.OutputURL),
		slog.String("output_prefix", a.cfg.OutputPrefix),
		slog.Bool("indent", a.cfg.Indent))
	return nil
}
