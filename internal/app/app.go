// Package app wires configuration, logging, orchestration and presentation
// into the jobflow command-line application.
package app

import (
	"context"
	"errors"
	"flag"
	"io"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/jobflow/internal/config"
	"github.com/agbru/jobflow/internal/logging"
	"github.com/agbru/jobflow/internal/metrics"
	"github.com/agbru/jobflow/internal/ui"
)

// Application represents the jobflow application instance.
type Application struct {
	Config    config.AppConfig
	Log       logging.Logger
	Metrics   *metrics.Metrics
	ErrWriter io.Writer
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithLogger sets a custom logger for the application.
func WithLogger(log logging.Logger) AppOption {
	return func(a *Application) { a.Log = log }
}

// WithMetrics sets a custom metrics collector for the application.
func WithMetrics(m *metrics.Metrics) AppOption {
	return func(a *Application) { a.Metrics = m }
}

// New creates a new Application instance by parsing command-line arguments.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}

	programName := "jobflow"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	app.Config = cfg

	if app.Log == nil {
		app.Log = logging.NewLogger(errWriter, "jobflow")
	}
	if app.Metrics == nil {
		app.Metrics = metrics.New()
	}
	return app, nil
}

// Run executes the configured pattern demonstrations and returns the process
// exit code. It installs signal handling so Ctrl-C cancels in-flight runs.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	switch {
	case a.Config.Verbose:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case a.Config.Quiet:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ui.InitTheme(a.Config.NoColor)
	if !a.Config.NoColor {
		ui.SetTheme(a.Config.Theme)
	}

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	return a.runPatterns(ctx, out)
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
