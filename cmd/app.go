package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/parkandride/parkride/internal/api"
	"github.com/parkandride/parkride/internal/auth"
	"github.com/parkandride/parkride/internal/config"
	"github.com/parkandride/parkride/internal/session"
	"github.com/parkandride/parkride/internal/shell"
	"github.com/parkandride/parkride/internal/views"
)

// app is everything a command needs, built from config and flags.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	client *api.Client
	auth   *auth.Provider
	shell  *shell.Shell
	loc    *time.Location
	out    io.Writer
	errOut io.Writer
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// newApp loads the config, restores the session and wires the backend
// client to the auth provider.
func newApp(cmd *cobra.Command) (*app, error) {
	errOut := cmd.ErrOrStderr()
	logger, err := newLogger(errOut, logLevel)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(errOut)
	if err != nil {
		logger.Warn("using default config", "error", err)
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	timeout, err := cfg.Timeout()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		logger.Warn("labelling income in UTC", "error", err)
		loc = time.UTC
	}

	base, err := session.BaseDir()
	if err != nil {
		return nil, err
	}
	client := api.NewClient(cfg.APIURL, api.WithTimeout(timeout), api.WithLogger(logger))
	provider := auth.NewProvider(session.NewStore(base), client, logger)
	client.SetTokenSource(provider)

	return &app{
		cfg:    cfg,
		logger: logger,
		client: client,
		auth:   provider,
		shell:  shell.New(provider),
		loc:    loc,
		out:    cmd.OutOrStdout(),
		errOut: errOut,
	}, nil
}

// enter checks the screen guards for v, as the console's top bar would.
func (a *app) enter(v shell.View) error {
	err := a.shell.Navigate(v)
	if err == shell.ErrProtected {
		return fmt.Errorf("%s", shell.ProtectedMessage)
	}
	return err
}

// load runs fn with a spinner on interactive terminals.
func (a *app) load(label string, fn func()) {
	if !isTerminal(a.errOut) {
		fn()
		return
	}
	s := views.StartSpinner(a.errOut, label)
	defer s.Stop()
	fn()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
