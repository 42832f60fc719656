package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"subtrack/internal/app"
	"subtrack/internal/common"
	"subtrack/internal/config"
	"subtrack/internal/notify"
)

var (
	globalConfig    *config.Config
	globalConfigDir string
)

var rootCmd = &cobra.Command{
	Use:   "subtrack",
	Short: "Subscription Tracker - keep an eye on your recurring payments",
	Long: `Subscription Tracker (subtrack) is a command-line client for the subscription tracking service.
It signs you in, lists, adds, edits and deletes your subscriptions, and shows what they cost
per month and per year along with the renewals coming up this week.`,
	Version:           "0.1.0",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initConfig,
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func initConfig(cmd *cobra.Command, _ []string) error {
	dir, err := config.GetGlobalConfigDir()
	if err != nil {
		return err
	}

	cfg, err := config.Load(dir, config.WithFlags(cmd.Flags()))
	if err != nil {
		return fmt.Errorf("error loading global config: %w", err)
	}

	level, err := common.ParseLevel(cfg.LogLevel)
	if err != nil {
		return common.NewUserError("invalid log level", err)
	}
	common.SetupLogger(level, cfg.LogFormat)

	globalConfig = cfg
	globalConfigDir = dir
	return nil
}

// reportedError marks an error the user has already been shown as a notification
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// IsReported reports whether err was already shown to the user
func IsReported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}

func reported(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{err: err}
}

// newApp builds the application state for a command and restores the session.
// Lazy apps do not fetch subscriptions when the session starts.
func newApp(cmd *cobra.Command, lazy bool) (*app.App, error) {
	a := app.New(app.Options{
		Config:    globalConfig,
		ConfigDir: globalConfigDir,
		Notifier:  &notify.Console{Out: cmd.OutOrStdout()},
		Busy:      &notify.Spinner{Out: cmd.ErrOrStderr()},
		Lazy:      lazy,
	})

	if err := a.Start(cmd.Context()); err != nil {
		return nil, err
	}
	return a, nil
}

// loggedInApp is newApp for commands that need a session
func loggedInApp(cmd *cobra.Command, lazy bool) (*app.App, error) {
	a, err := newApp(cmd, lazy)
	if err != nil {
		return nil, err
	}
	if err := a.RequireSession(); err != nil {
		return nil, err
	}
	return a, nil
}

func writeln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func writef(w io.Writer, format string, a ...any) {
	_, _ = fmt.Fprintf(w, format, a...)
}

func init() {
	rootCmd.PersistentFlags().String("server-url", "", "API server URL (overrides config)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (console, json)")
	rootCmd.PersistentFlags().Duration("http-timeout", 0, "request timeout, 0 for none")
}
