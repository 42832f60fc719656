package ui

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"subtrack/internal/app"
	"subtrack/internal/common"
	"subtrack/internal/config"
)

// Run starts the interactive dashboard. Logging goes to the log file in dir
// so the terminal is left to the UI.
func Run(ctx context.Context, cfg *config.Config, dir string) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	logFile, err := os.OpenFile(config.LogPath(dir), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("error opening log file: %w", err)
	}
	defer func(logFile *os.File) {
		_ = logFile.Close()
	}(logFile)

	level, err := common.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	common.SetupLoggerTo(logFile, level, cfg.LogFormat)

	bridge := &Bridge{}
	a := app.New(app.Options{
		Config:    cfg,
		ConfigDir: dir,
		Notifier:  bridge,
		Busy:      bridge,
	})

	p := tea.NewProgram(NewModel(ctx, a), tea.WithAltScreen(), tea.WithContext(ctx))
	bridge.Attach(p.Send)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running interface: %w", err)
	}
	return nil
}
