package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/activity/internal/config"
	"github.com/sadopc/activity/internal/store"
	"github.com/sadopc/activity/internal/tracker"
	"github.com/sadopc/activity/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}

	// The TUI owns the terminal, so logs go to a file.
	logFile, err := config.OpenLogFile(cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	l := config.NewLogger(config.LogOptions{Writer: logFile, Level: cfg.LogLevel})

	s, err := store.New(cfg.DBPath, store.WithLogger(l))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()
	l.Info("starting", "db", cfg.DBPath, "dev", cfg.DevMode)

	app := tui.NewApp(tracker.NewService(s, tracker.WithLogger(l)))
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		l.Error("program exited", "err", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
