package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/bowerhall/regen/internal/app"
	"github.com/bowerhall/regen/internal/config"
	"github.com/bowerhall/regen/internal/logger"
	"github.com/bowerhall/regen/internal/tui"
)

func init() {
	godotenv.Load()
}

func main() {
	// log lines would corrupt the screen, so they go to a file or nowhere
	logPath := os.Getenv("REGEN_LOG_FILE")
	if logPath == "" {
		logPath = os.DevNull
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger.SetOutput(logFile)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	regen, err := app.Build(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "start: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sessionID := "tui:" + uuid.New().String()[:8]
	model := tui.New(ctx, regen, regen.Session(sessionID), cfg.Gateway.MaxImageBytes)

	logger.Info("tui started", "session", sessionID, "gateway", cfg.Gateway.BaseURL)

	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if m, ok := final.(tui.Model); ok {
		m.Close()
	}
	if err != nil {
		logger.Error("tui failed", "error", err)
		fmt.Fprintf(os.Stderr, "tui: %v\n", err)
		os.Exit(1)
	}

	logger.Info("tui exited", "session", sessionID)
}
