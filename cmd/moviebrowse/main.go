package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"moviehub/browse"
	"moviehub/tui"
)

func main() {
	apiURL := flag.String("api", "http://localhost:8080", "base URL of the movie proxy")
	logPath := flag.String("log", "", "write debug logs to this file")
	flag.Parse()

	if err := run(*apiURL, *logPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(apiURL, logPath string) error {
	var out io.Writer = io.Discard
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var p *tea.Program
	fwd := tui.NewForwarder(func(msg tea.Msg) { p.Send(msg) })
	defer fwd.Close()

	controller := browse.New(
		browse.NewClient(apiURL, nil),
		browse.WithLogger(logger),
		browse.WithContext(ctx),
		browse.WithNotify(fwd.Notify),
	)

	p = tea.NewProgram(tui.New(controller), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("program exited: %w", err)
	}

	cancel()
	controller.Wait()
	return nil
}
