package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/costwatch/costwatch/internal/config"
	"github.com/costwatch/costwatch/internal/core"
	"github.com/costwatch/costwatch/internal/tui"
)

// RunDashboard resolves credentials, wires the env-file watcher when one
// is configured, and runs the Bubble Tea program until quit or signal.
func RunDashboard(cfg config.Config) {
	keys, err := config.ResolveKeys(cfg.EnvFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving credentials: %v\n", err)
		os.Exit(1)
	}

	opts := []tui.Option{
		tui.WithInitialView(metricFromConfig(cfg.UI.DefaultMetric), rangeFromConfig(cfg.UI.DefaultRange)),
		tui.WithCredentialSaver(func(p core.Provider, key string) {
			if err := config.SaveCredential(p, key); err != nil {
				log.Printf("saving credential for %s: %v", p, err)
			}
		}),
	}

	if cfg.EnvFile != "" {
		watcher, err := config.WatchEnvFile(cfg.EnvFile)
		if err != nil {
			log.Printf("env file watch disabled: %v", err)
		} else {
			defer watcher.Close()
			opts = append(opts, tui.WithCredentialUpdates(watcher.Updates()))
		}
	}

	model := tui.NewModel(keys, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("TUI error: %v", err)
	}
}

func metricFromConfig(s string) tui.Metric {
	if s == "cost" {
		return tui.MetricCost
	}
	return tui.MetricUsage
}

func rangeFromConfig(s string) tui.Range {
	if s == "30d" {
		return tui.RangeThirtyDays
	}
	return tui.RangeSevenDays
}
