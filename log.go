package main

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/caarlos0/env/v11"

	"github.com/hyaochen/echolingo-lab/ui"
)

func setupLog() (func() error, error) {
	// Log to file, if set
	cfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return nil, fmt.Errorf("error parsing config: %v", err)
	}
	if cfg.Logfile != "" {
		f, err := tea.LogToFileWith(cfg.Logfile, "echolingo", log.Default())
		if err != nil {
			return nil, fmt.Errorf("error setting up logging: %w", err)
		}
		log.SetLevel(log.InfoLevel)
		if cfg.Debug {
			log.SetLevel(log.DebugLevel)
		}
		return f.Close, nil
	}
	log.SetOutput(io.Discard)
	return func() error { return nil }, nil
}
