package main

import (
	"context"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"pdfrag/internal/tui"
)

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := os.MkdirAll(cfg.PDFDir, 0o755); err != nil {
		return err
	}

	svc, _ := buildService(cfg)
	ctx := context.Background()

	if err := svc.CheckEnvironment(ctx); err != nil {
		return fmt.Errorf("environment check failed: %w (run `pdfrag status` for details)", err)
	}
	if err := svc.AnalyzeLayouts(ctx); err != nil {
		log.Printf("warning: layout analysis: %v", err)
	}
	if loaded, err := svc.LoadExistingIndex(); err != nil {
		return err
	} else if loaded {
		log.Printf("loaded index from %s", cfg.StorageDir)
	} else {
		log.Printf("no index found at %s; it will be built on the first question", cfg.StorageDir)
	}

	p := tea.NewProgram(tui.New(svc), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
