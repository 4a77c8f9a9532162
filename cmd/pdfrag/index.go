package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Analyze document layouts and (re)build the vector index",
	Long: `Runs layout analysis over every PDF in the source directory (skipping
documents that already have a cache entry), then rebuilds the vector
index from scratch and persists it to the storage directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
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

		fmt.Fprintln(cmd.OutOrStdout(), "Running document layout analysis...")
		if err := svc.AnalyzeLayouts(ctx); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Building index with chunk_size=%d, chunk_overlap=%d...\n",
			cfg.Chunker.ChunkSize, cfg.Chunker.ChunkOverlap)
		if err := svc.BuildIndex(ctx); err != nil {
			return fmt.Errorf("build index: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Index created and saved to %s\n", cfg.StorageDir)
		return nil
	},
}
