package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgPath      string
	chunkSize    int
	chunkOverlap int
)

var rootCmd = &cobra.Command{
	Use:   "pdfrag",
	Short: "Retrieval-augmented question answering over a local PDF collection",
	Long: `pdfrag indexes the PDFs in a source directory (text extraction plus
layout analysis) and answers natural-language questions about them
using a local Ollama server for embeddings and completion.

Running pdfrag with no subcommand starts the interactive chat.`,
	RunE: runChat,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file (default: ./config.yaml, then ~/.config/pdfrag/config.yaml)")
	rootCmd.PersistentFlags().IntVar(&chunkSize, "chunk-size", 0, "chunk size in tokens (overrides config)")
	rootCmd.PersistentFlags().IntVar(&chunkOverlap, "chunk-overlap", 0, "chunk overlap in tokens (overrides config)")
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(indexCmd)
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
