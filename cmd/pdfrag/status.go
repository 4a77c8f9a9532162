package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check Ollama connectivity and required model availability",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		_, client := buildService(cfg)
		ctx := context.Background()
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "Ollama server: %s\n", client.BaseURL())
		version, err := client.Version(ctx)
		if err != nil {
			fmt.Fprintln(out, "  status: unreachable")
			fmt.Fprintf(out, "  error: %v\n", err)
			fmt.Fprintln(out, "\nStart the server with `ollama serve` and try again.")
			return nil
		}
		fmt.Fprintf(out, "  status: running (version %s)\n", version)

		required := []string{cfg.Ollama.LLMModel, cfg.Ollama.EmbedModel}
		available, err := client.CheckModels(ctx, required)
		if err != nil {
			return fmt.Errorf("list models: %w", err)
		}

		fmt.Fprintln(out, "\nRequired models:")
		var missing []string
		for _, name := range required {
			if available[name] {
				fmt.Fprintf(out, "  [ok] %s\n", name)
			} else {
				fmt.Fprintf(out, "  [missing] %s\n", name)
				missing = append(missing, name)
			}
		}

		models, err := client.ListModels(ctx)
		if err == nil && len(models) > 0 {
			fmt.Fprintln(out, "\nInstalled models:")
			for _, m := range models {
				fmt.Fprintf(out, "  %s\n", m)
			}
		}

		if len(missing) > 0 {
			fmt.Fprintln(out, "\nPull the missing models with:")
			for _, name := range missing {
				fmt.Fprintf(out, "  ollama pull %s\n", name)
			}
		}
		return nil
	},
}
