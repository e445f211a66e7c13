package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models installed on the model backend",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		client, err := newLLMClient(cfg)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.ModelTimeout)
		defer cancel()

		models, err := client.ListModels(ctx)
		if err != nil {
			return fmt.Errorf("failed to list models at %s: %w", cfg.OllamaURL, err)
		}

		out := cmd.OutOrStdout()
		if len(models) == 0 {
			fmt.Fprintf(out, "no models installed, the server will use %s\n", cfg.DefaultModel)
			return nil
		}
		for _, m := range models {
			fmt.Fprintln(out, m)
		}
		return nil
	},
}
