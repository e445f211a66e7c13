// Package main is the entry point for the rpg-gm server and its tools
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-gm/cmd/server/client"
	"github.com/KirkDiggler/rpg-gm/internal/config"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "rpg-gm",
	Short: "RPG game master server",
	Long: `rpg-gm runs a tabletop RPG game master backed by a local language model.
The model narrates; dice, hit points, position and companions are tracked by the server.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file read before the environment (missing is fine)")

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(rollCmd)
	rootCmd.AddCommand(client.ClientCmd)
}

// loadConfig reads settings and installs the process logger
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	slog.SetDefault(cfg.NewLogger(os.Stderr))
	return cfg, nil
}
