// Package main is the entry point for the encounter engine
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-encounter/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "rpg-encounter",
	Short: "RPG encounter engine",
	Long:  `Expands monster templates into seeded variants and runs turn-based encounters with an AI decision oracle.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		appConfig = cfg
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: cfg.SlogLevel(),
		})))
		return nil
	},
	SilenceUsage: true,
}

// appConfig is loaded once before any command runs
var appConfig *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(cacheCmd)
}
