package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/calibtrack/calibtrack/go-engine/internal/config"
	"github.com/calibtrack/calibtrack/go-engine/internal/template"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "calibtrack",
	Short: "calibtrack — calibration tolerance and computed-field engine",
	Long:  "Evaluate template formulas, check records against tolerances, and replay stored fixtures.",
}

// loadConfig reads the configured YAML file, falling back to defaults when
// no path is given.
func loadConfig() *config.Config {
	if configPath == "" {
		return config.Defaults()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// openStore opens the SQLite store from config.
func openStore() (*template.Store, *config.Config) {
	cfg := loadConfig()
	store, err := template.NewStore(cfg.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return store, cfg
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml")
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(fixtureCmd)
}
