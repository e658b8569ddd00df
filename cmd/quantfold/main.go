package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/quantfold/quantfold/internal/config"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "quantfold",
	Short: "QUANTFOLD - walk-forward strategy optimization engine",
	Long: `QUANTFOLD backtests a parametric daily trading strategy under a
walk-forward protocol: retrain on a historical window, freeze parameters,
score out-of-sample on the following window, repeat.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
}

// loadConfig reads the configured file, or falls back to defaults so the
// synthetic paths work without any file at all.
func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.Defaults(), nil
	}
	return config.Load(cfgFile)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
