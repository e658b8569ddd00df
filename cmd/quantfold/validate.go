package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantfold/quantfold/internal/dataset"
)

var validateCmd = &cobra.Command{
	Use:   "validate [csv]",
	Short: "Pre-flight check a candle CSV",
	Long: "Parse a candle CSV and report every data-contract violation: timestamp " +
		"ordering, OHLC consistency, non-finite prices, and coarse gaps.",
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	candles, err := dataset.LoadCSVFile(args[0])
	if err != nil {
		return err
	}

	issues := dataset.Validate(candles)

	fmt.Printf("Bars:   %d\n", len(candles))
	fmt.Printf("Issues: %d\n", len(issues))
	for _, issue := range issues {
		fmt.Printf("  bar %d [%s] %s\n", issue.Index, issue.Kind, issue.Detail)
	}

	// Gaps are informational, so exit failure only on contract violations.
	if err := dataset.Check(candles); err != nil {
		return err
	}
	return nil
}
