package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the base command for the HRAM backtest CLI
var rootCmd = &cobra.Command{
	Use:   "hram",
	Short: "Backtest the HRAM multi-factor allocation strategy",
	Long: `hram backtests a risk-parity x momentum x correlation x liquidity
portfolio allocation strategy against an equal-weight buy-and-hold
benchmark, under a fee + volatility-dependent slippage friction model.

Prices come from a fixed-seed synthetic crash generator or a CSV file.`,
}

func main() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(generateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
