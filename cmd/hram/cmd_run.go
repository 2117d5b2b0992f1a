package main

import (
	"fmt"
	"os"

	"hrambacktest/internal"
	"hrambacktest/internal/app"
	"hrambacktest/internal/calculator"
	"hrambacktest/internal/domain"
	"hrambacktest/internal/logger"
	"hrambacktest/internal/report"

	"github.com/spf13/cobra"
)

var (
	runConfigPath string
	runPricesPath string
	runDays       int
	runCrashDay   int
	runSeed       int64
	runChartPath  string
	runCSVPath    string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a backtest and print the summary table",
	Long: `Run the HRAM strategy against a price history and print summary
metrics for the strategy and the buy-and-hold benchmark.

Examples:
  hram run                              # synthetic crash scenario, defaults
  hram run --days 365 --seed 42         # explicit scenario shape
  hram run --prices prices.csv          # CSV price table instead
  hram run --chart out.png --out run.csv`,
	RunE: runBacktest,
}

func init() {
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "YAML config file (defaults used when omitted)")
	runCmd.Flags().StringVar(&runPricesPath, "prices", "", "CSV price table (synthetic generator used when omitted)")
	runCmd.Flags().IntVar(&runDays, "days", 365, "days of synthetic history to generate")
	runCmd.Flags().IntVar(&runCrashDay, "crash-day", 100, "first day of the synthetic crash phase")
	runCmd.Flags().Int64Var(&runSeed, "seed", 42, "seed for the synthetic generator")
	runCmd.Flags().StringVar(&runChartPath, "chart", "", "write a PNG chart of both value series")
	runCmd.Flags().StringVar(&runCSVPath, "out", "", "write the result series as CSV")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg := internal.DefaultConfig()
	if runConfigPath != "" {
		loaded, err := internal.LoadConfig(runConfigPath)
		if err != nil {
			return err
		}
		cfg = *loaded
	}

	history, err := loadHistory()
	if err != nil {
		return err
	}

	handler := app.BacktestHandler{Logger: logger.New()}
	result, err := handler.Run(app.BacktestInput{
		History: history,
		Config:  cfg,
	})
	if err != nil {
		return err
	}

	comparison, err := calculator.CompareToBenchmark(*result, cfg.RiskFreeRate)
	if err != nil {
		return err
	}
	report.WriteSummary(os.Stdout, *comparison)
	fmt.Printf("run id: %s, rebalances: %d\n", result.RunID, len(result.Rebalances))

	if runChartPath != "" {
		if err := report.WriteChartFile(*result, "HRAM Stress Test: Returns After Fees & Slippage", runChartPath); err != nil {
			return err
		}
		fmt.Printf("wrote chart to %s\n", runChartPath)
	}
	if runCSVPath != "" {
		if err := internal.WriteResultCSV(*result, runCSVPath); err != nil {
			return err
		}
		fmt.Printf("wrote result series to %s\n", runCSVPath)
	}

	return nil
}

func loadHistory() (*domain.PriceHistory, error) {
	if runPricesPath != "" {
		return internal.LoadPriceHistoryCSV(runPricesPath)
	}
	return internal.GenerateCrashHistory(internal.GenerateCrashHistoryInput{
		Scenario: internal.DefaultCrashScenario(),
		Days:     runDays,
		CrashDay: runCrashDay,
		Seed:     runSeed,
	})
}
