package report

import (
	"fmt"
	"io"
	"strings"

	"hrambacktest/internal/calculator"
)

// WriteSummary renders the run comparison as a fixed-width console
// table. Formatting here is presentational only; nothing downstream
// parses it.
func WriteSummary(w io.Writer, comparison calculator.ComparisonResult) {
	divider := strings.Repeat("=", 58)

	fmt.Fprintln(w, divider)
	fmt.Fprintln(w, "STRESS TEST RESULTS (WITH FRICTION)")
	fmt.Fprintln(w, divider)
	fmt.Fprintf(w, "%-20s | %18s | %14s\n", "METRIC", "HRAM STRATEGY", "BUY & HOLD")
	fmt.Fprintln(w, strings.Repeat("-", 58))
	fmt.Fprintf(w, "%-20s | %17.2f%% | %13.2f%%\n", "Net Return",
		comparison.Strategy.NetReturn*100, comparison.Benchmark.NetReturn*100)
	fmt.Fprintf(w, "%-20s | %17.2f%% | %13.2f%%\n", "Max Drawdown",
		comparison.Strategy.MaxDrawdown*100, comparison.Benchmark.MaxDrawdown*100)
	fmt.Fprintf(w, "%-20s | %18.2f | %14.2f\n", "Sharpe Ratio",
		comparison.Strategy.SharpeRatio, comparison.Benchmark.SharpeRatio)
	fmt.Fprintf(w, "%-20s | %17.1fM | %14s\n", "Fees Paid",
		comparison.TotalFees/1e6, "0.0")
	fmt.Fprintln(w, strings.Repeat("-", 58))
	fmt.Fprintf(w, "Alpha (Net): %.2f%%\n", comparison.Alpha*100)
	fmt.Fprintln(w, divider)
}
