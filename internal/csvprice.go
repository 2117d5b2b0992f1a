package internal

import (
	"fmt"
	"os"
	"time"

	"hrambacktest/internal/domain"

	"github.com/gocarina/gocsv"
)

const csvDateLayout = "2006-01-02"

// long-format price table: one row per (date, symbol)
type priceRow struct {
	Date   string  `csv:"date"`
	Symbol string  `csv:"symbol"`
	Price  float64 `csv:"price"`
}

type resultRow struct {
	Date           string  `csv:"date"`
	PortfolioValue float64 `csv:"portfolio_value"`
	BenchmarkValue float64 `csv:"benchmark_value"`
	CumulativeFees float64 `csv:"cumulative_fees"`
}

// LoadPriceHistoryCSV reads a long-format price table. Dates are
// ordered by first appearance and the result goes through the same
// validation as any other PriceHistory, so gaps, non-positive prices
// and unordered dates are all fatal.
func LoadPriceHistoryCSV(path string) (*domain.PriceHistory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open price file: %w", err)
	}
	defer f.Close()

	rows := []*priceRow{}
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse price file %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("price file %s contains no rows", path)
	}

	dates := []time.Time{}
	dateIndex := map[string]int{}
	pricesBySymbol := map[string]map[string]float64{}
	for _, row := range rows {
		if _, ok := dateIndex[row.Date]; !ok {
			parsed, err := time.Parse(csvDateLayout, row.Date)
			if err != nil {
				return nil, fmt.Errorf("failed to parse date '%s': %w", row.Date, err)
			}
			dateIndex[row.Date] = len(dates)
			dates = append(dates, parsed)
		}
		if pricesBySymbol[row.Symbol] == nil {
			pricesBySymbol[row.Symbol] = map[string]float64{}
		}
		pricesBySymbol[row.Symbol][row.Date] = row.Price
	}

	series := map[string][]float64{}
	for symbol, priceByDate := range pricesBySymbol {
		prices := make([]float64, len(dates))
		for dateStr, i := range dateIndex {
			price, ok := priceByDate[dateStr]
			if !ok {
				return nil, fmt.Errorf("symbol %s has no price on %s", symbol, dateStr)
			}
			prices[i] = price
		}
		series[symbol] = prices
	}

	return domain.NewPriceHistory(dates, series)
}

func WritePriceHistoryCSV(history *domain.PriceHistory, path string) error {
	rows := []*priceRow{}
	symbols := history.Symbols()
	for i, date := range history.Dates() {
		row := history.Row(i)
		for _, symbol := range symbols {
			rows = append(rows, &priceRow{
				Date:   date.Format(csvDateLayout),
				Symbol: symbol,
				Price:  row[symbol],
			})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create price file: %w", err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return fmt.Errorf("failed to write price file %s: %w", path, err)
	}
	return nil
}

func WriteResultCSV(result domain.SimulationResult, path string) error {
	rows := make([]*resultRow, len(result.Samples))
	for i, sample := range result.Samples {
		rows[i] = &resultRow{
			Date:           sample.Date.Format(csvDateLayout),
			PortfolioValue: sample.PortfolioValue,
			BenchmarkValue: sample.BenchmarkValue,
			CumulativeFees: sample.CumulativeFees,
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create result file: %w", err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return fmt.Errorf("failed to write result file %s: %w", path, err)
	}
	return nil
}
