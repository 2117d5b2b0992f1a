package domain

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// AssetPrice is a single (symbol, date) price observation.
type AssetPrice struct {
	Symbol string
	Price  float64
	Date   time.Time
}

// PriceHistory is an immutable, date-indexed table of positive prices
// for a fixed set of symbols. Dates are strictly increasing and every
// symbol has a price on every date; anything else fails construction.
type PriceHistory struct {
	dates  []time.Time
	series map[string][]float64
}

func NewPriceHistory(dates []time.Time, series map[string][]float64) (*PriceHistory, error) {
	if len(dates) == 0 {
		return nil, fmt.Errorf("price history must contain at least one date")
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("price history must contain at least one symbol")
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1]) {
			return nil, fmt.Errorf("price history dates must be strictly increasing: %v followed by %v", dates[i-1], dates[i])
		}
	}
	for symbol, prices := range series {
		if len(prices) != len(dates) {
			return nil, fmt.Errorf("symbol %s has %d prices but history has %d dates", symbol, len(prices), len(dates))
		}
		for i, p := range prices {
			if p <= 0 || math.IsNaN(p) || math.IsInf(p, 0) {
				return nil, fmt.Errorf("symbol %s has invalid price %f on %v", symbol, p, dates[i])
			}
		}
	}

	return &PriceHistory{
		dates:  dates,
		series: series,
	}, nil
}

func (h PriceHistory) Len() int {
	return len(h.dates)
}

func (h PriceHistory) Date(i int) time.Time {
	return h.dates[i]
}

func (h PriceHistory) Dates() []time.Time {
	return h.dates
}

func (h PriceHistory) Symbols() []string {
	symbols := []string{}
	for symbol := range h.series {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

func (h PriceHistory) HasSymbol(symbol string) bool {
	_, ok := h.series[symbol]
	return ok
}

// Row returns the symbol -> price map for day i.
func (h PriceHistory) Row(i int) map[string]float64 {
	row := map[string]float64{}
	for symbol, prices := range h.series {
		row[symbol] = prices[i]
	}
	return row
}

// Series returns prices for symbol over [start, end). Callers must
// not mutate the returned slice.
func (h PriceHistory) Series(symbol string, start, end int) ([]float64, error) {
	prices, ok := h.series[symbol]
	if !ok {
		return nil, fmt.Errorf("price history does not have symbol %s", symbol)
	}
	if start < 0 || end > len(prices) || start >= end {
		return nil, fmt.Errorf("invalid price range [%d, %d) for history of length %d", start, end, len(prices))
	}
	return prices[start:end], nil
}
