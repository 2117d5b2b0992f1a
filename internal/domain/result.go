package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ResultSample is one day of simulation output: both ledgers valued
// against that day's prices, plus fees accumulated so far.
type ResultSample struct {
	Date           time.Time
	PortfolioValue float64
	BenchmarkValue float64
	CumulativeFees float64
}

type RebalanceKind string

const (
	RebalanceKind_Normal    RebalanceKind = "NORMAL"
	RebalanceKind_Emergency RebalanceKind = "EMERGENCY"
)

// RebalanceEvent records a trigger firing and what it cost.
type RebalanceEvent struct {
	Date     time.Time
	Kind     RebalanceKind
	MaxDrift float64
	FeesPaid decimal.Decimal
}

// SimulationResult is the append-only series produced by one backtest
// run, finalized when the day loop ends.
type SimulationResult struct {
	RunID      uuid.UUID
	Samples    []ResultSample
	Rebalances []RebalanceEvent

	// ledger states when the loop ended
	FinalPortfolio *Portfolio
	Benchmark      *Portfolio
}

func (r SimulationResult) PortfolioValues() []float64 {
	values := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		values[i] = s.PortfolioValue
	}
	return values
}

func (r SimulationResult) BenchmarkValues() []float64 {
	values := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		values[i] = s.BenchmarkValue
	}
	return values
}

func (r SimulationResult) TotalFees() float64 {
	if len(r.Samples) == 0 {
		return 0
	}
	return r.Samples[len(r.Samples)-1].CumulativeFees
}
