package calculator

import (
	"fmt"
	"math"

	"hrambacktest/internal/domain"

	"github.com/montanaflynn/stats"
)

type CalculateMetricsResult struct {
	NetReturn   float64
	MaxDrawdown float64
	SharpeRatio float64
}

type ComparisonResult struct {
	Strategy  CalculateMetricsResult
	Benchmark CalculateMetricsResult
	Alpha     float64
	TotalFees float64
}

// CalculateMetrics summarizes one value series. It assumes the series
// is gap-free and chronologically ordered, which the simulation loop
// guarantees.
func CalculateMetrics(values []float64, riskFreeRate float64) (*CalculateMetricsResult, error) {
	if len(values) < 2 {
		return nil, fmt.Errorf("cannot calculate metrics on < 2 samples")
	}

	netReturn := values[len(values)-1]/values[0] - 1

	maxDrawdown, err := MaxDrawdown(values)
	if err != nil {
		return nil, err
	}

	sharpe, err := SharpeRatio(values, riskFreeRate)
	if err != nil {
		return nil, err
	}

	return &CalculateMetricsResult{
		NetReturn:   netReturn,
		MaxDrawdown: maxDrawdown,
		SharpeRatio: sharpe,
	}, nil
}

// MaxDrawdown is the largest peak-to-current drop, expressed as a
// non-positive fraction. A strictly increasing series has drawdown 0.
func MaxDrawdown(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("cannot calculate drawdown of empty series")
	}

	peak := values[0]
	maxDrawdown := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
		drawdown := (v - peak) / peak
		if drawdown < maxDrawdown {
			maxDrawdown = drawdown
		}
	}

	return maxDrawdown, nil
}

// SharpeRatio annualizes daily returns over 365 days. A zero-variance
// return stream has no defined Sharpe ratio and surfaces as an error
// instead of an infinity.
func SharpeRatio(values []float64, riskFreeRate float64) (float64, error) {
	returns, err := dailyReturns(values)
	if err != nil {
		return 0, err
	}

	mean, err := stats.Mean(returns)
	if err != nil {
		return 0, err
	}
	stdev, err := stats.StandardDeviationSample(returns)
	if err != nil {
		return 0, fmt.Errorf("failed to calculate stdev of returns: %w", err)
	}
	if stdev == 0 {
		return 0, fmt.Errorf("cannot calculate sharpe ratio of zero volatility return stream")
	}

	excess := mean*365 - riskFreeRate
	return excess / (stdev * math.Sqrt(365)), nil
}

// CompareToBenchmark computes both ledgers' summary metrics plus the
// strategy's alpha over buy-and-hold.
func CompareToBenchmark(result domain.SimulationResult, riskFreeRate float64) (*ComparisonResult, error) {
	strategy, err := CalculateMetrics(result.PortfolioValues(), riskFreeRate)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate strategy metrics: %w", err)
	}
	benchmark, err := CalculateMetrics(result.BenchmarkValues(), riskFreeRate)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate benchmark metrics: %w", err)
	}

	return &ComparisonResult{
		Strategy:  *strategy,
		Benchmark: *benchmark,
		Alpha:     strategy.NetReturn - benchmark.NetReturn,
		TotalFees: result.TotalFees(),
	}, nil
}

func dailyReturns(values []float64) ([]float64, error) {
	if len(values) < 2 {
		return nil, fmt.Errorf("cannot calculate returns on < 2 values")
	}
	returns := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] == 0 {
			return nil, fmt.Errorf("cannot calculate return from zero value at index %d", i-1)
		}
		returns[i-1] = values[i]/values[i-1] - 1
	}
	return returns, nil
}
