package internal

import (
	"fmt"
	"math"

	"hrambacktest/internal/domain"

	"github.com/montanaflynn/stats"
)

// Figure out how to weight the portfolio given the price window.
//
// Weight = normalize( RiskParity * Momentum * Correlation * Liquidity )
//
// The clamp step below is an approximation, not a solver: three fixed
// renormalize-then-clamp passes followed by one final renormalization.
// After the final pass some weights can still sit slightly outside
// [MinWeight, MaxWeight]; callers (and tests) should only rely on a
// tolerance around the box, not exact containment.

const (
	momentumTilt    = 0.3
	momentumFloor   = 0.1
	correlationTilt = 0.2
	volEpsilon      = 1e-6
	clampPasses     = 3
)

type ComputeTargetWeightsInput struct {
	History *domain.PriceHistory
	// Day indexes the evaluation date within History; the window ends
	// on this row inclusive.
	Day      int
	Universe []domain.Asset
	Config   Config
}

// ComputeTargetWeights maps a price window to a normalized, capped
// weight vector. Pure; no side effects.
func ComputeTargetWeights(in ComputeTargetWeightsInput) (map[string]float64, error) {
	if len(in.Universe) == 0 {
		return nil, fmt.Errorf("cannot compute target weights with 0 asset universe")
	}
	if in.Day < 0 || in.Day >= in.History.Len() {
		return nil, fmt.Errorf("day %d out of range for history of length %d", in.Day, in.History.Len())
	}

	lookback := in.Config.Lookback()
	if in.Day+1 < lookback {
		// cold start - not enough history to score anything
		return equalWeights(in.Universe), nil
	}

	windowStart := in.Day + 1 - lookback
	windowEnd := in.Day + 1

	returnsBySymbol := map[string][]float64{}
	for _, asset := range in.Universe {
		prices, err := in.History.Series(asset.Symbol, windowStart, windowEnd)
		if err != nil {
			return nil, fmt.Errorf("failed to slice lookback window: %w", err)
		}
		returnsBySymbol[asset.Symbol] = dailyReturns(prices)
	}

	corrStart := lookback - in.Config.CorrWindow

	rawScores := map[string]float64{}
	rawSum := 0.0
	for _, asset := range in.Universe {
		prices, err := in.History.Series(asset.Symbol, windowStart, windowEnd)
		if err != nil {
			return nil, err
		}

		fRisk, err := riskParityFactor(returnsBySymbol[asset.Symbol])
		if err != nil {
			return nil, fmt.Errorf("failed to compute risk factor for %s: %w", asset.Symbol, err)
		}
		fMom := momentumFactor(prices, in.Config.MomWindow)
		fCorr := correlationFactor(asset.Symbol, in.Universe, returnsBySymbol, corrStart)
		fLiq := asset.Liquidity

		score := fRisk * fMom * fCorr * fLiq
		rawScores[asset.Symbol] = score
		rawSum += score
	}

	if rawSum <= 0 || math.IsNaN(rawSum) || math.IsInf(rawSum, 0) {
		// degenerate scores - fall back rather than divide by garbage
		return equalWeights(in.Universe), nil
	}

	weights := map[string]float64{}
	for symbol, score := range rawScores {
		weights[symbol] = score / rawSum
	}

	for pass := 0; pass < clampPasses; pass++ {
		total := 0.0
		for _, w := range weights {
			total += w
		}
		for symbol, w := range weights {
			weights[symbol] = clamp(w/total, in.Config.MinWeight, in.Config.MaxWeight)
		}
	}

	finalTotal := 0.0
	for _, w := range weights {
		finalTotal += w
	}
	for symbol, w := range weights {
		weights[symbol] = w / finalTotal
	}

	// validate new weights add to 100
	sum := 0.0
	for symbol, w := range weights {
		if math.IsNaN(w) {
			return nil, fmt.Errorf("invalid weight NaN for %s", symbol)
		}
		sum += w
	}
	if math.Abs(sum-1) > 0.0001 {
		return nil, fmt.Errorf("new weights should sum to 1, got %f", sum)
	}

	return weights, nil
}

func equalWeights(universe []domain.Asset) map[string]float64 {
	weights := map[string]float64{}
	for _, asset := range universe {
		weights[asset.Symbol] = 1.0 / float64(len(universe))
	}
	return weights
}

func dailyReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		returns[i-1] = prices[i]/prices[i-1] - 1
	}
	return returns
}

// riskParityFactor is 1 / (annualized stdev of daily returns + eps).
// The epsilon keeps near-zero-volatility assets from dominating with
// an unbounded score.
func riskParityFactor(returns []float64) (float64, error) {
	stdev, err := stats.StandardDeviationSample(returns)
	if err != nil {
		return 0, err
	}
	annualizedVol := stdev * math.Sqrt(365)
	return 1 / (annualizedVol + volEpsilon), nil
}

// momentumFactor tilts by how far the last price sits above its mean
// over the momentum window, floored so severe drawdowns cannot zero
// out an asset's score.
func momentumFactor(windowPrices []float64, momWindow int) float64 {
	if momWindow > len(windowPrices) {
		momWindow = len(windowPrices)
	}
	recent := windowPrices[len(windowPrices)-momWindow:]
	sma, err := stats.Mean(recent)
	if err != nil || sma == 0 {
		return momentumFloor
	}
	momentum := windowPrices[len(windowPrices)-1]/sma - 1
	factor := 1 + momentum*momentumTilt
	if factor < momentumFloor {
		factor = momentumFloor
	}
	return factor
}

// correlationFactor discounts assets that move with the rest of the
// universe. The average includes the asset's own (unit) correlation,
// matching how the column mean of a correlation matrix behaves.
func correlationFactor(symbol string, universe []domain.Asset, returnsBySymbol map[string][]float64, corrStart int) float64 {
	own := returnsBySymbol[symbol]
	if corrStart < 0 || corrStart >= len(own) {
		corrStart = 0
	}

	sum := 0.0
	for _, other := range universe {
		corr, err := stats.Correlation(own[corrStart:], returnsBySymbol[other.Symbol][corrStart:])
		if err != nil {
			corr = 0
		}
		sum += corr
	}
	avgCorr := sum / float64(len(universe))

	return 1 - avgCorr*correlationTilt
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
