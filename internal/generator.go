package internal

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"hrambacktest/internal/domain"
	"hrambacktest/internal/util"
)

// Synthetic "crypto winter" price generator: a fixed-seed random walk
// standing in for real market data. Phase 1 is choppy/bullish, phase 2
// is a drawn-out crash with expanded volatility.

const (
	// volatility expands by this much once the crash starts, except
	// for quasi-stable assets
	crashVolExpansion = 1.5
	generatorBasePx   = 100.0
)

// ScenarioAsset pairs an asset with the drift it exhibits before and
// after the crash day.
type ScenarioAsset struct {
	Asset      domain.Asset
	BullTrend  float64
	CrashTrend float64
	// Stable assets keep their base volatility through the crash.
	Stable bool
}

// DefaultCrashScenario reproduces the five-asset 2022-style stress
// scenario the strategy was tuned against.
func DefaultCrashScenario() []ScenarioAsset {
	universe := DefaultUniverse()
	trends := map[string]struct {
		bull   float64
		crash  float64
		stable bool
	}{
		"USDT": {0.0001, 0.0001, true},
		"PAXG": {0.0002, 0.0002, false},
		"BTC":  {0.001, -0.003, false},
		"ETH":  {0.001, -0.0035, false},
		"SOL":  {0.001, -0.005, false},
	}

	scenario := []ScenarioAsset{}
	for _, asset := range universe {
		t := trends[asset.Symbol]
		scenario = append(scenario, ScenarioAsset{
			Asset:      asset,
			BullTrend:  t.bull,
			CrashTrend: t.crash,
			Stable:     t.stable,
		})
	}
	return scenario
}

type GenerateCrashHistoryInput struct {
	Scenario []ScenarioAsset
	Days     int
	// CrashDay is the first day of the crash phase.
	CrashDay int
	Seed     int64
	Start    time.Time
}

// GenerateCrashHistory produces a deterministic synthetic price table:
// same seed, same prices.
func GenerateCrashHistory(in GenerateCrashHistoryInput) (*domain.PriceHistory, error) {
	if in.Days <= 0 {
		return nil, fmt.Errorf("cannot generate history of %d days", in.Days)
	}
	if len(in.Scenario) == 0 {
		return nil, fmt.Errorf("cannot generate history with empty scenario")
	}
	if in.CrashDay < 0 || in.CrashDay > in.Days {
		return nil, fmt.Errorf("crash day %d out of range for %d days", in.CrashDay, in.Days)
	}
	start := in.Start
	if start.IsZero() {
		start = util.NewDate(2025, 1, 1)
	}

	rng := rand.New(rand.NewSource(in.Seed))

	dates := make([]time.Time, in.Days)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}

	series := map[string][]float64{}
	for _, sc := range in.Scenario {
		baseVol := sc.Asset.VolProfile / math.Sqrt(365)

		prices := make([]float64, in.Days)
		price := generatorBasePx
		for day := 0; day < in.Days; day++ {
			trend := sc.BullTrend
			vol := baseVol
			if day >= in.CrashDay {
				trend = sc.CrashTrend
				if !sc.Stable {
					vol = baseVol * crashVolExpansion
				}
			}
			ret := trend + rng.NormFloat64()*vol
			price *= 1 + ret
			prices[day] = price
		}
		series[sc.Asset.Symbol] = prices
	}

	return domain.NewPriceHistory(dates, series)
}
