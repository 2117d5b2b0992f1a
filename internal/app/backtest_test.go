package app

import (
	"testing"
	"time"

	"hrambacktest/internal"
	"hrambacktest/internal/domain"
	"hrambacktest/internal/logger"
	"hrambacktest/internal/util"

	"github.com/stretchr/testify/require"
)

func Test_BacktestHandler_Run_crashScenario(t *testing.T) {
	history, err := internal.GenerateCrashHistory(internal.GenerateCrashHistoryInput{
		Scenario: internal.DefaultCrashScenario(),
		Days:     365,
		CrashDay: 100,
		Seed:     42,
	})
	require.NoError(t, err)

	cfg := internal.DefaultConfig()
	handler := BacktestHandler{Logger: logger.New()}

	result, err := handler.Run(BacktestInput{
		History: history,
		Config:  cfg,
	})
	require.NoError(t, err)

	t.Run("one sample per post-warmup day", func(t *testing.T) {
		require.Len(t, result.Samples, 365-cfg.WarmupDays)
		require.Equal(t, history.Date(cfg.WarmupDays), result.Samples[0].Date)
	})

	t.Run("ledger values stay positive", func(t *testing.T) {
		for _, sample := range result.Samples {
			require.Greaterf(t, sample.PortfolioValue, 0.0, "portfolio on %v", sample.Date)
			require.Greaterf(t, sample.BenchmarkValue, 0.0, "benchmark on %v", sample.Date)
		}
	})

	t.Run("fees start positive and never decrease", func(t *testing.T) {
		// the initial allocation already pays friction
		require.Greater(t, result.Samples[0].CumulativeFees, 0.0)
		for i := 1; i < len(result.Samples); i++ {
			require.GreaterOrEqual(t, result.Samples[i].CumulativeFees, result.Samples[i-1].CumulativeFees)
		}
	})

	t.Run("drift trigger fires during the run", func(t *testing.T) {
		require.NotEmpty(t, result.Rebalances)
		for _, event := range result.Rebalances {
			require.Greater(t, event.MaxDrift, cfg.RebalThresholdNormal)
			require.False(t, event.FeesPaid.IsNegative())
		}
	})

	t.Run("final ledgers have no negative balances", func(t *testing.T) {
		require.NotNil(t, result.FinalPortfolio)
		require.False(t, result.FinalPortfolio.Cash.IsNegative())
		for _, symbol := range result.FinalPortfolio.HeldSymbols() {
			require.Falsef(t, result.FinalPortfolio.Quantity(symbol).IsNegative(), "final holdings for %s", symbol)
		}
		require.NotNil(t, result.Benchmark)
		require.True(t, result.Benchmark.Cash.IsZero())
	})

	t.Run("fee series reconciles with rebalance events", func(t *testing.T) {
		expected := result.Samples[0].CumulativeFees
		for _, event := range result.Rebalances {
			expected += event.FeesPaid.InexactFloat64()
		}
		require.InDelta(t, expected, result.TotalFees(), 1e-3)
	})

	t.Run("same seed reproduces the run", func(t *testing.T) {
		rerun, err := handler.Run(BacktestInput{
			History: history,
			Config:  cfg,
		})
		require.NoError(t, err)
		require.Equal(t, len(result.Samples), len(rerun.Samples))
		require.Equal(t, result.Samples[len(result.Samples)-1].PortfolioValue, rerun.Samples[len(rerun.Samples)-1].PortfolioValue)
		require.Equal(t, len(result.Rebalances), len(rerun.Rebalances))
	})
}

// collapseHistory is flat until collapseDay, when every growth asset
// loses 80% in a single session. The jump is large enough that the
// stable asset's weight shoots past the emergency threshold no matter
// what the engine targets.
func collapseHistory(t *testing.T, days, collapseDay int) *domain.PriceHistory {
	t.Helper()
	symbols := []string{"STB", "GRW", "UPS"}
	series := map[string][]float64{}
	for _, symbol := range symbols {
		prices := make([]float64, days)
		for i := range prices {
			prices[i] = 100
			if symbol != "STB" && i >= collapseDay {
				prices[i] = 20
			}
		}
		series[symbol] = prices
	}

	dates := make([]time.Time, days)
	for i := range dates {
		dates[i] = util.NewDate(2025, 1, 1).AddDate(0, 0, i)
	}
	history, err := domain.NewPriceHistory(dates, series)
	require.NoError(t, err)
	return history
}

func Test_BacktestHandler_Run_emergencyRebalance(t *testing.T) {
	cfg := internal.DefaultConfig()
	cfg.VolWindow = 3
	cfg.MomWindow = 4
	cfg.CorrWindow = 5
	cfg.WarmupDays = 6
	cfg.Assets = []domain.Asset{
		{Symbol: "STB", Category: domain.AssetCategory_Foundation, VolProfile: 0.001, CrashCorrelation: 1.0, Liquidity: 1.0},
		{Symbol: "GRW", Category: domain.AssetCategory_Growth, VolProfile: 0.45, CrashCorrelation: 0.4, Liquidity: 1.0},
		{Symbol: "UPS", Category: domain.AssetCategory_Upside, VolProfile: 0.75, CrashCorrelation: 0.1, Liquidity: 1.0},
	}

	collapseDay := 8
	history := collapseHistory(t, 10, collapseDay)

	result, err := BacktestHandler{}.Run(BacktestInput{
		History: history,
		Config:  cfg,
	})
	require.NoError(t, err)

	require.NotEmpty(t, result.Rebalances)
	first := result.Rebalances[0]
	require.Equal(t, history.Date(collapseDay), first.Date)
	require.Equal(t, domain.RebalanceKind_Emergency, first.Kind)
	require.Greater(t, first.MaxDrift, cfg.RebalThresholdEmergency)
	require.True(t, first.FeesPaid.IsPositive())
}

func Test_BacktestHandler_Run_lastDayRebalanceFees(t *testing.T) {
	cfg := internal.DefaultConfig()
	cfg.VolWindow = 3
	cfg.MomWindow = 4
	cfg.CorrWindow = 5
	cfg.WarmupDays = 6
	cfg.Assets = []domain.Asset{
		{Symbol: "STB", Category: domain.AssetCategory_Foundation, VolProfile: 0.001, CrashCorrelation: 1.0, Liquidity: 1.0},
		{Symbol: "GRW", Category: domain.AssetCategory_Growth, VolProfile: 0.45, CrashCorrelation: 0.4, Liquidity: 1.0},
		{Symbol: "UPS", Category: domain.AssetCategory_Upside, VolProfile: 0.75, CrashCorrelation: 0.1, Liquidity: 1.0},
	}

	// collapse on the very last trading day, so the rebalance it forces
	// has no later sample to carry its fees
	history := collapseHistory(t, 10, 9)

	result, err := BacktestHandler{}.Run(BacktestInput{
		History: history,
		Config:  cfg,
	})
	require.NoError(t, err)

	require.NotEmpty(t, result.Rebalances)
	last := result.Rebalances[len(result.Rebalances)-1]
	require.Equal(t, history.Date(9), last.Date)
	require.True(t, last.FeesPaid.IsPositive())

	expected := result.Samples[0].CumulativeFees
	for _, event := range result.Rebalances {
		expected += event.FeesPaid.InexactFloat64()
	}
	require.InDelta(t, expected, result.TotalFees(), 1e-6)
	require.Greater(t, result.TotalFees(), result.Samples[0].CumulativeFees)
}

func Test_BacktestHandler_Run_inputValidation(t *testing.T) {
	cfg := internal.DefaultConfig()

	t.Run("nil history", func(t *testing.T) {
		_, err := BacktestHandler{}.Run(BacktestInput{Config: cfg})
		require.Error(t, err)
	})

	t.Run("invalid config", func(t *testing.T) {
		bad := cfg
		bad.InitialCapital = -1
		_, err := BacktestHandler{}.Run(BacktestInput{History: collapseHistory(t, 10, 8), Config: bad})
		require.Error(t, err)
	})

	t.Run("history missing an asset column", func(t *testing.T) {
		_, err := BacktestHandler{}.Run(BacktestInput{History: collapseHistory(t, 10, 8), Config: cfg})
		require.Error(t, err)
	})

	t.Run("warmup longer than history", func(t *testing.T) {
		short := cfg
		short.Assets = []domain.Asset{
			{Symbol: "STB", Category: domain.AssetCategory_Foundation, VolProfile: 0.001, CrashCorrelation: 1.0, Liquidity: 1.0},
			{Symbol: "GRW", Category: domain.AssetCategory_Growth, VolProfile: 0.45, CrashCorrelation: 0.4, Liquidity: 1.0},
			{Symbol: "UPS", Category: domain.AssetCategory_Upside, VolProfile: 0.75, CrashCorrelation: 0.1, Liquidity: 1.0},
		}
		short.WarmupDays = 60
		_, err := BacktestHandler{}.Run(BacktestInput{History: collapseHistory(t, 10, 8), Config: short})
		require.Error(t, err)
	})
}
