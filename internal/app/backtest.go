package app

import (
	"fmt"

	"hrambacktest/internal"
	"hrambacktest/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type BacktestHandler struct {
	Logger *zap.SugaredLogger
}

type BacktestInput struct {
	History *domain.PriceHistory
	Config  internal.Config
}

// Run walks the price history one trading day at a time: value both
// ledgers, compute target weights, evaluate the drift trigger, and
// execute against the strategy ledger when it fires. The benchmark
// ledger never trades after initialization.
func (h BacktestHandler) Run(in BacktestInput) (*domain.SimulationResult, error) {
	if err := in.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if in.History == nil {
		return nil, fmt.Errorf("cannot backtest without a price history")
	}
	symbols := domain.UniverseSymbols(in.Config.Assets)
	for _, symbol := range symbols {
		if !in.History.HasSymbol(symbol) {
			return nil, fmt.Errorf("price history missing asset column %s", symbol)
		}
	}
	startDay := in.Config.WarmupDays
	if startDay >= in.History.Len() {
		return nil, fmt.Errorf("warmup of %d days exceeds history of %d days", startDay, in.History.Len())
	}

	// initial full allocation, charged the same friction as a buy leg
	initialWeights, err := internal.ComputeTargetWeights(internal.ComputeTargetWeightsInput{
		History:  in.History,
		Day:      startDay,
		Universe: in.Config.Assets,
		Config:   in.Config,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compute initial weights: %w", err)
	}

	startPrices := in.History.Row(startDay)
	portfolio, cumulativeFees, err := internal.AllocateInitial(internal.AllocateInitialInput{
		Capital:       decimal.NewFromFloat(in.Config.InitialCapital),
		TargetWeights: initialWeights,
		PriceMap:      startPrices,
		Symbols:       symbols,
		FeeRate:       in.Config.BaseFee,
		Slippage:      in.Config.BaseSlippage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to place initial allocation: %w", err)
	}

	// the benchmark buys equal weight once, friction-free, and holds
	benchmark := domain.NewPortfolio()
	perAsset := decimal.NewFromFloat(in.Config.InitialCapital).Div(decimal.NewFromInt(int64(len(symbols))))
	for _, symbol := range symbols {
		benchmark.SetQuantity(symbol, perAsset.Div(decimal.NewFromFloat(startPrices[symbol])))
	}

	lastRebalance := in.History.Date(startDay)
	result := &domain.SimulationResult{
		RunID:      uuid.New(),
		Samples:    []domain.ResultSample{},
		Rebalances: []domain.RebalanceEvent{},
	}

	for day := startDay; day < in.History.Len(); day++ {
		date := in.History.Date(day)
		priceMap := in.History.Row(day)

		portfolioValue, err := portfolio.TotalValue(priceMap)
		if err != nil {
			return nil, fmt.Errorf("failed to value portfolio on %v: %w", date, err)
		}
		benchmarkValue, err := benchmark.TotalValue(priceMap)
		if err != nil {
			return nil, fmt.Errorf("failed to value benchmark on %v: %w", date, err)
		}

		result.Samples = append(result.Samples, domain.ResultSample{
			Date:           date,
			PortfolioValue: portfolioValue.InexactFloat64(),
			BenchmarkValue: benchmarkValue.InexactFloat64(),
			CumulativeFees: cumulativeFees.InexactFloat64(),
		})

		slippage := internal.EffectiveSlippage(internal.EffectiveSlippageInput{
			History: in.History,
			Day:     day,
			Config:  in.Config,
		})

		currentWeights, err := portfolio.CurrentWeights(priceMap)
		if err != nil {
			return nil, fmt.Errorf("failed to derive current weights on %v: %w", date, err)
		}
		targetWeights, err := internal.ComputeTargetWeights(internal.ComputeTargetWeightsInput{
			History:  in.History,
			Day:      day,
			Universe: in.Config.Assets,
			Config:   in.Config,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to compute target weights on %v: %w", date, err)
		}

		decision := internal.EvaluateTrigger(internal.EvaluateTriggerInput{
			CurrentWeights: currentWeights,
			TargetWeights:  targetWeights,
			Date:           date,
			LastRebalance:  lastRebalance,
			Config:         in.Config,
		})
		if !decision.Fired {
			continue
		}

		execution, err := internal.ExecuteRebalance(internal.ExecuteRebalanceInput{
			Portfolio:      portfolio,
			PortfolioValue: portfolioValue,
			TargetWeights:  targetWeights,
			PriceMap:       priceMap,
			Symbols:        symbols,
			FeeRate:        in.Config.BaseFee,
			Slippage:       slippage,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to execute rebalance on %v: %w", date, err)
		}

		cumulativeFees = cumulativeFees.Add(execution.FeesPaid)
		// the day's sample was recorded before the trade; fold the
		// fees back in so the series carries the true running total
		result.Samples[len(result.Samples)-1].CumulativeFees = cumulativeFees.InexactFloat64()
		lastRebalance = date
		result.Rebalances = append(result.Rebalances, domain.RebalanceEvent{
			Date:     date,
			Kind:     decision.Kind,
			MaxDrift: decision.MaxDrift,
			FeesPaid: execution.FeesPaid,
		})

		if h.Logger != nil {
			h.Logger.Infow("rebalanced portfolio",
				"date", date.Format("2006-01-02"),
				"kind", decision.Kind,
				"maxDrift", decision.MaxDrift,
				"feesPaid", execution.FeesPaid.InexactFloat64(),
				"sellLegs", execution.SellLegs,
				"buyLegs", execution.BuyLegs,
			)
		}
	}

	result.FinalPortfolio = portfolio
	result.Benchmark = benchmark

	return result, nil
}
