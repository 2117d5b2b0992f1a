package internal

import (
	"fmt"

	"hrambacktest/internal/domain"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
)

// slippageLookbackDays is the trailing window used to classify the
// day's volatility regime before executing.
const slippageLookbackDays = 5

type ExecuteRebalanceInput struct {
	Portfolio      *domain.Portfolio
	PortfolioValue decimal.Decimal
	TargetWeights  map[string]float64
	PriceMap       map[string]float64
	// Symbols fixes the order legs are evaluated in. When cash runs
	// out, buys are filled partially in this order and the residual
	// shortfall is left for the next trigger.
	Symbols  []string
	FeeRate  float64
	Slippage float64
}

type ExecuteRebalanceResult struct {
	FeesPaid decimal.Decimal
	SellLegs int
	BuyLegs  int
}

// ExecuteRebalance moves the ledger toward the target allocation in
// two ordered phases: sell the overweight excess first so the buy
// phase never needs credit. Every leg is charged
// notional * (fee + slippage); on buys the friction comes out of the
// spent amount before it converts to quantity, so the gross amount
// leaves cash and the friction itself is a pure loss.
func ExecuteRebalance(in ExecuteRebalanceInput) (*ExecuteRebalanceResult, error) {
	if in.Portfolio == nil {
		return nil, fmt.Errorf("cannot execute rebalance on nil portfolio")
	}
	if !in.PortfolioValue.IsPositive() {
		return nil, fmt.Errorf("cannot execute rebalance on portfolio with value %s", in.PortfolioValue.String())
	}
	for _, symbol := range in.Symbols {
		if _, ok := in.PriceMap[symbol]; !ok {
			return nil, fmt.Errorf("price map missing %s", symbol)
		}
	}

	frictionRate := decimal.NewFromFloat(in.FeeRate + in.Slippage)
	result := &ExecuteRebalanceResult{FeesPaid: decimal.Zero}

	// sell phase
	for _, symbol := range in.Symbols {
		price := decimal.NewFromFloat(in.PriceMap[symbol])
		targetValue := in.PortfolioValue.Mul(decimal.NewFromFloat(in.TargetWeights[symbol]))
		currentValue := in.Portfolio.Quantity(symbol).Mul(price)

		if currentValue.GreaterThan(targetValue) {
			sellNotional := currentValue.Sub(targetValue)
			friction := sellNotional.Mul(frictionRate)
			result.FeesPaid = result.FeesPaid.Add(friction)

			in.Portfolio.SetQuantity(symbol, in.Portfolio.Quantity(symbol).Sub(sellNotional.Div(price)))
			in.Portfolio.Cash = in.Portfolio.Cash.Add(sellNotional.Sub(friction))
			result.SellLegs++
		}
	}

	// buy phase
	for _, symbol := range in.Symbols {
		price := decimal.NewFromFloat(in.PriceMap[symbol])
		targetValue := in.PortfolioValue.Mul(decimal.NewFromFloat(in.TargetWeights[symbol]))
		currentValue := in.Portfolio.Quantity(symbol).Mul(price)

		if currentValue.LessThan(targetValue) && in.Portfolio.Cash.IsPositive() {
			needed := targetValue.Sub(currentValue)
			buyAmount := needed
			if in.Portfolio.Cash.LessThan(needed) {
				buyAmount = in.Portfolio.Cash
			}
			friction := buyAmount.Mul(frictionRate)
			result.FeesPaid = result.FeesPaid.Add(friction)

			invested := buyAmount.Sub(friction)
			in.Portfolio.SetQuantity(symbol, in.Portfolio.Quantity(symbol).Add(invested.Div(price)))
			in.Portfolio.Cash = in.Portfolio.Cash.Sub(buyAmount)
			result.BuyLegs++
		}
	}

	return result, nil
}

type AllocateInitialInput struct {
	Capital       decimal.Decimal
	TargetWeights map[string]float64
	PriceMap      map[string]float64
	Symbols       []string
	FeeRate       float64
	Slippage      float64
}

// AllocateInitial invests the full starting capital according to the
// target weights, charging the same friction as a buy leg. The ledger
// comes out fully invested with zero cash.
func AllocateInitial(in AllocateInitialInput) (*domain.Portfolio, decimal.Decimal, error) {
	if !in.Capital.IsPositive() {
		return nil, decimal.Zero, fmt.Errorf("cannot allocate non-positive capital %s", in.Capital.String())
	}

	frictionRate := decimal.NewFromFloat(in.FeeRate + in.Slippage)
	portfolio := domain.NewPortfolio()
	feesPaid := decimal.Zero

	for _, symbol := range in.Symbols {
		price, ok := in.PriceMap[symbol]
		if !ok {
			return nil, decimal.Zero, fmt.Errorf("price map missing %s", symbol)
		}
		allocation := in.Capital.Mul(decimal.NewFromFloat(in.TargetWeights[symbol]))
		cost := allocation.Mul(frictionRate)
		feesPaid = feesPaid.Add(cost)

		quantity := allocation.Sub(cost).Div(decimal.NewFromFloat(price))
		portfolio.SetQuantity(symbol, quantity)
	}
	portfolio.Cash = decimal.Zero

	return portfolio, feesPaid, nil
}

type EffectiveSlippageInput struct {
	History *domain.PriceHistory
	Day     int
	Config  Config
}

// EffectiveSlippage returns the slippage rate in force for the day's
// trades. When the mean per-asset return volatility over the trailing
// window exceeds the stress threshold, base slippage is scaled by the
// high-vol multiplier; the rate applies uniformly to every leg
// executed that day.
func EffectiveSlippage(in EffectiveSlippageInput) float64 {
	start := in.Day - slippageLookbackDays
	if start < 0 {
		start = 0
	}
	// need at least two returns for a sample stdev
	if in.Day-start < 3 {
		return in.Config.BaseSlippage
	}

	volSum := 0.0
	volCount := 0
	for _, asset := range in.Config.Assets {
		prices, err := in.History.Series(asset.Symbol, start, in.Day)
		if err != nil {
			continue
		}
		stdev, err := stats.StandardDeviationSample(dailyReturns(prices))
		if err != nil {
			continue
		}
		volSum += stdev
		volCount++
	}
	if volCount == 0 {
		return in.Config.BaseSlippage
	}

	if volSum/float64(volCount) > in.Config.HighVolThreshold {
		return in.Config.BaseSlippage * in.Config.HighVolSlippageMultiplier
	}
	return in.Config.BaseSlippage
}
