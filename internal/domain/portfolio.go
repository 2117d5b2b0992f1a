package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Portfolio is a mutable ledger of cash and per-asset holdings. The
// simulation loop owns it exclusively; the benchmark variant is built
// once and only ever revalued.
type Portfolio struct {
	Positions map[string]*Position
	Cash      decimal.Decimal
}

func NewPortfolio() *Portfolio {
	return &Portfolio{
		Positions: map[string]*Position{},
		Cash:      decimal.Zero,
	}
}

type Position struct {
	Symbol   string
	Quantity decimal.Decimal
}

func (p Position) DeepCopy() *Position {
	return &Position{
		Symbol:   p.Symbol,
		Quantity: p.Quantity,
	}
}

func (p Portfolio) HeldSymbols() []string {
	symbols := []string{}
	for symbol := range p.Positions {
		symbols = append(symbols, symbol)
	}
	return symbols
}

func (p Portfolio) DeepCopy() *Portfolio {
	newPortfolio := &Portfolio{
		Cash:      p.Cash,
		Positions: map[string]*Position{},
	}
	for symbol, position := range p.Positions {
		newPortfolio.Positions[symbol] = position.DeepCopy()
	}

	return newPortfolio
}

func (p Portfolio) Quantity(symbol string) decimal.Decimal {
	if position, ok := p.Positions[symbol]; ok {
		return position.Quantity
	}
	return decimal.Zero
}

func (p *Portfolio) SetQuantity(symbol string, quantity decimal.Decimal) {
	if position, ok := p.Positions[symbol]; ok {
		position.Quantity = quantity
		return
	}
	p.Positions[symbol] = &Position{
		Symbol:   symbol,
		Quantity: quantity,
	}
}

func (p Portfolio) TotalValue(priceMap map[string]float64) (decimal.Decimal, error) {
	totalValue := p.Cash
	for symbol, position := range p.Positions {
		price, ok := priceMap[symbol]
		if !ok {
			return decimal.Zero, fmt.Errorf("cannot compute portfolio total value: price map missing %s", symbol)
		}
		totalValue = totalValue.Add(position.Quantity.Mul(decimal.NewFromFloat(price)))
	}

	return totalValue, nil
}

// CurrentWeights derives the weight of each held symbol from market
// value. Used by the strategy ledger for drift comparison.
func (p Portfolio) CurrentWeights(priceMap map[string]float64) (map[string]float64, error) {
	totalValue, err := p.TotalValue(priceMap)
	if err != nil {
		return nil, err
	}
	if totalValue.IsZero() {
		return nil, fmt.Errorf("cannot derive weights from portfolio with 0 total value")
	}

	weights := map[string]float64{}
	for symbol, position := range p.Positions {
		value := position.Quantity.Mul(decimal.NewFromFloat(priceMap[symbol]))
		weights[symbol] = value.Div(totalValue).InexactFloat64()
	}

	return weights, nil
}
