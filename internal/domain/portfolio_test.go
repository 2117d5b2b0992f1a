package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func Test_Portfolio_TotalValue(t *testing.T) {
	t.Run("cash plus marked positions", func(t *testing.T) {
		p := NewPortfolio()
		p.Cash = decimal.NewFromInt(100)
		p.SetQuantity("BTC", decimal.NewFromInt(2))
		p.SetQuantity("ETH", decimal.NewFromFloat(0.5))

		value, err := p.TotalValue(map[string]float64{"BTC": 50, "ETH": 10})
		require.NoError(t, err)
		require.True(t, value.Equal(decimal.NewFromInt(205)), value.String())
	})

	t.Run("missing price is fatal", func(t *testing.T) {
		p := NewPortfolio()
		p.SetQuantity("BTC", decimal.NewFromInt(1))

		_, err := p.TotalValue(map[string]float64{})
		require.Error(t, err)
	})
}

func Test_Portfolio_CurrentWeights(t *testing.T) {
	t.Run("weights follow market value", func(t *testing.T) {
		p := NewPortfolio()
		p.SetQuantity("BTC", decimal.NewFromInt(3))
		p.SetQuantity("ETH", decimal.NewFromInt(1))

		weights, err := p.CurrentWeights(map[string]float64{"BTC": 10, "ETH": 10})
		require.NoError(t, err)
		require.InDelta(t, 0.75, weights["BTC"], 1e-12)
		require.InDelta(t, 0.25, weights["ETH"], 1e-12)
	})

	t.Run("zero total value is rejected", func(t *testing.T) {
		_, err := NewPortfolio().CurrentWeights(map[string]float64{})
		require.Error(t, err)
	})
}

func Test_Portfolio_DeepCopy(t *testing.T) {
	p := NewPortfolio()
	p.Cash = decimal.NewFromInt(10)
	p.SetQuantity("BTC", decimal.NewFromInt(1))

	clone := p.DeepCopy()
	clone.Cash = decimal.NewFromInt(99)
	clone.SetQuantity("BTC", decimal.NewFromInt(7))

	require.True(t, p.Cash.Equal(decimal.NewFromInt(10)))
	require.True(t, p.Quantity("BTC").Equal(decimal.NewFromInt(1)))
}

func Test_Portfolio_Quantity(t *testing.T) {
	p := NewPortfolio()
	require.True(t, p.Quantity("BTC").IsZero())

	p.SetQuantity("BTC", decimal.NewFromFloat(1.5))
	require.True(t, p.Quantity("BTC").Equal(decimal.NewFromFloat(1.5)))

	p.SetQuantity("BTC", decimal.Zero)
	require.True(t, p.Quantity("BTC").IsZero())
}

func Test_Portfolio_HeldSymbols(t *testing.T) {
	p := NewPortfolio()
	require.Empty(t, p.HeldSymbols())

	p.SetQuantity("BTC", decimal.NewFromInt(1))
	p.SetQuantity("ETH", decimal.NewFromInt(2))
	require.ElementsMatch(t, []string{"BTC", "ETH"}, p.HeldSymbols())
}
