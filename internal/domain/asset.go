package domain

import (
	"fmt"
	"strings"
)

type AssetCategory string

const (
	AssetCategory_Foundation AssetCategory = "FOUNDATION"
	AssetCategory_Growth     AssetCategory = "GROWTH"
	AssetCategory_Upside     AssetCategory = "UPSIDE"
)

func NewAssetCategory(s string) (*AssetCategory, error) {
	m := map[string]AssetCategory{
		"FOUNDATION": AssetCategory_Foundation,
		"GROWTH":     AssetCategory_Growth,
		"UPSIDE":     AssetCategory_Upside,
	}
	for k, v := range m {
		if strings.EqualFold(k, s) {
			return &v, nil
		}
	}
	return nil, fmt.Errorf("could not convert '%s' to known asset category", s)
}

// Asset is a static descriptor for one tradable symbol. The universe
// is loaded once from configuration and never changes during a run.
type Asset struct {
	Symbol           string        `yaml:"symbol"`
	Category         AssetCategory `yaml:"category"`
	VolProfile       float64       `yaml:"vol_profile"`
	CrashCorrelation float64       `yaml:"crash_correlation"`
	// Liquidity is the constant applied as the liquidity factor when
	// scoring the asset. Majors carry 1.1, everything else 1.0.
	Liquidity float64 `yaml:"liquidity"`
}

func ValidateUniverse(assets []Asset) error {
	if len(assets) == 0 {
		return fmt.Errorf("asset universe is empty")
	}
	seen := map[string]bool{}
	for _, a := range assets {
		if a.Symbol == "" {
			return fmt.Errorf("asset universe contains an empty symbol")
		}
		if seen[a.Symbol] {
			return fmt.Errorf("asset universe contains %s more than once", a.Symbol)
		}
		seen[a.Symbol] = true
		if _, err := NewAssetCategory(string(a.Category)); err != nil {
			return fmt.Errorf("invalid category for %s: %w", a.Symbol, err)
		}
		if a.VolProfile <= 0 {
			return fmt.Errorf("asset %s must have a positive vol profile, got %f", a.Symbol, a.VolProfile)
		}
		if a.Liquidity <= 0 {
			return fmt.Errorf("asset %s must have a positive liquidity constant, got %f", a.Symbol, a.Liquidity)
		}
	}
	return nil
}

func UniverseSymbols(assets []Asset) []string {
	symbols := []string{}
	for _, a := range assets {
		symbols = append(symbols, a.Symbol)
	}
	return symbols
}
