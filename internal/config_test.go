package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Config_Validate(t *testing.T) {
	t.Run("defaults pass", func(t *testing.T) {
		require.NoError(t, DefaultConfig().Validate())
	})

	invalid := map[string]func(*Config){
		"zero vol window":                 func(c *Config) { c.VolWindow = 0 },
		"negative mom window":             func(c *Config) { c.MomWindow = -1 },
		"zero corr window":                func(c *Config) { c.CorrWindow = 0 },
		"zero normal threshold":           func(c *Config) { c.RebalThresholdNormal = 0 },
		"normal above emergency":          func(c *Config) { c.RebalThresholdNormal = 0.2 },
		"zero capital":                    func(c *Config) { c.InitialCapital = 0 },
		"negative warmup":                 func(c *Config) { c.WarmupDays = -1 },
		"inverted weight bounds":          func(c *Config) { c.MinWeight, c.MaxWeight = 0.5, 0.2 },
		"max weight above one":            func(c *Config) { c.MaxWeight = 1.5 },
		"negative fee":                    func(c *Config) { c.BaseFee = -0.001 },
		"slippage multiplier below one":   func(c *Config) { c.HighVolSlippageMultiplier = 0.5 },
		"zero high-vol threshold":         func(c *Config) { c.HighVolThreshold = 0 },
		"empty universe":                  func(c *Config) { c.Assets = nil },
		"min weight infeasible for count": func(c *Config) { c.MinWeight = 0.3 },
		"max weight infeasible for count": func(c *Config) { c.MaxWeight = 0.1; c.MinWeight = 0.05 },
	}

	for name, mutate := range invalid {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func Test_Config_Lookback(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, 60, cfg.Lookback())

	cfg.MomWindow = 90
	require.Equal(t, 90, cfg.Lookback())
}

func Test_LoadConfig(t *testing.T) {
	t.Run("partial file overrides only named keys", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		contents := "vol_window: 20\nbase_fee: 0.001\n"
		require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		require.Equal(t, 20, cfg.VolWindow)
		require.Equal(t, 0.001, cfg.BaseFee)
		// untouched keys keep their defaults
		require.Equal(t, 50, cfg.MomWindow)
		require.Len(t, cfg.Assets, 5)
	})

	t.Run("invalid values are rejected on load", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("initial_capital: -5\n"), 0o644))

		_, err := LoadConfig(path)
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}
