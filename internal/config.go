package internal

import (
	"fmt"
	"os"

	"hrambacktest/internal/domain"

	"gopkg.in/yaml.v3"
)

// Config carries every knob the engine recognizes. It is threaded
// explicitly through each call; nothing reads module-level state.
type Config struct {
	VolWindow  int `yaml:"vol_window"`
	MomWindow  int `yaml:"mom_window"`
	CorrWindow int `yaml:"corr_window"`

	MinWeight float64 `yaml:"min_weight"`
	MaxWeight float64 `yaml:"max_weight"`

	RebalThresholdNormal    float64 `yaml:"rebal_threshold_normal"`
	RebalThresholdEmergency float64 `yaml:"rebal_threshold_emergency"`

	InitialCapital float64 `yaml:"initial_capital"`

	// WarmupDays is how many rows of history are consumed before the
	// initial allocation is placed.
	WarmupDays int `yaml:"warmup_days"`

	BaseFee                   float64 `yaml:"base_fee"`
	BaseSlippage              float64 `yaml:"base_slippage"`
	HighVolSlippageMultiplier float64 `yaml:"high_vol_slippage_multiplier"`
	HighVolThreshold          float64 `yaml:"high_vol_threshold"`

	RiskFreeRate float64 `yaml:"risk_free_rate"`

	Assets []domain.Asset `yaml:"assets"`
}

func DefaultConfig() Config {
	return Config{
		VolWindow:  30,
		MomWindow:  50,
		CorrWindow: 60,

		MinWeight: 0.05,
		MaxWeight: 0.40,

		RebalThresholdNormal:    0.05,
		RebalThresholdEmergency: 0.10,

		InitialCapital: 1_000_000_000,
		WarmupDays:     60,

		BaseFee:                   0.003,
		BaseSlippage:              0.002,
		HighVolSlippageMultiplier: 2.0,
		HighVolThreshold:          0.02,

		RiskFreeRate: 0.20,

		Assets: DefaultUniverse(),
	}
}

// DefaultUniverse is the five-asset crypto universe the strategy was
// designed around.
func DefaultUniverse() []domain.Asset {
	return []domain.Asset{
		{Symbol: "USDT", Category: domain.AssetCategory_Foundation, VolProfile: 0.001, CrashCorrelation: 1.0, Liquidity: 1.1},
		{Symbol: "PAXG", Category: domain.AssetCategory_Foundation, VolProfile: 0.12, CrashCorrelation: 1.2, Liquidity: 1.0},
		{Symbol: "BTC", Category: domain.AssetCategory_Growth, VolProfile: 0.45, CrashCorrelation: 0.4, Liquidity: 1.1},
		{Symbol: "ETH", Category: domain.AssetCategory_Growth, VolProfile: 0.55, CrashCorrelation: 0.35, Liquidity: 1.1},
		{Symbol: "SOL", Category: domain.AssetCategory_Upside, VolProfile: 0.75, CrashCorrelation: 0.1, Liquidity: 1.0},
	}
}

// LoadConfig reads a YAML file over the defaults, so a partial file
// only overrides the keys it names.
func LoadConfig(path string) (*Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Lookback is the history length the weight engine needs before it can
// score assets.
func (c Config) Lookback() int {
	lookback := c.VolWindow
	if c.MomWindow > lookback {
		lookback = c.MomWindow
	}
	if c.CorrWindow > lookback {
		lookback = c.CorrWindow
	}
	return lookback
}

func (c Config) Validate() error {
	if c.VolWindow <= 0 || c.MomWindow <= 0 || c.CorrWindow <= 0 {
		return fmt.Errorf("lookback windows must be positive, got vol=%d mom=%d corr=%d", c.VolWindow, c.MomWindow, c.CorrWindow)
	}
	if c.RebalThresholdNormal <= 0 || c.RebalThresholdEmergency <= 0 {
		return fmt.Errorf("rebalance thresholds must be positive, got normal=%f emergency=%f", c.RebalThresholdNormal, c.RebalThresholdEmergency)
	}
	if c.RebalThresholdNormal >= c.RebalThresholdEmergency {
		return fmt.Errorf("normal threshold %f must be below emergency threshold %f", c.RebalThresholdNormal, c.RebalThresholdEmergency)
	}
	if c.InitialCapital <= 0 {
		return fmt.Errorf("initial capital must be positive, got %f", c.InitialCapital)
	}
	if c.WarmupDays < 0 {
		return fmt.Errorf("warmup days cannot be negative, got %d", c.WarmupDays)
	}
	if c.MinWeight < 0 || c.MaxWeight > 1 || c.MinWeight > c.MaxWeight {
		return fmt.Errorf("weight bounds [%f, %f] are not a valid box in [0, 1]", c.MinWeight, c.MaxWeight)
	}
	if c.BaseFee < 0 || c.BaseSlippage < 0 {
		return fmt.Errorf("friction rates cannot be negative, got fee=%f slippage=%f", c.BaseFee, c.BaseSlippage)
	}
	if c.HighVolSlippageMultiplier < 1 {
		return fmt.Errorf("high-vol slippage multiplier must be >= 1, got %f", c.HighVolSlippageMultiplier)
	}
	if c.HighVolThreshold <= 0 {
		return fmt.Errorf("high-vol threshold must be positive, got %f", c.HighVolThreshold)
	}

	if err := domain.ValidateUniverse(c.Assets); err != nil {
		return err
	}

	// the box must be able to hold a vector summing to 1
	n := float64(len(c.Assets))
	if c.MinWeight*n > 1 {
		return fmt.Errorf("min weight %f is infeasible for %d assets", c.MinWeight, len(c.Assets))
	}
	if c.MaxWeight*n < 1 {
		return fmt.Errorf("max weight %f is infeasible for %d assets", c.MaxWeight, len(c.Assets))
	}

	return nil
}
