package internal

import (
	"math"
	"time"

	"hrambacktest/internal/domain"
	"hrambacktest/internal/util"
)

type EvaluateTriggerInput struct {
	CurrentWeights map[string]float64
	TargetWeights  map[string]float64
	Date           time.Time
	LastRebalance  time.Time
	Config         Config
}

type TriggerDecision struct {
	Fired     bool
	Kind      domain.RebalanceKind
	MaxDrift  float64
	DaysSince int
}

// EvaluateTrigger decides whether the ledger should rebalance today.
// Emergency drift fires unconditionally; normal drift additionally
// requires at least one day since the last rebalance, which stops
// same-day thrashing.
func EvaluateTrigger(in EvaluateTriggerInput) TriggerDecision {
	decision := TriggerDecision{
		MaxDrift:  MaxDrift(in.CurrentWeights, in.TargetWeights),
		DaysSince: util.DaysBetween(in.LastRebalance, in.Date),
	}

	if decision.MaxDrift > in.Config.RebalThresholdEmergency {
		decision.Fired = true
		decision.Kind = domain.RebalanceKind_Emergency
		return decision
	}
	if decision.MaxDrift > in.Config.RebalThresholdNormal && decision.DaysSince >= 1 {
		decision.Fired = true
		decision.Kind = domain.RebalanceKind_Normal
	}

	return decision
}

// MaxDrift is the largest absolute gap between current and target
// weight across the union of both vectors.
func MaxDrift(current, target map[string]float64) float64 {
	maxDrift := 0.0
	seen := map[string]bool{}
	for symbol, targetWeight := range target {
		drift := math.Abs(current[symbol] - targetWeight)
		if drift > maxDrift {
			maxDrift = drift
		}
		seen[symbol] = true
	}
	for symbol, currentWeight := range current {
		if seen[symbol] {
			continue
		}
		if math.Abs(currentWeight) > maxDrift {
			maxDrift = math.Abs(currentWeight)
		}
	}
	return maxDrift
}
