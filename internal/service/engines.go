package service

import (
	"math"

	"casino-round-engine/config"
	"casino-round-engine/internal/core/ports"
)

// DefaultEngines builds one engine per supported game, wired to the
// shared random source and clock. The session service indexes them by
// game type.
func DefaultEngines(cfg config.GamesConfig, rng ports.RandomSource, clock ports.Clock) []ports.GameEngine {
	return []ports.GameEngine{
		NewMinesEngine(rng, clock),
		NewCrashEngine(cfg.Crash, rng, clock),
		NewLimboEngine(cfg.Limbo, rng, clock),
		NewTowerEngine(rng, clock),
		NewBarsEngine(cfg.Bars, rng, clock),
		NewSugarEngine(cfg.Sugar, rng, clock),
	}
}

// roundPayout converts a multiplier into minor units, rounding half-up.
// Multipliers at or below zero pay nothing.
func roundPayout(bet int64, multiplier float64) int64 {
	if multiplier <= 0 {
		return 0
	}
	return int64(math.Round(float64(bet) * multiplier))
}

// floor2 truncates a multiplier to two decimals for display and
// settlement.
func floor2(x float64) float64 {
	return math.Floor(x*100) / 100
}

// inverseUniform maps a uniform draw to a crash-style multiplier:
// (1-houseEdge)/(1-u), floored to two decimals, never below 1.00.
func inverseUniform(u, houseEdge float64) float64 {
	m := floor2((1 - houseEdge) / (1 - u))
	if m < 1.0 {
		return 1.0
	}
	return m
}
