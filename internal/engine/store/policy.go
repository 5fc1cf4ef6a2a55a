package store

import (
	"errors"
	"math"
)

// Errors returned by store operations.
var (
	// ErrInvalidCapacity indicates a negative initial capacity.
	ErrInvalidCapacity = errors.New("invalid capacity")

	// ErrCapacityExhausted indicates growth beyond the maximum capacity.
	ErrCapacityExhausted = errors.New("capacity exhausted")
)

// Default growth configuration.
const (
	DefaultGrowthFactor = 1.5
	MaxCapacity         = math.MaxInt32 - 8
)

// GrowthPolicy decides how the buffer grows.
type GrowthPolicy struct {
	// Factor multiplies the current capacity on growth. Values <= 1 fall back
	// to DefaultGrowthFactor.
	Factor float64

	// Max bounds the capacity. Values <= 0 fall back to MaxCapacity.
	Max int
}

// DefaultPolicy returns the 1.5x policy bounded by MaxCapacity.
func DefaultPolicy() GrowthPolicy {
	return GrowthPolicy{Factor: DefaultGrowthFactor, Max: MaxCapacity}
}

// Resolved returns p with the fallbacks for Factor and Max applied.
func (p GrowthPolicy) Resolved() GrowthPolicy {
	return GrowthPolicy{Factor: p.factor(), Max: p.max()}
}

func (p GrowthPolicy) factor() float64 {
	if p.Factor <= 1 || math.IsNaN(p.Factor) || math.IsInf(p.Factor, 0) {
		return DefaultGrowthFactor
	}
	return p.Factor
}

func (p GrowthPolicy) max() int {
	if p.Max <= 0 {
		return MaxCapacity
	}
	return p.Max
}

// Next returns the capacity to allocate when cur slots are not enough to hold
// required elements.
func (p GrowthPolicy) Next(cur, required int) (int, error) {
	limit := p.max()
	if required < 0 || required > limit {
		return 0, ErrCapacityExhausted
	}

	scaled := float64(cur) * p.factor()
	next := limit
	if scaled < float64(limit) {
		next = int(scaled)
	}
	if next < required {
		next = required
	}
	return next, nil
}
