package domain

import "math/rand"

// GDPMultiplier supplies the factor used when estimating GDP for one country.
type GDPMultiplier interface {
	Next() float64
}

type FixedMultiplier float64

func (m FixedMultiplier) Next() float64 {
	return float64(m)
}

// RandomMultiplier draws a uniform integer in [Min, Max] on every call.
type RandomMultiplier struct {
	Min int
	Max int
}

func (m RandomMultiplier) Next() float64 {
	if m.Max <= m.Min {
		return float64(m.Min)
	}
	return float64(m.Min + rand.Intn(m.Max-m.Min+1))
}

// EstimateGDP returns nil unless population and rate are both non-zero.
func EstimateGDP(population int64, rate *float64, multiplier GDPMultiplier) *float64 {
	if rate == nil || *rate == 0 || population == 0 {
		return nil
	}
	gdp := float64(population) * multiplier.Next() / *rate
	return &gdp
}
