package model

import "math/rand/v2"

// Rand is the random source behind score jitter and the stochastic rewrite
// stages. Tests inject a seeded or fixed source to pin outputs.
type Rand interface {
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// GlobalRand draws from the process-wide source, safe for concurrent use
var GlobalRand Rand = globalRand{}
