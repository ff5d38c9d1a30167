// Package calculator is the target for the method receiver acceptance tests.
package calculator

import (
	"errors"
	"math"
)

// Exported variables.
var (
	ErrDivideByZero = errors.New("divide by zero")
)

// Calculator rounds its results to Places decimal places.
type Calculator struct {
	Places int
}

// Divide returns numerator / denominator, rounded.
func (c *Calculator) Divide(numerator, denominator float64) (float64, error) {
	if denominator == 0 {
		return 0, ErrDivideByZero
	}

	return c.round(numerator / denominator), nil
}

// Sqrt panics on negative input.
func (c *Calculator) Sqrt(value float64) float64 {
	if value < 0 {
		panic(errors.New("negative input"))
	}

	return c.round(math.Sqrt(value))
}

func (c *Calculator) round(value float64) float64 {
	scale := math.Pow10(c.Places)

	return math.Round(value*scale) / scale
}
