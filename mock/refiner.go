// Package mock provides test doubles for refiner interfaces using function fields.
package mock

import (
	"context"

	"github.com/fwojciec/refiner"
)

// Interface compliance checks.
var (
	_ refiner.Refiner       = (*Refiner)(nil)
	_ refiner.HealthChecker = (*HealthChecker)(nil)
	_ refiner.Saver         = (*Saver)(nil)
)

// Refiner is a test double for refiner.Refiner.
// Set RefineFn before calling Refine.
type Refiner struct {
	RefineFn func(ctx context.Context, req refiner.Request) (refiner.Result, error)
}

// Refine delegates to RefineFn.
func (r *Refiner) Refine(ctx context.Context, req refiner.Request) (refiner.Result, error) {
	return r.RefineFn(ctx, req)
}

// HealthChecker is a test double for refiner.HealthChecker.
type HealthChecker struct {
	HealthFn func(ctx context.Context) (refiner.Health, error)
}

// Health delegates to HealthFn.
func (h *HealthChecker) Health(ctx context.Context) (refiner.Health, error) {
	return h.HealthFn(ctx)
}

// Saver is a test double for refiner.Saver.
type Saver struct {
	SaveFn func(filename string, data []byte) (string, error)
}

// Save delegates to SaveFn.
func (s *Saver) Save(filename string, data []byte) (string, error) {
	return s.SaveFn(filename, data)
}
