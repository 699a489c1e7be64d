// Package testutil provides common utility functions for testing.
package testutil

import (
	"testing"

	"github.com/iwvelando/buy-vs-invest/internal/scenario"
	"github.com/shopspring/decimal"
)

// FindScenario finds a scenario by name in the results slice.
// Returns a pointer to the result if found, nil otherwise.
func FindScenario(results []scenario.Result, name string) *scenario.Result {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}

// AssertDecimalEqual fails the test unless got and want are numerically equal.
func AssertDecimalEqual(t testing.TB, got, want decimal.Decimal, msgAndArgs ...interface{}) bool {
	t.Helper()
	if got.Equal(want) {
		return true
	}
	t.Errorf("expected %s, got %s %v", want, got, msgAndArgs)
	return false
}
