// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedupe

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by Dedupe and Score. Every failure aborts the call before
// any record is touched.
var (
	// ErrInvalidInput is returned when the input is not a list of records.
	ErrInvalidInput = errors.New("input is not a list of records")

	// ErrInvalidSettings is returned when an option holds a value outside
	// its allowed set.
	ErrInvalidSettings = errors.New("invalid settings")

	// ErrUnknownStrategy is returned when the named strategy is not in the
	// engine's store.
	ErrUnknownStrategy = errors.New("unknown strategy")

	// ErrInvalidStrategySchema is returned when a strategy has no steps.
	ErrInvalidStrategySchema = errors.New("invalid strategy schema")

	// ErrInvalidStrategy matches every *InvalidStrategyError.
	ErrInvalidStrategy = errors.New("invalid strategy")
)

// InvalidStrategyError carries every structural violation found in a
// strategy, not just the first.
type InvalidStrategyError struct {
	Strategy   string
	Violations []string
}

func (e *InvalidStrategyError) Error() string {
	return fmt.Sprintf("invalid strategy %q - %s", e.Strategy, strings.Join(e.Violations, ", "))
}

// Unwrap lets errors.Is match ErrInvalidStrategy.
func (e *InvalidStrategyError) Unwrap() error {
	return ErrInvalidStrategy
}
