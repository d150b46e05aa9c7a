package database

import (
	"context"
	"fmt"
)

// Checker is a dependency that can report readiness.
type Checker interface {
	Name() string
	Ping(ctx context.Context) error
}

// CheckAll pings every checker and returns the failures keyed by name.
func CheckAll(ctx context.Context, checkers ...Checker) map[string]error {
	failures := make(map[string]error)
	for _, c := range checkers {
		if c == nil {
			continue
		}
		if err := c.Ping(ctx); err != nil {
			failures[c.Name()] = err
		}
	}
	return failures
}

// FirstError flattens CheckAll's result for callers that only need pass/fail.
func FirstError(failures map[string]error) error {
	for name, err := range failures {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
