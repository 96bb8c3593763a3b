// Package testutil provides deterministic helpers for castor tests and
// benchmarks.
package testutil
