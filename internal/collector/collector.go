// Package collector defines the Collector interface and the implementation
// that runs the vendor status tool.
package collector

import "context"

// Collector is the interface that status collectors must implement.
// A collector produces the raw text report of the UPS.
type Collector interface {
	// Name returns the unique identifier for this collector.
	Name() string

	// Collect runs one fresh invocation of the status source and returns
	// its raw report text.
	Collect(ctx context.Context) (string, error)

	// IsAvailable checks if the status source can be found on this host.
	IsAvailable() bool
}
