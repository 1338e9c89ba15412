package main

import "context"

// cmdContext returns the background context used to run an algorithm to
// completion; the CLI driver has no cancellation source of its own today
// (spec.md §5 leaves cancellation to a cooperative token implementations
// may add), so this is the one place that decision is made concrete.
func cmdContext() context.Context {
	return context.Background()
}
