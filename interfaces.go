package subprocess

import "context"

// Launcher runs children with a fixed set of options. It exists so callers
// can depend on an interface and substitute a fake in tests.
//
// Concurrency: safe for concurrent use.
type Launcher interface {
	// LaunchAndWait behaves like the package-level LaunchAndWait.
	LaunchAndWait(ctx context.Context, d *Descriptor) Outcome

	// Run behaves like the package-level Run.
	Run(ctx context.Context, command string, args ...string) (Result, error)
}

// Compile-time interface satisfaction check.
var _ Launcher = (*launcher)(nil)
