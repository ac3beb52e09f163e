package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"a68/internal/prof"
)

// setupProfiling starts the profilers named by --cpu-profile,
// --mem-profile and --runtime-trace and returns their cleanup.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	flags := cmd.Flags()
	var p prof.Paths
	var err error
	if p.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if p.Heap, err = flags.GetString("mem-profile"); err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if p.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}

	session, err := prof.Start(p)
	if err != nil {
		return nil, fmt.Errorf("failed to start profiling: %w", err)
	}
	return func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "a68: profiling: %v\n", err)
		}
	}, nil
}
