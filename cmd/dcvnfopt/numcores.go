package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// numCoresCmd mirrors the config-level test_num_cores flag: emit the
// parallelism the runtime detects and exit, without running anything.
var numCoresCmd = &cobra.Command{
	Use:   "num-cores",
	Args:  cobra.NoArgs,
	Short: "Print the hardware parallelism the runner will use and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), runtime.NumCPU())
		return nil
	},
}
