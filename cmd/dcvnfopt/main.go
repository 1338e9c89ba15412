// Command dcvnfopt sweeps a set of datacentre topologies, generates
// random VNF-placement problem instances over each, and runs the
// requested multi-objective placement algorithm against them.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:     "dcvnfopt",
	Short:   "Multi-objective VNF placement optimizer over datacentre topologies",
	Long:    `dcvnfopt places chained virtual network functions onto datacentre servers, finding Pareto-optimal tradeoffs between latency, packet loss, and energy.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./Config.yaml)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(numCoresCmd)
	rootCmd.AddCommand(genTopologyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
