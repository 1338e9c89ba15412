package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"dcvnfopt/internal/runio"
	"dcvnfopt/internal/topology"
	"dcvnfopt/internal/topology/builders"
)

var genTopologyCmd = &cobra.Command{
	Use:   "gen-topology",
	Args:  cobra.NoArgs,
	Short: "Precompute a topology and its routing tables, and save them to disk",
	RunE:  runGenTopology,
}

func init() {
	genTopologyCmd.Flags().String("kind", "fat-tree", "topology family: fat-tree, leaf-spine, or dcell")
	genTopologyCmd.Flags().Int("size", 4, "topology size parameter (ports/level, as appropriate)")
	genTopologyCmd.Flags().String("out-dir", "topology", "output directory for the .dat blobs")
}

func runGenTopology(cmd *cobra.Command, args []string) error {
	kind, _ := cmd.Flags().GetString("kind")
	size, _ := cmd.Flags().GetInt("size")
	outDir, _ := cmd.Flags().GetString("out-dir")

	dc, err := buildTopology(kind, size)
	if err != nil {
		return err
	}

	tables := topology.BuildRoutingTables(dc)

	outPath := filepath.Join(outDir, fmt.Sprintf("%s_%d.dat", kind, size))
	if err := runio.SaveTopology(outPath, dc, tables); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d servers, %d components)\n", outPath, dc.NumServers, dc.NumComponents())
	return nil
}

func buildTopology(kind string, size int) (*topology.Datacentre, error) {
	switch kind {
	case "fat-tree":
		return builders.FatTree(size), nil
	case "leaf-spine":
		return builders.LeafSpine(size, size/2), nil
	case "dcell":
		return builders.DCell(size, 1), nil
	default:
		return nil, fmt.Errorf("gen-topology: unknown topology kind %q", kind)
	}
}
