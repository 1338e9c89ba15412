// Package topology models datacentre network fabrics as adjacency-list
// graphs: servers, switches, and the links between them.
package topology

import "fmt"

// NodeID indexes a node (server or switch) in a Datacentre's adjacency list.
// Servers always occupy the range [0, NumServers).
type NodeID = int

// Datacentre is an adjacency-list graph of a datacentre network fabric.
// Graph[i] lists the neighbours of node i. Nodes below NumServers are
// servers; all others are switches (edge/aggregation/core, leaf/spine,
// or DCell switches depending on which builder produced the graph).
type Datacentre struct {
	Graph      [][]NodeID
	NumPorts   int
	NumServers int
}

// IsServer reports whether node is a server rather than a switch.
func (dc *Datacentre) IsServer(node NodeID) bool {
	return node < dc.NumServers
}

// NumComponents returns the total node count (servers plus switches).
func (dc *Datacentre) NumComponents() int {
	return len(dc.Graph)
}

// Validate checks basic structural invariants: every neighbour reference
// is in range and NumServers does not exceed the node count.
func (dc *Datacentre) Validate() error {
	if dc.NumServers > len(dc.Graph) {
		return fmt.Errorf("topology: num servers %d exceeds node count %d", dc.NumServers, len(dc.Graph))
	}
	for i, neighbours := range dc.Graph {
		for _, n := range neighbours {
			if n < 0 || n >= len(dc.Graph) {
				return fmt.Errorf("topology: node %d has out-of-range neighbour %d", i, n)
			}
		}
	}
	return nil
}
