package mapping

import "dcvnfopt/internal/topology"

// NodeKind distinguishes a route-DAG node that represents passing through
// a datacentre component (switch or server-as-router) from one that
// represents a VNF processing stage.
type NodeKind int

const (
	Component NodeKind = iota
	VNFStage
)

// RouteNode is one node of a multistage route DAG: either a datacentre
// component being transited, or a VNF processing stage hosted on a
// server. RouteCount is the in-degree (fan-in) of the node — it is
// decremented by Iterate as predecessors are visited, so a node is only
// applied once every path reaching it has been walked.
type RouteNode struct {
	Kind       NodeKind
	DCNodeID   topology.NodeID
	Stage      int // meaningful only when Kind == VNFStage
	RouteCount uint32
	NextNodes  []int
}

// IsVNF reports whether this node represents a VNF processing stage.
func (rn *RouteNode) IsVNF() bool {
	return rn.Kind == VNFStage
}

func newComponent(dcNodeID topology.NodeID) RouteNode {
	return RouteNode{Kind: Component, DCNodeID: dcNodeID, RouteCount: 1}
}

func newVNF(dcNodeID topology.NodeID, stage int) RouteNode {
	return RouteNode{Kind: VNFStage, DCNodeID: dcNodeID, Stage: stage, RouteCount: 1}
}

// FindRoutes builds the route DAG for a VNF chain placed at the servers
// named by sequence (sequence[i] is the server hosting stage i),
// expanding ECMP splits from routingTables and rejoining the DAG whenever
// two paths reach the same (component, stage) pair, so that fan-out is
// represented exactly once with a RouteCount recording how many
// predecessors feed into it.
func FindRoutes(sequence []topology.NodeID, routingTables []*topology.RoutingTable) []RouteNode {
	initServerID := sequence[0]
	graph := []RouteNode{newVNF(initServerID, 0)}

	lookup := make(map[[2]int]int)

	type queued struct {
		stage, curr int
	}
	queue := []queued{{0, len(graph) - 1}}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		stage, curr := item.stage, item.curr

		if graph[curr].Kind == VNFStage {
			serverID := graph[curr].DCNodeID
			if stage < len(sequence)-1 {
				graph = append(graph, newComponent(serverID))
				nextPos := len(graph) - 1
				graph[curr].NextNodes = append(graph[curr].NextNodes, nextPos)
				lookup[[2]int{serverID, stage}] = nextPos
				queue = append(queue, queued{stage + 1, nextPos})
			}
			continue
		}

		target := sequence[stage]
		currDCNode := graph[curr].DCNodeID
		nextDCNodes := routingTables[currDCNode].Find(target)

		if currDCNode == target {
			nodeID := len(graph)
			graph[curr].NextNodes = append(graph[curr].NextNodes, nodeID)
			graph = append(graph, newVNF(currDCNode, stage))
			queue = append(queue, queued{stage, nodeID})
			continue
		}

		for _, nextDCNode := range nextDCNodes {
			lkNext := [2]int{nextDCNode, stage}

			if nodeID, ok := lookup[lkNext]; ok {
				graph[nodeID].RouteCount++
				graph[curr].NextNodes = append(graph[curr].NextNodes, nodeID)
			} else {
				nodeID := len(graph)
				graph = append(graph, newComponent(nextDCNode))
				lookup[lkNext] = nodeID
				queue = append(queue, queued{stage, nodeID})
				graph[curr].NextNodes = append(graph[curr].NextNodes, nodeID)
			}
		}
	}

	return graph
}

// Iterate performs a topological pass over route: apply is invoked for
// each node exactly once, only after every one of its predecessors (as
// counted by RouteCount) has already triggered its arrival.
func Iterate(route []RouteNode, apply func(curr int)) {
	numRoutes := make([]uint32, len(route))
	for i, rn := range route {
		numRoutes[i] = rn.RouteCount
	}

	queue := []int{0}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		numRoutes[curr]--
		if numRoutes[curr] == 0 {
			apply(curr)
			queue = append(queue, route[curr].NextNodes...)
		}
	}
}
