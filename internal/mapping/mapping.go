package mapping

import (
	"dcvnfopt/internal/service"
	"dcvnfopt/internal/solution"
	"dcvnfopt/internal/topology"
)

// PlacedService is one successfully mapped service instance: its origin
// service ID and the route DAG produced for the servers its VNF chain was
// placed on.
type PlacedService struct {
	ServiceID service.ID
	Routes    []RouteNode
}

// ResolvePerServer looks up each service ID named in a per-server
// placement genotype against the service catalogue, producing the
// per-server Service request lists PlaceServices walks. The genotype
// itself already lists, per server index, the services requested there
// (spec.md's "per-server list of services to place"), so this is a plain
// index lookup rather than a scattering step.
func ResolvePerServer(point [][]service.ID, services []service.Service) [][]service.Service {
	perServer := make([][]service.Service, len(point))
	for i, ids := range point {
		perServer[i] = make([]service.Service, len(ids))
		for j, id := range ids {
			perServer[i][j] = services[id]
		}
	}
	return perServer
}

// PlaceServices walks, for every server position and every service
// requested there, the service's VNF chain stage by stage, using
// selection to pick a host for each stage starting from the requesting
// server's distance-matrix row and continuing from whichever server the
// previous stage landed on. If any stage cannot find a host, every
// capacity deduction already made for that service is rolled back and the
// service is dropped from the phenotype (it could not be placed given the
// current genotype). capacities is mutated in place to reflect the
// capacity actually consumed by successfully placed services.
func PlaceServices(
	perServer [][]service.Service,
	selection NodeSelection,
	capacities []int,
	distanceMatrix topology.DistanceMatrix,
	routingTables []*topology.RoutingTable,
) []PlacedService {
	var phenotype []PlacedService

	for i := range perServer {
		for _, svc := range perServer[i] {
			pos := i

			sequence := make([]topology.NodeID, 0, len(svc.VNFs))
			placed := true

			for _, vnf := range svc.VNFs {
				row := distanceMatrix[pos]
				node, err := selection.Select(vnf.Size, row, capacities)
				if err != nil {
					for j, curr := range sequence {
						capacities[curr] += svc.VNFs[j].Size
					}
					placed = false
					break
				}

				capacities[node] -= vnf.Size
				sequence = append(sequence, node)
				pos = node
			}

			if placed {
				routes := FindRoutes(sequence, routingTables)
				phenotype = append(phenotype, PlacedService{ServiceID: svc.ID, Routes: routes})
			}
		}
	}

	return phenotype
}

// Apply composes ResolvePerServer and PlaceServices into the full
// genotype-to-phenotype mapping: a per-server list of requested service
// IDs becomes a set of placed, routed service instances.
func Apply(
	sol solution.Solution[[]service.ID],
	services []service.Service,
	selection NodeSelection,
	capacities []int,
	distanceMatrix topology.DistanceMatrix,
	routingTables []*topology.RoutingTable,
) []PlacedService {
	perServer := ResolvePerServer(sol.Point, services)
	return PlaceServices(perServer, selection, capacities, distanceMatrix, routingTables)
}
