package queueing_test

import (
	"math"
	"testing"

	"dcvnfopt/internal/mapping"
	"dcvnfopt/internal/queueing"
	"dcvnfopt/internal/service"
	"dcvnfopt/internal/topology"
	"dcvnfopt/internal/topology/builders"
)

func newTestEvaluator(dc *topology.Datacentre) *queueing.Evaluator {
	return queueing.NewEvaluator(dc, queueing.Config{
		SwitchServiceRate:   20,
		SwitchQueueLength:   40,
		TargetAccuracy:      0.01,
		ConvergedIterations: 5,
		ActiveCost:          30,
		IdleCost:            10,
	})
}

func TestEvaluateConvergesOnTinyFatTreeChain(t *testing.T) {
	dc := builders.FatTree(4)
	tables := topology.BuildRoutingTables(dc)

	svc := service.Service{
		ID:       0,
		ProdRate: 1,
		VNFs: []service.VNF{
			{ServiceRate: 1, QueueLength: 10, Size: 1},
			{ServiceRate: 1, QueueLength: 10, Size: 1},
			{ServiceRate: 1, QueueLength: 10, Size: 1},
		},
	}
	services := []service.Service{svc}

	sequence := []topology.NodeID{0, 1, 2}
	routes := []mapping.PlacedService{{ServiceID: 0, Routes: mapping.FindRoutes(sequence, tables)}}

	eval := newTestEvaluator(dc)
	latency, packetLoss, energy := eval.Evaluate(services, routes)

	if len(latency) != 1 || len(packetLoss) != 1 {
		t.Fatalf("expected per-service slices of length 1, got latency=%v packetLoss=%v", latency, packetLoss)
	}
	if latency[0] < 0 || math.IsNaN(latency[0]) || math.IsInf(latency[0], 0) {
		t.Fatalf("latency[0] = %v, want a finite non-negative value", latency[0])
	}
	if packetLoss[0] < 0 || packetLoss[0] > 1 {
		t.Fatalf("packetLoss[0] = %v, want within [0, 1]", packetLoss[0])
	}
	if energy <= 0 {
		t.Fatalf("energy = %v, want > 0 for a chain that traverses active components", energy)
	}
}

func TestEvaluateRepeatedCallsAreDeterministic(t *testing.T) {
	dc := builders.FatTree(4)
	tables := topology.BuildRoutingTables(dc)

	svc := service.Service{
		ID:       0,
		ProdRate: 2,
		VNFs: []service.VNF{
			{ServiceRate: 4, QueueLength: 8, Size: 1},
			{ServiceRate: 4, QueueLength: 8, Size: 1},
		},
	}
	services := []service.Service{svc}
	sequence := []topology.NodeID{0, 0}
	routes := []mapping.PlacedService{{ServiceID: 0, Routes: mapping.FindRoutes(sequence, tables)}}

	eval := newTestEvaluator(dc)
	lat1, pl1, en1 := eval.Evaluate(services, routes)
	lat2, pl2, en2 := eval.Evaluate(services, routes)

	if lat1[0] != lat2[0] || pl1[0] != pl2[0] || en1 != en2 {
		t.Fatalf("re-evaluating identical input changed results: (%v,%v,%v) vs (%v,%v,%v)", lat1[0], pl1[0], en1, lat2[0], pl2[0], en2)
	}
}

func TestEvaluateEmptyRoutesProducesZeroEnergyAndLatency(t *testing.T) {
	dc := builders.FatTree(4)
	eval := newTestEvaluator(dc)

	services := []service.Service{{ID: 0, ProdRate: 1, VNFs: []service.VNF{{ServiceRate: 1, QueueLength: 5, Size: 1}}}}
	latency, packetLoss, energy := eval.Evaluate(services, nil)

	if latency[0] != 0 || packetLoss[0] != 0 {
		t.Fatalf("with no routes, latency/packetLoss should stay at zero, got %v/%v", latency[0], packetLoss[0])
	}
	if energy != 0 {
		t.Fatalf("with no traffic anywhere, energy = %v, want 0", energy)
	}
}
