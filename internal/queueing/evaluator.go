package queueing

import (
	"dcvnfopt/internal/mapping"
	"dcvnfopt/internal/service"
	"dcvnfopt/internal/topology"
)

// VnfMetrics tracks the fixed-point arrival rate and packet-loss estimate
// for one VNF instance (keyed by (serviceID, stage) within a server's
// Server map).
type VnfMetrics struct {
	ArrivalRate   float64
	PacketLosses  float64
}

type vnfKey struct {
	serviceID, stage int
}

// Server holds the VnfMetrics for every VNF instance hosted there, keyed
// by (service ID, chain stage) so that multiple instances of the same
// service at the same stage on the same server stay distinguishable from
// instances of other services.
type Server map[vnfKey]VnfMetrics

// Config parameterises the fixed-point evaluator: switch queueing
// parameters (servers route through the same model when acting purely as
// a component, i.e. not at their own VNF stage), convergence tolerance,
// and the energy-cost coefficients used by GetEnergyConsumption.
type Config struct {
	SwitchServiceRate   float64
	SwitchQueueLength   int
	TargetAccuracy      float64
	ConvergedIterations int
	MaxIterations        int // safety cap; 0 means use DefaultMaxIterations
	ActiveCost           float64
	IdleCost             float64
}

// DefaultMaxIterations bounds the fixed-point loop so a pathological
// instance cannot spin forever chasing an accuracy target it will never
// reach.
const DefaultMaxIterations = 10000

// Evaluator runs the fixed-point arrival/loss propagation model over a
// Datacentre, reusing its scratch buffers across calls to Evaluate since
// the model is invoked once per candidate solution per generation.
type Evaluator struct {
	dc  *topology.Datacentre
	cfg Config

	serversMean []Server
	serversTemp []Server
	swArrMean   []float64
	swArrTemp   []float64
	swPL        []float64
}

// NewEvaluator builds an Evaluator over dc with the given Config.
func NewEvaluator(dc *topology.Datacentre, cfg Config) *Evaluator {
	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}

	numComponents := dc.NumComponents()

	e := &Evaluator{
		dc:          dc,
		cfg:         cfg,
		serversMean: make([]Server, dc.NumServers),
		serversTemp: make([]Server, dc.NumServers),
		swArrMean:   make([]float64, numComponents),
		swArrTemp:   make([]float64, numComponents),
		swPL:        make([]float64, numComponents),
	}
	for i := range e.serversMean {
		e.serversMean[i] = make(Server)
		e.serversTemp[i] = make(Server)
	}
	return e
}

// Evaluate runs the fixed-point loop to convergence (or until
// MaxIterations is reached) for the given services and placed routes,
// returning per-service latency, per-service packet loss, and aggregate
// energy consumption.
func (e *Evaluator) Evaluate(services []service.Service, routes []mapping.PlacedService) (latency, packetLoss []float64, energy float64) {
	for i := range e.serversMean {
		clearServer(e.serversMean[i])
		clearServer(e.serversTemp[i])
	}
	for i := range e.swArrMean {
		e.swArrMean[i] = 0
		e.swArrTemp[i] = 0
		e.swPL[i] = 0
	}

	numIterations := 0
	numBelow := 0

	for numBelow < e.cfg.ConvergedIterations && numIterations < e.cfg.MaxIterations {
		e.setAllArrivalRates(routes, services)
		e.setAllPL(services)

		maxDiff := 0.0
		for i := range e.swArrTemp {
			newMean, diff := calcMA(e.swArrMean[i], e.swArrTemp[i], numIterations)
			e.swArrMean[i] = newMean
			if diff > maxDiff {
				maxDiff = diff
			}
		}

		for i := range e.serversTemp {
			for key, met := range e.serversTemp[i] {
				vnfInfo := e.serversMean[i][key]
				newMean, diff := calcMA(vnfInfo.ArrivalRate, met.ArrivalRate, numIterations)
				vnfInfo.ArrivalRate = newMean
				e.serversMean[i][key] = vnfInfo
				if diff > maxDiff {
					maxDiff = diff
				}
			}
		}

		if maxDiff < e.cfg.TargetAccuracy {
			numBelow++
		} else {
			numBelow = 0
		}
		numIterations++
	}

	e.setAllPLFrom(services, e.swArrMean, e.serversMean)

	serviceLatency := make([]float64, len(services))
	servicePL := make([]float64, len(services))
	sCount := make([]int, len(services))

	for _, rs := range routes {
		route := rs.Routes
		sID := rs.ServiceID

		nodePK := make([]float64, len(route))
		nodePL := make([]float64, len(route))
		nodePV := make([]float64, len(route))
		nodePV[0] = 1.0
		nodePK[0] = 1.0

		mapping.Iterate(route, func(curr int) {
			_, pl := e.getMetrics(&route[curr], sID, e.swArrMean, e.swPL, e.serversMean)
			nodePL[curr] = pl
			nodePK[curr] = nodePK[curr] * (1.0 - nodePL[curr])

			numNext := len(route[curr].NextNodes)
			if numNext == 0 {
				newMean, _ := calcMA(servicePL[sID], 1.0-nodePK[curr], sCount[sID])
				servicePL[sID] = newMean
			}

			for _, n := range route[curr].NextNodes {
				nodePK[n] += nodePK[curr] / float64(numNext)
				nodePV[n] += nodePV[curr] / float64(numNext)
			}
		})

		lat := 0.0
		for i := 1; i < len(route); i++ {
			rn := &route[i]
			arr, _ := e.getMetrics(rn, sID, e.swArrMean, e.swPL, e.serversMean)

			var srv float64
			var ql int
			if rn.Kind == mapping.Component {
				srv, ql = e.cfg.SwitchServiceRate, e.cfg.SwitchQueueLength
			} else {
				vnf := services[sID].VNFs[rn.Stage]
				srv, ql = vnf.ServiceRate, vnf.QueueLength
			}

			lat += calcWT(arr, srv, ql, nodePL[i]) * nodePV[i]
		}

		newLat, _ := calcMA(serviceLatency[sID], lat, sCount[sID])
		serviceLatency[sID] = newLat
		sCount[sID]++
	}

	energy = e.GetEnergyConsumption(services, e.serversMean, e.swArrMean)

	return serviceLatency, servicePL, energy
}

func clearServer(s Server) {
	for k := range s {
		delete(s, k)
	}
}

func (e *Evaluator) setAllArrivalRates(routes []mapping.PlacedService, services []service.Service) {
	for i := range e.swArrTemp {
		e.swArrTemp[i] = 0
	}
	for i := range e.serversTemp {
		for k, vnf := range e.serversTemp[i] {
			vnf.ArrivalRate = 0
			e.serversTemp[i][k] = vnf
		}
	}

	numInstances := make([]int, len(services))
	for _, rs := range routes {
		numInstances[rs.ServiceID]++
	}

	for _, rs := range routes {
		sID := rs.ServiceID
		route := rs.Routes

		arrs := make([]float64, len(route))
		arrs[0] = services[sID].ProdRate / float64(numInstances[sID])

		mapping.Iterate(route, func(curr int) {
			cn := &route[curr]
			arr, pl := e.getMetrics(cn, sID, e.swArrTemp, e.swPL, e.serversTemp)

			e.setArrivalRate(arr+arrs[curr], cn, sID, e.swArrTemp, e.serversTemp)

			effOut := arrs[curr] * (1.0 - pl)
			numNext := len(cn.NextNodes)
			if numNext == 0 {
				return
			}
			distrOut := effOut / float64(numNext)

			for _, n := range cn.NextNodes {
				arrs[n] += distrOut
			}
		})
	}
}

func (e *Evaluator) setAllPL(services []service.Service) {
	e.setAllPLFrom(services, e.swArrTemp, e.serversTemp)
}

func (e *Evaluator) setAllPLFrom(services []service.Service, swArr []float64, servers []Server) {
	for i := range e.swPL {
		e.swPL[i] = calcPL(swArr[i], e.cfg.SwitchServiceRate, e.cfg.SwitchQueueLength)
	}

	for i := range servers {
		for key, vnfInfo := range servers[i] {
			if key.stage == 0 {
				continue
			}
			vnf := services[key.serviceID].VNFs[key.stage]
			vnfInfo.PacketLosses = calcPL(vnfInfo.ArrivalRate, vnf.ServiceRate, vnf.QueueLength)
			servers[i][key] = vnfInfo
		}
	}
}

// getMetrics returns the arrival rate and packet-loss estimate recorded
// for rn. A VNF node with no recorded metrics yet returns (0, 0).
func (e *Evaluator) getMetrics(rn *mapping.RouteNode, serviceID int, swArr, swPL []float64, servers []Server) (arrivalRate, packetLoss float64) {
	if rn.Kind == mapping.Component {
		return swArr[rn.DCNodeID], swPL[rn.DCNodeID]
	}
	vnf, ok := servers[rn.DCNodeID][vnfKey{serviceID, rn.Stage}]
	if !ok {
		return 0, 0
	}
	return vnf.ArrivalRate, vnf.PacketLosses
}

func (e *Evaluator) setArrivalRate(arrivalRate float64, rn *mapping.RouteNode, serviceID int, swArr []float64, servers []Server) {
	if rn.Kind == mapping.Component {
		swArr[rn.DCNodeID] = arrivalRate
		return
	}
	key := vnfKey{serviceID, rn.Stage}
	vnf := servers[rn.DCNodeID][key]
	vnf.ArrivalRate = arrivalRate
	servers[rn.DCNodeID][key] = vnf
}

// GetEnergyConsumption sums per-component active/idle energy cost
// weighted by utilisation across every component in the datacentre:
// servers combine their own transit-router busy probability with the
// busy probability of every VNF instance they host (stage-0 producing
// VNFs excluded, since they emit rather than process traffic); switches
// use the plain M/M/1/K busy probability.
func (e *Evaluator) GetEnergyConsumption(services []service.Service, serversMean []Server, swArrMean []float64) float64 {
	sumEnergy := 0.0

	for i := 0; i < e.dc.NumComponents(); i++ {
		var utilisation float64
		if e.dc.IsServer(i) {
			serverBusy := calcBusy(swArrMean[i], e.cfg.SwitchServiceRate, e.cfg.SwitchQueueLength)
			pNoneBusy := 1.0

			for key, vnf := range serversMean[i] {
				if key.stage == 0 {
					continue
				}
				vnfInfo := services[key.serviceID].VNFs[key.stage]
				vmNotBusy := 1.0 - calcBusy(vnf.ArrivalRate, vnfInfo.ServiceRate, vnfInfo.QueueLength)
				pNoneBusy *= vmNotBusy
			}

			utilisation = 1.0 - ((1.0 - serverBusy) * pNoneBusy)
		} else {
			utilisation = calcBusy(swArrMean[i], e.cfg.SwitchServiceRate, e.cfg.SwitchQueueLength)
		}

		if utilisation == 0.0 {
			continue
		}

		sumEnergy += (e.cfg.ActiveCost * utilisation) + (e.cfg.IdleCost * (1.0 - utilisation))
	}

	return sumEnergy
}
