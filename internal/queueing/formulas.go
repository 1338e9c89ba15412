// Package queueing evaluates a placed-and-routed solution against an
// M/M/1/K fixed-point queueing model, producing per-service latency and
// packet-loss estimates plus an aggregate energy-consumption figure.
package queueing

import "math"

// calcMA folds newValue into a cumulative moving average of numPoints
// prior samples, returning the updated mean and the absolute change it
// produced (used to detect fixed-point convergence).
func calcMA(currentMean, newValue float64, numPoints int) (mean, diff float64) {
	newMean := currentMean + (newValue-currentMean)/float64(numPoints+1)
	return newMean, math.Abs(newMean - currentMean)
}

// calcPL returns the M/M/1/K packet-loss (blocking) probability for a
// queue with the given arrival rate, service rate, and finite capacity
// queueLength (including the packet in service).
func calcPL(arrivalRate, serviceRate float64, queueLength int) float64 {
	k := float64(queueLength)
	rho := arrivalRate / serviceRate

	if rho == 1.0 {
		return 1.0 / (k + 1.0)
	}
	return ((1.0 - rho) * math.Pow(rho, k)) / (1.0 - math.Pow(rho, k+1.0))
}

// calcWT returns the mean sojourn (wait) time for a packet that survives
// an M/M/1/K queue with the given packetLoss blocking probability already
// accounted for. It returns 0 for a queue with no arrivals.
func calcWT(arrivalRate, serviceRate float64, queueLength int, packetLoss float64) float64 {
	k := float64(queueLength)
	rho := arrivalRate / serviceRate

	if arrivalRate == 0.0 {
		return 0.0
	}

	var numInSystem float64
	if rho != 1.0 {
		a := rho * (1.0 - (k+1.0)*math.Pow(rho, k) + k*math.Pow(rho, k+1.0))
		b := (1.0 - rho) * (1.0 - math.Pow(rho, k+1.0))
		numInSystem = a / b
	} else {
		numInSystem = k / 2.0
	}

	ar := arrivalRate * (1.0 - packetLoss)
	return numInSystem / ar
}

// calcBusy returns the long-run probability that an M/M/1/K queue is
// non-empty (its utilisation). It returns +Inf for a queue receiving
// traffic with zero service rate.
func calcBusy(arrivalRate, serviceRate float64, queueLength int) float64 {
	if arrivalRate > 0.0 && serviceRate == 0.0 {
		return math.Inf(1)
	}

	rho := arrivalRate / serviceRate
	k := float64(queueLength)

	var pEmpty float64
	if arrivalRate != serviceRate {
		pEmpty = (1.0 - rho) / (1.0 - math.Pow(rho, k+1.0))
	} else {
		pEmpty = 1.0 / (k + 1.0)
	}

	return 1.0 - pEmpty
}
