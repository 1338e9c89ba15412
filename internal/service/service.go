// Package service defines the VNF chains (services) requested of the
// datacentre and generates randomised problem instances per the
// distribution table used by the bundled benchmarks.
package service

import "golang.org/x/exp/rand"

// ID identifies a Service within a problem instance.
type ID = int

// VNF is one stage of a service chain: a virtual network function with an
// M/M/1/K queueing profile and a resource footprint.
type VNF struct {
	ServiceRate float64 // mu, packets/sec the stage can serve
	QueueLength int     // K, buffer capacity including the packet in service
	Size        int     // capacity units consumed on its host server
}

// Service is an ordered chain of VNFs driven by a fixed production rate.
type Service struct {
	ID       ID
	ProdRate float64
	VNFs     []VNF
}

// InstanceConfig parameterises the random generation of a problem
// instance's services, mirroring the distribution table: VNF counts and
// sizes are uniform over a range, production/service rates and queue
// lengths are drawn from a normal distribution, redrawn until positive.
type InstanceConfig struct {
	NumServices      int
	MinVNFsPerChain  int
	MaxVNFsPerChain  int
	MinVNFSize       int
	MaxVNFSize       int
	ProdRateMean     float64
	ProdRateStdDev   float64
	ServiceRateMean  float64
	ServiceRateStdDev float64
	QueueLengthMean  float64
	QueueLengthStdDev float64
}

// GenerateInstance produces NumServices random service chains according to
// cfg, using rng for all random draws so problem instances are
// reproducible given a seeded generator.
func GenerateInstance(cfg InstanceConfig, rng *rand.Rand) []Service {
	services := make([]Service, cfg.NumServices)

	for i := 0; i < cfg.NumServices; i++ {
		numVNFs := cfg.MinVNFsPerChain
		if cfg.MaxVNFsPerChain > cfg.MinVNFsPerChain {
			numVNFs += rng.Intn(cfg.MaxVNFsPerChain - cfg.MinVNFsPerChain + 1)
		}

		vnfs := make([]VNF, numVNFs)
		for j := range vnfs {
			size := cfg.MinVNFSize
			if cfg.MaxVNFSize > cfg.MinVNFSize {
				size += rng.Intn(cfg.MaxVNFSize - cfg.MinVNFSize + 1)
			}

			vnfs[j] = VNF{
				ServiceRate: positiveNormal(rng, cfg.ServiceRateMean, cfg.ServiceRateStdDev),
				QueueLength: int(positiveNormal(rng, cfg.QueueLengthMean, cfg.QueueLengthStdDev)) + 1,
				Size:        size,
			}
		}

		services[i] = Service{
			ID:       i,
			ProdRate: positiveNormal(rng, cfg.ProdRateMean, cfg.ProdRateStdDev),
			VNFs:     vnfs,
		}
	}

	return services
}

// positiveNormal draws from N(mean, stddev) and retries until the result
// is strictly positive, so generated rates and queue lengths never reach
// zero or go negative.
func positiveNormal(rng *rand.Rand, mean, stddev float64) float64 {
	for {
		v := mean + rng.NormFloat64()*stddev
		if v > 0 {
			return v
		}
	}
}
