// Package config loads the CLI driver's configuration from a YAML file,
// with environment-variable overrides, and holds the per-run constants
// spec.md §6 fixes for problem-instance generation and the bundled
// algorithms.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"sigs.k8s.io/yaml"
)

// Config is the top-level driver configuration, decoded from a YAML file
// and overridable field-by-field through APP_-prefixed environment
// variables (e.g. APP_MAX_EVALUATIONS overrides MaxEvaluations).
type Config struct {
	ResultsFolder  string `json:"resultsFolder"`
	MaxEvaluations int    `json:"maxEvaluations"`
	TestNumCores   bool   `json:"testNumCores"`
	FatTree        []int  `json:"fatTree"`
	LeafSpine      []int  `json:"leafSpine"`
	DCell          []int  `json:"dcell"`
}

// Default returns a Config populated with sane out-of-the-box values:
// a local results folder, a modest evaluation budget, and a single
// small instance of each topology family.
func Default() Config {
	return Config{
		ResultsFolder:  "results",
		MaxEvaluations: 50_000,
		FatTree:        []int{4},
		LeafSpine:      []int{4},
		DCell:          []int{2},
	}
}

// Load decodes a Config from the YAML file at path (returning Default()
// augmented by env overrides if the file does not exist), then applies
// APP_-prefixed environment variable overrides on top.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

const envPrefix = "APP_"

// applyEnvOverrides scans the process environment for APP_-prefixed
// variables matching Config's field names (snake_upper-cased) and
// overwrites the corresponding field, per spec.md §6's "Environment
// variables with prefix APP override file settings".
func applyEnvOverrides(cfg *Config) error {
	if v, ok := os.LookupEnv(envPrefix + "RESULTS_FOLDER"); ok {
		cfg.ResultsFolder = v
	}
	if v, ok := os.LookupEnv(envPrefix + "MAX_EVALUATIONS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %sMAX_EVALUATIONS=%q: %w", envPrefix, v, err)
		}
		cfg.MaxEvaluations = n
	}
	if v, ok := os.LookupEnv(envPrefix + "TEST_NUM_CORES"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: %sTEST_NUM_CORES=%q: %w", envPrefix, v, err)
		}
		cfg.TestNumCores = b
	}
	if v, ok := os.LookupEnv(envPrefix + "FAT_TREE"); ok {
		ints, err := parseIntList(v)
		if err != nil {
			return fmt.Errorf("config: %sFAT_TREE=%q: %w", envPrefix, v, err)
		}
		cfg.FatTree = ints
	}
	if v, ok := os.LookupEnv(envPrefix + "LEAF_SPINE"); ok {
		ints, err := parseIntList(v)
		if err != nil {
			return fmt.Errorf("config: %sLEAF_SPINE=%q: %w", envPrefix, v, err)
		}
		cfg.LeafSpine = ints
	}
	if v, ok := os.LookupEnv(envPrefix + "DCELL"); ok {
		ints, err := parseIntList(v)
		if err != nil {
			return fmt.Errorf("config: %sDCELL=%q: %w", envPrefix, v, err)
		}
		cfg.DCell = ints
	}
	return nil
}

func parseIntList(v string) ([]int, error) {
	parts := strings.Split(v, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// Per-run fixed constants, spec.md §6.
const (
	ConvergenceAccuracy    = 5.0
	ConvergedIterations    = 10
	ActiveCost             = 30.0
	IdleCost               = 10.0
	ServerCapacity         = 100
	PopulationSize         = 128
	PPLSPopulationSize     = 16
	CrossoverProbability   = 0.4
	MutationProbability    = 0.4
	IslandEpochs           = 10
	PPLSNeighboursPerIndiv = 10
	ServiceUtilisation     = 0.6
)

// SwitchServiceRate returns the fixed-point model's per-switch service
// rate, which scales with port count (20·numPorts, spec.md §6).
func SwitchServiceRate(numPorts int) float64 {
	return 20.0 * float64(numPorts)
}

// SwitchQueueLength returns the fixed-point model's per-switch queue
// length, which scales with port count (20·numPorts, spec.md §6).
func SwitchQueueLength(numPorts int) int {
	return 20 * numPorts
}
