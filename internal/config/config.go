// Package config holds the engine configuration: spectral truncation
// control, the combinatorial search bound, statistical settings, and the
// per-test tolerance manifest consumed by the orchestrator.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all physval configuration.
type Config struct {
	Version string `yaml:"version"`

	// Spectral regularization
	Spectral SpectralConfig `yaml:"spectral"`

	// Combinatorial anchor search
	Scan ScanConfig `yaml:"scan"`

	// Statistical validation
	Statistics StatisticsConfig `yaml:"statistics"`

	// Per-test tolerance overrides, keyed by battery test id. Tests not
	// listed here use their built-in default tolerance.
	Tolerances map[string]float64 `yaml:"tolerances"`
}

// SpectralConfig controls the zeta-function regularization.
type SpectralConfig struct {
	// SplitEll is the mode number where the numeric path switches from
	// exact low-mode summation to asymptotic subtraction. Must be at
	// least 5: below that the expansion variable leaves its convergence
	// domain.
	SplitEll int `yaml:"split_ell"`
	// SubtractionOrder is the order (in 1/ell) of the asymptotic series
	// subtracted from the integrand.
	SubtractionOrder int `yaml:"subtraction_order"`
	// InitialCutoff is the first residual-sum truncation; the convergence
	// loop doubles it until the total stabilizes.
	InitialCutoff int `yaml:"initial_cutoff"`
	// MaxDoublings caps the convergence loop, bounding worst-case runtime
	// on non-convergent inputs.
	MaxDoublings int `yaml:"max_doublings"`
	// ConvergenceThreshold is the absolute change between consecutive
	// truncation orders below which the value counts as converged.
	ConvergenceThreshold float64 `yaml:"convergence_threshold"`
	// CrossCheckRelTol is the relative tolerance at which the two
	// independent computation paths must agree.
	CrossCheckRelTol float64 `yaml:"cross_check_rel_tol"`
}

// ScanConfig controls the exhaustive triplet search.
type ScanConfig struct {
	// NMax bounds the enumeration: all {n1<n2<n3} within 1..NMax.
	// NMax=10 yields the documented 120-triplet space.
	NMax int `yaml:"n_max"`
	// SumMassBound is the cosmological bound on the neutrino mass sum, in
	// eV; exceeding it incurs a chi-squared penalty.
	SumMassBound float64 `yaml:"sum_mass_bound_ev"`
	// PenaltySigma scales the penalty for exceeding the bound, in eV.
	PenaltySigma float64 `yaml:"penalty_sigma_ev"`
}

// StatisticsConfig controls covariance regularization and the Bayes
// reference model.
type StatisticsConfig struct {
	// RidgeFraction is the ridge added to the covariance diagonal (as a
	// fraction of the mean variance) when the matrix is not positive
	// definite; one attempt only.
	RidgeFraction float64 `yaml:"ridge_fraction"`
	// OccamLog10PerParam is the log10 prior weight credited to the
	// saturated reference model per free parameter. Negative values
	// penalize the reference; -1 charges one decade per parameter.
	OccamLog10PerParam float64 `yaml:"occam_log10_per_param"`
	// SampleSeed seeds the sampling-based uncertainty propagation.
	SampleSeed uint64 `yaml:"sample_seed"`
	// SampleCount is the number of draws in sampling mode.
	SampleCount int `yaml:"sample_count"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Version: "1.0",
		Spectral: SpectralConfig{
			SplitEll:             50,
			SubtractionOrder:     12,
			InitialCutoff:        400,
			MaxDoublings:         12,
			ConvergenceThreshold: 1e-10,
			CrossCheckRelTol:     1e-4,
		},
		Scan: ScanConfig{
			NMax:         10,
			SumMassBound: 0.12,
			PenaltySigma: 0.02,
		},
		Statistics: StatisticsConfig{
			RidgeFraction:      1e-10,
			OccamLog10PerParam: -1,
			SampleSeed:         1,
			SampleCount:        20000,
		},
		Tolerances: map[string]float64{},
	}
}

// Load reads configuration from a YAML file, applies environment
// overrides, and validates the result. An empty path returns the default
// configuration (still env-overridable).
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides lets CI vary the expensive knobs without editing the
// config file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PHYSVAL_SCAN_NMAX"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Scan.NMax = n
		}
	}
	if v := os.Getenv("PHYSVAL_SPECTRAL_MAX_DOUBLINGS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Spectral.MaxDoublings = n
		}
	}
	if v := os.Getenv("PHYSVAL_SAMPLE_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Statistics.SampleCount = n
		}
	}
}

// Validate fails fast on settings that would make a run meaningless.
func (c *Config) Validate() error {
	if c.Spectral.SplitEll < 5 {
		return fmt.Errorf("invalid config: spectral.split_ell must be >= 5, got %d", c.Spectral.SplitEll)
	}
	if c.Spectral.SubtractionOrder < 4 {
		return fmt.Errorf("invalid config: spectral.subtraction_order must be >= 4, got %d", c.Spectral.SubtractionOrder)
	}
	if c.Spectral.InitialCutoff <= c.Spectral.SplitEll {
		return fmt.Errorf("invalid config: spectral.initial_cutoff must exceed split_ell")
	}
	if c.Spectral.MaxDoublings < 1 {
		return fmt.Errorf("invalid config: spectral.max_doublings must be >= 1")
	}
	if c.Spectral.ConvergenceThreshold <= 0 {
		return fmt.Errorf("invalid config: spectral.convergence_threshold must be positive")
	}
	if c.Spectral.CrossCheckRelTol <= 0 {
		return fmt.Errorf("invalid config: spectral.cross_check_rel_tol must be positive")
	}
	if c.Scan.NMax < 3 {
		return fmt.Errorf("invalid config: scan.n_max must be >= 3 to admit a triplet, got %d", c.Scan.NMax)
	}
	if c.Scan.SumMassBound <= 0 || c.Scan.PenaltySigma <= 0 {
		return fmt.Errorf("invalid config: scan bounds must be positive")
	}
	if c.Statistics.RidgeFraction < 0 {
		return fmt.Errorf("invalid config: statistics.ridge_fraction must be non-negative")
	}
	if c.Statistics.SampleCount < 100 {
		return fmt.Errorf("invalid config: statistics.sample_count must be >= 100, got %d", c.Statistics.SampleCount)
	}
	for id, tol := range c.Tolerances {
		if tol <= 0 {
			return fmt.Errorf("invalid config: tolerance for %q must be positive", id)
		}
	}
	return nil
}

// Tolerance returns the configured tolerance for a test id, or the given
// default when the manifest does not override it.
func (c *Config) Tolerance(id string, def float64) float64 {
	if tol, ok := c.Tolerances[id]; ok {
		return tol
	}
	return def
}
