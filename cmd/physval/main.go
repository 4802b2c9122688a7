package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"physval/internal/anchor"
	"physval/internal/config"
	"physval/internal/observables"
	"physval/internal/orchestrator"
	"physval/internal/report"
)

var (
	// Global flags
	verbose    bool
	configPath string
	dataPath   string
	jsonOutput bool

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "physval",
	Short: "physval - axiomatic prediction validation engine",
	Long: `physval validates the numeric predictions of the axiomatic framework
against independently sourced experimental measurements.

It derives the closed-form constants, regularizes the S^4 graviton
determinant, anchors the neutrino mass family by exhaustive triplet
search, and runs the covariance-aware statistical battery, emitting one
canonical report.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logger
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = logger.With(zap.String("run_id", uuid.NewString()))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// runCmd executes the full validation battery
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full validation battery and print the report",
	Long: `Runs every test of the fixed battery unconditionally and prints the
canonical validation report. Component failures become failed test
results; only missing or malformed input data aborts the run.`,
	RunE: runBattery,
}

// scanCmd dumps the exhaustive triplet ranking
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Rank every quantization triplet against the anchor splitting",
	RunE:  runScan,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config YAML (defaults apply when empty)")
	rootCmd.PersistentFlags().StringVarP(&dataPath, "data", "d", "configs/observables.yaml", "path to the observables table")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit JSON instead of text")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scanCmd)
}

func loadInputs() (*config.Config, *observables.Table, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	table, err := observables.Load(dataPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, table, nil
}

func runBattery(cmd *cobra.Command, args []string) error {
	cfg, table, err := loadInputs()
	if err != nil {
		return err
	}

	logger.Info("starting validation run",
		zap.String("data", dataPath),
		zap.Int("observables", len(table.Records)))

	rep, err := orchestrator.New(cfg, table, logger).Run()
	if err != nil {
		return fmt.Errorf("validation run failed: %w", err)
	}

	if jsonOutput {
		return printJSON(rep)
	}
	printReport(rep)
	return nil
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, table, err := loadInputs()
	if err != nil {
		return err
	}

	var atm, solar *observables.Record
	for i := range table.Records {
		r := &table.Records[i]
		if r.Anchor {
			atm = r
		}
	}
	if atm == nil {
		return fmt.Errorf("observables table declares no anchor")
	}
	for i := range table.Records {
		r := &table.Records[i]
		if r.Sector == atm.Sector && !r.Anchor {
			solar = r
			break
		}
	}
	if solar == nil {
		return fmt.Errorf("no companion splitting in anchor sector %q", atm.Sector)
	}

	ranking, err := anchor.Search(
		anchor.Config{
			NMax:         cfg.Scan.NMax,
			SumMassBound: cfg.Scan.SumMassBound,
			PenaltySigma: cfg.Scan.PenaltySigma,
		},
		anchor.Measurement{Value: atm.Experiment, Sigma: atm.ExperimentSigma},
		anchor.Measurement{Value: solar.Experiment, Sigma: solar.ExperimentSigma},
	)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(ranking)
	}
	fmt.Printf("%-12s %-14s %-14s %-12s\n", "triplet", "chi2", "pred_solar", "mass_sum")
	for _, c := range ranking.Candidates {
		fmt.Printf("{%d,%d,%d}%-5s %-14.6f %-14.6e %-12.6e\n",
			c.N1, c.N2, c.N3, "", c.ChiSquared, c.PredictedSolar, c.MassSum)
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printReport(rep *report.ValidationReport) {
	fmt.Printf("suite:   %s (v%s)\n", rep.Suite, rep.Version)
	fmt.Printf("run tag: %s\n\n", rep.RunTag)
	fmt.Printf("%-30s %-6s %s\n", "test", "result", "detail")
	for _, r := range rep.Results {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
		}
		detail := r.Diagnostics
		if detail == "" && len(r.Metrics) > 0 {
			detail = fmt.Sprintf("%s=%.6g", r.Metrics[0].Name, r.Metrics[0].Value)
		}
		fmt.Printf("%-30s %-6s %s\n", r.ID, status, detail)
	}
	fmt.Printf("\n%s\n", rep.Summary())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
