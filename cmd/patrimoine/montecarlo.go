package main

import (
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/lionelmichaud/patrimoine/internal/output"
	"github.com/lionelmichaud/patrimoine/internal/random"
	"github.com/lionelmichaud/patrimoine/internal/simulation"
)

const resultsFileName = "montecarlo-results.json"

func monteCarloCmd() *cobra.Command {
	var nbOfRuns int
	cmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "Run a Monte-Carlo batch and store the per-run results",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger()
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			sim, cfg, err := buildSimulator(log)
			if err != nil {
				return err
			}
			runs := cfg.Scenario.NbOfRuns
			if nbOfRuns > 0 {
				runs = nbOfRuns
			}

			manager := simulation.NewRunManager(sim)
			result, err := manager.Compute(cfg.Scenario.FirstYear, cfg.Scenario.NbOfYears, runs, random.Random)
			if err != nil {
				return err
			}

			os.Stdout.Write(output.ConsoleSummary{}.FormatBatch(result))

			table, err := output.MonteCarloCSV{}.Format(result)
			if err != nil {
				return err
			}
			if err := writeFile("montecarlo-results.csv", table); err != nil {
				return err
			}
			return saveBatch(result)
		},
	}
	cmd.Flags().IntVarP(&nbOfRuns, "runs", "n", 0, "number of runs (overrides the scenario)")
	return cmd
}

// saveBatch stores the batch as JSON so that any run can be replayed.
func saveBatch(result *simulation.MonteCarloResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	return writeFile(resultsFileName, data)
}

func loadBatch(path string) (*simulation.MonteCarloResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results file %s: %w", path, err)
	}
	var result simulation.MonteCarloResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse results file %s: %w", path, err)
	}
	return &result, nil
}

func replayCmd() *cobra.Command {
	var runNumber int
	var resultsPath string
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-execute one stored Monte-Carlo run with its sampled variables",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger()
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			sim, cfg, err := buildSimulator(log)
			if err != nil {
				return err
			}
			if resultsPath == "" {
				resultsPath = filepath.Join(flagOutputDir, resultsFileName)
			}
			batch, err := loadBatch(resultsPath)
			if err != nil {
				return err
			}
			var line *simulation.SimulationResultLine
			for i := range batch.Lines {
				if batch.Lines[i].RunNumber == runNumber {
					line = &batch.Lines[i]
					break
				}
			}
			if line == nil {
				return fmt.Errorf("run %d not found in %s", runNumber, resultsPath)
			}

			manager := simulation.NewRunManager(sim)
			result, err := manager.Replay(*line, cfg.Scenario.FirstYear, cfg.Scenario.NbOfYears)
			if err != nil && result == nil {
				return err
			}
			if err != nil {
				log.Warnw("replayed run failed as recorded", "year", result.FailureYear, "reason", result.Failure)
			}

			os.Stdout.Write(output.ConsoleSummary{}.FormatRun(result))
			return writeRunCSVs(result)
		},
	}
	cmd.Flags().IntVarP(&runNumber, "run", "r", 1, "run number to replay")
	cmd.Flags().StringVar(&resultsPath, "results", "", "results file (default: <output-dir>/montecarlo-results.json)")
	return cmd
}
