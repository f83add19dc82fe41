package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lionelmichaud/patrimoine/internal/config"
	"github.com/lionelmichaud/patrimoine/internal/output"
	"github.com/lionelmichaud/patrimoine/internal/random"
	"github.com/lionelmichaud/patrimoine/internal/simulation"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig      string
	flagFiscalModel string
	flagOutputDir   string
	flagVerbose     bool
)

func main() {
	root := &cobra.Command{
		Use:   "patrimoine",
		Short: "Household wealth, retirement and succession simulator",
		Long: `patrimoine projects a household's cash flows and balance sheet year by
year, under deterministic or Monte-Carlo economic assumptions, including
French income taxation, wealth taxation and successions.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "household configuration file (YAML)")
	root.PersistentFlags().StringVar(&flagFiscalModel, "fiscal-model", "", "fiscal model document (JSON); built-in model when omitted")
	root.PersistentFlags().StringVarP(&flagOutputDir, "output-dir", "o", ".", "directory for generated files")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(runCmd(), monteCarloCmd(), replayCmd(), versionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "patrimoine %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
				fmt.Fprintln(os.Stdout, bi.Main.Version)
			}
		},
	}
}

func newLogger() (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	if flagVerbose {
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// buildSimulator loads the configuration and the fiscal model and wires
// the simulation engine.
func buildSimulator(log *zap.SugaredLogger) (*simulation.Simulator, *config.Configuration, error) {
	if flagConfig == "" {
		return nil, nil, fmt.Errorf("a configuration file is required (--config)")
	}
	cfg, err := config.NewInputParser().LoadFromFile(flagConfig)
	if err != nil {
		return nil, nil, err
	}
	fiscalModel, err := config.LoadFiscalModel(flagFiscalModel)
	if err != nil {
		return nil, nil, err
	}
	eco, err := cfg.Economy.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("economy settings: %w", err)
	}
	socio, err := cfg.Socio.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("socio-economy settings: %w", err)
	}
	sim := simulation.NewSimulator(fiscalModel, eco, socio,
		&cfg.Family, &cfg.Patrimoine, &cfg.Expenses, cfg.Params, log)
	return sim, cfg, nil
}

func runCmd() *cobra.Command {
	var deterministic bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Project the household over the configured horizon",
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
			mode := random.Random
			if deterministic {
				mode = random.Deterministic
			}

			manager := simulation.NewRunManager(sim)
			result, line, err := manager.RunSingle(cfg.Scenario.FirstYear, cfg.Scenario.NbOfYears, mode)
			if err != nil {
				return err
			}
			if !line.Completed {
				log.Warnw("projection failed", "year", line.FailureYear, "reason", line.Failure)
			}

			os.Stdout.Write(output.ConsoleSummary{}.FormatRun(result))
			if err := writeRunCSVs(result); err != nil {
				return err
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&deterministic, "deterministic", false, "use expected values instead of sampling")
	return cmd
}

func writeRunCSVs(result *simulation.RunResult) error {
	cashFlows, err := output.CashFlowCSV{}.Format(result)
	if err != nil {
		return err
	}
	if err := writeFile("cash-flows.csv", cashFlows); err != nil {
		return err
	}
	sheets, err := output.BalanceSheetCSV{}.Format(result)
	if err != nil {
		return err
	}
	return writeFile("balance-sheets.csv", sheets)
}

func writeFile(name string, data []byte) error {
	path := filepath.Join(flagOutputDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(os.Stdout, "wrote %s\n", path)
	return nil
}
