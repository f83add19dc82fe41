package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lionelmichaud/patrimoine/internal/assets"
	"github.com/lionelmichaud/patrimoine/internal/economy"
	"github.com/lionelmichaud/patrimoine/internal/family"
	"github.com/lionelmichaud/patrimoine/internal/random"
	"github.com/lionelmichaud/patrimoine/internal/simulation"
)

// BetaSetting describes a Beta-distributed variable over [Min, Max].
type BetaSetting struct {
	Alpha float64 `yaml:"alpha"`
	Beta  float64 `yaml:"beta"`
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
	Seed  uint64  `yaml:"seed"`
}

// Build creates the sampler.
func (s BetaSetting) Build() (*random.BetaSampler, error) {
	return random.NewBetaSampler(s.Alpha, s.Beta, s.Min, s.Max, s.Seed)
}

// DiscreteSetting describes a variable drawn from an explicit
// (value, probability) table.
type DiscreteSetting struct {
	Points []random.Point `yaml:"points"`
	Seed   uint64         `yaml:"seed"`
}

// Build creates the sampler.
func (s DiscreteSetting) Build() (*random.DiscreteSampler, error) {
	return random.NewDiscreteSampler(s.Points, s.Seed)
}

// EconomySettings parameterizes the economic random variables.
type EconomySettings struct {
	Inflation   BetaSetting `yaml:"inflation"`
	SecuredRate BetaSetting `yaml:"secured_rate"`
	StockRate   BetaSetting `yaml:"stock_rate"`

	SimulateVolatility bool    `yaml:"simulate_volatility"`
	SecuredStdDev      float64 `yaml:"secured_std_dev"`
	StockStdDev        float64 `yaml:"stock_std_dev"`
}

// Build creates the economy model.
func (s EconomySettings) Build() (*economy.Model, error) {
	inflation, err := s.Inflation.Build()
	if err != nil {
		return nil, fmt.Errorf("inflation: %w", err)
	}
	secured, err := s.SecuredRate.Build()
	if err != nil {
		return nil, fmt.Errorf("secured rate: %w", err)
	}
	stock, err := s.StockRate.Build()
	if err != nil {
		return nil, fmt.Errorf("stock rate: %w", err)
	}
	return economy.NewModel(inflation, secured, stock, s.SimulateVolatility, s.SecuredStdDev, s.StockStdDev), nil
}

// SocioEconomySettings parameterizes the sociological random variables.
type SocioEconomySettings struct {
	PensionDevaluationRate      BetaSetting     `yaml:"pension_devaluation_rate"`
	NbTrimTauxPlein             DiscreteSetting `yaml:"nb_trim_taux_plein"`
	ExpensesUnderEvaluationRate BetaSetting     `yaml:"expenses_under_evaluation_rate"`
}

// Build creates the socio-economy model.
func (s SocioEconomySettings) Build() (*economy.SocioEconomyModel, error) {
	devaluation, err := s.PensionDevaluationRate.Build()
	if err != nil {
		return nil, fmt.Errorf("pension devaluation rate: %w", err)
	}
	nbTrim, err := s.NbTrimTauxPlein.Build()
	if err != nil {
		return nil, fmt.Errorf("nb trim taux plein: %w", err)
	}
	underEval, err := s.ExpensesUnderEvaluationRate.Build()
	if err != nil {
		return nil, fmt.Errorf("expenses under-evaluation rate: %w", err)
	}
	return economy.NewSocioEconomyModel(devaluation, nbTrim, underEval), nil
}

// Scenario fixes the simulation horizon and batch size.
type Scenario struct {
	FirstYear int `yaml:"first_year"`
	NbOfYears int `yaml:"nb_of_years"`
	NbOfRuns  int `yaml:"nb_of_runs"`
}

// Configuration is the complete user input: household, patrimoine,
// expenses, scenario and random-variable settings.
type Configuration struct {
	Family     family.Family        `yaml:"family"`
	Patrimoine assets.Patrimoin     `yaml:"patrimoine"`
	Expenses   simulation.Expenses  `yaml:"expenses"`
	Params     simulation.Params    `yaml:"params"`
	Scenario   Scenario             `yaml:"scenario"`
	Economy    EconomySettings      `yaml:"economy"`
	Socio      SocioEconomySettings `yaml:"socio_economy"`

	// DeathDistributions maps a household member name to the discrete
	// distribution of the member's age of death.
	DeathDistributions map[string]DiscreteSetting `yaml:"death_distributions"`
}

// InputParser loads and validates user configuration files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a configuration from a YAML file.
func (ip *InputParser) LoadFromFile(filename string) (*Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var config Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

// ValidateConfiguration validates the loaded configuration and wires the
// death samplers into the family.
func (ip *InputParser) ValidateConfiguration(config *Configuration) error {
	if err := config.Family.Validate(); err != nil {
		return fmt.Errorf("family: %w", err)
	}
	if err := config.Patrimoine.Validate(); err != nil {
		return fmt.Errorf("patrimoine: %w", err)
	}
	if err := ip.validateScenario(&config.Scenario); err != nil {
		return fmt.Errorf("scenario: %w", err)
	}
	if err := ip.wireDeathSamplers(config); err != nil {
		return err
	}
	return nil
}

func (ip *InputParser) validateScenario(s *Scenario) error {
	if s.FirstYear < 1900 {
		return fmt.Errorf("first year %d is not plausible", s.FirstYear)
	}
	if s.NbOfYears < 1 {
		return fmt.Errorf("nb of years must be at least 1, got %d", s.NbOfYears)
	}
	if s.NbOfRuns < 1 {
		return fmt.Errorf("nb of runs must be at least 1, got %d", s.NbOfRuns)
	}
	return nil
}

// wireDeathSamplers attaches each configured death distribution to the
// matching household member. A member without a distribution keeps the
// deterministic expected age of death.
func (ip *InputParser) wireDeathSamplers(config *Configuration) error {
	for name, setting := range config.DeathDistributions {
		member := config.Family.Member(name)
		if member == nil {
			return fmt.Errorf("death distribution for unknown member %q", name)
		}
		sampler, err := setting.Build()
		if err != nil {
			return fmt.Errorf("death distribution of %s: %w", name, err)
		}
		member.SetDeathAgeSampler(sampler)
	}
	return nil
}
