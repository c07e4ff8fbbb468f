package model

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the complete claimsight configuration
type Config struct {
	Generator   GeneratorConfig   `yaml:"generator"`
	Output      OutputConfig      `yaml:"output"`
	LLM         LLMConfig         `yaml:"llm"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
}

// GeneratorConfig is the generation profile: value pools and distribution
// parameters for the synthetic dataset
type GeneratorConfig struct {
	Records int   `yaml:"records"` // Target record count N
	Seed    int64 `yaml:"seed"`    // PRNG seed; 0 means non-reproducible (seeded from wall clock)

	Regions    []string          `yaml:"regions"`     // Region value pool
	Agents     int               `yaml:"agents"`      // Agent pool size (IDs A001..A<n>)
	Types      []ClaimTypeParams `yaml:"types"`       // Per-type weights and ranges
	MonthsBack int               `yaml:"months_back"` // Date window: [as_of - months_back*30d, as_of]

	// Approval probability: clamp(base - amount/slope, 0.05, 0.95).
	// Higher amounts lower the approval odds.
	ApprovalBase  float64 `yaml:"approval_base"`
	ApprovalSlope float64 `yaml:"approval_slope"`

	// Fraud probability: min(base + amount/slope, cap)
	FraudBase  float64 `yaml:"fraud_base"`
	FraudSlope float64 `yaml:"fraud_slope"`
	FraudCap   float64 `yaml:"fraud_cap"`

	// Gaussian jitter (stddev, days) added to the per-type settlement base
	SettlementJitter float64 `yaml:"settlement_jitter"`

	// End of the generation window; zero means "now"
	AsOf time.Time `yaml:"as_of,omitempty"`
}

// ClaimTypeParams holds the sampling parameters for one claim type
type ClaimTypeParams struct {
	Type      ClaimType `yaml:"type"`
	Weight    float64   `yaml:"weight"`     // Relative selection weight
	AmountMin int       `yaml:"amount_min"` // Claim amount range (INR, inclusive)
	AmountMax int       `yaml:"amount_max"`
	SettleMin int       `yaml:"settle_min"` // Settlement base range (days, inclusive)
	SettleMax int       `yaml:"settle_max"`
}

// OutputConfig controls where pipeline artifacts are written
type OutputConfig struct {
	Dir     string `yaml:"dir"`      // Output directory for all artifacts
	Excel   bool   `yaml:"excel"`    // Write summary.xlsx
	JSON    string `yaml:"json"`     // Summary JSON path ("" disables)
	MD      string `yaml:"md"`       // Summary Markdown path ("" disables)
	Verbose bool   `yaml:"verbose"`  // Progress output on stderr
}

// LLMConfig configures the optional KPI narrative.
// Disabled unless Provider is set; never affects computed KPIs.
type LLMConfig struct {
	Provider          string  `yaml:"provider"` // "openai" or "" (disabled)
	Model             string  `yaml:"model"`
	APIKey            string  `yaml:"-"` // From environment only, never persisted
	BaseURL           string  `yaml:"base_url,omitempty"`
	Timeout           int     `yaml:"timeout"` // Seconds per API request
	MaxTokens         int     `yaml:"max_tokens"`
	RequestsPerSecond float64 `yaml:"requests_per_second"` // Outbound call rate limit
	Burst             int     `yaml:"burst"`
}

// ConcurrencyConfig controls batch-mode parallelism
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"`
}

// DefaultConfig returns the documented default profile. The distribution
// parameters are calibrated so a 600-record run lands near the reference
// KPIs: approval rate ~0.67, fraud rate ~0.13, avg settlement ~19 days.
func DefaultConfig() *Config {
	return &Config{
		Generator: GeneratorConfig{
			Records: 600,
			Seed:    42,
			Regions: []string{
				"Karnataka", "Maharashtra", "Delhi", "Tamil Nadu", "Gujarat",
				"Telangana", "West Bengal", "Rajasthan", "Uttar Pradesh", "Kerala",
			},
			Agents: 50,
			Types: []ClaimTypeParams{
				{Type: ClaimTypeMotor, Weight: 0.5, AmountMin: 10_000, AmountMax: 250_000, SettleMin: 5, SettleMax: 25},
				{Type: ClaimTypeHealth, Weight: 0.3, AmountMin: 20_000, AmountMax: 500_000, SettleMin: 7, SettleMax: 35},
				{Type: ClaimTypeProperty, Weight: 0.2, AmountMin: 30_000, AmountMax: 500_000, SettleMin: 10, SettleMax: 45},
			},
			MonthsBack:       18,
			ApprovalBase:     0.80,
			ApprovalSlope:    1_500_000,
			FraudBase:        0.05,
			FraudSlope:       1_000_000,
			FraudCap:         0.15,
			SettlementJitter: 5,
		},
		Output: OutputConfig{
			Dir:   "./claimsight-out",
			Excel: true,
		},
		LLM: LLMConfig{
			Provider:          "",
			Timeout:           30,
			MaxTokens:         600,
			RequestsPerSecond: 1,
			Burst:             1,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
	}
}

// Validate checks the generation profile. Every violation is reported as
// ErrInvalidConfig so callers can distinguish bad input from runtime faults.
func (g *GeneratorConfig) Validate() error {
	if g.Records < 0 {
		return fmt.Errorf("%w: records must be >= 0, got %d", ErrInvalidConfig, g.Records)
	}
	if len(g.Regions) == 0 {
		return fmt.Errorf("%w: region pool is empty", ErrInvalidConfig)
	}
	if g.Agents <= 0 {
		return fmt.Errorf("%w: agent pool size must be > 0, got %d", ErrInvalidConfig, g.Agents)
	}
	if len(g.Types) == 0 {
		return fmt.Errorf("%w: claim type pool is empty", ErrInvalidConfig)
	}
	totalWeight := 0.0
	for _, tp := range g.Types {
		if tp.Weight <= 0 {
			return fmt.Errorf("%w: claim type %q weight must be > 0", ErrInvalidConfig, tp.Type)
		}
		if tp.AmountMin <= 0 || tp.AmountMax < tp.AmountMin {
			return fmt.Errorf("%w: claim type %q amount range [%d, %d] invalid", ErrInvalidConfig, tp.Type, tp.AmountMin, tp.AmountMax)
		}
		if tp.SettleMin < 1 || tp.SettleMax < tp.SettleMin {
			return fmt.Errorf("%w: claim type %q settlement range [%d, %d] invalid", ErrInvalidConfig, tp.Type, tp.SettleMin, tp.SettleMax)
		}
		totalWeight += tp.Weight
	}
	if totalWeight <= 0 {
		return fmt.Errorf("%w: claim type weights sum to zero", ErrInvalidConfig)
	}
	if g.MonthsBack <= 0 {
		return fmt.Errorf("%w: months_back must be > 0, got %d", ErrInvalidConfig, g.MonthsBack)
	}
	if g.ApprovalSlope <= 0 {
		return fmt.Errorf("%w: approval_slope must be > 0", ErrInvalidConfig)
	}
	if g.FraudSlope <= 0 {
		return fmt.Errorf("%w: fraud_slope must be > 0", ErrInvalidConfig)
	}
	if g.FraudCap < 0 || g.FraudCap > 1 {
		return fmt.Errorf("%w: fraud_cap must be in [0, 1], got %g", ErrInvalidConfig, g.FraudCap)
	}
	if g.SettlementJitter < 0 {
		return fmt.Errorf("%w: settlement_jitter must be >= 0", ErrInvalidConfig)
	}
	return nil
}

// AgentPool expands the agent pool size into IDs A001..A<n>
func (g *GeneratorConfig) AgentPool() []string {
	agents := make([]string, g.Agents)
	for i := range agents {
		agents[i] = fmt.Sprintf("A%03d", i+1)
	}
	return agents
}

// WindowEnd returns the end of the generation window
func (g *GeneratorConfig) WindowEnd() time.Time {
	if !g.AsOf.IsZero() {
		return g.AsOf
	}
	return time.Now()
}

// WindowStart returns the start of the generation window
func (g *GeneratorConfig) WindowStart() time.Time {
	return g.WindowEnd().AddDate(0, 0, -g.MonthsBack*30)
}

// LoadProfile reads a generation profile from a YAML file, applying it on
// top of the default profile so partial files stay valid
func LoadProfile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: parse profile %s: %v", ErrInvalidConfig, path, err)
	}

	if err := cfg.Generator.Validate(); err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}

	return cfg, nil
}
