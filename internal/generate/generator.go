package generate

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/nmehta/claimsight/internal/model"
)

// Generator produces synthetic claim records from a seeded PRNG.
// All randomness flows through the explicit rand.Rand instance and every
// record samples its attributes in a fixed order, so reusing a seed yields
// an identical output sequence.
type Generator struct {
	cfg    model.GeneratorConfig
	rng    *rand.Rand
	seed   int64
	agents []string
	asOf   time.Time
}

// NewGenerator creates a generator for the given profile.
// A zero seed in the profile means non-reproducible output: the PRNG is
// seeded from the wall clock instead.
func NewGenerator(cfg model.GeneratorConfig) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	// Pin the window end so every record in a run shares the same window
	end := cfg.WindowEnd()
	asOf := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	return &Generator{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(seed)),
		seed:   seed,
		agents: cfg.AgentPool(),
		asOf:   asOf,
	}, nil
}

// Seed returns the seed the generator was created with
func (g *Generator) Seed() int64 {
	return g.seed
}

// Generate produces exactly n claim records. n=0 is valid and returns an
// empty slice; a negative n is an invalid configuration.
func (g *Generator) Generate(n int) ([]model.Claim, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: record count must be >= 0, got %d", model.ErrInvalidConfig, n)
	}

	claims := make([]model.Claim, 0, n)
	for i := 0; i < n; i++ {
		claims = append(claims, g.record(i))
	}
	return claims, nil
}

// record samples a single claim. The draw order is fixed: type, region,
// agent, amount, date, policy/customer IDs, approval, fraud, settlement.
func (g *Generator) record(idx int) model.Claim {
	params := g.pickType()
	region := g.cfg.Regions[g.rng.Intn(len(g.cfg.Regions))]
	agent := g.agents[g.rng.Intn(len(g.agents))]

	amount := float64(g.intBetween(params.AmountMin, params.AmountMax))

	daysBack := g.rng.Intn(g.cfg.MonthsBack*30 + 1)
	claimDate := g.asOf.AddDate(0, 0, -daysBack)

	policyID := fmt.Sprintf("P%d", 200_000+g.rng.Intn(99_999)+1)
	customerID := fmt.Sprintf("CU%d", 300_000+g.rng.Intn(99_999)+1)

	approved := g.rng.Float64() < g.approvalProbability(amount)
	fraud := g.rng.Float64() < g.fraudProbability(amount)

	var settlement *int
	if approved {
		days := g.settlementDays(params)
		settlement = &days
	}

	return model.Claim{
		ClaimID:        fmt.Sprintf("C%d", 100_000+idx),
		PolicyID:       policyID,
		CustomerID:     customerID,
		ClaimType:      params.Type,
		ClaimAmount:    amount,
		ClaimDate:      claimDate,
		Region:         region,
		AgentID:        agent,
		Approved:       approved,
		FraudFlag:      fraud,
		SettlementDays: settlement,
	}
}

// pickType selects a claim type by relative weight
func (g *Generator) pickType() model.ClaimTypeParams {
	total := 0.0
	for _, tp := range g.cfg.Types {
		total += tp.Weight
	}

	r := g.rng.Float64() * total
	for _, tp := range g.cfg.Types {
		r -= tp.Weight
		if r < 0 {
			return tp
		}
	}
	// Floating-point leftovers land on the last type
	return g.cfg.Types[len(g.cfg.Types)-1]
}

// approvalProbability maps a claim amount to approval odds.
// Higher amounts lower the odds; clamped to [0.05, 0.95] so no claim is a
// foregone conclusion either way.
func (g *Generator) approvalProbability(amount float64) float64 {
	p := g.cfg.ApprovalBase - amount/g.cfg.ApprovalSlope
	if p < 0.05 {
		return 0.05
	}
	if p > 0.95 {
		return 0.95
	}
	return p
}

// fraudProbability rises with the claim amount up to the configured cap
func (g *Generator) fraudProbability(amount float64) float64 {
	p := g.cfg.FraudBase + amount/g.cfg.FraudSlope
	if p > g.cfg.FraudCap {
		return g.cfg.FraudCap
	}
	return p
}

// settlementDays samples a per-type base with Gaussian jitter, floored at 1
func (g *Generator) settlementDays(params model.ClaimTypeParams) int {
	base := g.intBetween(params.SettleMin, params.SettleMax)
	jitter := int(g.rng.NormFloat64() * g.cfg.SettlementJitter)
	days := base + jitter
	if days < 1 {
		days = 1
	}
	return days
}

// intBetween returns a uniform integer in [min, max]
func (g *Generator) intBetween(min, max int) int {
	return min + g.rng.Intn(max-min+1)
}
