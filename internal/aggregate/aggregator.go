package aggregate

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/nmehta/claimsight/internal/model"
)

// Dimension selects the categorical axis for grouped aggregation
type Dimension string

const (
	DimensionRegion    Dimension = "region"
	DimensionClaimType Dimension = "type"
	DimensionAgent     Dimension = "agent"
	DimensionYearMonth Dimension = "yearmonth"
)

// Aggregator computes KPI summaries over a read-only claim collection.
// Every metric is a pure function of the input; results carry no ordering
// dependency. Grouped results are memoized because a single report render
// touches the same groupings several times (Excel sheets, Markdown, stdout).
type Aggregator struct {
	claims []model.Claim
	memo   *gocache.Cache
}

// NewAggregator creates an aggregator over the given records
func NewAggregator(claims []model.Claim) *Aggregator {
	return &Aggregator{
		claims: claims,
		memo:   gocache.New(gocache.NoExpiration, 0),
	}
}

// TotalClaims returns the number of records
func (a *Aggregator) TotalClaims() int {
	return len(a.claims)
}

// ApprovalRate returns approved/total.
// Fails with ErrDivisionUndefined on an empty collection.
func (a *Aggregator) ApprovalRate() (float64, error) {
	if len(a.claims) == 0 {
		return 0, fmt.Errorf("approval rate: %w", model.ErrDivisionUndefined)
	}
	approved := 0
	for _, c := range a.claims {
		if c.Approved {
			approved++
		}
	}
	return float64(approved) / float64(len(a.claims)), nil
}

// FraudRate returns flagged/total.
// Fails with ErrDivisionUndefined on an empty collection.
func (a *Aggregator) FraudRate() (float64, error) {
	if len(a.claims) == 0 {
		return 0, fmt.Errorf("fraud rate: %w", model.ErrDivisionUndefined)
	}
	flagged := 0
	for _, c := range a.claims {
		if c.FraudFlag {
			flagged++
		}
	}
	return float64(flagged) / float64(len(a.claims)), nil
}

// AvgSettlementDays returns the mean settlement time over approved claims
// only. Fails with ErrDivisionUndefined when no approved claims exist.
func (a *Aggregator) AvgSettlementDays() (float64, error) {
	sum, count := 0, 0
	for _, c := range a.claims {
		if c.Approved && c.SettlementDays != nil {
			sum += *c.SettlementDays
			count++
		}
	}
	if count == 0 {
		return 0, fmt.Errorf("avg settlement days: %w", model.ErrDivisionUndefined)
	}
	return float64(sum) / float64(count), nil
}

// AvgClaimAmount returns the mean claim amount.
// Fails with ErrDivisionUndefined on an empty collection.
func (a *Aggregator) AvgClaimAmount() (float64, error) {
	if len(a.claims) == 0 {
		return 0, fmt.Errorf("avg claim amount: %w", model.ErrDivisionUndefined)
	}
	total := 0.0
	for _, c := range a.claims {
		total += c.ClaimAmount
	}
	return total / float64(len(a.claims)), nil
}

// GroupBy buckets the collection by the given dimension and computes
// per-bucket counts, amount totals/averages, approval and fraud rates.
// Rows are sorted by key so output is deterministic. Results are memoized.
func (a *Aggregator) GroupBy(dim Dimension) ([]model.GroupRow, error) {
	keyFn, err := dimensionKey(dim)
	if err != nil {
		return nil, err
	}

	if cached, found := a.memo.Get(string(dim)); found {
		return cached.([]model.GroupRow), nil
	}

	type bucket struct {
		count         int
		totalAmount   float64
		approved      int
		fraud         int
		settleSum     int
		settleSamples int
	}
	buckets := make(map[string]*bucket)

	for _, c := range a.claims {
		key := keyFn(c)
		b := buckets[key]
		if b == nil {
			b = &bucket{}
			buckets[key] = b
		}
		b.count++
		b.totalAmount += c.ClaimAmount
		if c.Approved {
			b.approved++
			if c.SettlementDays != nil {
				b.settleSum += *c.SettlementDays
				b.settleSamples++
			}
		}
		if c.FraudFlag {
			b.fraud++
		}
	}

	rows := make([]model.GroupRow, 0, len(buckets))
	for key, b := range buckets {
		row := model.GroupRow{
			Key:           key,
			Count:         b.count,
			TotalAmount:   b.totalAmount,
			AvgAmount:     b.totalAmount / float64(b.count),
			ApprovedCount: b.approved,
			ApprovalRate:  float64(b.approved) / float64(b.count),
			FraudCount:    b.fraud,
			FraudRate:     float64(b.fraud) / float64(b.count),
		}
		if b.settleSamples > 0 {
			avg := float64(b.settleSum) / float64(b.settleSamples)
			row.AvgSettlementDays = &avg
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })

	a.memo.Set(string(dim), rows, gocache.NoExpiration)
	return rows, nil
}

// dimensionKey maps a dimension to its key extractor
func dimensionKey(dim Dimension) (func(model.Claim) string, error) {
	switch dim {
	case DimensionRegion:
		return func(c model.Claim) string { return c.Region }, nil
	case DimensionClaimType:
		return func(c model.Claim) string { return string(c.ClaimType) }, nil
	case DimensionAgent:
		return func(c model.Claim) string { return c.AgentID }, nil
	case DimensionYearMonth:
		return func(c model.Claim) string { return c.MonthKey() }, nil
	default:
		return nil, fmt.Errorf("%w: unknown dimension %q", model.ErrInvalidConfig, dim)
	}
}

// Summarize assembles the complete KPI summary for the collection.
// An empty collection is rejected with ErrDivisionUndefined rather than
// producing NaN-laden output.
func (a *Aggregator) Summarize(seed int64) (*model.Summary, error) {
	approvalRate, err := a.ApprovalRate()
	if err != nil {
		return nil, err
	}
	fraudRate, err := a.FraudRate()
	if err != nil {
		return nil, err
	}
	avgAmount, err := a.AvgClaimAmount()
	if err != nil {
		return nil, err
	}

	// A dataset where nothing was approved still summarizes; the
	// settlement average is simply reported as zero-with-no-samples.
	avgSettle, err := a.AvgSettlementDays()
	if err != nil {
		avgSettle = 0
	}

	approved, fraud := 0, 0
	totalAmount := 0.0
	for _, c := range a.claims {
		if c.Approved {
			approved++
		}
		if c.FraudFlag {
			fraud++
		}
		totalAmount += c.ClaimAmount
	}

	byType, err := a.GroupBy(DimensionClaimType)
	if err != nil {
		return nil, err
	}
	byRegion, err := a.GroupBy(DimensionRegion)
	if err != nil {
		return nil, err
	}
	byAgent, err := a.GroupBy(DimensionAgent)
	if err != nil {
		return nil, err
	}
	byMonth, err := a.GroupBy(DimensionYearMonth)
	if err != nil {
		return nil, err
	}

	return &model.Summary{
		RunID:             uuid.NewString(),
		GeneratedAt:       time.Now().UTC(),
		Seed:              seed,
		TotalClaims:       a.TotalClaims(),
		ApprovedClaims:    approved,
		FraudClaims:       fraud,
		ApprovalRate:      approvalRate,
		FraudRate:         fraudRate,
		AvgSettlementDays: avgSettle,
		TotalAmount:       totalAmount,
		AvgClaimAmount:    avgAmount,
		ByType:            byType,
		ByRegion:          byRegion,
		ByAgent:           byAgent,
		ByMonth:           byMonth,
	}, nil
}
