package clean

import (
	"github.com/nmehta/claimsight/internal/model"
)

// Settlement days are clamped into this range during cleaning
const (
	minSettlementDays = 1
	maxSettlementDays = 90
)

// Cleaner normalizes raw claim records before persistence:
// rows with non-positive amounts or unknown claim types are dropped,
// settlement days are clamped to a plausible range, and the YearMonth
// trend bucket is derived from the claim date.
type Cleaner struct {
	validTypes map[model.ClaimType]bool
}

// NewCleaner creates a cleaner that accepts the claim types of the given profile
func NewCleaner(cfg model.GeneratorConfig) *Cleaner {
	valid := make(map[model.ClaimType]bool, len(cfg.Types))
	for _, tp := range cfg.Types {
		valid[tp.Type] = true
	}
	return &Cleaner{validTypes: valid}
}

// Clean returns the cleaned records plus statistics about what was
// dropped or adjusted. Input order is preserved for kept rows.
func (c *Cleaner) Clean(claims []model.Claim) ([]model.Claim, model.CleaningStats) {
	stats := model.CleaningStats{Input: len(claims)}
	cleaned := make([]model.Claim, 0, len(claims))

	for _, claim := range claims {
		if claim.ClaimAmount <= 0 {
			stats.DroppedAmount++
			continue
		}
		if !c.validTypes[claim.ClaimType] {
			stats.DroppedType++
			continue
		}

		if claim.SettlementDays != nil {
			days := *claim.SettlementDays
			if days < minSettlementDays {
				days = minSettlementDays
				stats.ClampedSettle++
			} else if days > maxSettlementDays {
				days = maxSettlementDays
				stats.ClampedSettle++
			}
			claim.SettlementDays = &days
		}

		claim.YearMonth = claim.ClaimDate.Format("2006-01")
		cleaned = append(cleaned, claim)
	}

	stats.Kept = len(cleaned)
	return cleaned, stats
}
