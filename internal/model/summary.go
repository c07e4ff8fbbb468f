package model

import "time"

// Summary is the complete KPI report for one dataset
type Summary struct {
	RunID       string    `json:"run_id"`       // Unique identifier for this pipeline run
	GeneratedAt time.Time `json:"generated_at"` // When the summary was computed
	Seed        int64     `json:"seed"`         // Seed the dataset was generated from (0 = unseeded)

	TotalClaims       int     `json:"total_claims"`
	ApprovedClaims    int     `json:"approved_claims"`
	FraudClaims       int     `json:"fraud_claims"`
	ApprovalRate      float64 `json:"approval_rate"`       // approved / total
	FraudRate         float64 `json:"fraud_rate"`          // flagged / total
	AvgSettlementDays float64 `json:"avg_settlement_days"` // Mean over approved claims only
	TotalAmount       float64 `json:"total_amount"`        // Sum of claim amounts, INR
	AvgClaimAmount    float64 `json:"avg_claim_amount"`

	ByType   []GroupRow `json:"by_type"`
	ByRegion []GroupRow `json:"by_region"`
	ByAgent  []GroupRow `json:"by_agent"`
	ByMonth  []GroupRow `json:"by_month"` // YearMonth trend, oldest first

	Cleaning *CleaningStats `json:"cleaning,omitempty"` // Present when the run included a cleaning pass

	Narrative *Narrative `json:"narrative,omitempty"` // Optional LLM narrative, never affects the figures above
}

// GroupRow is one bucket of a grouped aggregation
type GroupRow struct {
	Key               string   `json:"key"` // Distinct dimension value (region name, claim type, agent ID, or YYYY-MM)
	Count             int      `json:"count"`
	TotalAmount       float64  `json:"total_amount"`
	AvgAmount         float64  `json:"avg_amount"`
	ApprovedCount     int      `json:"approved_count"`
	ApprovalRate      float64  `json:"approval_rate"`
	FraudCount        int      `json:"fraud_count"`
	FraudRate         float64  `json:"fraud_rate"`
	AvgSettlementDays *float64 `json:"avg_settlement_days,omitempty"` // nil when the bucket has no approved claims
}

// CleaningStats records what the cleaning pass did
type CleaningStats struct {
	Input          int `json:"input"`
	Kept           int `json:"kept"`
	DroppedAmount  int `json:"dropped_amount"`  // Non-positive claim amounts
	DroppedType    int `json:"dropped_type"`    // Claim types outside the configured pool
	ClampedSettle  int `json:"clamped_settle"`  // Settlement days clamped into 1..90
}

// Narrative contains the optional LLM-generated commentary.
// It is produced after aggregation and kept strictly separate from the KPIs.
type Narrative struct {
	Enabled  bool     `json:"enabled"`
	Provider string   `json:"provider,omitempty"`
	Model    string   `json:"model,omitempty"`
	TextMD   string   `json:"text_md,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}
