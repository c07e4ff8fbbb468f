package model

import "time"

// Claim represents a single synthetic insurance claim record
type Claim struct {
	ClaimID        string    `json:"claim_id"`                  // Unique identifier (e.g., "C100042")
	PolicyID       string    `json:"policy_id"`                 // Policy the claim was filed under
	CustomerID     string    `json:"customer_id"`               // Customer who filed the claim
	ClaimType      ClaimType `json:"claim_type"`                // Motor, Health, Property
	ClaimAmount    float64   `json:"claim_amount"`              // Claimed amount in INR, always > 0
	ClaimDate      time.Time `json:"claim_date"`                // Filing date within the generation window
	Region         string    `json:"region"`                    // State/region the claim originated from
	AgentID        string    `json:"agent_id"`                  // Handling agent from the fixed pool
	Approved       bool      `json:"approved"`                  // Claim outcome
	FraudFlag      bool      `json:"fraud_flag"`                // Flagged as potentially fraudulent
	SettlementDays *int      `json:"settlement_days,omitempty"` // Days to settle; nil unless approved
	YearMonth      string    `json:"year_month,omitempty"`      // Derived "YYYY-MM" bucket, set during cleaning
}

// ClaimType categorizes the line of business a claim belongs to
type ClaimType string

const (
	ClaimTypeMotor    ClaimType = "Motor"
	ClaimTypeHealth   ClaimType = "Health"
	ClaimTypeProperty ClaimType = "Property"
)

// MonthKey returns the calendar-month bucket for the claim date.
// The cleaned YearMonth field takes precedence when present.
func (c Claim) MonthKey() string {
	if c.YearMonth != "" {
		return c.YearMonth
	}
	return c.ClaimDate.Format("2006-01")
}
