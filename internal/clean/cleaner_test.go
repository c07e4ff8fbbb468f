package clean

import (
	"testing"
	"time"

	"github.com/nmehta/claimsight/internal/model"
)

func intPtr(n int) *int { return &n }

func baseClaim(id string) model.Claim {
	return model.Claim{
		ClaimID:     id,
		PolicyID:    "P200001",
		CustomerID:  "CU300001",
		ClaimType:   model.ClaimTypeMotor,
		ClaimAmount: 50_000,
		ClaimDate:   time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		Region:      "Karnataka",
		AgentID:     "A001",
	}
}

func newTestCleaner() *Cleaner {
	return NewCleaner(model.DefaultConfig().Generator)
}

func TestCleaner_DropsNonPositiveAmounts(t *testing.T) {
	c := newTestCleaner()

	bad := baseClaim("C1")
	bad.ClaimAmount = 0
	negative := baseClaim("C2")
	negative.ClaimAmount = -100
	good := baseClaim("C3")

	cleaned, stats := c.Clean([]model.Claim{bad, negative, good})

	if len(cleaned) != 1 || cleaned[0].ClaimID != "C3" {
		t.Fatalf("expected only C3 to survive, got %v", cleaned)
	}
	if stats.DroppedAmount != 2 {
		t.Errorf("expected 2 amount drops, got %d", stats.DroppedAmount)
	}
	if stats.Input != 3 || stats.Kept != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestCleaner_DropsUnknownTypes(t *testing.T) {
	c := newTestCleaner()

	unknown := baseClaim("C1")
	unknown.ClaimType = "Travel"

	cleaned, stats := c.Clean([]model.Claim{unknown, baseClaim("C2")})

	if len(cleaned) != 1 {
		t.Fatalf("expected 1 survivor, got %d", len(cleaned))
	}
	if stats.DroppedType != 1 {
		t.Errorf("expected 1 type drop, got %d", stats.DroppedType)
	}
}

func TestCleaner_ClampsSettlementDays(t *testing.T) {
	c := newTestCleaner()

	low := baseClaim("C1")
	low.Approved = true
	low.SettlementDays = intPtr(0)

	high := baseClaim("C2")
	high.Approved = true
	high.SettlementDays = intPtr(200)

	ok := baseClaim("C3")
	ok.Approved = true
	ok.SettlementDays = intPtr(30)

	cleaned, stats := c.Clean([]model.Claim{low, high, ok})

	if got := *cleaned[0].SettlementDays; got != 1 {
		t.Errorf("expected low value clamped to 1, got %d", got)
	}
	if got := *cleaned[1].SettlementDays; got != 90 {
		t.Errorf("expected high value clamped to 90, got %d", got)
	}
	if got := *cleaned[2].SettlementDays; got != 30 {
		t.Errorf("expected in-range value untouched, got %d", got)
	}
	if stats.ClampedSettle != 2 {
		t.Errorf("expected 2 clamps, got %d", stats.ClampedSettle)
	}
}

func TestCleaner_DerivesYearMonth(t *testing.T) {
	c := newTestCleaner()

	claim := baseClaim("C1")
	claim.ClaimDate = time.Date(2024, 11, 3, 0, 0, 0, 0, time.UTC)

	cleaned, _ := c.Clean([]model.Claim{claim})

	if cleaned[0].YearMonth != "2024-11" {
		t.Errorf("expected YearMonth 2024-11, got %q", cleaned[0].YearMonth)
	}
}

func TestCleaner_NilSettlementLeftAlone(t *testing.T) {
	c := newTestCleaner()

	claim := baseClaim("C1") // Not approved, no settlement days
	cleaned, stats := c.Clean([]model.Claim{claim})

	if cleaned[0].SettlementDays != nil {
		t.Error("expected nil settlement days to stay nil")
	}
	if stats.ClampedSettle != 0 {
		t.Errorf("expected no clamps, got %d", stats.ClampedSettle)
	}
}

func TestCleaner_PreservesOrder(t *testing.T) {
	c := newTestCleaner()

	claims := []model.Claim{baseClaim("C1"), baseClaim("C2"), baseClaim("C3")}
	cleaned, _ := c.Clean(claims)

	for i, want := range []string{"C1", "C2", "C3"} {
		if cleaned[i].ClaimID != want {
			t.Fatalf("order not preserved: position %d is %s", i, cleaned[i].ClaimID)
		}
	}
}
