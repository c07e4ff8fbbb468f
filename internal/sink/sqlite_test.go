package sink

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "insurance.db")

	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer func() { _ = store.Close() }()

	want := sampleClaims()
	if err := store.ReplaceClaims(ctx, want); err != nil {
		t.Fatalf("ReplaceClaims: %v", err)
	}

	count, err := store.CountClaims(ctx)
	if err != nil {
		t.Fatalf("CountClaims: %v", err)
	}
	if count != len(want) {
		t.Errorf("count = %d, want %d", count, len(want))
	}

	got, err := store.LoadClaims(ctx)
	if err != nil {
		t.Fatalf("LoadClaims: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("loaded %d claims, want %d", len(got), len(want))
	}

	// LoadClaims orders by ClaimID, matching insertion order here
	for i := range want {
		a, b := want[i], got[i]
		if a.ClaimID != b.ClaimID || a.ClaimType != b.ClaimType ||
			a.ClaimAmount != b.ClaimAmount || !a.ClaimDate.Equal(b.ClaimDate) ||
			a.Region != b.Region || a.AgentID != b.AgentID ||
			a.Approved != b.Approved || a.FraudFlag != b.FraudFlag ||
			a.YearMonth != b.YearMonth {
			t.Errorf("claim %d does not round-trip:\nwrote %+v\nread  %+v", i, a, b)
		}
	}

	if got[0].SettlementDays == nil || *got[0].SettlementDays != 12 {
		t.Errorf("settlement days lost for approved claim: %v", got[0].SettlementDays)
	}
	if got[1].SettlementDays != nil {
		t.Errorf("NULL settlement days came back as %d", *got[1].SettlementDays)
	}
}

// Each run replaces the table wholesale
func TestSQLiteStore_ReplaceSemantics(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "insurance.db")

	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.ReplaceClaims(ctx, sampleClaims()); err != nil {
		t.Fatalf("first ReplaceClaims: %v", err)
	}
	if err := store.ReplaceClaims(ctx, sampleClaims()[:1]); err != nil {
		t.Fatalf("second ReplaceClaims: %v", err)
	}

	count, err := store.CountClaims(ctx)
	if err != nil {
		t.Fatalf("CountClaims: %v", err)
	}
	if count != 1 {
		t.Errorf("expected table replaced down to 1 row, got %d", count)
	}
}

func TestSQLiteStore_EmptyDataset(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "insurance.db")

	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.ReplaceClaims(ctx, nil); err != nil {
		t.Fatalf("ReplaceClaims with no rows: %v", err)
	}

	claims, err := store.LoadClaims(ctx)
	if err != nil {
		t.Fatalf("LoadClaims: %v", err)
	}
	if len(claims) != 0 {
		t.Errorf("expected empty table, got %d rows", len(claims))
	}
}
