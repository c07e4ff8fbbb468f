package sink

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nmehta/claimsight/internal/model"
)

func floatPtr(f float64) *float64 { return &f }

func sampleSummary() *model.Summary {
	return &model.Summary{
		RunID:             "test-run",
		GeneratedAt:       time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Seed:              42,
		TotalClaims:       4,
		ApprovedClaims:    2,
		FraudClaims:       1,
		ApprovalRate:      0.5,
		FraudRate:         0.25,
		AvgSettlementDays: 15,
		TotalAmount:       100_000,
		AvgClaimAmount:    25_000,
		ByType: []model.GroupRow{
			{Key: "Health", Count: 1, TotalAmount: 30_000, AvgAmount: 30_000, FraudCount: 1, FraudRate: 1},
			{Key: "Motor", Count: 2, TotalAmount: 30_000, AvgAmount: 15_000, ApprovedCount: 2, ApprovalRate: 1, AvgSettlementDays: floatPtr(15)},
			{Key: "Property", Count: 1, TotalAmount: 40_000, AvgAmount: 40_000},
		},
		ByRegion: []model.GroupRow{
			{Key: "Delhi", Count: 3, TotalAmount: 80_000, AvgAmount: 80_000.0 / 3},
			{Key: "Kerala", Count: 1, TotalAmount: 20_000, AvgAmount: 20_000},
		},
		ByAgent: []model.GroupRow{
			{Key: "A001", Count: 2, TotalAmount: 40_000, AvgAmount: 20_000},
		},
		ByMonth: []model.GroupRow{
			{Key: "2025-01", Count: 2, TotalAmount: 30_000, AvgAmount: 15_000, ApprovalRate: 1},
			{Key: "2025-02", Count: 1, TotalAmount: 30_000, AvgAmount: 30_000},
			{Key: "2025-03", Count: 1, TotalAmount: 40_000, AvgAmount: 40_000},
		},
	}
}

func TestExcel_WritesAllSheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.xlsx")

	if err := WriteSummaryExcel(path, sampleSummary()); err != nil {
		t.Fatalf("WriteSummaryExcel: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	want := map[string]bool{
		"KPI": false, "ByType": false, "ByRegion": false, "ByAgent": false, "Trend": false,
	}
	for _, sheet := range f.GetSheetList() {
		if _, ok := want[sheet]; ok {
			want[sheet] = true
		}
	}
	for sheet, found := range want {
		if !found {
			t.Errorf("sheet %s missing from workbook", sheet)
		}
	}
}

func TestExcel_KPIValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.xlsx")
	summary := sampleSummary()

	if err := WriteSummaryExcel(path, summary); err != nil {
		t.Fatalf("WriteSummaryExcel: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	total, err := f.GetCellValue("KPI", "B2")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if total != "4" {
		t.Errorf("KPI!B2 (TotalClaims) = %q, want 4", total)
	}

	header, err := f.GetCellValue("ByType", "A1")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if header != "ClaimType" {
		t.Errorf("ByType!A1 = %q, want ClaimType", header)
	}

	firstMonth, err := f.GetCellValue("Trend", "A2")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if firstMonth != "2025-01" {
		t.Errorf("Trend!A2 = %q, want 2025-01", firstMonth)
	}
}

func TestExcel_TrendRowCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.xlsx")
	summary := sampleSummary()

	if err := WriteSummaryExcel(path, summary); err != nil {
		t.Fatalf("WriteSummaryExcel: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Trend")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	// Header plus one row per month bucket
	if len(rows) != len(summary.ByMonth)+1 {
		t.Errorf("Trend has %d rows, want %d", len(rows), len(summary.ByMonth)+1)
	}
}
