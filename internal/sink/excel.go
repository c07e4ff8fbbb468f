package sink

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/nmehta/claimsight/internal/model"
)

// Excel sheet names, mirroring the pivot layout BI users expect
const (
	sheetKPI      = "KPI"
	sheetByType   = "ByType"
	sheetByRegion = "ByRegion"
	sheetByAgent  = "ByAgent"
	sheetTrend    = "Trend"
)

// WriteSummaryExcel writes the KPI summary as a workbook with one sheet
// per pivot: overall KPIs, per-type, per-region, per-agent, and the
// monthly claim volume trend.
func WriteSummaryExcel(path string, summary *model.Summary) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close workbook: %w", closeErr)
		}
	}()

	// KPI sheet
	if err := f.SetSheetName("Sheet1", sheetKPI); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	kpiRows := [][]interface{}{
		{"RunID", "TotalClaims", "ApprovalRate", "FraudRate", "AvgSettlementDays", "TotalAmount", "AvgClaimAmount"},
		{summary.RunID, summary.TotalClaims, summary.ApprovalRate, summary.FraudRate, summary.AvgSettlementDays, summary.TotalAmount, summary.AvgClaimAmount},
	}
	if err := writeRows(f, sheetKPI, kpiRows); err != nil {
		return err
	}

	// Grouped sheets
	if err := writeGroupSheet(f, sheetByType, "ClaimType", summary.ByType); err != nil {
		return err
	}
	if err := writeGroupSheet(f, sheetByRegion, "Region", summary.ByRegion); err != nil {
		return err
	}
	if err := writeGroupSheet(f, sheetByAgent, "AgentID", summary.ByAgent); err != nil {
		return err
	}

	// Trend sheet: month buckets with claim volume
	trendRows := [][]interface{}{{"YearMonth", "ClaimVolume", "TotalAmount", "ApprovalRate"}}
	for _, row := range summary.ByMonth {
		trendRows = append(trendRows, []interface{}{row.Key, row.Count, row.TotalAmount, row.ApprovalRate})
	}
	if _, err := f.NewSheet(sheetTrend); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheetTrend, err)
	}
	if err := writeRows(f, sheetTrend, trendRows); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// writeGroupSheet writes one grouped aggregation as its own sheet
func writeGroupSheet(f *excelize.File, sheet, keyHeader string, rows []model.GroupRow) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}

	data := [][]interface{}{
		{keyHeader, "Total", "TotalAmount", "AvgAmount", "ApprovalRate", "FraudCases", "FraudRate", "AvgSettlementDays"},
	}
	for _, row := range rows {
		var avgSettle interface{}
		if row.AvgSettlementDays != nil {
			avgSettle = *row.AvgSettlementDays
		}
		data = append(data, []interface{}{
			row.Key, row.Count, row.TotalAmount, row.AvgAmount,
			row.ApprovalRate, row.FraudCount, row.FraudRate, avgSettle,
		})
	}

	return writeRows(f, sheet, data)
}

// writeRows fills a sheet starting at A1
func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for r, row := range rows {
		for c, value := range row {
			if value == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("set %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}
