package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/nmehta/claimsight/internal/model"
)

// csvHeader is the column layout for both the raw and clean CSV artifacts
var csvHeader = []string{
	"ClaimID", "PolicyID", "CustomerID", "ClaimType", "ClaimAmount",
	"ClaimDate", "Region", "AgentID", "Approved", "FraudFlag",
	"SettlementDays", "YearMonth",
}

const csvDateLayout = "2006-01-02"

// WriteClaimsCSV writes claims as a delimited table for BI import.
// SettlementDays is left empty for unapproved claims.
func WriteClaimsCSV(path string, claims []model.Claim) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close csv: %w", closeErr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, c := range claims {
		settlement := ""
		if c.SettlementDays != nil {
			settlement = strconv.Itoa(*c.SettlementDays)
		}
		record := []string{
			c.ClaimID,
			c.PolicyID,
			c.CustomerID,
			string(c.ClaimType),
			strconv.FormatFloat(c.ClaimAmount, 'f', -1, 64),
			c.ClaimDate.Format(csvDateLayout),
			c.Region,
			c.AgentID,
			strconv.FormatBool(c.Approved),
			strconv.FormatBool(c.FraudFlag),
			settlement,
			c.YearMonth,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row %s: %w", c.ClaimID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// ReadClaimsCSV reads claims back from a CSV written by WriteClaimsCSV
func ReadClaimsCSV(path string) ([]model.Claim, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv %s has no header", path)
	}

	claims := make([]model.Claim, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != len(csvHeader) {
			return nil, fmt.Errorf("csv row %d: expected %d columns, got %d", i+2, len(csvHeader), len(rec))
		}

		amount, err := strconv.ParseFloat(rec[4], 64)
		if err != nil {
			return nil, fmt.Errorf("csv row %d: amount: %w", i+2, err)
		}
		date, err := time.ParseInLocation(csvDateLayout, rec[5], time.UTC)
		if err != nil {
			return nil, fmt.Errorf("csv row %d: date: %w", i+2, err)
		}
		approved, err := strconv.ParseBool(rec[8])
		if err != nil {
			return nil, fmt.Errorf("csv row %d: approved: %w", i+2, err)
		}
		fraud, err := strconv.ParseBool(rec[9])
		if err != nil {
			return nil, fmt.Errorf("csv row %d: fraud: %w", i+2, err)
		}

		var settlement *int
		if rec[10] != "" {
			days, err := strconv.Atoi(rec[10])
			if err != nil {
				return nil, fmt.Errorf("csv row %d: settlement days: %w", i+2, err)
			}
			settlement = &days
		}

		claims = append(claims, model.Claim{
			ClaimID:        rec[0],
			PolicyID:       rec[1],
			CustomerID:     rec[2],
			ClaimType:      model.ClaimType(rec[3]),
			ClaimAmount:    amount,
			ClaimDate:      date,
			Region:         rec[6],
			AgentID:        rec[7],
			Approved:       approved,
			FraudFlag:      fraud,
			SettlementDays: settlement,
			YearMonth:      rec[11],
		})
	}

	return claims, nil
}
