package sink

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nmehta/claimsight/internal/model"
)

// SQLiteStore persists the cleaned claims table for BI tools that connect
// to SQLite directly
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (creating if needed) the SQLite database at path
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const claimsSchema = `
CREATE TABLE Claims (
	ClaimID         TEXT PRIMARY KEY,
	PolicyID        TEXT NOT NULL,
	CustomerID      TEXT NOT NULL,
	ClaimType       TEXT NOT NULL,
	ClaimAmount     REAL NOT NULL CHECK (ClaimAmount > 0),
	ClaimDate       TEXT NOT NULL,
	Region          TEXT NOT NULL,
	AgentID         TEXT NOT NULL,
	Approved        INTEGER NOT NULL,
	FraudFlag       INTEGER NOT NULL,
	SettlementDays  INTEGER,
	YearMonth       TEXT NOT NULL
);
CREATE INDEX idx_claims_region ON Claims(Region);
CREATE INDEX idx_claims_type ON Claims(ClaimType);
CREATE INDEX idx_claims_yearmonth ON Claims(YearMonth);
`

// ReplaceClaims drops and recreates the Claims table with the given rows.
// Each pipeline run replaces the table wholesale; records are immutable
// once written.
func (s *SQLiteStore) ReplaceClaims(ctx context.Context, claims []model.Claim) error {
	if _, err := s.db.ExecContext(ctx, `DROP TABLE IF EXISTS Claims`); err != nil {
		return fmt.Errorf("drop table: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, claimsSchema); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO Claims (
			ClaimID, PolicyID, CustomerID, ClaimType, ClaimAmount,
			ClaimDate, Region, AgentID, Approved, FraudFlag,
			SettlementDays, YearMonth
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, c := range claims {
		var settlement interface{}
		if c.SettlementDays != nil {
			settlement = *c.SettlementDays
		}
		_, err := stmt.ExecContext(ctx,
			c.ClaimID, c.PolicyID, c.CustomerID, string(c.ClaimType), c.ClaimAmount,
			c.ClaimDate.Format("2006-01-02"), c.Region, c.AgentID,
			boolToInt(c.Approved), boolToInt(c.FraudFlag),
			settlement, c.YearMonth,
		)
		if err != nil {
			return fmt.Errorf("insert %s: %w", c.ClaimID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LoadClaims reads the full Claims table back, ordered by ClaimID
func (s *SQLiteStore) LoadClaims(ctx context.Context) ([]model.Claim, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ClaimID, PolicyID, CustomerID, ClaimType, ClaimAmount,
		       ClaimDate, Region, AgentID, Approved, FraudFlag,
		       SettlementDays, YearMonth
		FROM Claims ORDER BY ClaimID`)
	if err != nil {
		return nil, fmt.Errorf("query claims: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var claims []model.Claim
	for rows.Next() {
		var (
			c          model.Claim
			claimType  string
			date       string
			approved   int
			fraud      int
			settlement sql.NullInt64
		)
		err := rows.Scan(
			&c.ClaimID, &c.PolicyID, &c.CustomerID, &claimType, &c.ClaimAmount,
			&date, &c.Region, &c.AgentID, &approved, &fraud,
			&settlement, &c.YearMonth,
		)
		if err != nil {
			return nil, fmt.Errorf("scan claim: %w", err)
		}

		c.ClaimType = model.ClaimType(claimType)
		c.ClaimDate, err = time.ParseInLocation("2006-01-02", date, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse date for %s: %w", c.ClaimID, err)
		}
		c.Approved = approved != 0
		c.FraudFlag = fraud != 0
		if settlement.Valid {
			days := int(settlement.Int64)
			c.SettlementDays = &days
		}

		claims = append(claims, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate claims: %w", err)
	}

	return claims, nil
}

// CountClaims returns the number of rows in the Claims table
func (s *SQLiteStore) CountClaims(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM Claims`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count claims: %w", err)
	}
	return count, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
