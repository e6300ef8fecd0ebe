package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// TableCount is the row count of one table, or the error that prevented it.
type TableCount struct {
	Table string
	Rows  int64
	Err   error
}

// SampleProperty is one row of the verification sample.
type SampleProperty struct {
	PropertyID string
	Address    sql.NullString
}

// Verification is the outcome of a post-load check.
type Verification struct {
	Counts    []TableCount
	Sample    []SampleProperty
	SampleErr error
}

// OK reports whether every query succeeded.
func (v Verification) OK() bool {
	if v.SampleErr != nil {
		return false
	}
	for _, c := range v.Counts {
		if c.Err != nil {
			return false
		}
	}
	return true
}

// Verify counts the rows of each table and samples the first properties by
// insertion order. Failures are recorded in the result and logged, never
// returned: verification is informational.
func (s *Store) Verify(ctx context.Context, tables []string, sampleSize int) Verification {
	var v Verification

	for _, table := range tables {
		tc := TableCount{Table: table}
		row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quoteIdent(table))
		if err := row.Scan(&tc.Rows); err != nil {
			tc.Err = err
			slog.Warn("verification count failed", "table", table, "error", err)
		}
		v.Counts = append(v.Counts, tc)
	}

	if sampleSize > 0 {
		v.Sample, v.SampleErr = s.sampleProperties(ctx, sampleSize)
		if v.SampleErr != nil {
			slog.Warn("verification sample failed", "error", v.SampleErr)
		}
	}

	return v
}

func (s *Store) sampleProperties(ctx context.Context, limit int) ([]SampleProperty, error) {
	query := "SELECT property_id, address FROM properties ORDER BY id LIMIT " + s.dialect.placeholder(1)
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("sample properties: %w", err)
	}
	defer rows.Close()

	var out []SampleProperty
	for rows.Next() {
		var p SampleProperty
		if err := rows.Scan(&p.PropertyID, &p.Address); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
