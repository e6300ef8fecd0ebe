package core

// validation.go reports problems in a source without rejecting it.
//
// Validation happens at two levels:
//  1. Header inspection: which columns were recognized, which were not,
//     and whether the identity column is present at all
//  2. Cell validation: checks a cell against its FieldSpec type
//
// Nothing here aborts a run. A missing identity column means every row is
// dropped by Clean; a bad cell becomes missing. The results exist so the
// operator can see why.

import (
	"fmt"
	"strings"
)

// MaxRejectSamples caps the rejected cells kept in CleanStats.
const MaxRejectSamples = 10

// ValidationError describes one cell that failed its type check.
type ValidationError struct {
	Row     int    // 1-based data row
	Field   string // Canonical column key
	Value   string // The invalid value
	Message string // Human-readable error message
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("row %d: %s: %s (%q)", e.Row, e.Field, e.Message, e.Value)
	}
	return e.Message
}

// HeaderReport summarizes how a source's headers were resolved.
type HeaderReport struct {
	Recognized   []string // canonical keys, in source order
	Unrecognized []string // folded headers with no FieldSpec
	Duplicates   []string // keys that appeared more than once; the first was used
	HasIdentity  bool
}

// InspectHeaders classifies the dataset's columns.
func InspectHeaders(ds *Dataset) HeaderReport {
	var r HeaderReport
	seen := make(map[string]bool, len(ds.Columns))

	for _, col := range ds.Columns {
		if col == "" {
			continue
		}
		if seen[col] {
			r.Duplicates = append(r.Duplicates, col)
			continue
		}
		seen[col] = true

		if spec, ok := fieldsByName[col]; ok && spec.Key == col {
			r.Recognized = append(r.Recognized, col)
			if spec.Type == FieldIdentity {
				r.HasIdentity = true
			}
		} else {
			r.Unrecognized = append(r.Unrecognized, col)
		}
	}

	return r
}

// ValidateCell validates a single cell value against a field specification.
// Returns nil if valid or missing, or an error describing the problem.
func ValidateCell(value string, spec FieldSpec) error {
	if IsNullSentinel(value) {
		return nil // Missing values are allowed (will be NULL)
	}

	switch spec.Type {
	case FieldNumeric:
		n := ParseNumber(value)
		if !n.Valid {
			return fmt.Errorf("invalid number format")
		}
		if spec.Integer {
			if n.Decimal.Abs().Cmp(maxInt32) > 0 {
				return fmt.Errorf("whole number out of range")
			}
			if !n.Decimal.IsInteger() {
				return fmt.Errorf("fraction truncated to whole number")
			}
		}
	case FieldDate:
		if _, ok := ParseDate(value); !ok {
			return fmt.Errorf("invalid date format (use YYYY-MM-DD or similar)")
		}
	}
	return nil
}

// FieldTypeName returns a human-readable name for a field type.
func FieldTypeName(ft FieldType) string {
	switch ft {
	case FieldText:
		return "text"
	case FieldIdentity:
		return "identity"
	case FieldDate:
		return "date"
	case FieldNumeric:
		return "numeric"
	default:
		return "value"
	}
}

// String lists the report for a log line.
func (r HeaderReport) String() string {
	return fmt.Sprintf("recognized=[%s] unrecognized=[%s] duplicates=[%s]",
		strings.Join(r.Recognized, ","),
		strings.Join(r.Unrecognized, ","),
		strings.Join(r.Duplicates, ","))
}
