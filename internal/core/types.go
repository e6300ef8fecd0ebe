package core

import (
	"database/sql"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ValueKind describes what is known about a single cell.
type ValueKind int

const (
	KindRaw     ValueKind = iota // as read from the source, not yet cleaned
	KindMissing                  // explicitly absent
	KindText                     // cleaned string
	KindNumber                   // cleaned numeric
)

// Value is one cell of a Dataset.
type Value struct {
	Kind ValueKind
	Text string
	Num  decimal.Decimal
}

// RawValue wraps text read from a source file.
func RawValue(s string) Value { return Value{Kind: KindRaw, Text: s} }

// MissingValue is the explicit missing marker.
func MissingValue() Value { return Value{Kind: KindMissing} }

// TextValue is a cleaned, non-missing string.
func TextValue(s string) Value { return Value{Kind: KindText, Text: s} }

// NumberValue is a cleaned, non-missing number.
func NumberValue(d decimal.Decimal) Value { return Value{Kind: KindNumber, Num: d} }

// IsMissing reports whether the cell carries no usable value.
// Raw cells count as missing when they are empty or a null sentinel.
func (v Value) IsMissing() bool {
	switch v.Kind {
	case KindMissing:
		return true
	case KindRaw:
		return IsNullSentinel(v.Text)
	}
	return false
}

// String returns the textual form of the cell, or "" when missing.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return v.Num.String()
	case KindText:
		return v.Text
	case KindRaw:
		if IsNullSentinel(v.Text) {
			return ""
		}
		return strings.TrimSpace(v.Text)
	}
	return ""
}

// Decimal returns the numeric content of the cell.
// Raw cells are parsed on the fly so uncleaned data reads the same way.
func (v Value) Decimal() decimal.NullDecimal {
	switch v.Kind {
	case KindNumber:
		return decimal.NullDecimal{Decimal: v.Num, Valid: true}
	case KindRaw:
		return ParseNumber(v.Text)
	}
	return decimal.NullDecimal{}
}

// MaxAmount bounds money amounts; it is the first value that no longer fits
// the NUMERIC(12, 2) dues column.
var MaxAmount = decimal.New(1, 10)

var maxInt32 = decimal.NewFromInt(math.MaxInt32)

// PositiveDecimal returns the number only when it is strictly greater than
// zero and, rounded to cents, below MaxAmount.
func (v Value) PositiveDecimal() decimal.NullDecimal {
	d := v.Decimal()
	if !d.Valid || !d.Decimal.IsPositive() || d.Decimal.Round(2).Cmp(MaxAmount) >= 0 {
		return decimal.NullDecimal{}
	}
	return d
}

// IntAbove returns the integer part of the number when it is strictly
// greater than min and fits an INTEGER column. Fractions are truncated
// toward zero; Clean records a reject sample when that happens.
func (v Value) IntAbove(min int64) sql.NullInt64 {
	d := v.Decimal()
	if !d.Valid {
		return sql.NullInt64{}
	}
	// Range is checked on the decimal: IntPart keeps only the low 64 bits.
	if d.Decimal.Cmp(decimal.NewFromInt(min)) <= 0 || d.Decimal.Cmp(maxInt32) > 0 {
		return sql.NullInt64{}
	}
	i := d.Decimal.IntPart()
	if i <= min {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: i, Valid: true}
}

// PositiveInt returns the integer part of the number when it is at least 1.
func (v Value) PositiveInt() sql.NullInt64 {
	return v.IntAbove(0)
}

// NullString returns the cell as a nullable string.
func (v Value) NullString() sql.NullString {
	if v.IsMissing() {
		return sql.NullString{}
	}
	s := v.String()
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// Property is one row of the properties table.
type Property struct {
	PropertyID   string
	Address      sql.NullString
	YearBuilt    sql.NullInt64
	City         sql.NullString
	State        sql.NullString
	ZipCode      sql.NullString
	PropertyType sql.NullString
	Bedrooms     sql.NullInt64
	Bathrooms    sql.NullInt64
	SqftTotal    sql.NullInt64
	SqftBasement sql.NullInt64
	Parking      sql.NullString
}

// HoaDetail is one row of the hoa_details table.
type HoaDetail struct {
	PropertyID string
	Dues       decimal.Decimal
	Frequency  string
}

// RehabEstimate is one row of the rehab_estimates table.
type RehabEstimate struct {
	PropertyID        string
	EstimateAmount    decimal.NullDecimal
	CalculationAmount decimal.NullDecimal
	Scope             string
}

// Valuation is one row of the valuations table.
type Valuation struct {
	PropertyID     string
	ValuationType  string
	EstimatedValue decimal.Decimal
	Source         string
	ValuationDate  time.Time
}
