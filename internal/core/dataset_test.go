package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDataset(t *testing.T) {
	ds := NewDataset("x.csv",
		[]string{"Property Title", "Beds", "Mystery Column", "Bedrooms"},
		[][]string{
			{"P1", "3", "?", "9"},
			{"", " ", "", ""},
			{"P2"},
			{"P3", "2", "a", "4", "overflow"},
		})

	assert.Equal(t, []string{ColPropertyTitle, ColBedrooms, "mystery_column", ColBedrooms}, ds.Columns)

	rows, cols := ds.Shape()
	assert.Equal(t, 3, rows, "blank records skipped")
	assert.Equal(t, 4, cols)

	assert.Equal(t, "3", ds.Get(ds.Rows[0], ColBedrooms).String(), "first duplicate header wins")
	assert.True(t, ds.Get(ds.Rows[1], ColBedrooms).IsMissing(), "short rows padded")
	assert.Len(t, ds.Rows[2], 4, "long rows truncated")
	assert.Equal(t, "a", ds.Get(ds.Rows[2], "mystery_column").String())
}

func TestDataset_Present(t *testing.T) {
	ds := NewDataset("x.csv", []string{"Property_Title", "HOA"}, nil)

	assert.True(t, ds.Has(ColHoaDues))
	assert.False(t, ds.Has(ColHoaFrequency))
	assert.Equal(t, []string{ColPropertyTitle, ColHoaDues},
		ds.Present(ColPropertyTitle, ColHoaDues, ColHoaFrequency))
	assert.Empty(t, ds.Present(ColARV))
}

func TestDataset_GetAbsentColumn(t *testing.T) {
	ds := NewDataset("x.csv", []string{"Property_Title"}, [][]string{{"P1"}})

	v := ds.Get(ds.Rows[0], ColZestimate)
	assert.True(t, v.IsMissing())
	assert.False(t, v.Decimal().Valid)
}

func TestDataset_CloneIsDeep(t *testing.T) {
	ds := NewDataset("x.csv", []string{"Property_Title"}, [][]string{{"P1"}})
	c := ds.Clone()

	c.Rows[0][0] = TextValue("changed")
	c.Columns[0] = "other"

	assert.Equal(t, "P1", ds.Identity(ds.Rows[0]))
	assert.Equal(t, ColPropertyTitle, ds.Columns[0])
	require.True(t, c.Has(ColPropertyTitle))
}

func TestValue_Guards(t *testing.T) {
	tests := []struct {
		name        string
		v           Value
		wantMissing bool
		wantPos     bool
		wantYear    bool // IntAbove(1800)
	}{
		{name: "raw positive", v: RawValue("1995"), wantPos: true, wantYear: true},
		{name: "raw sentinel", v: RawValue("nan"), wantMissing: true},
		{name: "number zero", v: NumberValue(ParseNumber("0").Decimal)},
		{name: "number negative", v: NumberValue(ParseNumber("-5").Decimal)},
		{name: "number at floor", v: NumberValue(ParseNumber("1800").Decimal), wantPos: true},
		{name: "number fraction", v: NumberValue(ParseNumber("0.5").Decimal), wantPos: true},
		{name: "largest amount", v: NumberValue(ParseNumber("9999999999.99").Decimal), wantPos: true},
		{name: "amount rounds past column", v: NumberValue(ParseNumber("9999999999.996").Decimal)},
		{name: "huge number", v: NumberValue(ParseNumber("18446744073709553611").Decimal)},
		{name: "text", v: TextValue("abc")},
		{name: "missing", v: MissingValue(), wantMissing: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMissing, tt.v.IsMissing())
			assert.Equal(t, tt.wantPos, tt.v.PositiveDecimal().Valid)
			assert.Equal(t, tt.wantYear, tt.v.IntAbove(1800).Valid)
		})
	}
}

func TestValue_PositiveIntTruncates(t *testing.T) {
	assert.False(t, NumberValue(ParseNumber("0.5").Decimal).PositiveInt().Valid)
	assert.Equal(t, int64(2), NumberValue(ParseNumber("2.5").Decimal).PositiveInt().Int64)
}

func TestValue_NullString(t *testing.T) {
	assert.False(t, MissingValue().NullString().Valid)
	assert.False(t, RawValue("  ").NullString().Valid)
	assert.Equal(t, "x", RawValue(" x ").NullString().String)
	assert.Equal(t, "12.5", NumberValue(ParseNumber("12.50").Decimal).NullString().String)
}
