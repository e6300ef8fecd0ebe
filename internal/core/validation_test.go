package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectHeaders(t *testing.T) {
	ds := NewDataset("x.csv", []string{"Property_Title", "Beds", "Notes", "Bedrooms", ""}, nil)

	r := InspectHeaders(ds)
	assert.True(t, r.HasIdentity)
	assert.Equal(t, []string{ColPropertyTitle, ColBedrooms}, r.Recognized)
	assert.Equal(t, []string{"notes"}, r.Unrecognized)
	assert.Equal(t, []string{ColBedrooms}, r.Duplicates)
	assert.Contains(t, r.String(), "unrecognized=[notes]")
}

func TestInspectHeaders_NoIdentity(t *testing.T) {
	r := InspectHeaders(NewDataset("x.csv", []string{"Address", "City"}, nil))
	assert.False(t, r.HasIdentity)
}

func TestValidateCell(t *testing.T) {
	numeric := FieldSpec{Key: ColListPrice, Type: FieldNumeric}
	date := FieldSpec{Key: ColValuationDate, Type: FieldDate}
	text := FieldSpec{Key: ColCity, Type: FieldText}
	whole := FieldSpec{Key: ColBathrooms, Type: FieldNumeric, Integer: true}

	tests := []struct {
		name    string
		value   string
		spec    FieldSpec
		wantErr bool
	}{
		{name: "number", value: "$1,200", spec: numeric},
		{name: "bad number", value: "twelve", spec: numeric, wantErr: true},
		{name: "missing number", value: "nan", spec: numeric},
		{name: "date", value: "2024-01-15", spec: date},
		{name: "bad date", value: "someday", spec: date, wantErr: true},
		{name: "text is never invalid", value: "anything", spec: text},
		{name: "whole number", value: "3.0", spec: whole},
		{name: "fractional whole number", value: "2.5", spec: whole, wantErr: true},
		{name: "whole number out of range", value: "18446744073709551621", spec: whole, wantErr: true},
		{name: "fraction allowed for amounts", value: "2.5", spec: numeric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCell(tt.value, tt.spec)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestClean_RecordsRejectedSamples(t *testing.T) {
	ds := NewDataset("x.csv", []string{"Property_Title", "Year_Built", "Valuation_Date"}, [][]string{
		{"P1", "1995", "2024-01-01"},
		{"P2", "abc", "soon"},
		{"P3", "", ""},
	})

	stats := Clean(ds)
	require.Len(t, stats.Rejected, 2)
	assert.Equal(t, ValidationError{Row: 2, Field: ColYearBuilt, Value: "abc", Message: "invalid number format"}, stats.Rejected[0])
	assert.Equal(t, ColValuationDate, stats.Rejected[1].Field)
	assert.Equal(t, `row 2: year_built: invalid number format ("abc")`, stats.Rejected[0].Error())
}

func TestClean_RecordsTruncatedWholeNumbers(t *testing.T) {
	ds := NewDataset("x.csv", []string{"Property_Title", "Bath", "List_Price"}, [][]string{
		{"P1", "2", "100.50"},
		{"P2", "2.5", "100"},
	})

	stats := Clean(ds)
	require.Len(t, stats.Rejected, 1)
	assert.Equal(t, ValidationError{Row: 2, Field: ColBathrooms, Value: "2.5", Message: "fraction truncated to whole number"}, stats.Rejected[0])
	assert.Zero(t, stats.NumericMissing, "the value is kept and truncated later")
	assert.Equal(t, "2.5", ds.Get(ds.Rows[1], ColBathrooms).String())
}

func TestClean_RejectedSamplesCapped(t *testing.T) {
	records := make([][]string, MaxRejectSamples+5)
	for i := range records {
		records[i] = []string{"P", "bad"}
	}
	stats := Clean(NewDataset("x.csv", []string{"Property_Title", "Bed"}, records))

	assert.Len(t, stats.Rejected, MaxRejectSamples)
	assert.Equal(t, MaxRejectSamples+5, stats.NumericMissing)
}

func TestFieldTypeName(t *testing.T) {
	assert.Equal(t, "numeric", FieldTypeName(FieldNumeric))
	assert.Equal(t, "identity", FieldTypeName(FieldIdentity))
	assert.Equal(t, "value", FieldTypeName(FieldType(99)))
}
