package tables

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/PropLoad/internal/core"
)

func cleaned(header []string, records ...[]string) *core.Dataset {
	ds := core.NewDataset("test.csv", header, records)
	core.Clean(ds)
	return ds
}

func dec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

// ----------------------------------------------------------------------------
// Registry
// ----------------------------------------------------------------------------

func TestRegistry_LoadOrder(t *testing.T) {
	assert.Equal(t, []string{"properties", "hoa_details", "rehab_estimates", "valuations"}, core.Keys())

	for _, def := range core.All() {
		assert.NotEmpty(t, def.Columns, def.Info.Key)
		assert.Equal(t, "property_id", def.Columns[0], def.Info.Key)
		require.NotNil(t, def.Build, def.Info.Key)
		require.NotNil(t, def.CopyRow, def.Info.Key)
	}
}

func TestRegistry_CopyRowMatchesColumns(t *testing.T) {
	ds := cleaned(
		[]string{"Property_Title", "Address", "HOA", "HOA_Frequency", "Underwriting_Rehab", "Rehab_Calculation", "Zestimate"},
		[]string{"P1", "1 Main St", "100", "Annual", "5000", "6000", "200000"},
	)
	bc := core.BuildContext{RunDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}

	for _, def := range core.All() {
		records, ok := def.Build(ds, bc)
		require.True(t, ok, def.Info.Key)
		require.Len(t, records, 1, def.Info.Key)
		assert.Len(t, def.CopyRow(records[0]), len(def.Columns), def.Info.Key)
	}
}

func TestRegister_DuplicatePanics(t *testing.T) {
	def, ok := core.Get("properties")
	require.True(t, ok)
	assert.Panics(t, func() { core.Register(def) })
}

// ----------------------------------------------------------------------------
// Properties
// ----------------------------------------------------------------------------

func TestBuildProperties_FirstOccurrenceWins(t *testing.T) {
	ds := cleaned([]string{"Property_Title", "Address"},
		[]string{"P1", "1 Main St"},
		[]string{"P2", "2 Oak Ave"},
		[]string{"P1", "1 Main St Duplicate"},
	)

	props := BuildProperties(ds)
	require.Len(t, props, 2)
	assert.Equal(t, "P1", props[0].PropertyID)
	assert.Equal(t, "1 Main St", props[0].Address.String)
	assert.Equal(t, "P2", props[1].PropertyID)
}

func TestBuildProperties_Guards(t *testing.T) {
	tests := []struct {
		name      string
		yearBuilt string
		bedrooms  string
		sqft      string
		wantYear  int64 // 0 means null
		wantBeds  int64
		wantSqft  int64
	}{
		{name: "plausible values", yearBuilt: "1995", bedrooms: "3", sqft: "1,450", wantYear: 1995, wantBeds: 3, wantSqft: 1450},
		{name: "year below floor", yearBuilt: "1750", bedrooms: "3", sqft: "1000", wantBeds: 3, wantSqft: 1000},
		{name: "year at floor", yearBuilt: "1800", bedrooms: "1", sqft: "1", wantBeds: 1, wantSqft: 1},
		{name: "year just above floor", yearBuilt: "1801", wantYear: 1801},
		{name: "zero counts", yearBuilt: "2001", bedrooms: "0", sqft: "0", wantYear: 2001},
		{name: "negative counts", bedrooms: "-2", sqft: "(10)"},
		{name: "unparseable", yearBuilt: "unknown", bedrooms: "three", sqft: "big"},
		{name: "sentinels", yearBuilt: "nan", bedrooms: "None", sqft: ""},
		{name: "fraction truncated", yearBuilt: "1995.7", bedrooms: "2.5", sqft: "0.5", wantYear: 1995, wantBeds: 2},
		{name: "above integer column range", yearBuilt: "2147483648", bedrooms: "3000000000", sqft: "2147483647", wantSqft: 2147483647},
		{name: "beyond int64 does not wrap", yearBuilt: "18446744073709553611", bedrooms: "18446744073709551621", sqft: "-18446744073709551611"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := cleaned([]string{"Property_Title", "Year_Built", "Bed", "Sqft_Total"},
				[]string{"P1", tt.yearBuilt, tt.bedrooms, tt.sqft})

			props := BuildProperties(ds)
			require.Len(t, props, 1, "guards never drop the property")
			p := props[0]

			assert.Equal(t, tt.wantYear != 0, p.YearBuilt.Valid)
			assert.Equal(t, tt.wantYear, p.YearBuilt.Int64)
			assert.Equal(t, tt.wantBeds != 0, p.Bedrooms.Valid)
			assert.Equal(t, tt.wantBeds, p.Bedrooms.Int64)
			assert.Equal(t, tt.wantSqft != 0, p.SqftTotal.Valid)
			assert.Equal(t, tt.wantSqft, p.SqftTotal.Int64)
		})
	}
}

func TestBuildProperties_TextFields(t *testing.T) {
	ds := cleaned([]string{"Property_Title", "Address", "City", "State", "Zip_Code", "Type", "Parking"},
		[]string{"P1", "", "Austin", "texas", "78701.0", "Single Family", "nan"},
	)

	p := BuildProperties(ds)[0]
	assert.False(t, p.Address.Valid, "missing address stored as null")
	assert.Equal(t, "Austin", p.City.String)
	assert.Equal(t, "TX", p.State.String)
	assert.Equal(t, "78701", p.ZipCode.String)
	assert.Equal(t, "Single Family", p.PropertyType.String)
	assert.False(t, p.Parking.Valid)
}

// ----------------------------------------------------------------------------
// HOA
// ----------------------------------------------------------------------------

func TestBuildHoaDetails(t *testing.T) {
	ds := cleaned([]string{"Property_Title", "HOA", "HOA_Frequency"},
		[]string{"P1", "250", "Quarterly"},
		[]string{"P2", "$1,200.50", ""},
		[]string{"P3", "0", "Monthly"},
		[]string{"P4", "", "Annual"},
		[]string{"P5", "-10", ""},
		[]string{"P6", "n/a", ""},
	)

	got, ok := BuildHoaDetails(ds)
	require.True(t, ok)
	require.Len(t, got, 2)

	assert.Equal(t, "P1", got[0].PropertyID)
	assert.Equal(t, "Quarterly", got[0].Frequency)
	assert.True(t, decimal.NewFromInt(250).Equal(got[0].Dues))

	assert.Equal(t, "P2", got[1].PropertyID)
	assert.Equal(t, DefaultHoaFrequency, got[1].Frequency)
	assert.Equal(t, "1200.5", got[1].Dues.String())
}

func TestBuildHoaDetails_Presence(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		wantOK bool
	}{
		{name: "all three", header: []string{"Property_Title", "HOA", "HOA_Frequency"}, wantOK: true},
		{name: "title and dues", header: []string{"Property_Title", "HOA"}, wantOK: true},
		{name: "title and frequency", header: []string{"Property_Title", "HOA_Frequency"}, wantOK: true},
		{name: "title only", header: []string{"Property_Title", "Address"}},
		{name: "dues only", header: []string{"HOA"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := BuildHoaDetails(core.NewDataset("x.csv", tt.header, nil))
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestBuildHoaDetails_NoDuesColumnProducesNothing(t *testing.T) {
	ds := cleaned([]string{"Property_Title", "HOA_Frequency"}, []string{"P1", "Monthly"})

	got, ok := BuildHoaDetails(ds)
	assert.True(t, ok)
	assert.Empty(t, got)
}

// ----------------------------------------------------------------------------
// Rehab
// ----------------------------------------------------------------------------

func TestBuildRehabEstimates(t *testing.T) {
	ds := cleaned([]string{"Property_Title", "Underwriting_Rehab", "Rehab_Calculation"},
		[]string{"P1", "12345", "15000.5"},
		[]string{"P2", "", "4000"},
		[]string{"P3", "0", "-1"},
		[]string{"P4", "nan", ""},
		[]string{"P5", "7,500", "0"},
	)

	got, ok := BuildRehabEstimates(ds)
	require.True(t, ok)
	require.Len(t, got, 3)

	assert.Equal(t, "P1", got[0].PropertyID)
	assert.Equal(t, "Underwriting rehab: $12,345.00; Rehab calculation: $15,000.50", got[0].Scope)

	assert.Equal(t, "P2", got[1].PropertyID)
	assert.False(t, got[1].EstimateAmount.Valid)
	assert.Equal(t, "Underwriting rehab: $0.00; Rehab calculation: $4,000.00", got[1].Scope)

	assert.Equal(t, "P5", got[2].PropertyID)
	assert.False(t, got[2].CalculationAmount.Valid, "zero is stored as null")
	assert.Equal(t, "Underwriting rehab: $7,500.00; Rehab calculation: $0.00", got[2].Scope)
}

func TestBuildRehabEstimates_Presence(t *testing.T) {
	_, ok := BuildRehabEstimates(core.NewDataset("x.csv", []string{"Property_Title", "Address"}, nil))
	assert.False(t, ok)

	_, ok = BuildRehabEstimates(core.NewDataset("x.csv", []string{"Underwriting_Rehab", "Rehab_Calculation"}, nil))
	assert.True(t, ok)
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   decimal.NullDecimal
		want string
	}{
		{decimal.NullDecimal{}, "0.00"},
		{dec("0"), "0.00"},
		{dec("5"), "5.00"},
		{dec("999.999"), "1,000.00"},
		{dec("1234567.891"), "1,234,567.89"},
		{dec("12345"), "12,345.00"},
		{dec("123456"), "123,456.00"},
		{dec("12345678901234567.89"), "12,345,678,901,234,567.89"},
		{dec("99999999999999999999.995"), "100,000,000,000,000,000,000.00"},
		{dec("-1234.5"), "-1,234.50"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(tt.in))
		})
	}
}

// ----------------------------------------------------------------------------
// Valuations
// ----------------------------------------------------------------------------

var runDate = time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC)

func TestBuildValuations_FanOut(t *testing.T) {
	ds := cleaned(
		[]string{"Property_Title", "Redfin_Value", "List_Price", "Zestimate", "ARV", "Expected_Rent"},
		[]string{"P2", "150000", "160000", "", "0", "nan"},
	)

	got := BuildValuations(ds, runDate)
	require.Len(t, got, 2)

	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, core.Valuation{
		PropertyID: "P2", ValuationType: "Redfin Estimate", Source: "Redfin",
		EstimatedValue: decimal.RequireFromString("150000"), ValuationDate: day,
	}, got[0])
	assert.Equal(t, core.Valuation{
		PropertyID: "P2", ValuationType: "List Price", Source: "Market",
		EstimatedValue: decimal.RequireFromString("160000"), ValuationDate: day,
	}, got[1])
}

func TestBuildValuations_AllSources(t *testing.T) {
	ds := cleaned(
		[]string{"Property_Title", "Expected_Rent", "ARV", "Zestimate", "List_Price", "Redfin_Value"},
		[]string{"P1", "1800", "300000", "210000", "200000", "205000"},
		[]string{"P2", "1500", "", "", "", ""},
	)

	got := BuildValuations(ds, runDate)
	require.Len(t, got, 6)

	var labels [][2]string
	for _, v := range got {
		labels = append(labels, [2]string{v.ValuationType, v.Source})
	}
	assert.Equal(t, [][2]string{
		{"Redfin Estimate", "Redfin"},
		{"List Price", "Market"},
		{"Zestimate", "Zillow"},
		{"After Repair Value", "Analysis"},
		{"Monthly Rent", "Rental Market"},
		{"Monthly Rent", "Rental Market"},
	}, labels, "grouped by source column in fixed order, not header order")
	assert.Equal(t, "P2", got[5].PropertyID)
}

func TestBuildValuations_ExplicitDate(t *testing.T) {
	ds := cleaned(
		[]string{"Property_Title", "Zestimate", "Valuation_Date"},
		[]string{"P1", "100", "2023-12-31"},
		[]string{"P2", "100", "not a date"},
		[]string{"P3", "100", ""},
	)

	got := BuildValuations(ds, runDate)
	require.Len(t, got, 3)
	assert.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), got[0].ValuationDate)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), got[1].ValuationDate)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), got[2].ValuationDate)
}

func TestBuildValuations_NoValuationColumns(t *testing.T) {
	ds := cleaned([]string{"Property_Title", "Address"}, []string{"P1", "1 Main St"})
	assert.Empty(t, BuildValuations(ds, runDate))
}

// ----------------------------------------------------------------------------
// Missing identity
// ----------------------------------------------------------------------------

func TestBlankIdentityProducesNoRows(t *testing.T) {
	header := []string{"Property_Title", "Address", "HOA", "Underwriting_Rehab", "Rehab_Calculation", "Zestimate"}
	ds := cleaned(header,
		[]string{"", "1 Ghost Rd", "100", "100", "100", "100"},
		[]string{"nan", "2 Ghost Rd", "100", "100", "100", "100"},
		[]string{"None", "3 Ghost Rd", "100", "100", "100", "100"},
	)
	bc := core.BuildContext{RunDate: runDate}

	for _, def := range core.All() {
		records, _ := def.Build(ds, bc)
		assert.Empty(t, records, def.Info.Key)
	}
}
