package core

import "strings"

// FieldType represents the expected data type for a source column.
type FieldType int

const (
	FieldText FieldType = iota
	FieldIdentity
	FieldNumeric
	FieldDate
)

// Canonical column keys. Source headers are resolved to these through
// FieldSpec aliases; unknown headers keep their folded form.
const (
	ColPropertyTitle     = "property_title"
	ColAddress           = "address"
	ColYearBuilt         = "year_built"
	ColCity              = "city"
	ColState             = "state"
	ColZip               = "zip"
	ColPropertyType      = "property_type"
	ColBedrooms          = "bed"
	ColBathrooms         = "bath"
	ColSqftTotal         = "sqft_total"
	ColSqftBasement      = "sqft_basement"
	ColParking           = "parking"
	ColListPrice         = "list_price"
	ColRedfinValue       = "redfin_value"
	ColZestimate         = "zestimate"
	ColARV               = "arv"
	ColExpectedRent      = "expected_rent"
	ColHoaDues           = "hoa"
	ColHoaFrequency      = "hoa_frequency"
	ColRehabUnderwriting = "underwriting_rehab"
	ColRehabCalculation  = "rehab_calculation"
	ColValuationDate     = "valuation_date"
)

// FieldSpec defines how a single source column is recognized and cleaned.
type FieldSpec struct {
	Key        string              // Canonical column key
	Aliases    []string            // Alternate folded header names
	Type       FieldType           // Expected data type
	Integer    bool                // Numeric column stored as a whole number
	Normalizer func(string) string // Optional transformation applied to text after trimming
}

// Fields lists every column the loader recognizes.
var Fields = []FieldSpec{
	{Key: ColPropertyTitle, Type: FieldIdentity, Aliases: []string{"property_id", "propertytitle", "title"}},
	{Key: ColAddress, Type: FieldText, Aliases: []string{"street_address", "full_address"}},
	{Key: ColYearBuilt, Type: FieldNumeric, Integer: true, Aliases: []string{"yearbuilt", "built"}},
	{Key: ColCity, Type: FieldText},
	{Key: ColState, Type: FieldText, Normalizer: NormalizeUsState},
	{Key: ColZip, Type: FieldText, Aliases: []string{"zip_code", "zipcode", "postal_code"}, Normalizer: NormalizeZip},
	{Key: ColPropertyType, Type: FieldText, Aliases: []string{"type"}},
	{Key: ColBedrooms, Type: FieldNumeric, Integer: true, Aliases: []string{"beds", "bedrooms"}},
	{Key: ColBathrooms, Type: FieldNumeric, Integer: true, Aliases: []string{"baths", "bathrooms"}},
	{Key: ColSqftTotal, Type: FieldNumeric, Integer: true, Aliases: []string{"sqft", "square_feet", "sqft_total_area"}},
	{Key: ColSqftBasement, Type: FieldNumeric, Integer: true, Aliases: []string{"basement_sqft"}},
	{Key: ColParking, Type: FieldText},
	{Key: ColListPrice, Type: FieldNumeric, Aliases: []string{"listprice", "price"}},
	{Key: ColRedfinValue, Type: FieldNumeric, Aliases: []string{"redfin", "redfin_estimate"}},
	{Key: ColZestimate, Type: FieldNumeric, Aliases: []string{"zillow_estimate", "zillow_value"}},
	{Key: ColARV, Type: FieldNumeric, Aliases: []string{"after_repair_value"}},
	{Key: ColExpectedRent, Type: FieldNumeric, Aliases: []string{"rent", "monthly_rent"}},
	{Key: ColHoaDues, Type: FieldNumeric, Aliases: []string{"hoa_dues", "hoa_fee", "hoa_amount"}},
	{Key: ColHoaFrequency, Type: FieldText, Aliases: []string{"hoa_freq", "hoa_period"}},
	{Key: ColRehabUnderwriting, Type: FieldNumeric, Aliases: []string{"rehab_estimate", "underwriting_rehab_estimate"}},
	{Key: ColRehabCalculation, Type: FieldNumeric, Aliases: []string{"rehab_calc"}},
	{Key: ColValuationDate, Type: FieldDate, Aliases: []string{"valuation_as_of"}},
}

var fieldsByName = indexFields(Fields)

func indexFields(specs []FieldSpec) map[string]FieldSpec {
	idx := make(map[string]FieldSpec, len(specs)*3)
	for _, spec := range specs {
		idx[spec.Key] = spec
		for _, alias := range spec.Aliases {
			idx[alias] = spec
		}
	}
	return idx
}

// LookupField returns the spec for a canonical key or any recognized header.
func LookupField(header string) (FieldSpec, bool) {
	spec, ok := fieldsByName[FoldHeader(header)]
	return spec, ok
}

// HeaderKey resolves a source header to its canonical column key.
// Unrecognized headers are returned folded so they remain addressable.
func HeaderKey(header string) string {
	if spec, ok := LookupField(header); ok {
		return spec.Key
	}
	return FoldHeader(header)
}

// NormalizeZip strips the ".0" suffix left behind when a ZIP column was
// exported as floating point.
func NormalizeZip(s string) string {
	s = strings.TrimSpace(s)
	if head, tail, ok := strings.Cut(s, "."); ok && strings.Trim(tail, "0") == "" && head != "" {
		return head
	}
	return s
}
