package tables

import (
	"time"

	"github.com/JonMunkholm/PropLoad/internal/core"
)

// ValuationSource ties a source column to the labels its valuation rows carry.
type ValuationSource struct {
	Column        string
	ValuationType string
	Source        string
}

// ValuationSources is the fixed fan-out table, in emission order.
var ValuationSources = []ValuationSource{
	{Column: core.ColRedfinValue, ValuationType: "Redfin Estimate", Source: "Redfin"},
	{Column: core.ColListPrice, ValuationType: "List Price", Source: "Market"},
	{Column: core.ColZestimate, ValuationType: "Zestimate", Source: "Zillow"},
	{Column: core.ColARV, ValuationType: "After Repair Value", Source: "Analysis"},
	{Column: core.ColExpectedRent, ValuationType: "Monthly Rent", Source: "Rental Market"},
}

func init() {
	registerValuations()
}

func registerValuations() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:   "valuations",
			Label: "Valuations",
			Order: orderValuations,
		},
		Columns: []string{"property_id", "valuation_type", "estimated_value", "source", "valuation_date"},
		Build: func(ds *core.Dataset, bc core.BuildContext) ([]any, bool) {
			return toRecords(BuildValuations(ds, bc.RunDate)), true
		},
		CopyRow: func(record any) []any {
			v := record.(core.Valuation)
			return []any{v.PropertyID, v.ValuationType, v.EstimatedValue, v.Source, v.ValuationDate}
		},
	})
}

// BuildValuations fans each row out into one Valuation per recognized
// column holding a positive value. Rows are grouped by column in
// ValuationSources order. The row's valuation_date is used when it parses,
// runDate otherwise.
func BuildValuations(ds *core.Dataset, runDate time.Time) []core.Valuation {
	runDate = time.Date(runDate.Year(), runDate.Month(), runDate.Day(), 0, 0, 0, 0, time.UTC)

	var out []core.Valuation
	for _, src := range ValuationSources {
		if !ds.Has(src.Column) {
			continue
		}
		for _, row := range ds.Rows {
			id := ds.Identity(row)
			value := ds.Get(row, src.Column).PositiveDecimal()
			if id == "" || !value.Valid {
				continue
			}

			date, ok := core.ParseDate(ds.Get(row, core.ColValuationDate).String())
			if !ok {
				date = runDate
			}

			out = append(out, core.Valuation{
				PropertyID:     id,
				ValuationType:  src.ValuationType,
				EstimatedValue: value.Decimal,
				Source:         src.Source,
				ValuationDate:  date,
			})
		}
	}
	return out
}
