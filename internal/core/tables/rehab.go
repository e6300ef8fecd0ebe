package tables

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/JonMunkholm/PropLoad/internal/core"
)

func init() {
	registerRehabEstimates()
}

func registerRehabEstimates() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:   "rehab_estimates",
			Label: "Rehab Estimates",
			Order: orderRehab,
		},
		Columns: []string{"property_id", "estimate_amount", "calculation_amount", "scope"},
		Build: func(ds *core.Dataset, _ core.BuildContext) ([]any, bool) {
			recs, ok := BuildRehabEstimates(ds)
			return toRecords(recs), ok
		},
		CopyRow: func(record any) []any {
			r := record.(core.RehabEstimate)
			return []any{r.PropertyID, r.EstimateAmount, r.CalculationAmount, r.Scope}
		},
	})
}

// BuildRehabEstimates returns one RehabEstimate per row where the
// underwriting or calculated rehab amount is positive.
// ok is false when fewer than two of title, underwriting and calculation are present.
func BuildRehabEstimates(ds *core.Dataset) ([]core.RehabEstimate, bool) {
	if len(ds.Present(core.ColPropertyTitle, core.ColRehabUnderwriting, core.ColRehabCalculation)) < 2 {
		return nil, false
	}

	var out []core.RehabEstimate
	for _, row := range ds.Rows {
		id := ds.Identity(row)
		estimate := ds.Get(row, core.ColRehabUnderwriting).PositiveDecimal()
		calc := ds.Get(row, core.ColRehabCalculation).PositiveDecimal()
		if id == "" || (!estimate.Valid && !calc.Valid) {
			continue
		}

		out = append(out, core.RehabEstimate{
			PropertyID:        id,
			EstimateAmount:    estimate,
			CalculationAmount: calc,
			Scope:             RehabScope(estimate, calc),
		})
	}
	return out, true
}

// RehabScope renders both amounts into the scope summary. Null amounts
// render as $0.00.
func RehabScope(estimate, calc decimal.NullDecimal) string {
	return "Underwriting rehab: $" + FormatAmount(estimate) +
		"; Rehab calculation: $" + FormatAmount(calc)
}

// FormatAmount formats a money amount with thousands separators and two
// decimals. Digits come from the decimal itself, so no precision is lost.
func FormatAmount(d decimal.NullDecimal) string {
	if !d.Valid {
		return "0.00"
	}
	whole, cents, _ := strings.Cut(d.Decimal.Round(2).StringFixed(2), ".")
	sign := ""
	if strings.HasPrefix(whole, "-") {
		sign, whole = "-", whole[1:]
	}
	return sign + groupThousands(whole) + "." + cents
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var sb strings.Builder
	head := len(digits) % 3
	if head > 0 {
		sb.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(digits[i : i+3])
	}
	return sb.String()
}
