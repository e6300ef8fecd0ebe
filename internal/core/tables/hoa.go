package tables

import (
	"github.com/JonMunkholm/PropLoad/internal/core"
)

// DefaultHoaFrequency is used when a row has dues but no frequency.
const DefaultHoaFrequency = "Monthly"

func init() {
	registerHoaDetails()
}

func registerHoaDetails() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:   "hoa_details",
			Label: "HOA Details",
			Order: orderHoa,
		},
		Columns: []string{"property_id", "dues", "frequency"},
		Build: func(ds *core.Dataset, _ core.BuildContext) ([]any, bool) {
			recs, ok := BuildHoaDetails(ds)
			return toRecords(recs), ok
		},
		CopyRow: func(record any) []any {
			h := record.(core.HoaDetail)
			return []any{h.PropertyID, h.Dues, h.Frequency}
		},
	})
}

// BuildHoaDetails returns one HoaDetail per row with positive dues.
// ok is false when fewer than two of title, dues and frequency are present.
func BuildHoaDetails(ds *core.Dataset) ([]core.HoaDetail, bool) {
	if len(ds.Present(core.ColPropertyTitle, core.ColHoaDues, core.ColHoaFrequency)) < 2 {
		return nil, false
	}

	var out []core.HoaDetail
	for _, row := range ds.Rows {
		id := ds.Identity(row)
		dues := ds.Get(row, core.ColHoaDues).PositiveDecimal()
		if id == "" || !dues.Valid {
			continue
		}

		freq := ds.Get(row, core.ColHoaFrequency).String()
		if freq == "" {
			freq = DefaultHoaFrequency
		}

		out = append(out, core.HoaDetail{
			PropertyID: id,
			Dues:       dues.Decimal,
			Frequency:  freq,
		})
	}
	return out, true
}
