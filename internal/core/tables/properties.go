package tables

import (
	"github.com/JonMunkholm/PropLoad/internal/core"
)

// YearBuiltFloor is the exclusive lower bound for a plausible year_built.
const YearBuiltFloor = 1800

func init() {
	registerProperties()
}

func registerProperties() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:   "properties",
			Label: "Properties",
			Order: orderProperties,
		},
		Columns: []string{
			"property_id", "address", "year_built", "city", "state", "zip_code",
			"property_type", "bedrooms", "bathrooms", "sqft_total", "sqft_basement", "parking",
		},
		Build: func(ds *core.Dataset, _ core.BuildContext) ([]any, bool) {
			return toRecords(BuildProperties(ds)), true
		},
		CopyRow: func(record any) []any {
			p := record.(core.Property)
			return []any{
				p.PropertyID, p.Address, p.YearBuilt, p.City, p.State, p.ZipCode,
				p.PropertyType, p.Bedrooms, p.Bathrooms, p.SqftTotal, p.SqftBasement, p.Parking,
			}
		},
	})
}

// BuildProperties returns one Property per distinct property title, keeping
// the first occurrence. Attributes that fail their guard are stored as null;
// the row itself is never dropped for them.
func BuildProperties(ds *core.Dataset) []core.Property {
	seen := make(map[string]bool, len(ds.Rows))
	out := make([]core.Property, 0, len(ds.Rows))

	for _, row := range ds.Rows {
		id := ds.Identity(row)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true

		out = append(out, core.Property{
			PropertyID:   id,
			Address:      ds.Get(row, core.ColAddress).NullString(),
			YearBuilt:    ds.Get(row, core.ColYearBuilt).IntAbove(YearBuiltFloor),
			City:         ds.Get(row, core.ColCity).NullString(),
			State:        ds.Get(row, core.ColState).NullString(),
			ZipCode:      ds.Get(row, core.ColZip).NullString(),
			PropertyType: ds.Get(row, core.ColPropertyType).NullString(),
			Bedrooms:     ds.Get(row, core.ColBedrooms).PositiveInt(),
			Bathrooms:    ds.Get(row, core.ColBathrooms).PositiveInt(),
			SqftTotal:    ds.Get(row, core.ColSqftTotal).PositiveInt(),
			SqftBasement: ds.Get(row, core.ColSqftBasement).PositiveInt(),
			Parking:      ds.Get(row, core.ColParking).NullString(),
		})
	}

	return out
}

// toRecords widens a typed slice for the registry.
func toRecords[T any](in []T) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
