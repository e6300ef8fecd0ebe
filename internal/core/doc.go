// Package core provides the data model and cleaning rules for property imports.
//
// This package is the heart of the loader, containing all domain logic
// independent of file formats and storage. It can be used by the batch
// pipeline, other tools, or tests without modification.
//
// # Architecture
//
// The package is organized around several key concepts:
//
//   - Values: every cell is a [Value] that is raw, missing, text or number.
//     Missing is explicit; nothing silently defaults to zero.
//   - Datasets: a loaded source with canonical column keys (see [HeaderKey]).
//   - Columns: [Fields] lists every recognized source column with its type
//     and header aliases.
//   - Cleaning: [Clean] normalizes a dataset once, before any table is built.
//   - Table Definitions: registered via the registry, each destination table
//     has a builder that fans cleaned rows out into records.
//
// # Table Registry
//
// Tables are registered at init time using [Register]. Each [TableDefinition]
// contains everything needed to populate one destination table:
//
//	core.Register(TableDefinition{
//	    Info:    TableInfo{Key: "hoa_details", Label: "HOA", Order: 2},
//	    Columns: []string{"property_id", "dues", "frequency"},
//	    Build:   buildHoa,
//	    CopyRow: hoaRow,
//	})
//
// [All] returns definitions sorted by Order so parents load before the
// tables that reference them.
//
// # Flow
//
//  1. A source loader produces a [Dataset] of raw cells
//  2. [Clean] coerces types and drops rows without a property title
//  3. Each table's Build maps rows to records, filtering non-positive values
//  4. The store replaces each table's contents with the records
package core
