package core

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// TableInfo contains display information about a destination table.
type TableInfo struct {
	Key   string // Table name: "valuations"
	Label string // Display name: "Valuations"
	Order int    // Load order; parents before children
}

// BuildContext carries run-wide inputs to table builders.
type BuildContext struct {
	RunDate time.Time
}

// BuildFunc maps a cleaned dataset to destination records.
// ok=false means the table's minimum columns are absent and the load is skipped.
type BuildFunc func(ds *Dataset, bc BuildContext) (records []any, ok bool)

// CopyRowFunc converts a record to a row of values.
// The returned slice must contain values in the same order as Columns.
type CopyRowFunc func(record any) []any

// TableDefinition contains everything needed to populate a table.
type TableDefinition struct {
	Info    TableInfo
	Columns []string // destination columns, in CopyRow order
	Build   BuildFunc
	CopyRow CopyRowFunc
}

var (
	registry   = make(map[string]TableDefinition)
	registryMu sync.RWMutex
)

// Register adds a table definition to the registry.
// Panics if a table with the same key is already registered.
func Register(def TableDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Info.Key]; exists {
		panic(fmt.Sprintf("table already registered: %s", def.Info.Key))
	}

	registry[def.Info.Key] = def
}

// Get returns a table definition by key.
// Returns false if not found.
func Get(key string) (TableDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// All returns all registered table definitions in load order.
func All() []TableDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]TableDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Info.Order != result[j].Info.Order {
			return result[i].Info.Order < result[j].Info.Order
		}
		return result[i].Info.Key < result[j].Info.Key
	})

	return result
}

// Keys returns the registered table keys in load order.
func Keys() []string {
	defs := All()
	keys := make([]string, len(defs))
	for i, def := range defs {
		keys[i] = def.Info.Key
	}
	return keys
}

// TableCount returns the number of registered tables.
func TableCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}
