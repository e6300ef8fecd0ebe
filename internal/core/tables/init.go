// Package tables registers all destination table definitions with the core registry.
// Import this package to ensure all tables are registered.
package tables

// Load order. Properties come first because every other table
// references them by foreign key.
const (
	orderProperties = iota + 1
	orderHoa
	orderRehab
	orderValuations
)
