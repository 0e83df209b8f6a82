// Package catalog registers the bearing taxonomy with the core registry.
// Import this package to ensure all categories are registered.
package catalog

// Categories register in display order, so a single init owns the sequence.
func init() {
	registerBearings()
	registerHousings()
	registerAccessories()
}
