package core

import (
	"fmt"
	"sync"
)

var (
	categoryRegistry  []CategoryDefinition
	attributeRegistry = make(map[string]Attributes)
	registryMu        sync.RWMutex
)

// RegisterCategory adds a category definition to the registry.
// Panics if a category with the same name is already registered.
func RegisterCategory(def CategoryDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	for _, existing := range categoryRegistry {
		if existing.Name == def.Name {
			panic(fmt.Sprintf("category already registered: %s", def.Name))
		}
	}

	categoryRegistry = append(categoryRegistry, def)
}

// RegisterAttributes sets the attribute options for a subtype.
// Panics if the subtype already has options registered.
func RegisterAttributes(subtype string, attrs Attributes) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := attributeRegistry[subtype]; exists {
		panic(fmt.Sprintf("attributes already registered: %s", subtype))
	}

	attributeRegistry[subtype] = attrs
}

// RegisteredTaxonomy builds an immutable index from everything registered so far.
func RegisteredTaxonomy() *Taxonomy {
	registryMu.RLock()
	defer registryMu.RUnlock()

	return NewTaxonomy(categoryRegistry, attributeRegistry)
}

// CategoryCount returns the number of registered categories.
func CategoryCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(categoryRegistry)
}

// ClearRegistry removes all registered categories and attributes.
// Primarily useful for testing.
func ClearRegistry() {
	registryMu.Lock()
	defer registryMu.Unlock()
	categoryRegistry = nil
	attributeRegistry = make(map[string]Attributes)
}
