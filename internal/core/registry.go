package core

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry   = make(map[string]EntityDefinition)
	registryMu sync.RWMutex
)

// Register adds an entity definition to the registry.
// Panics if an entity with the same key is already registered.
func Register(def EntityDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Info.Key]; exists {
		panic(fmt.Sprintf("entity already registered: %s", def.Info.Key))
	}

	// Populate Columns from FieldSpecs if not set
	if len(def.Info.Columns) == 0 && len(def.FieldSpecs) > 0 {
		def.Info.Columns = make([]string, len(def.FieldSpecs))
		for i, spec := range def.FieldSpecs {
			def.Info.Columns[i] = spec.Name
		}
	}

	registry[def.Info.Key] = def
}

// Get returns an entity definition by key.
// Returns false if not found.
func Get(key string) (EntityDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// All returns all registered entity definitions, sorted by key.
func All() []EntityDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]EntityDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Info.Key < result[j].Info.Key
	})

	return result
}

// Keys returns all registered entity keys, sorted.
func Keys() []string {
	defs := All()
	keys := make([]string, len(defs))
	for i, def := range defs {
		keys[i] = def.Info.Key
	}
	return keys
}

// Clear removes all registered entities.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]EntityDefinition)
}
