package ocr

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Factory creates an engine
type Factory func() Engine

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register makes an engine available by name. Engine packages call it from
// init.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToLower(name)] = f
}

// NewEngine creates the named engine
func NewEngine(name string) (Engine, error) {
	registryMu.RLock()
	f, ok := registry[strings.ToLower(name)]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown OCR engine: %s (registered: %s)", name, strings.Join(Engines(), ", "))
	}
	return f(), nil
}

// Engines lists registered engine names
func Engines() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
