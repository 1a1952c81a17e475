package reactify

import "sync"

var (
	registryMu sync.RWMutex
	registry   = map[string]AttrSanitizer{
		"noreferrer": NoReferrer,
	}
)

// RegisterSanitizer makes fn available to declarative policies under name.
// Registering an existing name replaces it.
func RegisterSanitizer(name string, fn AttrSanitizer) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = fn
}

// LookupSanitizer returns the sanitizer registered under name.
func LookupSanitizer(name string) (AttrSanitizer, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	fn, ok := registry[name]
	return fn, ok
}
