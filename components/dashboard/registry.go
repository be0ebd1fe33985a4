package dashboard

import (
	"fmt"
	"sort"
	"sync"
)

// SectionHook lets packages register sections/providers during init().
type SectionHook func(reg *Registry) error

var (
	globalHookMu sync.Mutex
	globalHooks  []SectionHook
)

// RegisterSectionHook registers a hook executed against new registries.
func RegisterSectionHook(h SectionHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// Registry implements SectionRegistry with hook + manifest support.
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]SectionDefinition
	providers   map[string]Provider
	settings    map[string]map[string]any
}

// NewRegistry builds a registry pre-loaded with the default section universe
// and applies global hooks.
func NewRegistry() *Registry {
	reg := &Registry{
		definitions: map[string]SectionDefinition{},
		providers:   map[string]Provider{},
		settings:    map[string]map[string]any{},
	}
	reg.registerDefaults()
	_ = reg.ApplyHooks()
	return reg
}

func (r *Registry) registerDefaults() {
	for _, def := range DefaultSectionDefinitions() {
		_ = r.RegisterDefinition(def)
		if provider, ok := defaultProviders[def.Code]; ok {
			_ = r.RegisterProvider(def.Code, provider)
		}
	}
}

// ApplyHooks executes registered section hooks.
func (r *Registry) ApplyHooks() error {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	for _, hook := range globalHooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// RegisterDefinition stores section metadata.
func (r *Registry) RegisterDefinition(def SectionDefinition) error {
	if def.Code == "" {
		return fmt.Errorf("section definition code is required")
	}
	if def.Section != "" && !def.Section.Valid() {
		return fmt.Errorf("section %q is not part of the dashboard universe", def.Section)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.definitions[def.Code] = def
	return nil
}

// RegisterProvider associates a provider implementation with a definition.
func (r *Registry) RegisterProvider(code string, provider Provider) error {
	if code == "" {
		return fmt.Errorf("section definition code is required to register provider")
	}
	if provider == nil {
		return fmt.Errorf("provider cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.definitions[code]; !ok {
		return fmt.Errorf("section definition %s not found", code)
	}
	r.providers[code] = provider
	return nil
}

// Definition fetches a section definition by code.
func (r *Registry) Definition(code string) (SectionDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[code]
	return def, ok
}

// Provider fetches a section provider by code.
func (r *Registry) Provider(code string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	provider, ok := r.providers[code]
	return provider, ok
}

// Settings returns manifest-supplied provider settings for a section.
func (r *Registry) Settings(code string) (map[string]any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	settings, ok := r.settings[code]
	return settings, ok
}

// Definitions returns all registered definitions in canonical section order,
// followed by any codes outside the universe in lexical order.
func (r *Registry) Definitions() []SectionDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]SectionDefinition, 0, len(r.definitions))
	claimed := make(map[string]bool, len(r.definitions))
	for _, section := range sectionUniverse {
		for code, def := range r.definitions {
			if def.Section == section && !claimed[code] {
				defs = append(defs, def)
				claimed[code] = true
			}
		}
	}
	extra := make([]string, 0, len(r.definitions))
	for code := range r.definitions {
		if !claimed[code] {
			extra = append(extra, code)
		}
	}
	sort.Strings(extra)
	for _, code := range extra {
		defs = append(defs, r.definitions[code])
	}
	return defs
}

func (r *Registry) recordSettings(code string, settings map[string]any) {
	if len(settings) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings[code] = settings
}
