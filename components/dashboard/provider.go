package dashboard

import "context"

// Provider produces the render model for one dashboard section.
type Provider interface {
	Fetch(ctx context.Context, meta SectionContext) (SectionData, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, meta SectionContext) (SectionData, error)

// Fetch implements Provider.
func (f ProviderFunc) Fetch(ctx context.Context, meta SectionContext) (SectionData, error) {
	return f(ctx, meta)
}

// SectionContext carries everything a provider needs: the section definition,
// the current normalized data (nil while loading), the UI state, the viewer,
// and any manifest-supplied settings.
type SectionContext struct {
	Definition SectionDefinition
	App        *AppData
	State      UIState
	Viewer     ViewerContext
	Settings   map[string]any
}

// SectionData is an opaque render payload passed to templates and JSON
// transports.
type SectionData map[string]any
