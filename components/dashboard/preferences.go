package dashboard

import (
	"context"
	"sync"
)

// InMemoryPreferenceStore provides a concurrency-safe default store. UI state
// lives for the process lifetime only; every restart begins from
// DefaultUIState.
type InMemoryPreferenceStore struct {
	mu   sync.RWMutex
	data map[string]UIState
}

// NewInMemoryPreferenceStore creates an empty preference store.
func NewInMemoryPreferenceStore() *InMemoryPreferenceStore {
	return &InMemoryPreferenceStore{
		data: make(map[string]UIState),
	}
}

// Viewers that arrive without an identity share one slot, so a single-viewer
// embedding persists its UI state with no resolver wiring at all.
const defaultViewerKey = "__default__"

func viewerKey(viewer ViewerContext) string {
	if viewer.UserID == "" {
		return defaultViewerKey
	}
	return viewer.UserID
}

// UIState returns the stored state for the viewer, or the default state for
// viewers that have not mutated anything yet.
func (s *InMemoryPreferenceStore) UIState(_ context.Context, viewer ViewerContext) (UIState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if state, ok := s.data[viewerKey(viewer)]; ok {
		return NormalizeUIState(state), nil
	}
	return DefaultUIState(), nil
}

// SaveUIState persists the state for a viewer, restoring the section-set
// invariant first.
func (s *InMemoryPreferenceStore) SaveUIState(_ context.Context, viewer ViewerContext, state UIState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[viewerKey(viewer)] = NormalizeUIState(state)
	return nil
}
