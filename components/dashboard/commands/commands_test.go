package commands

import (
	"context"
	"errors"
	"testing"

	dashboard "github.com/finboard/go-finboard/components/dashboard"
)

type fakeService struct {
	closed  []dashboard.Section
	themes  int
	edits   int
	auth    []bool
	failAll bool
}

func (f *fakeService) CloseSection(_ context.Context, _ dashboard.ViewerContext, section dashboard.Section) error {
	if f.failAll {
		return errors.New("boom")
	}
	f.closed = append(f.closed, section)
	return nil
}

func (f *fakeService) ToggleTheme(context.Context, dashboard.ViewerContext) (dashboard.BackgroundPreset, error) {
	if f.failAll {
		return dashboard.BackgroundPreset{}, errors.New("boom")
	}
	f.themes++
	return dashboard.PresetFor(f.themes%2 == 1), nil
}

func (f *fakeService) ToggleEditMode(context.Context, dashboard.ViewerContext) (bool, error) {
	if f.failAll {
		return false, errors.New("boom")
	}
	f.edits++
	return f.edits%2 == 1, nil
}

func (f *fakeService) OnAuthStateChange(_ context.Context, authenticated bool) {
	f.auth = append(f.auth, authenticated)
}

type captureTelemetry struct {
	events []string
}

func (c *captureTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	c.events = append(c.events, event)
}

func TestCloseSectionCommand(t *testing.T) {
	service := &fakeService{}
	telemetry := &captureTelemetry{}
	cmd := NewCloseSectionCommand(service, telemetry)

	input := CloseSectionInput{
		Viewer:  dashboard.ViewerContext{UserID: "user-1"},
		Section: dashboard.SectionBills,
	}
	if err := cmd.Execute(context.Background(), input); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if len(service.closed) != 1 || service.closed[0] != dashboard.SectionBills {
		t.Fatalf("expected Bills closed, got %v", service.closed)
	}
	if len(telemetry.events) != 1 || telemetry.events[0] != "dashboard.command.close_section" {
		t.Fatalf("expected telemetry event, got %v", telemetry.events)
	}
}

func TestCloseSectionCommandRejectsUnknownSection(t *testing.T) {
	cmd := NewCloseSectionCommand(&fakeService{}, nil)
	err := cmd.Execute(context.Background(), CloseSectionInput{Section: dashboard.Section("Crypto")})
	if err == nil {
		t.Fatalf("expected error for unknown section")
	}
}

func TestCloseSectionCommandPropagatesServiceError(t *testing.T) {
	cmd := NewCloseSectionCommand(&fakeService{failAll: true}, nil)
	err := cmd.Execute(context.Background(), CloseSectionInput{Section: dashboard.SectionBills})
	if err == nil {
		t.Fatalf("expected service error propagated")
	}
}

func TestToggleCommands(t *testing.T) {
	service := &fakeService{}
	if err := NewToggleThemeCommand(service, nil).Execute(context.Background(), ToggleThemeInput{}); err != nil {
		t.Fatalf("theme Execute returned error: %v", err)
	}
	if service.themes != 1 {
		t.Fatalf("expected theme toggled once, got %d", service.themes)
	}
	if err := NewToggleEditCommand(service, nil).Execute(context.Background(), ToggleEditInput{}); err != nil {
		t.Fatalf("edit Execute returned error: %v", err)
	}
	if service.edits != 1 {
		t.Fatalf("expected edit toggled once, got %d", service.edits)
	}
}

func TestAuthChangeCommand(t *testing.T) {
	service := &fakeService{}
	cmd := NewAuthChangeCommand(service, nil)
	if err := cmd.Execute(context.Background(), AuthChangeInput{Authenticated: true}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if err := cmd.Execute(context.Background(), AuthChangeInput{Authenticated: false}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if len(service.auth) != 2 || !service.auth[0] || service.auth[1] {
		t.Fatalf("expected true then false forwarded, got %v", service.auth)
	}
}

func TestSavePreferencesCommandSharesControllerStore(t *testing.T) {
	store := dashboard.NewInMemoryPreferenceStore()
	controller := dashboard.NewController(dashboard.ControllerOptions{Preferences: store})
	cmd := NewSavePreferencesCommand(store, nil)
	viewer := dashboard.ViewerContext{UserID: "user-1"}
	ctx := context.Background()

	state := dashboard.CloseSection(dashboard.DefaultUIState(), dashboard.SectionBills)
	state.DarkMode = true
	if err := cmd.Execute(ctx, SavePreferencesInput{Viewer: viewer, State: state}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	// A controller backed by the same store must see the saved state.
	snap, err := controller.Snapshot(ctx, viewer)
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	if !snap.State.DarkMode {
		t.Fatalf("expected dark mode visible through the controller")
	}
	for _, section := range snap.Sections {
		if section.Section == dashboard.SectionBills {
			t.Fatalf("expected Bills omitted after saving preferences")
		}
	}
}

func TestSavePreferencesCommandNormalizes(t *testing.T) {
	store := dashboard.NewInMemoryPreferenceStore()
	cmd := NewSavePreferencesCommand(store, nil)
	viewer := dashboard.ViewerContext{UserID: "user-1"}

	err := cmd.Execute(context.Background(), SavePreferencesInput{
		Viewer: viewer,
		State: dashboard.UIState{
			ActiveSections: []dashboard.Section{
				dashboard.SectionCreditScores,
				dashboard.Section("Crypto"),
				dashboard.SectionBalances,
			},
			DarkMode: true,
		},
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	state, err := store.UIState(context.Background(), viewer)
	if err != nil {
		t.Fatalf("UIState returned error: %v", err)
	}
	if len(state.ActiveSections) != 2 || state.ActiveSections[0] != dashboard.SectionBalances {
		t.Fatalf("expected normalized sections, got %v", state.ActiveSections)
	}
	if !state.DarkMode {
		t.Fatalf("expected dark mode persisted")
	}
}
