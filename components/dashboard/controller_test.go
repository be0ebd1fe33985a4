package dashboard

import (
	"context"
	"errors"
	"testing"
)

type recordingHook struct {
	events []Event
}

func (h *recordingHook) DashboardUpdated(_ context.Context, event Event) error {
	h.events = append(h.events, event)
	return nil
}

func TestControllerSnapshotDefaults(t *testing.T) {
	controller := NewController(ControllerOptions{Logger: quietLogger()})
	viewer := ViewerContext{UserID: "user-1"}

	snap, err := controller.Snapshot(context.Background(), viewer)
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	if !snap.Loading {
		t.Fatalf("expected loading without session data")
	}
	if snap.SessionState != "unauthenticated" {
		t.Fatalf("expected unauthenticated session state, got %q", snap.SessionState)
	}
	if len(snap.Sections) != len(AllSections()) {
		t.Fatalf("expected %d sections, got %d", len(AllSections()), len(snap.Sections))
	}
	for _, section := range snap.Sections {
		if section.Closable {
			t.Fatalf("expected no close affordance outside edit mode")
		}
	}
	if snap.Background != PresetFor(false) {
		t.Fatalf("expected light background, got %+v", snap.Background)
	}
}

func TestControllerCloseSectionOmitsFromSnapshot(t *testing.T) {
	hook := &recordingHook{}
	controller := NewController(ControllerOptions{RefreshHook: hook, Logger: quietLogger()})
	viewer := ViewerContext{UserID: "user-1"}
	ctx := context.Background()

	if err := controller.CloseSection(ctx, viewer, SectionBills); err != nil {
		t.Fatalf("CloseSection returned error: %v", err)
	}

	snap, err := controller.Snapshot(ctx, viewer)
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	for _, section := range snap.Sections {
		if section.Section == SectionBills {
			t.Fatalf("expected Bills omitted from snapshot")
		}
	}
	if len(hook.events) != 1 || hook.events[0].Reason != ReasonSectionClosed {
		t.Fatalf("expected section_closed event, got %#v", hook.events)
	}

	entries := controller.Activity(1)
	if len(entries) != 1 || entries[0].Section != SectionBills {
		t.Fatalf("expected activity entry for Bills, got %#v", entries)
	}
}

func TestControllerMutatorsAcceptAnonymousViewer(t *testing.T) {
	controller := NewController(ControllerOptions{Logger: quietLogger()})
	viewer := ViewerContext{}
	ctx := context.Background()

	if err := controller.CloseSection(ctx, viewer, SectionBills); err != nil {
		t.Fatalf("CloseSection returned error: %v", err)
	}
	if _, err := controller.ToggleTheme(ctx, viewer); err != nil {
		t.Fatalf("ToggleTheme returned error: %v", err)
	}
	if _, err := controller.ToggleEditMode(ctx, viewer); err != nil {
		t.Fatalf("ToggleEditMode returned error: %v", err)
	}

	snap, err := controller.Snapshot(ctx, viewer)
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	if !snap.State.DarkMode || !snap.State.EditMode {
		t.Fatalf("expected toggles persisted for anonymous viewer, got %+v", snap.State)
	}
	for _, section := range snap.Sections {
		if section.Section == SectionBills {
			t.Fatalf("expected Bills omitted for anonymous viewer")
		}
	}
}

func TestControllerToggleThemeReturnsPreset(t *testing.T) {
	controller := NewController(ControllerOptions{Logger: quietLogger()})
	viewer := ViewerContext{UserID: "user-1"}
	ctx := context.Background()

	preset, err := controller.ToggleTheme(ctx, viewer)
	if err != nil {
		t.Fatalf("ToggleTheme returned error: %v", err)
	}
	if preset != PresetFor(true) {
		t.Fatalf("expected dark preset after toggle, got %+v", preset)
	}

	preset, err = controller.ToggleTheme(ctx, viewer)
	if err != nil {
		t.Fatalf("ToggleTheme returned error: %v", err)
	}
	if preset != PresetFor(false) {
		t.Fatalf("expected light preset after second toggle, got %+v", preset)
	}
}

func TestControllerEditModeEnablesCloseAffordance(t *testing.T) {
	controller := NewController(ControllerOptions{Logger: quietLogger()})
	viewer := ViewerContext{UserID: "user-1"}
	ctx := context.Background()

	enabled, err := controller.ToggleEditMode(ctx, viewer)
	if err != nil {
		t.Fatalf("ToggleEditMode returned error: %v", err)
	}
	if !enabled {
		t.Fatalf("expected edit mode on")
	}

	snap, err := controller.Snapshot(ctx, viewer)
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	for _, section := range snap.Sections {
		if !section.Closable {
			t.Fatalf("expected close affordance in edit mode for %s", section.Section)
		}
	}
}

func TestControllerProviderErrorDegradesOneSection(t *testing.T) {
	registry := NewRegistry()
	code := SectionCode(SectionBalances)
	if err := registry.RegisterProvider(code, ProviderFunc(func(context.Context, SectionContext) (SectionData, error) {
		return nil, errors.New("upstream exploded")
	})); err != nil {
		t.Fatalf("RegisterProvider returned error: %v", err)
	}
	controller := NewController(ControllerOptions{Registry: registry, Logger: quietLogger()})
	viewer := ViewerContext{UserID: "user-1"}

	snap, err := controller.Snapshot(context.Background(), viewer)
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	if len(snap.Sections) != len(AllSections()) {
		t.Fatalf("expected all sections present, got %d", len(snap.Sections))
	}
	for _, section := range snap.Sections {
		if section.Section == SectionBalances {
			if section.Error == "" {
				t.Fatalf("expected error recorded on Balances payload")
			}
			continue
		}
		if section.Error != "" {
			t.Fatalf("expected %s unaffected, got error %q", section.Section, section.Error)
		}
	}
}

func TestControllerSectionViewRejectsInactive(t *testing.T) {
	controller := NewController(ControllerOptions{Logger: quietLogger()})
	viewer := ViewerContext{UserID: "user-1"}
	ctx := context.Background()

	if err := controller.CloseSection(ctx, viewer, SectionCreditScores); err != nil {
		t.Fatalf("CloseSection returned error: %v", err)
	}
	if _, err := controller.SectionView(ctx, viewer, SectionCreditScores); !errors.Is(err, errSectionInactive) {
		t.Fatalf("expected errSectionInactive, got %v", err)
	}

	payload, err := controller.SectionView(ctx, viewer, SectionBalances)
	if err != nil {
		t.Fatalf("SectionView returned error: %v", err)
	}
	if payload.Section != SectionBalances {
		t.Fatalf("expected Balances payload, got %+v", payload)
	}
}
