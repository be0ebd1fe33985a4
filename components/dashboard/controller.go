package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// ControllerOptions configures the dashboard Controller. Every collaborator
// is provided via interface so applications can swap implementations.
type ControllerOptions struct {
	Session     *Session
	Registry    SectionRegistry
	Preferences PreferenceStore
	RefreshHook RefreshHook
	Telemetry   Telemetry
	Activity    *ActivityLog
	Renderer    Renderer
	Template    string
	Logger      *slog.Logger
}

// Controller owns the UI state and the current AppData view, and exposes the
// mutators the presentation layer is wired to.
type Controller struct {
	opts ControllerOptions
}

// NewController builds a Controller with safe defaults.
func NewController(opts ControllerOptions) *Controller {
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	if opts.Preferences == nil {
		opts.Preferences = NewInMemoryPreferenceStore()
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	if opts.Activity == nil {
		opts.Activity = NewActivityLog(0)
	}
	if opts.Template == "" {
		opts.Template = "dashboard.html"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Controller{opts: opts}
}

// OnAuthStateChange forwards the upstream authenticated flag to the session
// state machine.
func (c *Controller) OnAuthStateChange(ctx context.Context, authenticated bool) {
	if c.opts.Session != nil {
		c.opts.Session.OnAuthStateChange(ctx, authenticated)
	}
}

// State returns the viewer's current UI state.
func (c *Controller) State(ctx context.Context, viewer ViewerContext) (UIState, error) {
	return c.opts.Preferences.UIState(ctx, viewer)
}

// CloseSection removes the section from the viewer's active set. Closing an
// already-closed section is a no-op.
func (c *Controller) CloseSection(ctx context.Context, viewer ViewerContext, section Section) error {
	state, err := c.transition(ctx, viewer, func(state UIState) UIState {
		return CloseSection(state, section)
	})
	if err != nil {
		return err
	}
	c.opts.Telemetry.Record(ctx, "dashboard.section.close", map[string]any{
		"section": string(section),
		"user_id": viewer.UserID,
	})
	c.opts.Activity.Record(ActivityEntry{Viewer: viewer.UserID, Action: "closed section", Section: section})
	_ = c.opts.RefreshHook.DashboardUpdated(ctx, Event{Reason: ReasonSectionClosed, Section: section, State: &state})
	return nil
}

// ToggleTheme flips the viewer's dark-mode flag and returns the background
// preset the presentation layer should apply.
func (c *Controller) ToggleTheme(ctx context.Context, viewer ViewerContext) (BackgroundPreset, error) {
	state, err := c.transition(ctx, viewer, ToggleTheme)
	if err != nil {
		return BackgroundPreset{}, err
	}
	preset := PresetFor(state.DarkMode)
	c.opts.Telemetry.Record(ctx, "dashboard.theme.toggle", map[string]any{
		"dark_mode": state.DarkMode,
		"user_id":   viewer.UserID,
	})
	c.opts.Activity.Record(ActivityEntry{Viewer: viewer.UserID, Action: "switched theme", Details: preset.Name})
	_ = c.opts.RefreshHook.DashboardUpdated(ctx, Event{Reason: ReasonThemeToggled, State: &state})
	return preset, nil
}

// ToggleEditMode flips the viewer's edit-mode flag and returns the new value.
func (c *Controller) ToggleEditMode(ctx context.Context, viewer ViewerContext) (bool, error) {
	state, err := c.transition(ctx, viewer, ToggleEditMode)
	if err != nil {
		return false, err
	}
	c.opts.Telemetry.Record(ctx, "dashboard.edit.toggle", map[string]any{
		"edit_mode": state.EditMode,
		"user_id":   viewer.UserID,
	})
	c.opts.Activity.Record(ActivityEntry{Viewer: viewer.UserID, Action: "toggled edit mode"})
	_ = c.opts.RefreshHook.DashboardUpdated(ctx, Event{Reason: ReasonEditToggled, State: &state})
	return state.EditMode, nil
}

func (c *Controller) transition(ctx context.Context, viewer ViewerContext, apply func(UIState) UIState) (UIState, error) {
	state, err := c.opts.Preferences.UIState(ctx, viewer)
	if err != nil {
		return UIState{}, err
	}
	state = NormalizeUIState(apply(state))
	if err := c.opts.Preferences.SaveUIState(ctx, viewer, state); err != nil {
		return UIState{}, err
	}
	return state, nil
}

// SectionPayload is the render model for one mounted section.
type SectionPayload struct {
	Code     string      `json:"code"`
	Section  Section     `json:"section"`
	Name     string      `json:"name"`
	Icon     string      `json:"icon,omitempty"`
	Closable bool        `json:"closable"`
	Data     SectionData `json:"data,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// Snapshot is the full dashboard view handed to transports: session status,
// UI state, the viewport background, and one payload per active section.
type Snapshot struct {
	SessionState string           `json:"session_state"`
	Loading      bool             `json:"loading"`
	State        UIState          `json:"state"`
	Background   BackgroundPreset `json:"background"`
	Sections     []SectionPayload `json:"sections"`
}

// Snapshot resolves the viewer's dashboard. Inactive sections are omitted
// entirely; mounted sections carry a close affordance flag while edit mode is
// on. A provider error degrades that one section, not the snapshot.
func (c *Controller) Snapshot(ctx context.Context, viewer ViewerContext) (Snapshot, error) {
	state, err := c.opts.Preferences.UIState(ctx, viewer)
	if err != nil {
		return Snapshot{}, err
	}
	snap := Snapshot{
		State:      state,
		Background: PresetFor(state.DarkMode),
	}
	var app *AppData
	if c.opts.Session != nil {
		snap.SessionState = c.opts.Session.State().String()
		app = c.opts.Session.Data()
	} else {
		snap.SessionState = StateUnauthenticated.String()
	}
	snap.Loading = app == nil

	for _, section := range state.ActiveSections {
		payload, ok := c.resolveSection(ctx, viewer, section, state, app)
		if !ok {
			continue
		}
		snap.Sections = append(snap.Sections, payload)
	}
	c.opts.Telemetry.Record(ctx, "dashboard.snapshot.resolve", map[string]any{
		"user_id":  viewer.UserID,
		"sections": len(snap.Sections),
	})
	return snap, nil
}

var errSectionInactive = errors.New("dashboard: section is not active")

// SectionView resolves a single section for the viewer. Requesting an
// inactive section renders nothing and reports an error.
func (c *Controller) SectionView(ctx context.Context, viewer ViewerContext, section Section) (SectionPayload, error) {
	state, err := c.opts.Preferences.UIState(ctx, viewer)
	if err != nil {
		return SectionPayload{}, err
	}
	if !SectionActive(state, section) {
		return SectionPayload{}, fmt.Errorf("%w: %s", errSectionInactive, section)
	}
	var app *AppData
	if c.opts.Session != nil {
		app = c.opts.Session.Data()
	}
	payload, ok := c.resolveSection(ctx, viewer, section, state, app)
	if !ok {
		return SectionPayload{}, fmt.Errorf("dashboard: no definition registered for section %s", section)
	}
	return payload, nil
}

func (c *Controller) resolveSection(ctx context.Context, viewer ViewerContext, section Section, state UIState, app *AppData) (SectionPayload, bool) {
	def, ok := c.definitionFor(section)
	if !ok {
		return SectionPayload{}, false
	}
	payload := SectionPayload{
		Code:     def.Code,
		Section:  section,
		Name:     def.Name,
		Icon:     def.Icon,
		Closable: state.EditMode,
	}
	provider, ok := c.opts.Registry.Provider(def.Code)
	if !ok || provider == nil {
		return payload, true
	}
	data, err := provider.Fetch(ctx, SectionContext{
		Definition: def,
		App:        app,
		State:      state,
		Viewer:     viewer,
		Settings:   c.settingsFor(def.Code),
	})
	if err != nil {
		c.opts.Logger.Warn("section provider failed", "section", string(section), "error", err)
		c.opts.Telemetry.Record(ctx, "dashboard.section.provider_error", map[string]any{
			"code":  def.Code,
			"error": err.Error(),
		})
		payload.Error = err.Error()
		return payload, true
	}
	payload.Data = data
	return payload, true
}

func (c *Controller) definitionFor(section Section) (SectionDefinition, bool) {
	for _, def := range c.opts.Registry.Definitions() {
		if def.Section == section {
			return def, true
		}
	}
	return SectionDefinition{}, false
}

func (c *Controller) settingsFor(code string) map[string]any {
	type settingsSource interface {
		Settings(code string) (map[string]any, bool)
	}
	if src, ok := c.opts.Registry.(settingsSource); ok {
		if settings, found := src.Settings(code); found {
			return settings
		}
	}
	return nil
}

// Activity returns the recent UI activity entries, newest first.
func (c *Controller) Activity(limit int) []ActivityEntry {
	return c.opts.Activity.Recent(limit)
}

// RenderTemplate renders the dashboard page for the viewer into out.
func (c *Controller) RenderTemplate(ctx context.Context, viewer ViewerContext, out io.Writer) error {
	if c.opts.Renderer == nil {
		return errors.New("dashboard: controller requires a renderer for HTML output")
	}
	snap, err := c.Snapshot(ctx, viewer)
	if err != nil {
		return err
	}
	_, err = c.opts.Renderer.Render(c.opts.Template, map[string]any{
		"snapshot":   snap,
		"background": snap.Background.Gradient,
		"loading":    snap.Loading,
		"sections":   snap.Sections,
		"edit_mode":  snap.State.EditMode,
		"dark_mode":  snap.State.DarkMode,
	}, out)
	return err
}
