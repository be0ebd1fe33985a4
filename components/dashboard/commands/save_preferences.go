package commands

import (
	"context"
	"errors"

	dashboard "github.com/finboard/go-finboard/components/dashboard"
	gocommand "github.com/goliatone/go-command"
)

// SavePreferencesInput carries a full UI state to persist for a viewer.
type SavePreferencesInput struct {
	Viewer dashboard.ViewerContext `json:"viewer"`
	State  dashboard.UIState       `json:"state"`
}

// SavePreferencesCommand persists viewer UI state through the preference
// store, restoring the section-set invariant first.
type SavePreferencesCommand struct {
	store     dashboard.PreferenceStore
	telemetry Telemetry
}

// NewSavePreferencesCommand builds a command instance.
func NewSavePreferencesCommand(store dashboard.PreferenceStore, telemetry Telemetry) *SavePreferencesCommand {
	return &SavePreferencesCommand{store: store, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SavePreferencesInput] = (*SavePreferencesCommand)(nil)

// Execute validates and saves the state.
func (c *SavePreferencesCommand) Execute(ctx context.Context, msg SavePreferencesInput) error {
	if c.store == nil {
		return errors.New("save preferences command requires store")
	}
	state := dashboard.NormalizeUIState(msg.State)
	if err := c.store.SaveUIState(ctx, msg.Viewer, state); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.save_preferences", map[string]any{
		"user_id":  msg.Viewer.UserID,
		"sections": len(state.ActiveSections),
	})
	return nil
}
