package commands

import (
	"context"
	"errors"

	dashboard "github.com/finboard/go-finboard/components/dashboard"
	gocommand "github.com/goliatone/go-command"
)

// ToggleEditInput identifies the viewer toggling edit mode.
type ToggleEditInput struct {
	Viewer dashboard.ViewerContext `json:"viewer"`
}

type editService interface {
	ToggleEditMode(ctx context.Context, viewer dashboard.ViewerContext) (bool, error)
}

// ToggleEditCommand wraps Controller.ToggleEditMode.
type ToggleEditCommand struct {
	service   editService
	telemetry Telemetry
}

// NewToggleEditCommand builds a command instance.
func NewToggleEditCommand(service editService, telemetry Telemetry) *ToggleEditCommand {
	return &ToggleEditCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ToggleEditInput] = (*ToggleEditCommand)(nil)

// Execute flips the viewer's edit mode.
func (c *ToggleEditCommand) Execute(ctx context.Context, msg ToggleEditInput) error {
	if c.service == nil {
		return errors.New("toggle edit command requires service")
	}
	enabled, err := c.service.ToggleEditMode(ctx, msg.Viewer)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.toggle_edit", map[string]any{
		"edit_mode": enabled,
		"user_id":   msg.Viewer.UserID,
	})
	return nil
}
