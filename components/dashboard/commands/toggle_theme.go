package commands

import (
	"context"
	"errors"

	dashboard "github.com/finboard/go-finboard/components/dashboard"
	gocommand "github.com/goliatone/go-command"
)

// ToggleThemeInput identifies the viewer flipping between light and dark.
type ToggleThemeInput struct {
	Viewer dashboard.ViewerContext `json:"viewer"`
}

type themeService interface {
	ToggleTheme(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.BackgroundPreset, error)
}

// ToggleThemeCommand wraps Controller.ToggleTheme.
type ToggleThemeCommand struct {
	service   themeService
	telemetry Telemetry
}

// NewToggleThemeCommand builds a command instance.
func NewToggleThemeCommand(service themeService, telemetry Telemetry) *ToggleThemeCommand {
	return &ToggleThemeCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ToggleThemeInput] = (*ToggleThemeCommand)(nil)

// Execute flips the viewer's theme.
func (c *ToggleThemeCommand) Execute(ctx context.Context, msg ToggleThemeInput) error {
	if c.service == nil {
		return errors.New("toggle theme command requires service")
	}
	preset, err := c.service.ToggleTheme(ctx, msg.Viewer)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.toggle_theme", map[string]any{
		"preset":  preset.Name,
		"user_id": msg.Viewer.UserID,
	})
	return nil
}
