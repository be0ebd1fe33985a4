package commands

import (
	"context"
	"errors"

	dashboard "github.com/finboard/go-finboard/components/dashboard"
	gocommand "github.com/goliatone/go-command"
)

// CloseSectionInput identifies the section a viewer wants to dismiss.
type CloseSectionInput struct {
	Viewer  dashboard.ViewerContext `json:"viewer"`
	Section dashboard.Section       `json:"section"`
}

type closeService interface {
	CloseSection(ctx context.Context, viewer dashboard.ViewerContext, section dashboard.Section) error
}

// CloseSectionCommand wraps Controller.CloseSection.
type CloseSectionCommand struct {
	service   closeService
	telemetry Telemetry
}

// NewCloseSectionCommand builds a command instance.
func NewCloseSectionCommand(service closeService, telemetry Telemetry) *CloseSectionCommand {
	return &CloseSectionCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[CloseSectionInput] = (*CloseSectionCommand)(nil)

// Execute removes the section from the viewer's active set.
func (c *CloseSectionCommand) Execute(ctx context.Context, msg CloseSectionInput) error {
	if c.service == nil {
		return errors.New("close section command requires service")
	}
	if !msg.Section.Valid() {
		return errors.New("close section command requires a known section")
	}
	if err := c.service.CloseSection(ctx, msg.Viewer, msg.Section); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.close_section", map[string]any{
		"section": string(msg.Section),
		"user_id": msg.Viewer.UserID,
	})
	return nil
}
