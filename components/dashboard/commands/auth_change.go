package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// AuthChangeInput carries the upstream authentication flag.
type AuthChangeInput struct {
	Authenticated bool `json:"authenticated"`
}

type authService interface {
	OnAuthStateChange(ctx context.Context, authenticated bool)
}

// AuthChangeCommand feeds auth transitions into the session state machine. A
// false-to-true edge starts the single in-flight fetch cycle.
type AuthChangeCommand struct {
	service   authService
	telemetry Telemetry
}

// NewAuthChangeCommand builds a command instance.
func NewAuthChangeCommand(service authService, telemetry Telemetry) *AuthChangeCommand {
	return &AuthChangeCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[AuthChangeInput] = (*AuthChangeCommand)(nil)

// Execute forwards the new authentication state.
func (c *AuthChangeCommand) Execute(ctx context.Context, msg AuthChangeInput) error {
	if c.service == nil {
		return errors.New("auth change command requires service")
	}
	c.service.OnAuthStateChange(ctx, msg.Authenticated)
	c.telemetry.Record(ctx, "dashboard.command.auth_change", map[string]any{
		"authenticated": msg.Authenticated,
	})
	return nil
}
