package finboard

import (
	core "github.com/finboard/go-finboard/components/dashboard"
)

// Controller exposes the underlying components/dashboard.Controller type.
type Controller = core.Controller

// ControllerOptions re-export for convenience.
type ControllerOptions = core.ControllerOptions

// Session re-export for convenience.
type Session = core.Session

// SessionOptions re-export for convenience.
type SessionOptions = core.SessionOptions

// NewController proxies to the internal constructor.
func NewController(opts ControllerOptions) *Controller {
	return core.NewController(opts)
}

// NewSession proxies to the internal constructor.
func NewSession(opts SessionOptions) (*Session, error) {
	return core.NewSession(opts)
}
