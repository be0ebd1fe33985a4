package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/finboard/go-finboard/components/dashboard"
	"github.com/finboard/go-finboard/components/dashboard/commands"
	gocommand "github.com/goliatone/go-command"
)

// Executor is the command surface transports dispatch through.
type Executor interface {
	CloseSection(ctx context.Context, input commands.CloseSectionInput) error
	ToggleTheme(ctx context.Context, input commands.ToggleThemeInput) error
	ToggleEdit(ctx context.Context, input commands.ToggleEditInput) error
	AuthChange(ctx context.Context, input commands.AuthChangeInput) error
	SavePreferences(ctx context.Context, input commands.SavePreferencesInput) error
}

// CommandExecutor adapts the shared commands to the Executor interface.
type CommandExecutor struct {
	Close       gocommand.Commander[commands.CloseSectionInput]
	Theme       gocommand.Commander[commands.ToggleThemeInput]
	Edit        gocommand.Commander[commands.ToggleEditInput]
	Auth        gocommand.Commander[commands.AuthChangeInput]
	Preferences gocommand.Commander[commands.SavePreferencesInput]
}

func (e *CommandExecutor) CloseSection(ctx context.Context, input commands.CloseSectionInput) error {
	return e.Close.Execute(ctx, input)
}

func (e *CommandExecutor) ToggleTheme(ctx context.Context, input commands.ToggleThemeInput) error {
	return e.Theme.Execute(ctx, input)
}

func (e *CommandExecutor) ToggleEdit(ctx context.Context, input commands.ToggleEditInput) error {
	return e.Edit.Execute(ctx, input)
}

func (e *CommandExecutor) AuthChange(ctx context.Context, input commands.AuthChangeInput) error {
	return e.Auth.Execute(ctx, input)
}

func (e *CommandExecutor) SavePreferences(ctx context.Context, input commands.SavePreferencesInput) error {
	return e.Preferences.Execute(ctx, input)
}

// Handlers exposes net/http endpoints backed by shared commands.
type Handlers struct {
	API Executor
}

func (h *Handlers) HandleCloseSection(w http.ResponseWriter, r *http.Request, viewer dashboard.ViewerContext, section dashboard.Section) {
	input := commands.CloseSectionInput{Viewer: viewer, Section: section}
	if err := h.API.CloseSection(r.Context(), input); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleToggleTheme(w http.ResponseWriter, r *http.Request, viewer dashboard.ViewerContext) {
	if err := h.API.ToggleTheme(r.Context(), commands.ToggleThemeInput{Viewer: viewer}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleToggleEdit(w http.ResponseWriter, r *http.Request, viewer dashboard.ViewerContext) {
	if err := h.API.ToggleEdit(r.Context(), commands.ToggleEditInput{Viewer: viewer}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleAuthChange(w http.ResponseWriter, r *http.Request) {
	var payload commands.AuthChangeInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.API.AuthChange(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) HandleSavePreferences(w http.ResponseWriter, r *http.Request, viewer dashboard.ViewerContext) {
	var payload commands.SavePreferencesInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	payload.Viewer = viewer
	if err := h.API.SavePreferences(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
