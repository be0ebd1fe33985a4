package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dashboard "github.com/finboard/go-finboard/components/dashboard"
	"github.com/finboard/go-finboard/components/dashboard/commands"
)

type stubExecutor struct {
	closed []dashboard.Section
	auth   []bool
	err    error
}

func (s *stubExecutor) CloseSection(_ context.Context, input commands.CloseSectionInput) error {
	if s.err != nil {
		return s.err
	}
	s.closed = append(s.closed, input.Section)
	return nil
}

func (s *stubExecutor) ToggleTheme(context.Context, commands.ToggleThemeInput) error { return s.err }

func (s *stubExecutor) ToggleEdit(context.Context, commands.ToggleEditInput) error { return s.err }

func (s *stubExecutor) AuthChange(_ context.Context, input commands.AuthChangeInput) error {
	if s.err != nil {
		return s.err
	}
	s.auth = append(s.auth, input.Authenticated)
	return nil
}

func (s *stubExecutor) SavePreferences(context.Context, commands.SavePreferencesInput) error {
	return s.err
}

func TestHandleCloseSection(t *testing.T) {
	executor := &stubExecutor{}
	handlers := &Handlers{API: executor}
	req := httptest.NewRequest(http.MethodPost, "/dashboard/sections/Bills/close", nil)
	rec := httptest.NewRecorder()

	handlers.HandleCloseSection(rec, req, dashboard.ViewerContext{UserID: "u"}, dashboard.SectionBills)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(executor.closed) != 1 || executor.closed[0] != dashboard.SectionBills {
		t.Fatalf("expected close dispatched, got %v", executor.closed)
	}
}

func TestHandleCloseSectionError(t *testing.T) {
	handlers := &Handlers{API: &stubExecutor{err: errors.New("boom")}}
	req := httptest.NewRequest(http.MethodPost, "/dashboard/sections/Bills/close", nil)
	rec := httptest.NewRecorder()

	handlers.HandleCloseSection(rec, req, dashboard.ViewerContext{}, dashboard.SectionBills)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestHandleAuthChange(t *testing.T) {
	executor := &stubExecutor{}
	handlers := &Handlers{API: executor}
	req := httptest.NewRequest(http.MethodPost, "/dashboard/auth/state", strings.NewReader(`{"authenticated":true}`))
	rec := httptest.NewRecorder()

	handlers.HandleAuthChange(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if len(executor.auth) != 1 || !executor.auth[0] {
		t.Fatalf("expected auth flag forwarded, got %v", executor.auth)
	}
}

func TestHandleAuthChangeBadPayload(t *testing.T) {
	handlers := &Handlers{API: &stubExecutor{}}
	req := httptest.NewRequest(http.MethodPost, "/dashboard/auth/state", strings.NewReader("{"))
	rec := httptest.NewRecorder()

	handlers.HandleAuthChange(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
