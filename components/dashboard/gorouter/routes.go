package gorouter

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	router "github.com/goliatone/go-router"

	"github.com/finboard/go-finboard/components/dashboard"
	"github.com/finboard/go-finboard/components/dashboard/commands"
	"github.com/finboard/go-finboard/components/dashboard/httpapi"
	"github.com/finboard/go-finboard/components/dashboard/queries"
)

// ViewerResolver converts a router.Context into a dashboard.ViewerContext.
type ViewerResolver func(router.Context) dashboard.ViewerContext

// Config wires go-router with the dashboard controller, commands, and hooks.
type Config[T any] struct {
	Router         router.Router[T]
	Controller     *dashboard.Controller
	API            httpapi.Executor
	Broadcast      *dashboard.BroadcastHook
	ViewerResolver ViewerResolver
	BasePath       string
	Routes         RouteConfig
}

// RouteConfig customizes the relative paths used for dashboard endpoints.
type RouteConfig struct {
	HTML        string
	State       string
	Section     string
	CloseSect   string
	ThemeToggle string
	EditToggle  string
	AuthChange  string
	Preferences string
	Activity    string
	WebSocket   string
}

// Register mounts dashboard routes (HTML, JSON, REST, WebSocket) on a
// go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := cfg.routes()
	base := cfg.BasePath
	if base == "" {
		base = "/dashboard"
	}
	viewerResolver := cfg.ViewerResolver
	if viewerResolver == nil {
		viewerResolver = defaultViewerResolver
	}

	// Reads dispatch through the query layer, mirroring how the POST
	// handlers go through the commands.
	snapshots := queries.NewSnapshotQuery(cfg.Controller)
	sections := queries.NewSectionViewQuery(cfg.Controller)

	group := cfg.Router.Group(base)

	group.Get(routes.HTML, router.WrapHandler(func(ctx router.Context) error {
		viewer := viewerResolver(ctx)
		var buf bytes.Buffer
		if err := cfg.Controller.RenderTemplate(ctx.Context(), viewer, &buf); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))

	group.Get(routes.State, router.WrapHandler(func(ctx router.Context) error {
		input := queries.SnapshotInput{Viewer: viewerResolver(ctx)}
		snap, err := snapshots.Query(ctx.Context(), input)
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, snap)
	}))

	group.Get(routes.Section, router.WrapHandler(func(ctx router.Context) error {
		input := queries.SectionViewInput{
			Viewer:  viewerResolver(ctx),
			Section: dashboard.Section(ctx.Param("section")),
		}
		payload, err := sections.Query(ctx.Context(), input)
		if err != nil {
			return respondError(ctx, http.StatusNotFound, err)
		}
		return ctx.JSON(http.StatusOK, payload)
	}))

	group.Get(routes.Activity, router.WrapHandler(func(ctx router.Context) error {
		return ctx.JSON(http.StatusOK, cfg.Controller.Activity(0))
	}))

	if cfg.API != nil {
		registerAPI(group, cfg.API, viewerResolver, routes)
	}

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}

	return nil
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, resolver ViewerResolver, routes RouteConfig) {
	r.Post(routes.CloseSect, router.WrapHandler(func(ctx router.Context) error {
		section := dashboard.Section(ctx.Param("section"))
		if section == "" {
			return respondError(ctx, http.StatusBadRequest, errors.New("section is required"))
		}
		input := commands.CloseSectionInput{Viewer: resolver(ctx), Section: section}
		if err := api.CloseSection(ctx.Context(), input); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "closed"})
	}))

	r.Post(routes.ThemeToggle, router.WrapHandler(func(ctx router.Context) error {
		if err := api.ToggleTheme(ctx.Context(), commands.ToggleThemeInput{Viewer: resolver(ctx)}); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "toggled"})
	}))

	r.Post(routes.EditToggle, router.WrapHandler(func(ctx router.Context) error {
		if err := api.ToggleEdit(ctx.Context(), commands.ToggleEditInput{Viewer: resolver(ctx)}); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "toggled"})
	}))

	r.Post(routes.AuthChange, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.AuthChangeInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.AuthChange(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "accepted"})
	}))

	r.Post(routes.Preferences, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.SavePreferencesInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		payload.Viewer = resolver(ctx)
		if err := api.SavePreferences(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "saved"})
	}))
}

func registerWebSocket[T any](r router.Router[T], hook *dashboard.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func defaultViewerResolver(ctx router.Context) dashboard.ViewerContext {
	var viewer dashboard.ViewerContext
	if v, ok := ctx.Locals("user_id").(string); ok {
		viewer.UserID = v
	}
	if roles, ok := ctx.Locals("roles").([]string); ok {
		viewer.Roles = roles
	}
	viewer.Locale = inferLocale(ctx)
	return viewer
}

func inferLocale(ctx router.Context) string {
	if locale, ok := ctx.Locals("locale").(string); ok && locale != "" {
		return locale
	}
	if locale := strings.TrimSpace(ctx.Query("locale")); locale != "" {
		return strings.ToLower(locale)
	}
	if header := ctx.Header("Accept-Language"); header != "" {
		if lang := parseAcceptLanguage(header); lang != "" {
			return lang
		}
	}
	return ""
}

func parseAcceptLanguage(header string) string {
	for _, token := range strings.Split(header, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if idx := strings.Index(token, ";"); idx >= 0 {
			token = token[:idx]
		}
		if token != "" {
			return strings.ToLower(token)
		}
	}
	return ""
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func (cfg Config[T]) routes() RouteConfig {
	return defaultRouteConfig(cfg.Routes)
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.HTML == "" {
		routes.HTML = "/"
	}
	if routes.State == "" {
		routes.State = "/state"
	}
	if routes.Section == "" {
		routes.Section = "/sections/:section"
	}
	if routes.CloseSect == "" {
		routes.CloseSect = "/sections/:section/close"
	}
	if routes.ThemeToggle == "" {
		routes.ThemeToggle = "/theme/toggle"
	}
	if routes.EditToggle == "" {
		routes.EditToggle = "/edit/toggle"
	}
	if routes.AuthChange == "" {
		routes.AuthChange = "/auth/state"
	}
	if routes.Preferences == "" {
		routes.Preferences = "/preferences"
	}
	if routes.Activity == "" {
		routes.Activity = "/activity"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/ws"
	}
	return routes
}
