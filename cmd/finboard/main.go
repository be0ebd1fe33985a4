package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/finboard/go-finboard/components/dashboard"
	"github.com/finboard/go-finboard/components/dashboard/commands"
	"github.com/finboard/go-finboard/components/dashboard/gorouter"
	"github.com/finboard/go-finboard/components/dashboard/httpapi"
	"github.com/finboard/go-finboard/pkg/auth"
	"github.com/finboard/go-finboard/pkg/bankapi"
)

type cli struct {
	Serve    serveCmd    `cmd:"" help:"Run the finance dashboard server."`
	Sections sectionsCmd `cmd:"" help:"List the registered dashboard sections."`
}

func main() {
	ctx := kong.Parse(&cli{},
		kong.Description("Personal finance dashboard server and tooling."),
		kong.UsageOnError(),
	)
	err := ctx.Run(context.Background())
	ctx.FatalIfErrorf(err)
}

type serveCmd struct {
	Config  string `default:"finboard.yaml" type:"path" help:"Path to the YAML configuration file."`
	EnvFile string `default:".env" type:"path" help:"Optional dotenv file with credentials."`
}

type serverConfig struct {
	Server struct {
		Address  string `yaml:"address"`
		BasePath string `yaml:"base_path"`
	} `yaml:"server"`
	BankAPI struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"bank_api"`
	Auth struct {
		TokenURL string `yaml:"token_url"`
		Audience string `yaml:"audience"`
		Scope    string `yaml:"scope"`
	} `yaml:"auth"`
	Manifest string `yaml:"manifest"`
}

func loadConfig(path, envFile string) (serverConfig, error) {
	// Missing dotenv files are fine; credentials may come from the process env.
	_ = godotenv.Load(envFile)

	var cfg serverConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("finboard: read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("finboard: parse config %s: %w", path, err)
	}
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.BasePath == "" {
		cfg.Server.BasePath = "/dashboard"
	}
	if cfg.Auth.Scope == "" {
		cfg.Auth.Scope = dashboard.DefaultScope
	}
	return cfg, nil
}

func (cmd *serveCmd) Run(ctx context.Context) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := loadConfig(cmd.Config, cmd.EnvFile)
	if err != nil {
		return err
	}

	tokenSource, err := auth.NewClientCredentialsSource(auth.Config{
		TokenURL:     cfg.Auth.TokenURL,
		ClientID:     os.Getenv("FINBOARD_CLIENT_ID"),
		ClientSecret: os.Getenv("FINBOARD_CLIENT_SECRET"),
	})
	if err != nil {
		return err
	}

	client, err := bankapi.NewClient(bankapi.Config{BaseURL: cfg.BankAPI.BaseURL})
	if err != nil {
		return err
	}

	session, err := dashboard.NewSession(dashboard.SessionOptions{
		TokenSource: tokenSource,
		Client:      client,
		Validator:   dashboard.NewSchemaPayloadValidator(),
		Logger:      logger,
		Audience:    cfg.Auth.Audience,
		Scope:       cfg.Auth.Scope,
		StrictDates: true,
	})
	if err != nil {
		return err
	}

	registry := dashboard.NewRegistry()
	if cfg.Manifest != "" {
		if _, err := registry.LoadManifestFile(cfg.Manifest, dashboard.NewJSONSchemaValidator()); err != nil {
			return err
		}
	}

	renderer, err := dashboard.NewTemplateRenderer()
	if err != nil {
		return err
	}

	hook := dashboard.NewBroadcastHook()
	// One store backs the controller and the preferences command; writes
	// through either path are visible to both.
	prefs := dashboard.NewInMemoryPreferenceStore()
	controller := dashboard.NewController(dashboard.ControllerOptions{
		Session:     session,
		Registry:    registry,
		Preferences: prefs,
		RefreshHook: hook,
		Renderer:    renderer,
		Logger:      logger,
	})

	executor := &httpapi.CommandExecutor{
		Close:       commands.NewCloseSectionCommand(controller, nil),
		Theme:       commands.NewToggleThemeCommand(controller, nil),
		Edit:        commands.NewToggleEditCommand(controller, nil),
		Auth:        commands.NewAuthChangeCommand(controller, nil),
		Preferences: commands.NewSavePreferencesCommand(prefs, nil),
	}

	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:     server.Router(),
		Controller: controller,
		API:        executor,
		Broadcast:  hook,
		BasePath:   cfg.Server.BasePath,
	}); err != nil {
		return err
	}

	// The server starts authenticated from its own credentials; the edge kicks
	// off the initial fetch cycle.
	controller.OnAuthStateChange(ctx, true)

	logger.Info("finboard server ready",
		"address", cfg.Server.Address,
		"base_path", cfg.Server.BasePath,
	)
	return server.Serve(cfg.Server.Address)
}

type sectionsCmd struct{}

func (cmd *sectionsCmd) Run(_ context.Context) error {
	registry := dashboard.NewRegistry()
	for _, def := range registry.Definitions() {
		fmt.Fprintf(os.Stdout, "%-40s %-22s %s\n", def.Code, def.Section, def.Description)
	}
	return nil
}
