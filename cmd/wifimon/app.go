package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"wifimon/internal/adapter"
	"wifimon/internal/config"
	"wifimon/internal/logger"
	"wifimon/internal/repository/sqlite"
	"wifimon/internal/runner"
	"wifimon/internal/service"
)

// fallbackInterface is used when detection fails; it is the built-in WiFi
// device on current Macs
const fallbackInterface = "en0"

// app holds the wiring shared by all commands
type app struct {
	cfg     *config.Config
	cfgPath string
	log     zerolog.Logger

	run      runner.Runner
	registry *adapter.Registry
	bus      *service.EventBus
	scans    *service.ScanService
	history  *sqlite.Repository
}

func loadConfig() (*config.Config, string, error) {
	if cfgFile != "" {
		return config.LoadFromPath(cfgFile)
	}
	return config.Load()
}

func newApp(ctx context.Context) (*app, error) {
	cfg, path, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
		cfg.Log.Debug = false
	}
	if err := logger.Init(cfg.Log); err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		cfgPath: path,
		log:     logger.WithComponent("wifimon"),
		run:     runner.NewExecRunner(logger.WithComponent("runner")),
		bus:     service.NewEventBus(),
	}
	if path != "" {
		a.log.Debug().Str("path", path).Msg("Config loaded")
	}

	iface, err := a.resolveInterface(ctx)
	if err != nil {
		return nil, err
	}

	a.registry = adapter.NewRegistry(a.run, adapter.RegistryOptions{
		DefaultTimeout: cfg.Scan.SourceTimeout.Duration(),
		MaxConcurrent:  cfg.Scan.MaxConcurrent,
	}, logger.WithComponent("registry"))

	airport := cfg.AirportPath
	if airport == "" {
		airport = adapter.DefaultAirportPath
	}
	sources := []adapter.Source{
		adapter.NewConnectionSource(airport),
		adapter.NewScanListSource(airport),
		adapter.NewPreferredSource(),
	}
	for _, src := range sources {
		name := src.Name().String()
		if err := a.registry.Register(src, adapter.SourceConfig{
			Enabled: cfg.SourceEnabled(name),
			Timeout: cfg.SourceTimeout(name),
		}); err != nil {
			return nil, fmt.Errorf("register source %s: %w", name, err)
		}
	}

	a.scans, err = service.NewScanService(a.registry, a.bus, service.ScanOptions{Interface: iface}, logger.WithComponent("scan"))
	if err != nil {
		return nil, fmt.Errorf("create scan service: %w", err)
	}

	return a, nil
}

func (a *app) resolveInterface(ctx context.Context) (string, error) {
	if ifaceFlag != "" {
		return ifaceFlag, nil
	}
	if a.cfg.Interface != "" {
		return a.cfg.Interface, nil
	}

	iface, err := adapter.DetectInterface(ctx, a.run)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		a.log.Warn().Err(err).Str("interface", fallbackInterface).Msg("WiFi interface detection failed, using fallback")
		return fallbackInterface, nil
	}
	a.log.Debug().Str("interface", iface).Msg("WiFi interface detected")
	return iface, nil
}

// openHistory opens the scan history when history.path is set
func (a *app) openHistory() error {
	if a.cfg.History.Path == "" || a.history != nil {
		return nil
	}
	repo, err := sqlite.New(a.cfg.History.Path)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	a.history = repo
	a.log.Debug().Str("path", a.cfg.History.Path).Msg("History opened")
	return nil
}

func (a *app) credentials() *service.CredentialService {
	store := adapter.NewKeychain(a.run, a.cfg.Credential.Timeout.Duration())

	var recorder service.AccessRecorder
	if a.history != nil {
		recorder = a.history
	}
	return service.NewCredentialService(store, recorder, a.bus, logger.WithComponent("credential"))
}

// record saves a completed scan and prunes old ones
func (a *app) record(ctx context.Context, id string) {
	if a.history == nil {
		return
	}
	latest := a.scans.Latest()
	if latest == nil || latest.ID() != id {
		// superseded before it could be saved
		return
	}
	if err := a.history.SaveScan(ctx, latest); err != nil {
		a.log.Error().Err(err).Str("scan_id", id).Msg("Failed to save scan")
		return
	}
	if n, err := a.history.Prune(ctx, a.cfg.History.Keep); err != nil {
		a.log.Error().Err(err).Msg("Failed to prune history")
	} else if n > 0 {
		a.log.Debug().Int64("pruned", n).Msg("History pruned")
	}
}

func (a *app) Close() {
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			a.log.Error().Err(err).Msg("Failed to close history")
		}
	}
}
