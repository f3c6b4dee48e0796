// Package app builds the object graph and runs the terminal program.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"postgrip/internal/api"
	"postgrip/internal/cache"
	"postgrip/internal/config"
	"postgrip/internal/domain"
	"postgrip/internal/eventbus"
	"postgrip/internal/logging"
	"postgrip/internal/logic"
	"postgrip/internal/observe"
	"postgrip/internal/query"
	"postgrip/internal/ui"
)

// Version is set at build time with -ldflags
var Version = "dev"

// E2EEnv switches on the ready marker used by the terminal test driver
const E2EEnv = "POSTGRIP_E2E_TEST"

// Options are the command line settings
type Options struct {
	ConfigPath  string
	BaseURL     string
	ReadyMarker bool
	ShowVersion bool
}

// ParseFlags reads options from args
func ParseFlags(args []string) (Options, error) {
	var opts Options
	fs := flag.NewFlagSet("postgrip", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to config file (default: user config dir)")
	fs.StringVar(&opts.ConfigPath, "c", "", "Path to config file (shorthand)")
	fs.StringVar(&opts.BaseURL, "base-url", "", "Override the API base URL")
	fs.BoolVar(&opts.ShowVersion, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return Options{}, err
	}
	opts.ReadyMarker = os.Getenv(E2EEnv) == "1"
	return opts, nil
}

// Main is the entry point shared by the binaries; it returns the exit code
func Main(args []string) int {
	opts, err := ParseFlags(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	if opts.ShowVersion {
		fmt.Printf("postgrip %s\n", Version)
		return 0
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := Run(ctx, opts); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		return 1
	}
	return 0
}

// runtime is the built object graph
type runtime struct {
	cfg     *config.Config
	logger  *logrus.Logger
	bus     eventbus.EventBus
	tel     *observe.Telemetry
	model   *ui.Model
	closers []func(context.Context) error
}

// Run builds everything and blocks until the program exits
func Run(ctx context.Context, opts Options) error {
	rt, err := build(ctx, opts)
	if err != nil {
		return err
	}
	defer rt.close()

	log := logging.Component(rt.logger, "app")
	p := tea.NewProgram(rt.model, tea.WithAltScreen(), tea.WithContext(ctx))
	rt.model.SetProgram(p)

	// Failed queries flash in the header
	unsubscribe := rt.bus.Subscribe(eventbus.EventQueryFailed, func(e eventbus.DomainEvent) {
		p.Send(ui.EventMsg{Event: e})
	})
	defer unsubscribe()

	log.Info("starting UI")
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		log.WithError(err).Error("program exited with error")
		return err
	}
	log.Info("UI exited normally")
	return nil
}

func build(ctx context.Context, opts Options) (*runtime, error) {
	svc := config.NewConfigService()
	if opts.ConfigPath != "" {
		svc = config.NewConfigServiceAt(opts.ConfigPath)
	}

	cfg, created, err := loadOrCreateConfig(svc)
	if err != nil {
		return nil, err
	}
	if opts.BaseURL != "" {
		cfg.API.BaseURL = opts.BaseURL
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	logger, logCloser, err := logging.New(logging.Options{
		Level: cfg.Log.Level,
		File:  cfg.Log.File,
		JSON:  cfg.Log.JSON,
	})
	if err != nil {
		return nil, err
	}

	rt := &runtime{cfg: cfg, logger: logger}
	rt.closers = append(rt.closers, func(context.Context) error { return logCloser.Close() })

	rt.bus = eventbus.New(logger)
	rt.closers = append(rt.closers, func(context.Context) error { rt.bus.Close(); return nil })
	// The bus needs the logger, which needs the config, so the load is announced here
	config.WithBus(svc, rt.bus)
	rt.bus.Publish(eventbus.ConfigLoadedEvent{Path: svc.Path(), BaseURL: cfg.API.BaseURL})

	log := logging.Component(logger, "app")
	log.WithFields(logrus.Fields{
		"path":     svc.Path(),
		"base_url": cfg.API.BaseURL,
		"version":  Version,
	}).Info("config loaded")

	// First run writes the defaults, not env or flag overrides, so the user has a file to edit
	if created {
		if err := svc.Save(config.DefaultConfig()); err != nil {
			log.WithError(err).Warn("failed to save default config")
		}
	}

	rt.bus.Subscribe(eventbus.EventError, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.ErrorEvent); ok {
			log.WithField("message", event.Message).Error("screen crashed")
		}
	})

	rt.tel, err = observe.New(ctx, observe.Options{
		Enabled:     cfg.Telemetry.Enabled,
		File:        cfg.Telemetry.File,
		ServiceName: "postgrip",
		Version:     Version,
	})
	if err != nil {
		log.WithError(err).Warn("telemetry disabled")
		rt.tel = observe.Noop()
	}
	rt.closers = append(rt.closers, rt.tel.Shutdown)

	store, err := rt.cacheStore(ctx, log)
	if err != nil {
		rt.close()
		return nil, err
	}

	apiClient := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout.Duration,
		api.WithRateLimit(cfg.API.RateLimit, cfg.API.Burst),
		api.WithLogger(logging.Component(logger, "api")),
	)

	queryClient := query.NewClient(store,
		query.WithStaleTime(cfg.Query.StaleTime.Duration),
		query.WithCacheTTL(cfg.Query.CacheTTL.Duration),
		query.WithLogger(logging.Component(logger, "query")),
		query.WithBus(rt.bus),
		query.WithTelemetry(rt.tel),
	)

	rt.model = ui.NewModel(ui.Deps{
		Ctx:         ctx,
		Config:      cfg,
		Resources:   query.NewResources(queryClient, apiClient),
		Posts:       logic.NewMemoryStore[domain.Post](),
		Authors:     logic.NewMemoryStore[domain.Author](),
		Bus:         rt.bus,
		Logger:      logger,
		ReadyMarker: opts.ReadyMarker,
	})
	return rt, nil
}

// cacheStore builds the local tier and, when configured, the Redis tier
func (rt *runtime) cacheStore(ctx context.Context, log *logrus.Entry) (cache.Store, error) {
	cfg := rt.cfg
	local := cache.NewMemory(cfg.Query.CacheTTL.Duration, time.Minute)
	if cfg.Cache.Backend != "redis" {
		return cache.NewTiered(local, nil, logging.Component(rt.logger, "cache")), nil
	}

	shared, err := cache.NewRedis(ctx, cache.RedisOptions{
		Address:  cfg.Cache.Redis.Address,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		Prefix:   cfg.Cache.Redis.Prefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Cache.Redis.Address, err)
	}
	rt.closers = append(rt.closers, func(context.Context) error { return shared.Close() })
	log.WithField("address", cfg.Cache.Redis.Address).Info("using redis cache")
	return cache.NewTiered(local, shared, logging.Component(rt.logger, "cache")), nil
}

// close releases resources in reverse order of creation
func (rt *runtime) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](ctx); err != nil && rt.logger != nil {
			rt.logger.WithError(err).Warn("shutdown step failed")
		}
	}
	rt.closers = nil
}

// loadOrCreateConfig loads the config file, reporting whether it did not exist yet
func loadOrCreateConfig(svc config.ConfigService) (*config.Config, bool, error) {
	_, statErr := os.Stat(svc.Path())
	created := errors.Is(statErr, os.ErrNotExist)

	cfg, err := svc.Load()
	if err != nil {
		return nil, false, fmt.Errorf("failed to load config from %s: %w", svc.Path(), err)
	}
	return cfg, created, nil
}
