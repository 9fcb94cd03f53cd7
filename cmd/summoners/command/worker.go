package command

import (
	"context"
	"fmt"

	"github.com/pixil98/go-service"

	"github.com/pixil98/go-summoners/internal/driver"
	"github.com/pixil98/go-summoners/internal/mods"
	"github.com/pixil98/go-summoners/internal/summoners"
	"github.com/pixil98/go-summoners/internal/world"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}
	ctx := context.Background()

	workers := service.WorkerList{}

	// Metrics first so every instrument lands on the exporter
	if cfg.Metrics.Addr != "" {
		ms, err := cfg.Metrics.buildMetricsServer()
		if err != nil {
			return nil, fmt.Errorf("creating metrics server: %w", err)
		}
		workers["metrics"] = ms
	}

	natsServer, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	publisher := cfg.Nats.buildPublisher(natsServer)

	templates, err := cfg.World.Templates.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating template store: %w", err)
	}

	w := cfg.World.buildWorld()
	if err := w.Seed(ctx, templates); err != nil {
		return nil, fmt.Errorf("seeding world: %w", err)
	}

	// A mod that fails to load is disabled by the manager; the world still runs
	modManager := mods.NewManager()
	mod := summoners.NewMod(
		cfg.Settings.buildDocument(),
		w,
		w.Scheduler(),
		world.NewDeathEffects(w, cfg.World.Lifestone),
		world.NewCatalog(templates),
		publisher,
	)
	if err := modManager.Register(ctx, mod); err != nil {
		return nil, fmt.Errorf("registering %s: %w", mod.Key(), err)
	}

	var opts []driver.DriverOpt
	if d, ok := cfg.tickLength(); ok {
		opts = append(opts, driver.WithTickLength(d))
	}
	drv := driver.NewDriver([]driver.Manager{w, modManager}, opts...)

	workers["nats"] = natsServer
	workers["driver"] = drv
	workers["mods"] = modManager

	return workers, nil
}
