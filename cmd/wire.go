package cmd

import (
	"fmt"

	"agent-reconciler/core/config"
	"agent-reconciler/core/database"
	"agent-reconciler/core/events"
	"agent-reconciler/core/logger"
	"agent-reconciler/core/storage"
	"agent-reconciler/feature/comparison"
	"agent-reconciler/feature/inventory"
	"agent-reconciler/feature/nessus"
	"agent-reconciler/feature/netbox"

	"go.uber.org/zap"
)

// env bundles what every command needs.
type env struct {
	cfg     *config.Config
	logger  *zap.Logger
	nessus  *nessus.Service
	netbox  *netbox.Service
	service *comparison.Service
	closers []func()
}

// Close releases connections in reverse order of creation.
func (r *env) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
	_ = r.logger.Sync()
}

// setup loads configuration and wires the comparison service. The
// archive, history and events are wired only for long-lived or recording
// commands; their failures are logged and leave them disabled.
func setup(withSideEffects bool) (*env, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	r := &env{cfg: cfg, logger: l}

	nc, err := nessus.NewClient(cfg.Nessus)
	if err != nil {
		return nil, fmt.Errorf("invalid nessus configuration: %w", err)
	}
	r.nessus = nessus.NewService(nc, cfg.Nessus, l)

	nb, err := netbox.NewClient(cfg.Netbox)
	if err != nil {
		return nil, fmt.Errorf("invalid netbox configuration: %w", err)
	}
	r.netbox = netbox.NewService(nb, l)

	deps := comparison.Deps{
		Agents: r.nessus,
		Infra:  r.netbox,
		Store:  inventory.NewStore(cfg.Output.Dir),
		Output: cfg.Output,
		Config: cfg.Comparison,
		Logger: l,
	}
	if withSideEffects {
		r.wireSideEffects(&deps)
	}
	r.service = comparison.NewService(deps)
	return r, nil
}

func (r *env) wireSideEffects(deps *comparison.Deps) {
	cfg, l := r.cfg, r.logger

	if cfg.Storage.Enabled {
		if client, err := storage.NewClient(cfg.Storage); err != nil {
			l.Warn("Object storage disabled", zap.Error(err))
		} else {
			deps.Archive = storage.NewArchive(client, cfg.Storage, l)
		}
	}

	if cfg.Database.Enabled {
		db, err := database.Connect(cfg.Database)
		if err != nil {
			l.Warn("Optional database connection failed", zap.Error(err))
		} else if hist, err := comparison.NewHistory(db, cfg.Database.AutoMigrate); err != nil {
			l.Warn("Run history disabled", zap.Error(err))
		} else {
			deps.History = hist
			l.Info("Connected to history database", zap.String("driver", cfg.Database.Driver))
		}
		if db != nil {
			r.closers = append(r.closers, func() {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			})
		}
	}

	pub, err := events.New(cfg.Events, l)
	if err != nil {
		l.Warn("Event publishing disabled", zap.Error(err))
		pub = events.Nop{}
	}
	deps.Events = pub
	r.closers = append(r.closers, func() {
		if err := pub.Close(); err != nil {
			l.Warn("Failed to close event publisher", zap.Error(err))
		}
	})
}
