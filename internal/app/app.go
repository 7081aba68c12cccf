package app

import (
	"context"
	"fmt"

	"bulkcat/internal/authz"
	"bulkcat/internal/config"
	"bulkcat/internal/services"
	"bulkcat/internal/store"
	"bulkcat/internal/store/primary"
	"bulkcat/internal/store/sqlite"

	log "github.com/sirupsen/logrus"
)

type App struct {
	Config    *config.Config
	Store     store.Store
	JobClient store.JobClient // nil unless events are enabled
	Nonces    *authz.NonceManager

	// --- Initialized Services ---
	PostService     *services.PostService
	CategoryService *services.CategoryService
	UserService     *services.UserService
	BulkMoveService *services.BulkMoveService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	if err := app.initStore(ctx); err != nil {
		return nil, err
	}
	if err := app.initJobClient(); err != nil {
		app.Close()
		return nil, err
	}
	app.initServices()

	log.Debug("Application initialization complete.")
	return app, nil
}

// NewWithStore builds an App around an already opened store, without events.
func NewWithStore(cfg *config.Config, st store.Store) *App {
	app := &App{Config: cfg, Store: st}
	app.initServices()
	return app
}

func (a *App) initStore(ctx context.Context) error {
	cfg := a.Config.Database
	switch cfg.Driver {
	case "postgres":
		ps, err := primary.NewPrimaryStore(ctx, cfg.DSN)
		if err != nil {
			return fmt.Errorf("init postgres store: %w", err)
		}
		a.Store = ps
	case "sqlite":
		ss, err := sqlite.Open(cfg.DSN)
		if err != nil {
			return fmt.Errorf("init sqlite store: %w", err)
		}
		a.Store = ss
	default:
		return fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
	return nil
}

func (a *App) initJobClient() error {
	if !a.Config.Events.Enabled {
		return nil
	}
	jc, err := store.NewAsynqJobClient(store.RedisOptions{
		Address:  a.Config.Redis.Address,
		Password: a.Config.Redis.Password,
		DB:       a.Config.Redis.DB,
	}, a.Config.Events.Queue)
	if err != nil {
		return fmt.Errorf("init job client: %w", err)
	}
	a.JobClient = jc
	return nil
}

func (a *App) initServices() {
	cfg := a.Config
	a.Nonces = authz.NewNonceManager(cfg.Security.NonceSecret, cfg.Security.NonceTTL)
	a.PostService = services.NewPostService(a.Store, cfg.Listing.DefaultPerPage, cfg.Listing.PerPageOptions)
	a.CategoryService = services.NewCategoryService(a.Store)
	a.UserService = services.NewUserService(a.Store)

	observers := []services.MoveObserver{services.NewLogObserver(log.StandardLogger())}
	if a.JobClient != nil {
		observers = append(observers, services.NewJobObserver(a.JobClient))
	}
	var audit *services.AuditLogger
	if cfg.Logging.Audit {
		audit = services.NewAuditLogger(log.StandardLogger())
	}
	a.BulkMoveService = services.NewBulkMoveService(services.BulkMoveDeps{
		PostStore:     a.Store,
		CategoryStore: a.Store,
		Authorizer:    authz.NewRoleChecker(),
		Observers:     observers,
		Audit:         audit,
	})
}

// Close releases the job client and the store.
func (a *App) Close() {
	if a.JobClient != nil {
		if err := a.JobClient.Close(); err != nil {
			log.Warnf("Error closing job client: %v", err)
		}
	}
	if a.Store != nil {
		a.Store.Close()
	}
}
