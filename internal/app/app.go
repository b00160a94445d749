package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/iihf-fantasy/internal/config"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/fantasy"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/store"
	"github.com/riskibarqy/iihf-fantasy/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/iihf-fantasy/internal/infrastructure/repository/sqlstore"
	"github.com/riskibarqy/iihf-fantasy/internal/interfaces/httpapi"
	"github.com/riskibarqy/iihf-fantasy/internal/interfaces/scheduler"
	basecache "github.com/riskibarqy/iihf-fantasy/internal/platform/cache"
	idgen "github.com/riskibarqy/iihf-fantasy/internal/platform/id"
	"github.com/riskibarqy/iihf-fantasy/internal/platform/logging"
	"github.com/riskibarqy/iihf-fantasy/internal/usecase"
)

// Services is every usecase service built over one store.
type Services struct {
	Players   *usecase.PlayerService
	Matches   *usecase.MatchService
	Users     *usecase.UserService
	Lineups   *usecase.LineupService
	Scoring   *usecase.ScoringService
	Ingestion *usecase.IngestionService
	Jobs      *usecase.JobService
}

// NewServices wires the services over st. Standings are cached for
// CACHE_TTL unless the cache is disabled.
func NewServices(cfg config.Config, st store.Store, logger *logging.Logger) Services {
	var standings *basecache.Store
	if cfg.CacheEnabled {
		standings = basecache.NewStore(cfg.CacheTTL)
	}

	lineups := usecase.NewLineupService(st, fantasy.DefaultSlotLimits(), logger)
	scoringSvc := usecase.NewScoringService(st, scoring.DefaultRules(), standings, logger)

	return Services{
		Players:   usecase.NewPlayerService(st, cfg.ChampionshipYear),
		Matches:   usecase.NewMatchService(st, cfg.FeedLocation),
		Users:     usecase.NewUserService(st, idgen.NewUUIDGenerator(), validator.New(), scoringSvc, logger),
		Lineups:   lineups,
		Scoring:   scoringSvc,
		Ingestion: usecase.NewIngestionService(st, cfg.ImportWorkers, logger),
		Jobs: usecase.NewJobService(st, lineups, scoringSvc, usecase.JobConfig{
			ScoringWindow: cfg.SchedulerScoringWindow,
		}, logger),
	}
}

// App owns the database handle and everything built on it.
type App struct {
	cfg      config.Config
	logger   *logging.Logger
	db       *sqlx.DB
	Store    store.Store
	Services Services
}

// New opens the database named by cfg.DBURL, applies migrations when
// DB_AUTO_MIGRATE is set, and wires the services.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	target, err := parseDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	if err != nil {
		return nil, err
	}

	db, err := openDB(ctx, target)
	if err != nil {
		return nil, err
	}

	if cfg.DBAutoMigrate {
		if err := sqlstore.Migrate(db.DB, target.Driver); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
		logger.Info("database migrated", "driver", target.Driver, "db", target.Name)
	}

	var st store.Store = sqlstore.New(db)
	if cfg.CacheEnabled {
		st = cache.NewStore(st, basecache.NewStore(cfg.CacheTTL))
	}

	logger.Info("database ready", "driver", target.Driver, "db", target.Name, "cache_enabled", cfg.CacheEnabled)

	return &App{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		Store:    st,
		Services: NewServices(cfg, st, logger),
	}, nil
}

func (a *App) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

// NewRouter builds the REST API over services.
func NewRouter(cfg config.Config, services Services, logger *logging.Logger) http.Handler {
	handler := httpapi.NewHandler(
		httpapi.ChampionshipInfo{Year: cfg.ChampionshipYear, URL: cfg.ChampionshipURL},
		services.Players,
		services.Matches,
		services.Users,
		services.Lineups,
		services.Scoring,
		services.Ingestion,
		services.Jobs,
		logger,
	)
	return httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins, cfg.InternalJobToken)
}

func (a *App) HTTPServer() (*http.Server, error) {
	if a.cfg.HTTPAddr == "" {
		return nil, errors.New("http server addr cannot be empty")
	}

	return &http.Server{
		Addr:         a.cfg.HTTPAddr,
		Handler:      NewRouter(a.cfg, a.Services, a.logger),
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
	}, nil
}

// Scheduler returns nil when SCHEDULER_ENABLED is off.
func (a *App) Scheduler() (*scheduler.Scheduler, error) {
	if !a.cfg.SchedulerEnabled {
		return nil, nil
	}
	return scheduler.New(a.Services.Jobs, scheduler.Config{
		LockSpec:    a.cfg.SchedulerLockSpec,
		ScoringSpec: a.cfg.SchedulerScoringSpec,
		Location:    a.cfg.FeedLocation,
	}, a.logger)
}
