package core

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/breeew/stellar-api/internal/core/srv"
	"github.com/breeew/stellar-api/internal/store"
	"github.com/breeew/stellar-api/internal/store/memstore"
	"github.com/breeew/stellar-api/internal/store/sqlstore"
	"github.com/breeew/stellar-api/pkg/dataset"
	"github.com/breeew/stellar-api/pkg/utils"
)

type Core struct {
	cfg CoreConfig
	srv *srv.Srv

	stores     func() store.Provider
	httpClient *http.Client

	metrics *Metrics
	Plugins
}

// MustSetupCore wires logging, the store, the dataset and the services.
// opts run after the configured services, they may replace any of them.
func MustSetupCore(cfg CoreConfig, opts ...srv.ApplyFunc) *Core {
	{
		var writer io.Writer = os.Stdout
		if cfg.Log.Path != "" {
			writer = &lumberjack.Logger{
				Filename:   cfg.Log.Path,
				MaxSize:    500, // megabytes
				MaxBackups: 3,
				MaxAge:     28,   //days
				Compress:   true, // disabled by default
			}
		}
		l := slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{
			Level: cfg.Log.SlogLevel(),
		}))
		slog.SetDefault(l)
	}

	if cfg.Security.JWTSecret == "" {
		cfg.Security.JWTSecret = utils.RandomStr(48)
		slog.Warn("security.jwt_secret is empty, sessions will not survive a restart")
	}

	core := &Core{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Second * 30},
		metrics:    NewMetrics("stellar_api", "core"),
	}

	// setup store
	setupStore(core)

	ds, err := dataset.Load(cfg.Dataset.Path)
	if err != nil {
		panic(err)
	}
	slog.Info("Dataset loaded", slog.String("path", cfg.Dataset.Path), slog.Int("total", ds.Total()))

	applies := []srv.ApplyFunc{
		srv.ApplyAI(cfg.AI), // ai provider select
		srv.ApplyScraper(cfg.Scraper, core.httpClient, core.metrics.ObserveScrape),
		srv.ApplySigner(cfg.Security.JWTSecret),
		srv.ApplyDataset(ds),
	}
	core.srv = srv.SetupSrvs(append(applies, opts...)...)

	return core
}

func setupStore(core *Core) {
	switch core.cfg.Store.DriverName() {
	case STORE_DRIVER_MEMORY:
		p := memstore.New()
		core.stores = func() store.Provider {
			return p
		}
	case STORE_DRIVER_POSTGRES:
		getter := sqlstore.MustSetup(core.cfg.Postgres)
		if core.cfg.Postgres.AutoMigrate {
			if err := getter().Install(); err != nil {
				panic(err)
			}
		}
		core.stores = func() store.Provider {
			return getter()
		}
	default:
		panic("Unknown store driver: " + core.cfg.Store.Driver)
	}
}

func (s *Core) Cfg() CoreConfig {
	return s.cfg
}

func (s *Core) Metrics() *Metrics {
	return s.metrics
}

func (s *Core) Store() store.Provider {
	return s.stores()
}

func (s *Core) Srv() *srv.Srv {
	return s.srv
}
