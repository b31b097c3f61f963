// Command schemad serves cached database schema metadata over HTTP.
//
// It connects to the configured engine, wires the metadata cache (in-memory
// or MinIO-backed), and exposes the schema explorer API.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/larkbyte/dialectdb/internal/cache"
	cacheminio "github.com/larkbyte/dialectdb/internal/cache/minio"
	"github.com/larkbyte/dialectdb/internal/config"
	dbopen "github.com/larkbyte/dialectdb/internal/database/open"
	"github.com/larkbyte/dialectdb/internal/dialect"
	"github.com/larkbyte/dialectdb/internal/logger"
	"github.com/larkbyte/dialectdb/internal/schema"
	"github.com/larkbyte/dialectdb/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.New(nil).Errorf("invalid configuration: %v", err)
		os.Exit(1)
	}

	log := logger.New(&cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, closeBackend, err := dbopen.Open(ctx, &cfg.Database)
	if err != nil {
		log.Errorf("cannot open database backend: %v", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeBackend(); err != nil {
			log.WarnErr("backend close failed", err)
		}
	}()

	store, err := buildStore(ctx, cfg)
	if err != nil {
		log.Errorf("cannot build cache store: %v", err)
		os.Exit(1)
	}

	// Disjoint namespaces keep schema metadata and query results from ever
	// sharing a key, even on the same backing store.
	schemaCache := cache.New(store, "schema", cfg.Cache.Enabled, log)
	queryCache := cache.New(store, "query", cfg.Cache.QueryEnabled, log)

	d := backend.Dialect()
	if cfg.Schema.Dialect != "" {
		d, err = dialect.Parse(cfg.Schema.Dialect)
		if err != nil {
			log.Errorf("invalid configuration: %v", err)
			os.Exit(1)
		}
	}

	contract := schema.NewContract(schema.Options{
		Dialect:       d,
		TablePrefix:   cfg.Schema.TablePrefix,
		DefaultSchema: cfg.Schema.DefaultSchema,
	}, schema.NewStore(backend, schemaCache, log), queryCache)

	srv := server.New(contract, log)

	log.With().
		Str("addr", cfg.Server.Addr).
		Str("dialect", d.String()).
		Str("driver", string(cfg.Database.Driver)).
		Logger().
		Info("schemad listening")

	if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
		log.Errorf("server exited: %v", err)
		os.Exit(1)
	}
}

func buildStore(ctx context.Context, cfg *config.Config) (cache.Store, error) {
	if cfg.Cache.Store == config.StoreMinIO {
		return cacheminio.New(ctx, &cfg.Cache.MinIO)
	}
	return cache.NewMemoryStore(), nil
}
