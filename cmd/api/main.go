package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	server "github.com/ZarkoJovanovic1/meine-d-ner-app/internal/adapters/http_server"
	"github.com/ZarkoJovanovic1/meine-d-ner-app/internal/adapters/observability"
	"github.com/ZarkoJovanovic1/meine-d-ner-app/internal/adapters/overpass"
	redisad "github.com/ZarkoJovanovic1/meine-d-ner-app/internal/adapters/redis"
	"github.com/ZarkoJovanovic1/meine-d-ner-app/internal/app"
	"github.com/ZarkoJovanovic1/meine-d-ner-app/internal/shared"
	mongostore "github.com/ZarkoJovanovic1/meine-d-ner-app/internal/storage/mongo"
	"github.com/ZarkoJovanovic1/meine-d-ner-app/web"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// document store
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("mongo.Connect failed")
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal().Err(err).Msg("mongo ping failed")
	}
	log.Info().Msg("document store connection ok")

	repo := mongostore.New(client.Database(cfg.MongoDB))
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	// deps
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	osm, err := overpass.New(cfg.OverpassBase, cfg.OverpassRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("overpass client init failed")
	}
	q := app.NewQueryService(repo, cache, cfg.CacheTTL)
	c := app.NewCommandService(repo, cache)
	imp := app.NewImportService(osm, repo, cache)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, C: c, I: imp})
	srv.Mount("/*", web.Handler())

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
