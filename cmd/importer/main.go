// The importer seeds the directory from OpenStreetMap in bulk: it splits a
// large bounding box into a tile grid and runs one Overpass import per tile,
// a few tiles at a time. The same upsert path as the HTTP route keeps
// repeated runs idempotent.
package main

import (
	"context"
	"flag"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/semaphore"

	"github.com/ZarkoJovanovic1/meine-d-ner-app/internal/adapters/observability"
	"github.com/ZarkoJovanovic1/meine-d-ner-app/internal/adapters/overpass"
	redisad "github.com/ZarkoJovanovic1/meine-d-ner-app/internal/adapters/redis"
	"github.com/ZarkoJovanovic1/meine-d-ner-app/internal/app"
	"github.com/ZarkoJovanovic1/meine-d-ner-app/internal/domain"
	"github.com/ZarkoJovanovic1/meine-d-ner-app/internal/shared"
	mongostore "github.com/ZarkoJovanovic1/meine-d-ner-app/internal/storage/mongo"
)

func main() {
	south := flag.Float64("south", 47.3, "south bound")
	west := flag.Float64("west", 8.4, "west bound")
	north := flag.Float64("north", 47.5, "north bound")
	east := flag.Float64("east", 8.7, "east bound")
	grid := flag.Int("grid", 2, "split the box into grid x grid tiles")
	flag.Parse()

	ctx := context.Background()
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Floats64("box", []float64{*south, *west, *north, *east}).
		Int("grid", *grid).
		Int("workers", cfg.ImportWorkers).
		Msg("importer starting")

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("mongo.Connect failed")
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		log.Fatal().Err(err).Msg("mongo ping failed")
	}
	defer func() { _ = client.Disconnect(ctx) }()

	repo := mongostore.New(client.Database(cfg.MongoDB))
	if err := repo.EnsureIndexes(connectCtx); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	osm, err := overpass.New(cfg.OverpassBase, cfg.OverpassRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("overpass client init failed")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	imp := app.NewImportService(osm, repo, cache)

	sem := semaphore.NewWeighted(int64(cfg.ImportWorkers))
	var wg sync.WaitGroup
	var mu sync.Mutex
	var total app.ImportResult

	for _, tile := range tiles(domain.BoundingBox{South: *south, West: *west, North: *north, East: *east}, *grid) {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(box domain.BoundingBox) {
			defer wg.Done()
			defer sem.Release(1)

			res, err := imp.Run(ctx, box)
			if err != nil {
				log.Warn().
					Floats64("tile", []float64{box.South, box.West, box.North, box.East}).
					Err(err).Msg("tile import failed")
				return
			}
			mu.Lock()
			total.Imported += res.Imported
			total.Processed += res.Processed
			mu.Unlock()
		}(tile)
	}

	wg.Wait()
	log.Info().
		Int("imported", total.Imported).
		Int("processed", total.Processed).
		Msg("import completed")
}

// tiles cuts box into an n x n grid. Small tiles keep individual Overpass
// queries cheap and let a failed tile be retried alone on the next run.
func tiles(box domain.BoundingBox, n int) []domain.BoundingBox {
	if n < 1 {
		n = 1
	}
	dLat := (box.North - box.South) / float64(n)
	dLng := (box.East - box.West) / float64(n)
	out := make([]domain.BoundingBox, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out = append(out, domain.BoundingBox{
				South: box.South + float64(i)*dLat,
				West:  box.West + float64(j)*dLng,
				North: box.South + float64(i+1)*dLat,
				East:  box.West + float64(j+1)*dLng,
			})
		}
	}
	return out
}
