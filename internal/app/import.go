package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/ZarkoJovanovic1/meine-d-ner-app/internal/adapters/observability"
	"github.com/ZarkoJovanovic1/meine-d-ner-app/internal/domain"
)

type ImportService struct {
	osm   domain.OverpassClient
	repo  domain.ShopRepository
	cache domain.Cache
}

func NewImportService(osm domain.OverpassClient, r domain.ShopRepository, cache domain.Cache) *ImportService {
	return &ImportService{osm: osm, repo: r, cache: cache}
}

type ImportResult struct {
	// Imported counts records actually inserted; Processed counts elements
	// that had usable coordinates, whether or not they were already known.
	Imported  int `json:"imported"`
	Processed int `json:"processed"`
}

// Run performs one fetch-map-upsert pass over box. Repeated runs over the
// same box are idempotent: existing records, including their ratings and
// comments, are never touched. A failure mid-loop aborts the run; upserts
// already committed stay in the store.
func (s *ImportService) Run(ctx context.Context, box domain.BoundingBox) (ImportResult, error) {
	els, err := s.osm.Amenities(ctx, box)
	if err != nil {
		return ImportResult{}, err
	}

	var res ImportResult
	for _, el := range els {
		shop, ok := shopFromElement(el)
		if !ok {
			observability.ObserveImport("skipped")
			continue
		}
		res.Processed++

		inserted, err := s.repo.UpsertImported(ctx, shop)
		if err != nil {
			return res, err
		}
		if inserted {
			res.Imported++
			observability.ObserveImport("inserted")
		} else {
			observability.ObserveImport("existing")
		}
	}

	if res.Imported > 0 && s.cache != nil {
		_ = s.cache.Del(ctx, cacheKeyShops)
	}
	log.Info().
		Int("elements", len(els)).
		Int("processed", res.Processed).
		Int("imported", res.Imported).
		Msg("osm import finished")
	return res, nil
}
