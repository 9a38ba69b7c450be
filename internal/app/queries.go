package app

import (
	"context"
	"time"

	"github.com/ZarkoJovanovic1/meine-d-ner-app/internal/domain"
)

// cacheKeyShops holds the full shop list; every mutation deletes it.
const cacheKeyShops = "shops:all"

type QueryService struct {
	repo     domain.ShopRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.ShopRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

// ListShops returns every record, unfiltered and unpaginated. The full list
// is small enough to cache as a single blob.
func (s *QueryService) ListShops(ctx context.Context) ([]domain.Shop, error) {
	var shops []domain.Shop
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, cacheKeyShops, &shops); ok {
			return shops, nil
		}
	}
	shops, err := s.repo.ListShops(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, cacheKeyShops, shops, int(s.cacheTTL.Seconds()))
	}
	return shops, nil
}

func (s *QueryService) GetShop(ctx context.Context, id string) (domain.Shop, error) {
	return s.repo.GetShop(ctx, id)
}
