package domain

import "context"

type ShopRepository interface {
	// Write paths
	CreateShop(ctx context.Context, s Shop) (Shop, error)
	UpdateShop(ctx context.Context, id string, p ShopPatch) (Shop, error)
	DeleteShop(ctx context.Context, id string) error
	AddRating(ctx context.Context, id string, stars int) (Shop, error)
	AddComment(ctx context.Context, id string, c Comment) (Shop, error)
	RemoveComment(ctx context.Context, id, commentID string) (Shop, error)
	// UpsertImported inserts s keyed by its SourceID unless a record with the
	// same SourceID already exists; it reports whether a new record was made.
	UpsertImported(ctx context.Context, s Shop) (bool, error)

	// Read paths
	ListShops(ctx context.Context) ([]Shop, error)
	GetShop(ctx context.Context, id string) (Shop, error)
}

type OverpassClient interface {
	// Amenities queries kebab/döner amenities inside box.
	Amenities(ctx context.Context, box BoundingBox) ([]OSMElement, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
