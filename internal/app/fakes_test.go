package app_test

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/ZarkoJovanovic1/meine-d-ner-app/internal/domain"
)

// ---- fakes ----

// fakeRepo is an in-memory ShopRepository with just enough semantics for the
// service tests: partial updates, appends, and sourceId-keyed upserts.
type fakeRepo struct {
	shops  map[string]domain.Shop
	nextID int
	err    error // when set, every call fails with it
}

func newFakeRepo() *fakeRepo { return &fakeRepo{shops: map[string]domain.Shop{}} }

func (f *fakeRepo) newID() string {
	f.nextID++
	return "id" + strconv.Itoa(f.nextID)
}

func (f *fakeRepo) CreateShop(ctx context.Context, s domain.Shop) (domain.Shop, error) {
	if f.err != nil {
		return domain.Shop{}, f.err
	}
	s.ID = f.newID()
	now := time.Now().UTC()
	s.CreatedAt, s.UpdatedAt = now, now
	f.shops[s.ID] = s
	return s, nil
}

func (f *fakeRepo) UpdateShop(ctx context.Context, id string, p domain.ShopPatch) (domain.Shop, error) {
	if f.err != nil {
		return domain.Shop{}, f.err
	}
	s, ok := f.shops[id]
	if !ok {
		return domain.Shop{}, domain.ErrNotFound
	}
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Location != nil {
		s.Location = *p.Location
	}
	if p.Coordinates != nil {
		s.Coordinates = *p.Coordinates
	}
	if p.Image != nil {
		s.Image = *p.Image
	}
	if p.Ratings != nil {
		s.Ratings = *p.Ratings
	}
	if p.Comments != nil {
		s.Comments = *p.Comments
	}
	s.UpdatedAt = time.Now().UTC()
	f.shops[id] = s
	return s, nil
}

func (f *fakeRepo) DeleteShop(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	delete(f.shops, id)
	return nil
}

func (f *fakeRepo) AddRating(ctx context.Context, id string, stars int) (domain.Shop, error) {
	if f.err != nil {
		return domain.Shop{}, f.err
	}
	s, ok := f.shops[id]
	if !ok {
		return domain.Shop{}, domain.ErrNotFound
	}
	s.Ratings = append(s.Ratings, stars)
	f.shops[id] = s
	return s, nil
}

func (f *fakeRepo) AddComment(ctx context.Context, id string, c domain.Comment) (domain.Shop, error) {
	if f.err != nil {
		return domain.Shop{}, f.err
	}
	s, ok := f.shops[id]
	if !ok {
		return domain.Shop{}, domain.ErrNotFound
	}
	c.ID = f.newID()
	s.Comments = append(s.Comments, c)
	f.shops[id] = s
	return s, nil
}

func (f *fakeRepo) RemoveComment(ctx context.Context, id, commentID string) (domain.Shop, error) {
	if f.err != nil {
		return domain.Shop{}, f.err
	}
	s, ok := f.shops[id]
	if !ok {
		return domain.Shop{}, domain.ErrNotFound
	}
	kept := s.Comments[:0:0]
	for _, c := range s.Comments {
		if c.ID != commentID {
			kept = append(kept, c)
		}
	}
	s.Comments = kept
	f.shops[id] = s
	return s, nil
}

func (f *fakeRepo) UpsertImported(ctx context.Context, s domain.Shop) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, existing := range f.shops {
		if existing.SourceID == s.SourceID {
			return false, nil
		}
	}
	s.ID = f.newID()
	f.shops[s.ID] = s
	return true, nil
}

func (f *fakeRepo) ListShops(ctx context.Context) ([]domain.Shop, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []domain.Shop{}
	for _, s := range f.shops {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeRepo) GetShop(ctx context.Context, id string) (domain.Shop, error) {
	if f.err != nil {
		return domain.Shop{}, f.err
	}
	s, ok := f.shops[id]
	if !ok {
		return domain.Shop{}, domain.ErrNotFound
	}
	return s, nil
}

type fakeCache struct {
	store map[string][]byte
	dels  int
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.dels++
	delete(c.store, key)
	return nil
}

type fakeOSM struct {
	elements []domain.OSMElement
	err      error
	calls    int
}

func (f *fakeOSM) Amenities(ctx context.Context, box domain.BoundingBox) ([]domain.OSMElement, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.elements, nil
}
