//go:build integration || !unit

package mongostore_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ZarkoJovanovic1/meine-d-ner-app/internal/domain"
	mongostore "github.com/ZarkoJovanovic1/meine-d-ner-app/internal/storage/mongo"
)

func setupRepo(t *testing.T) *mongostore.Repo {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "7.0",
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mongo: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	uri := fmt.Sprintf("mongodb://127.0.0.1:%s", resource.GetPort("27017/tcp"))
	var client *mongo.Client
	if err := pool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		var e error
		client, e = mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if e != nil {
			return e
		}
		return client.Ping(ctx, nil)
	}); err != nil {
		t.Fatalf("connect mongo: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	repo := mongostore.New(client.Database("doenerfinder_test"))
	if err := repo.EnsureIndexes(context.Background()); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}
	return repo
}

func TestRepo_CRUDAndUpsert(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	created, err := repo.CreateShop(ctx, domain.Shop{
		Name:        "Döner King",
		Location:    "Bahnhofstrasse 1, Zürich",
		Coordinates: domain.Coords{Lat: 47.378, Lng: 8.540},
		Source:      domain.SourceManual,
	})
	if err != nil {
		t.Fatalf("CreateShop: %v", err)
	}
	if created.ID == "" || created.Ratings == nil || len(created.Ratings) != 0 {
		t.Fatalf("unexpected created shop: %+v", created)
	}

	// ratings survive a partial update that only touches the name
	if _, err := repo.AddRating(ctx, created.ID, 5); err != nil {
		t.Fatalf("AddRating: %v", err)
	}
	name := "Kebab King"
	updated, err := repo.UpdateShop(ctx, created.ID, domain.ShopPatch{Name: &name})
	if err != nil {
		t.Fatalf("UpdateShop: %v", err)
	}
	if updated.Name != "Kebab King" || len(updated.Ratings) != 1 || updated.Ratings[0] != 5 {
		t.Fatalf("partial update clobbered fields: %+v", updated)
	}
	if updated.Location != "Bahnhofstrasse 1, Zürich" {
		t.Fatalf("location lost: %+v", updated)
	}

	// comments: append then remove by id
	withComment, err := repo.AddComment(ctx, created.ID, domain.Comment{
		User: "anna", Text: "sehr gut", CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if len(withComment.Comments) != 1 || withComment.Comments[0].ID == "" {
		t.Fatalf("comment not appended: %+v", withComment.Comments)
	}
	without, err := repo.RemoveComment(ctx, created.ID, withComment.Comments[0].ID)
	if err != nil {
		t.Fatalf("RemoveComment: %v", err)
	}
	if len(without.Comments) != 0 {
		t.Fatalf("comment not removed: %+v", without.Comments)
	}

	// import upsert is idempotent by sourceId
	imp := domain.Shop{
		Name:        "Istanbul Grill",
		Coordinates: domain.Coords{Lat: 47.5, Lng: 7.6},
		Source:      domain.SourceOSM,
		SourceID:    "node/12345",
	}
	ins, err := repo.UpsertImported(ctx, imp)
	if err != nil || !ins {
		t.Fatalf("first upsert: inserted=%v err=%v", ins, err)
	}
	ins, err = repo.UpsertImported(ctx, imp)
	if err != nil || ins {
		t.Fatalf("second upsert should be a no-op: inserted=%v err=%v", ins, err)
	}

	shops, err := repo.ListShops(ctx)
	if err != nil {
		t.Fatalf("ListShops: %v", err)
	}
	if len(shops) != 2 {
		t.Fatalf("expected 2 shops, got %d", len(shops))
	}

	// delete is idempotent: absent id is still a success
	if err := repo.DeleteShop(ctx, created.ID); err != nil {
		t.Fatalf("DeleteShop: %v", err)
	}
	if err := repo.DeleteShop(ctx, created.ID); err != nil {
		t.Fatalf("DeleteShop (absent): %v", err)
	}
	if _, err := repo.GetShop(ctx, created.ID); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRepo_InvalidID(t *testing.T) {
	repo := setupRepo(t)
	if _, err := repo.GetShop(context.Background(), "nope"); err != domain.ErrInvalidID {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}
