package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ZarkoJovanovic1/meine-d-ner-app/internal/domain"
)

const collection = "doeners"

type Repo struct{ col *mongo.Collection }

func New(db *mongo.Database) *Repo { return &Repo{col: db.Collection(collection)} }

// EnsureIndexes creates the sparse unique index on sourceId. Sparse keeps
// manually entered records (no sourceId) unconstrained.
func (r *Repo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "sourceId", Value: 1}},
		Options: options.Index().SetUnique(true).SetSparse(true),
	})
	return err
}

func oid(id string) (primitive.ObjectID, error) {
	o, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrInvalidID
	}
	return o, nil
}

func (r *Repo) ListShops(ctx context.Context) ([]domain.Shop, error) {
	cur, err := r.col.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []domain.Shop{}
	for cur.Next(ctx) {
		var d shopDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, fromDoc(d))
	}
	return out, cur.Err()
}

func (r *Repo) GetShop(ctx context.Context, id string) (domain.Shop, error) {
	o, err := oid(id)
	if err != nil {
		return domain.Shop{}, err
	}
	var d shopDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": o}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Shop{}, domain.ErrNotFound
		}
		return domain.Shop{}, err
	}
	return fromDoc(d), nil
}

func (r *Repo) CreateShop(ctx context.Context, s domain.Shop) (domain.Shop, error) {
	now := time.Now().UTC()
	s.CreatedAt, s.UpdatedAt = now, now
	d := toDoc(s)
	res, err := r.col.InsertOne(ctx, d)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.Shop{}, domain.ErrDuplicateSource
		}
		return domain.Shop{}, err
	}
	d.ID = res.InsertedID.(primitive.ObjectID)
	return fromDoc(d), nil
}

func (r *Repo) UpdateShop(ctx context.Context, id string, p domain.ShopPatch) (domain.Shop, error) {
	o, err := oid(id)
	if err != nil {
		return domain.Shop{}, err
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Location != nil {
		set["location"] = *p.Location
	}
	if p.Coordinates != nil {
		set["coordinates"] = coordsDoc{Lat: p.Coordinates.Lat, Lng: p.Coordinates.Lng}
	}
	if p.Image != nil {
		set["image"] = *p.Image
	}
	if p.Ratings != nil {
		set["ratings"] = *p.Ratings
	}
	if p.Comments != nil {
		set["comments"] = toCommentDocs(*p.Comments)
	}

	return r.findOneAndUpdate(ctx, bson.M{"_id": o}, bson.M{"$set": set})
}

// DeleteShop succeeds whether or not id exists; callers answer 204 either way.
func (r *Repo) DeleteShop(ctx context.Context, id string) error {
	o, err := oid(id)
	if err != nil {
		return err
	}
	_, err = r.col.DeleteOne(ctx, bson.M{"_id": o})
	return err
}

func (r *Repo) AddRating(ctx context.Context, id string, stars int) (domain.Shop, error) {
	o, err := oid(id)
	if err != nil {
		return domain.Shop{}, err
	}
	return r.findOneAndUpdate(ctx, bson.M{"_id": o}, bson.M{
		"$push": bson.M{"ratings": stars},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *Repo) AddComment(ctx context.Context, id string, c domain.Comment) (domain.Shop, error) {
	o, err := oid(id)
	if err != nil {
		return domain.Shop{}, err
	}
	cd := commentDoc{
		ID:        primitive.NewObjectID(),
		User:      c.User,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
	return r.findOneAndUpdate(ctx, bson.M{"_id": o}, bson.M{
		"$push": bson.M{"comments": cd},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *Repo) RemoveComment(ctx context.Context, id, commentID string) (domain.Shop, error) {
	o, err := oid(id)
	if err != nil {
		return domain.Shop{}, err
	}
	co, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return domain.Shop{}, domain.ErrInvalidID
	}
	return r.findOneAndUpdate(ctx, bson.M{"_id": o}, bson.M{
		"$pull": bson.M{"comments": bson.M{"_id": co}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

// UpsertImported inserts s only when no record carries its sourceId yet
// ($setOnInsert). Repeated imports therefore never touch existing records,
// including their ratings and comments.
func (r *Repo) UpsertImported(ctx context.Context, s domain.Shop) (bool, error) {
	now := time.Now().UTC()
	s.CreatedAt, s.UpdatedAt = now, now
	res, err := r.col.UpdateOne(ctx,
		bson.M{"sourceId": s.SourceID},
		bson.M{"$setOnInsert": toDoc(s)},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		// Concurrent imports can race on the unique index; the loser finds
		// the record already present, which is the outcome we wanted anyway.
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

func (r *Repo) findOneAndUpdate(ctx context.Context, filter, update bson.M) (domain.Shop, error) {
	var d shopDoc
	err := r.col.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Shop{}, domain.ErrNotFound
		}
		return domain.Shop{}, err
	}
	return fromDoc(d), nil
}
