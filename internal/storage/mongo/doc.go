package mongostore

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ZarkoJovanovic1/meine-d-ner-app/internal/domain"
)

// Storage-side document shapes. The domain stays free of bson concerns; the
// repo maps at the boundary.

type shopDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Location    string             `bson:"location"`
	Coordinates coordsDoc          `bson:"coordinates"`
	Image       string             `bson:"image"`
	Ratings     []int              `bson:"ratings"`
	Comments    []commentDoc       `bson:"comments"`
	Source      string             `bson:"source"`
	SourceID    string             `bson:"sourceId,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

type coordsDoc struct {
	Lat float64 `bson:"lat"`
	Lng float64 `bson:"lng"`
}

type commentDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	User      string             `bson:"user"`
	Text      string             `bson:"text"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func toDoc(s domain.Shop) shopDoc {
	d := shopDoc{
		Name:        s.Name,
		Location:    s.Location,
		Coordinates: coordsDoc{Lat: s.Coordinates.Lat, Lng: s.Coordinates.Lng},
		Image:       s.Image,
		Ratings:     s.Ratings,
		Comments:    toCommentDocs(s.Comments),
		Source:      s.Source,
		SourceID:    s.SourceID,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	if d.Ratings == nil {
		d.Ratings = []int{}
	}
	return d
}

func toCommentDocs(cs []domain.Comment) []commentDoc {
	out := make([]commentDoc, 0, len(cs))
	for _, c := range cs {
		cd := commentDoc{User: c.User, Text: c.Text, CreatedAt: c.CreatedAt}
		if oid, err := primitive.ObjectIDFromHex(c.ID); err == nil {
			cd.ID = oid
		} else {
			cd.ID = primitive.NewObjectID()
		}
		out = append(out, cd)
	}
	return out
}

func fromDoc(d shopDoc) domain.Shop {
	s := domain.Shop{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Location:    d.Location,
		Coordinates: domain.Coords{Lat: d.Coordinates.Lat, Lng: d.Coordinates.Lng},
		Image:       d.Image,
		Ratings:     d.Ratings,
		Comments:    make([]domain.Comment, 0, len(d.Comments)),
		Source:      d.Source,
		SourceID:    d.SourceID,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if s.Ratings == nil {
		s.Ratings = []int{}
	}
	for _, c := range d.Comments {
		s.Comments = append(s.Comments, domain.Comment{
			ID: c.ID.Hex(), User: c.User, Text: c.Text, CreatedAt: c.CreatedAt,
		})
	}
	return s
}
