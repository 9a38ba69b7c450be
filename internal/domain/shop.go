package domain

import "time"

// Shop is the persistent entity: one döner/kebab venue.
type Shop struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	Coordinates Coords    `json:"coordinates"`
	Image       string    `json:"image"`
	Ratings     []int     `json:"ratings"`
	Comments    []Comment `json:"comments"`
	Source      string    `json:"source"`
	SourceID    string    `json:"sourceId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Coords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Comment is embedded in its shop; there is no standalone comments collection.
type Comment struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

const (
	SourceManual = "manual"
	SourceOSM    = "osm"
)

// MaxCommentLen caps comment text length in runes, counted after trimming.
const MaxCommentLen = 1000

// ShopPatch carries a partial update; nil fields keep their stored value.
// Ratings and Comments are only overwritten when explicitly present.
type ShopPatch struct {
	Name        *string
	Location    *string
	Coordinates *Coords
	Image       *string
	Ratings     *[]int
	Comments    *[]Comment
}

// Empty reports whether the patch would change nothing.
func (p ShopPatch) Empty() bool {
	return p.Name == nil && p.Location == nil && p.Coordinates == nil &&
		p.Image == nil && p.Ratings == nil && p.Comments == nil
}

// AverageRating is computed by readers and never stored.
func AverageRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return float64(sum) / float64(len(ratings))
}
