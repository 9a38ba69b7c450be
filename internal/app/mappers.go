package app

import (
	"fmt"
	"strings"

	"github.com/ZarkoJovanovic1/meine-d-ner-app/internal/domain"
)

// placeholderName labels imported venues that carry no name tag.
const placeholderName = "Unbenannt"

// shopFromElement maps one Overpass element to a shop record. ok is false
// when the element has no usable coordinates and must be skipped.
func shopFromElement(el domain.OSMElement) (domain.Shop, bool) {
	lat, lng, ok := el.Position()
	if !ok {
		return domain.Shop{}, false
	}

	tags := el.Tags
	name := tags["name"]
	if name == "" {
		name = placeholderName
	}

	return domain.Shop{
		Name:        name,
		Location:    composeLocation(tags),
		Coordinates: domain.Coords{Lat: lat, Lng: lng},
		Image:       "",
		Ratings:     []int{},
		Comments:    []domain.Comment{},
		Source:      domain.SourceOSM,
		SourceID:    fmt.Sprintf("%s/%d", el.Type, el.ID),
	}, true
}

// composeLocation builds "Street 12 · 8001 · Zürich" from addr tags,
// dropping empty parts.
func composeLocation(tags map[string]string) string {
	street := joinNonEmpty(" ", tags["addr:street"], tags["addr:housenumber"])
	return joinNonEmpty(" · ", street, tags["addr:postcode"], tags["addr:city"])
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, sep)
}
