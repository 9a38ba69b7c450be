package domain

// BoundingBox is a south/west/north/east geographic box in WGS84 degrees.
type BoundingBox struct {
	South float64
	West  float64
	North float64
	East  float64
}

// OSMElement is one Overpass result. Nodes carry Lat/Lon directly; ways and
// relations only expose a Center when the query asks for "out center".
type OSMElement struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    float64           `json:"lat"`
	Lon    float64           `json:"lon"`
	Center *OSMCenter        `json:"center"`
	Tags   map[string]string `json:"tags"`
}

type OSMCenter struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Position returns usable coordinates, preferring the element's own lat/lon
// over the center, and false when neither yields a non-zero position.
func (e OSMElement) Position() (lat, lng float64, ok bool) {
	lat, lng = e.Lat, e.Lon
	if lat == 0 && lng == 0 && e.Center != nil {
		lat, lng = e.Center.Lat, e.Center.Lon
	}
	if lat == 0 && lng == 0 {
		return 0, 0, false
	}
	return lat, lng, true
}
