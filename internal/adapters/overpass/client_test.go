package overpass_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/ZarkoJovanovic1/meine-d-ner-app/internal/adapters/overpass"
	"github.com/ZarkoJovanovic1/meine-d-ner-app/internal/domain"
)

var box = domain.BoundingBox{South: 47, West: 8, North: 48, East: 9}

func TestQuery_ContainsFiltersAndBox(t *testing.T) {
	q := overpass.Query(box)
	for _, want := range []string{
		"[out:json]",
		`node["amenity"~"fast_food|restaurant"]["cuisine"~"kebab|doner|dürüm|turkish"](47,8,48,9);`,
		`way["amenity"`,
		`rel["amenity"`,
		"out center tags;",
	} {
		if !strings.Contains(q, want) {
			t.Fatalf("query missing %q:\n%s", want, q)
		}
	}
}

func TestAmenities_ParsesElements(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		body, _ := io.ReadAll(r.Body)
		vals, err := url.ParseQuery(string(body))
		if err != nil || !strings.Contains(vals.Get("data"), "out center tags") {
			t.Errorf("unexpected form body: %q", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"elements":[
			{"type":"node","id":123,"lat":47.37,"lon":8.54,"tags":{"name":"X","cuisine":"kebab"}},
			{"type":"way","id":9,"center":{"lat":47.1,"lon":8.1},"tags":{}}
		]}`))
	}))
	defer ts.Close()

	cl, err := overpass.New(ts.URL, 100)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	els, err := cl.Amenities(ctx, box)
	if err != nil {
		t.Fatalf("Amenities: %v", err)
	}
	if len(els) != 2 {
		t.Fatalf("got %d elements", len(els))
	}
	if els[0].Type != "node" || els[0].ID != 123 || els[0].Tags["name"] != "X" {
		t.Fatalf("unexpected node: %+v", els[0])
	}
	lat, lng, ok := els[1].Position()
	if !ok || lat != 47.1 || lng != 8.1 {
		t.Fatalf("way center not used: %v %v %v", lat, lng, ok)
	}
}

func TestAmenities_UpstreamFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too busy", http.StatusGatewayTimeout)
	}))
	defer ts.Close()

	cl, _ := overpass.New(ts.URL, 100)
	_, err := cl.Amenities(context.Background(), box)
	if err == nil {
		t.Fatalf("expected error for 504")
	}
	if !domain.IsUpstream(err) {
		t.Fatalf("expected upstream error, got %T: %v", err, err)
	}
}
