package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ZarkoJovanovic1/meine-d-ner-app/internal/adapters/observability"
	"github.com/ZarkoJovanovic1/meine-d-ner-app/internal/domain"
)

// cuisineFilter matches the venues the directory is about. Kept in one place
// so the node/way/rel clauses cannot drift apart.
const (
	amenityFilter = `fast_food|restaurant`
	cuisineFilter = `kebab|doner|dürüm|turkish`
)

type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter
}

// New builds a client for an Overpass interpreter endpoint. rps bounds the
// client-side request rate; public Overpass instances ban aggressive callers.
func New(base string, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("overpass base URL is required")
	}
	if rps <= 0 {
		rps = 2
	}
	return &Client{
		base: base,
		hc:   &http.Client{Timeout: 30 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// Query builds the Overpass QL statement for box. Exported for tests.
func Query(box domain.BoundingBox) string {
	bbox := fmt.Sprintf("(%v,%v,%v,%v)", box.South, box.West, box.North, box.East)
	var b strings.Builder
	b.WriteString("[out:json][timeout:25];\n(\n")
	for _, kind := range []string{"node", "way", "rel"} {
		fmt.Fprintf(&b, "  %s[\"amenity\"~\"%s\"][\"cuisine\"~\"%s\"]%s;\n",
			kind, amenityFilter, cuisineFilter, bbox)
	}
	b.WriteString(");\nout center tags;\n")
	return b.String()
}

type response struct {
	Elements []domain.OSMElement `json:"elements"`
}

// Amenities runs one query. There is no retry: a failed import invocation is
// reported to the caller, who simply triggers it again.
func (c *Client) Amenities(ctx context.Context, box domain.BoundingBox) ([]domain.OSMElement, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	form := url.Values{"data": {Query(box)}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "doenerfinder/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("overpass", 0, time.Since(start))
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &domain.UpstreamError{Msg: "overpass request failed", Err: err}
	}
	defer resp.Body.Close()
	observability.ObserveExternal("overpass", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &domain.UpstreamError{
			Msg: fmt.Sprintf("overpass %d: %s", resp.StatusCode, strings.TrimSpace(string(b))),
		}
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &domain.UpstreamError{Msg: "overpass returned malformed JSON", Err: err}
	}
	return out.Elements, nil
}
