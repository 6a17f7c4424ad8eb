package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"stayhub/internal/pkg/errs"
)

// HTTPResolver queries a Nominatim-compatible search endpoint.
type HTTPResolver struct {
	baseURL string
	http    *http.Client
}

func NewHTTPResolver(baseURL string, timeout time.Duration) *HTTPResolver {
	return &HTTPResolver{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (r *HTTPResolver) Geocode(ctx context.Context, address string) (Coordinates, error) {
	endpoint := r.baseURL + "/search?format=json&limit=1&q=" + url.QueryEscape(address)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Coordinates{}, errs.Wrap(err, "failed to build geocode request")
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return Coordinates{}, errs.Wrap(err, "geocode request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Coordinates{}, errs.New(fmt.Sprintf("geocode service returned %d", resp.StatusCode))
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Coordinates{}, errs.Wrap(err, "failed to decode geocode response")
	}
	if len(results) == 0 {
		return Coordinates{}, errs.New("address not found")
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Coordinates{}, errs.Wrap(err, "invalid latitude in geocode response")
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Coordinates{}, errs.Wrap(err, "invalid longitude in geocode response")
	}
	return Coordinates{Latitude: lat, Longitude: lon}, nil
}

var _ Resolver = (*HTTPResolver)(nil)
