// Package maps wraps the Google Maps REST APIs used for geocoding and
// travel estimates. Every call degrades to a local computation when the
// service is unreachable, so the marketplace keeps working offline.
package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"foodbridge-api-server/internal/geo"
	"foodbridge-api-server/internal/models"
)

const defaultEndpoint = "https://maps.googleapis.com"

// averageSpeedKmh drives the ETA fallback when the Distance Matrix API is
// unavailable. Urban traffic assumption.
const averageSpeedKmh = 30.0

// Client talks to the Google Geocoding and Distance Matrix APIs.
type Client struct {
	APIKey   string
	Endpoint string
	HTTP     *http.Client
}

func NewClient(apiKey, endpoint string) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Client{
		APIKey:   apiKey,
		Endpoint: endpoint,
		HTTP:     &http.Client{Timeout: 5 * time.Second},
	}
}

// Geocode resolves an address string to coordinates. Unlike the distance
// helpers there is no local fallback; an unresolvable address is an error.
func (c *Client) Geocode(ctx context.Context, address string) (models.GeoPoint, error) {
	u := fmt.Sprintf("%s/maps/api/geocode/json?address=%s&key=%s",
		c.Endpoint, url.QueryEscape(address), c.APIKey)

	var out struct {
		Status  string `json:"status"`
		Results []struct {
			Geometry struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := c.getJSON(ctx, u, &out); err != nil {
		return models.GeoPoint{}, err
	}
	if out.Status != "OK" || len(out.Results) == 0 {
		return models.GeoPoint{}, fmt.Errorf("maps: geocode failed for %q: %s", address, out.Status)
	}
	loc := out.Results[0].Geometry.Location
	return models.GeoPoint{Lat: loc.Lat, Lng: loc.Lng}, nil
}

// DistanceKm returns the road distance between two points in kilometers,
// falling back to the great-circle distance when the API is unreachable or
// returns a non-OK status.
func (c *Client) DistanceKm(ctx context.Context, origin, dest models.GeoPoint) float64 {
	if meters, _, err := c.distanceMatrix(ctx, origin, dest); err == nil {
		return meters / 1000
	}
	return geo.Haversine(origin.Lat, origin.Lng, dest.Lat, dest.Lng)
}

// ETAMinutes returns the estimated travel time in whole minutes, falling
// back to a speed-based estimate over the great-circle distance.
func (c *Client) ETAMinutes(ctx context.Context, origin, dest models.GeoPoint) int {
	if _, seconds, err := c.distanceMatrix(ctx, origin, dest); err == nil {
		return int(math.Round(seconds / 60))
	}
	distKm := geo.Haversine(origin.Lat, origin.Lng, dest.Lat, dest.Lng)
	return int(math.Round(distKm / averageSpeedKmh * 60))
}

func (c *Client) distanceMatrix(ctx context.Context, origin, dest models.GeoPoint) (meters, seconds float64, err error) {
	u := fmt.Sprintf("%s/maps/api/distancematrix/json?origins=%f,%f&destinations=%f,%f&key=%s",
		c.Endpoint, origin.Lat, origin.Lng, dest.Lat, dest.Lng, c.APIKey)

	var out struct {
		Status string `json:"status"`
		Rows   []struct {
			Elements []struct {
				Status   string `json:"status"`
				Distance struct {
					Value float64 `json:"value"`
				} `json:"distance"`
				Duration struct {
					Value float64 `json:"value"`
				} `json:"duration"`
			} `json:"elements"`
		} `json:"rows"`
	}
	if err := c.getJSON(ctx, u, &out); err != nil {
		return 0, 0, err
	}
	if out.Status != "OK" || len(out.Rows) == 0 || len(out.Rows[0].Elements) == 0 {
		return 0, 0, fmt.Errorf("maps: distance matrix status %s", out.Status)
	}
	el := out.Rows[0].Elements[0]
	if el.Status != "OK" {
		return 0, 0, fmt.Errorf("maps: distance matrix element status %s", el.Status)
	}
	return el.Distance.Value, el.Duration.Value, nil
}

func (c *Client) getJSON(ctx context.Context, u string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("maps: unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
