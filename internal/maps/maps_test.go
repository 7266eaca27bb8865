package maps

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"foodbridge-api-server/internal/geo"
	"foodbridge-api-server/internal/models"
)

func TestGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/maps/api/geocode/json") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"status":"OK","results":[{"geometry":{"location":{"lat":12.9716,"lng":77.5946}}}]}`)
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL)
	point, err := c.Geocode(context.Background(), "MG Road, Bangalore")
	if err != nil {
		t.Fatalf("Geocode() error = %v", err)
	}
	if point.Lat != 12.9716 || point.Lng != 77.5946 {
		t.Errorf("Geocode() = %+v, want 12.9716,77.5946", point)
	}
}

func TestGeocodeZeroResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"ZERO_RESULTS","results":[]}`)
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL)
	if _, err := c.Geocode(context.Background(), "nowhere"); err == nil {
		t.Error("Geocode() expected error for ZERO_RESULTS")
	}
}

func TestDistanceKmFromMatrix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"OK","rows":[{"elements":[{"status":"OK","distance":{"value":4200},"duration":{"value":600}}]}]}`)
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL)
	origin := models.GeoPoint{Lat: 12.97, Lng: 77.59}
	dest := models.GeoPoint{Lat: 12.99, Lng: 77.61}

	if d := c.DistanceKm(context.Background(), origin, dest); d != 4.2 {
		t.Errorf("DistanceKm() = %f, want 4.2", d)
	}
	if eta := c.ETAMinutes(context.Background(), origin, dest); eta != 10 {
		t.Errorf("ETAMinutes() = %d, want 10", eta)
	}
}

func TestDistanceFallsBackToHaversine(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL)
	origin := models.GeoPoint{Lat: 12.9716, Lng: 77.5946}
	dest := models.GeoPoint{Lat: 13.1986, Lng: 77.7066}

	want := geo.Haversine(origin.Lat, origin.Lng, dest.Lat, dest.Lng)
	if d := c.DistanceKm(context.Background(), origin, dest); math.Abs(d-want) > 1e-9 {
		t.Errorf("DistanceKm() fallback = %f, want haversine %f", d, want)
	}

	// ETA fallback: distance at the assumed urban speed.
	wantETA := int(math.Round(want / averageSpeedKmh * 60))
	if eta := c.ETAMinutes(context.Background(), origin, dest); eta != wantETA {
		t.Errorf("ETAMinutes() fallback = %d, want %d", eta, wantETA)
	}
}

func TestDistanceFallsBackWhenUnreachable(t *testing.T) {
	// Point at a server that is already closed.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient("test-key", srv.URL)
	origin := models.GeoPoint{Lat: 12.9716, Lng: 77.5946}
	dest := models.GeoPoint{Lat: 12.9850, Lng: 77.6000}

	want := geo.Haversine(origin.Lat, origin.Lng, dest.Lat, dest.Lng)
	if d := c.DistanceKm(context.Background(), origin, dest); math.Abs(d-want) > 1e-9 {
		t.Errorf("DistanceKm() offline fallback = %f, want %f", d, want)
	}
}
