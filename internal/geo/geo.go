// Package geo filters and orders listings by location. The radius filter is
// a naive O(n) scan; fine at municipal scale, add geohash bucketing before
// pointing this at a large catalog.
package geo

import (
	"math"
	"sort"

	"foodbridge-api-server/internal/models"
)

// Haversine returns the great-circle distance between two points in
// kilometers.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371.0
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// WithinRadius returns the listings whose great-circle distance to the
// center is at most radiusKm, independent of input order.
func WithinRadius(listings []models.FoodListing, center models.GeoPoint, radiusKm float64) []models.FoodListing {
	out := make([]models.FoodListing, 0, len(listings))
	for _, l := range listings {
		if Haversine(center.Lat, center.Lng, l.Location.Lat, l.Location.Lng) <= radiusKm {
			out = append(out, l)
		}
	}
	return out
}

// Sort orders accepted by SortListings.
const (
	SortExpiry   = "expiry"   // soonest-expiring first
	SortQuantity = "quantity" // largest first
	SortDistance = "distance" // nearest to ref first
)

// SortListings orders listings in place by the named order. Distance sorting
// needs a reference point; ties keep their relative order.
func SortListings(listings []models.FoodListing, order string, ref models.GeoPoint) {
	switch order {
	case SortExpiry:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].ExpiryTime < listings[j].ExpiryTime
		})
	case SortQuantity:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].Quantity > listings[j].Quantity
		})
	case SortDistance:
		sort.SliceStable(listings, func(i, j int) bool {
			di := Haversine(ref.Lat, ref.Lng, listings[i].Location.Lat, listings[i].Location.Lng)
			dj := Haversine(ref.Lat, ref.Lng, listings[j].Location.Lat, listings[j].Location.Lng)
			return di < dj
		})
	}
}
