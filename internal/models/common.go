package models

// Location combines a free-text address with its coordinates.
type Location struct {
	Address string  `bson:"address" json:"address"`
	Lat     float64 `bson:"lat" json:"lat"`
	Lng     float64 `bson:"lng" json:"lng"`
}

// GeoPoint is a bare WGS84 coordinate pair.
type GeoPoint struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

// DietaryInfo holds the dietary flags of a listing. The flags are independent
// booleans; nothing enforces mutual exclusion.
type DietaryInfo struct {
	IsVegetarian   bool `bson:"isVegetarian" json:"isVegetarian"`
	IsVegan        bool `bson:"isVegan" json:"isVegan"`
	ContainsNuts   bool `bson:"containsNuts" json:"containsNuts"`
	ContainsGluten bool `bson:"containsGluten" json:"containsGluten"`
	ContainsDairy  bool `bson:"containsDairy" json:"containsDairy"`
}
