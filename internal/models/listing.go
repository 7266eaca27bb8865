package models

// ListingStatus is the lifecycle state of a food listing.
type ListingStatus string

const (
	ListingAvailable ListingStatus = "available"
	ListingAssigned  ListingStatus = "assigned"
	ListingCollected ListingStatus = "collected"
	ListingDelivered ListingStatus = "delivered"
	ListingExpired   ListingStatus = "expired"
	ListingCancelled ListingStatus = "cancelled"
)

// listingTransitions maps each status to the statuses reachable from it.
// Every status change in the system goes through CanTransitionListing; there
// are no ad hoc status writes.
var listingTransitions = map[ListingStatus][]ListingStatus{
	ListingAvailable: {ListingAssigned, ListingExpired, ListingCancelled},
	ListingAssigned:  {ListingCollected, ListingCancelled},
	ListingCollected: {ListingDelivered},
	ListingDelivered: {},
	ListingExpired:   {},
	ListingCancelled: {},
}

// CanTransitionListing reports whether a listing may move from one status to
// another.
func CanTransitionListing(from, to ListingStatus) bool {
	for _, t := range listingTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// AssignedTo records who claimed a listing. Populated exactly when the
// listing status is "assigned" or later.
type AssignedTo struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
	Role Role   `bson:"role" json:"role"`
}

// FoodListing is a claimable unit of surplus food posted by a hotel.
// Temporal fields are epoch milliseconds, matching the web client.
type FoodListing struct {
	ID              string        `bson:"_id" json:"id"`
	HotelID         string        `bson:"hotelId" json:"hotelId"`
	HotelName       string        `bson:"hotelName" json:"hotelName"`
	FoodName        string        `bson:"foodName" json:"foodName"`
	Description     string        `bson:"description" json:"description"`
	Quantity        float64       `bson:"quantity" json:"quantity"`
	QuantityUnit    string        `bson:"quantityUnit" json:"quantityUnit"`
	PreparationTime int64         `bson:"preparationTime" json:"preparationTime"`
	ExpiryTime      int64         `bson:"expiryTime" json:"expiryTime"`
	FssaiNumber     string        `bson:"fssaiNumber" json:"fssaiNumber"`
	DietaryInfo     DietaryInfo   `bson:"dietaryInfo" json:"dietaryInfo"`
	Location        Location      `bson:"location" json:"location"`
	Status          ListingStatus `bson:"status" json:"status"`
	AssignedTo      *AssignedTo   `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	CreatedAt       int64         `bson:"createdAt" json:"createdAt"`

	// Version backs compare-and-swap on stores without native conditional
	// updates; it increments on every successful mutation.
	Version int64 `bson:"version" json:"version"`
}

// IsExpired reports whether the listing's expiry time has passed at the
// given instant (epoch milliseconds).
func (l *FoodListing) IsExpired(nowMillis int64) bool {
	return l.ExpiryTime <= nowMillis
}
