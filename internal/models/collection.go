package models

// CollectionStatus is the lifecycle state of a pickup arrangement.
type CollectionStatus string

const (
	CollectionScheduled  CollectionStatus = "scheduled"
	CollectionInProgress CollectionStatus = "in-progress"
	CollectionCompleted  CollectionStatus = "completed"
	CollectionCancelled  CollectionStatus = "cancelled"
)

var collectionTransitions = map[CollectionStatus][]CollectionStatus{
	CollectionScheduled:  {CollectionInProgress, CollectionCancelled},
	CollectionInProgress: {CollectionCompleted, CollectionCancelled},
	CollectionCompleted:  {},
	CollectionCancelled:  {},
}

// CanTransitionCollection reports whether a collection may move from one
// status to another.
func CanTransitionCollection(from, to CollectionStatus) bool {
	for _, t := range collectionTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// FoodCollection records one claim/pickup arrangement for a listing.
// Exactly one of NgoID and VolunteerID identifies the claimant; VolunteerID
// alone may additionally name a delivery volunteer on an NGO claim.
type FoodCollection struct {
	ID            string           `bson:"_id" json:"id"`
	FoodListingID string           `bson:"foodListingId" json:"foodListingId"`
	HotelID       string           `bson:"hotelId" json:"hotelId"`
	NgoID         string           `bson:"ngoId,omitempty" json:"ngoId,omitempty"`
	VolunteerID   string           `bson:"volunteerId,omitempty" json:"volunteerId,omitempty"`
	PickupTime    int64            `bson:"pickupTime" json:"pickupTime"`
	DeliveryTime  int64            `bson:"deliveryTime,omitempty" json:"deliveryTime,omitempty"`
	Status        CollectionStatus `bson:"status" json:"status"`
	Notes         string           `bson:"notes,omitempty" json:"notes,omitempty"`
	PickupPhoto   string           `bson:"pickupPhoto,omitempty" json:"pickupPhoto,omitempty"`
	DeliveryPhoto string           `bson:"deliveryPhoto,omitempty" json:"deliveryPhoto,omitempty"`
	CreatedAt     int64            `bson:"createdAt" json:"createdAt"`
}

// ClaimantID returns the id of whoever claimed the listing.
func (c *FoodCollection) ClaimantID() string {
	if c.NgoID != "" {
		return c.NgoID
	}
	return c.VolunteerID
}
