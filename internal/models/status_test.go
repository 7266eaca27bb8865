package models

import "testing"

func TestListingTransitions(t *testing.T) {
	allowed := []struct{ from, to ListingStatus }{
		{ListingAvailable, ListingAssigned},
		{ListingAvailable, ListingExpired},
		{ListingAvailable, ListingCancelled},
		{ListingAssigned, ListingCollected},
		{ListingAssigned, ListingCancelled},
		{ListingCollected, ListingDelivered},
	}
	for _, tr := range allowed {
		if !CanTransitionListing(tr.from, tr.to) {
			t.Errorf("CanTransitionListing(%s, %s) = false, want true", tr.from, tr.to)
		}
	}

	forbidden := []struct{ from, to ListingStatus }{
		{ListingAssigned, ListingAvailable}, // no unclaim
		{ListingAvailable, ListingCollected},
		{ListingAvailable, ListingDelivered},
		{ListingDelivered, ListingAssigned},
		{ListingExpired, ListingAssigned},
		{ListingCancelled, ListingAvailable},
		{ListingCollected, ListingCancelled},
	}
	for _, tr := range forbidden {
		if CanTransitionListing(tr.from, tr.to) {
			t.Errorf("CanTransitionListing(%s, %s) = true, want false", tr.from, tr.to)
		}
	}
}

func TestCollectionTransitions(t *testing.T) {
	if !CanTransitionCollection(CollectionScheduled, CollectionInProgress) {
		t.Error("scheduled -> in-progress should be allowed")
	}
	if !CanTransitionCollection(CollectionInProgress, CollectionCompleted) {
		t.Error("in-progress -> completed should be allowed")
	}
	if CanTransitionCollection(CollectionScheduled, CollectionCompleted) {
		t.Error("scheduled -> completed should be refused")
	}
	if CanTransitionCollection(CollectionCompleted, CollectionCancelled) {
		t.Error("completed -> cancelled should be refused")
	}
}

func TestRoleCanClaim(t *testing.T) {
	if !RoleNGO.CanClaim() || !RoleVolunteer.CanClaim() {
		t.Error("ngo and volunteer must be able to claim")
	}
	if RoleHotel.CanClaim() || RoleAdmin.CanClaim() {
		t.Error("hotel and admin must not be able to claim")
	}
}

func TestListingIsExpired(t *testing.T) {
	l := FoodListing{ExpiryTime: 1000}
	if l.IsExpired(999) {
		t.Error("listing expired before its expiry time")
	}
	if !l.IsExpired(1000) || !l.IsExpired(1001) {
		t.Error("listing not expired at/after its expiry time")
	}
}
