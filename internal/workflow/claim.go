package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"foodbridge-api-server/internal/models"
	"foodbridge-api-server/internal/observability"
	"foodbridge-api-server/internal/store"
)

// ClaimResult is what a successful claim produced.
type ClaimResult struct {
	Listing    *models.FoodListing
	Collection *models.FoodCollection
}

// Claim transitions a listing from available to assigned on behalf of the
// acting user and records the pickup arrangement.
//
// The listing update is a compare-and-swap on the version read here, so of
// two simultaneous claimants exactly one wins; the loser gets
// ErrAlreadyClaimed. The dependent writes are idempotent: the collection id
// derives from the listing id and the notification ids from the collection
// id, so re-running the same claim after a mid-flight failure completes
// whatever is missing instead of double-booking, while a repeat of a
// finished claim is refused.
func (s *Service) Claim(ctx context.Context, actor Identity, listingID, note string) (*ClaimResult, error) {
	if actor.UserID == "" {
		return nil, ErrAuthenticationRequired
	}
	if !actor.Role.CanClaim() {
		return nil, ErrPermissionDenied
	}

	listing, err := s.Listings.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, &PersistenceError{Op: "listing read", Err: err}
	}

	var collection *models.FoodCollection
	resumed := false

	switch listing.Status {
	case models.ListingAvailable:
		if listing.IsExpired(s.nowMillis()) {
			return nil, ErrExpired
		}
		if err := s.assign(ctx, listing, actor); err != nil {
			return nil, err
		}
	case models.ListingAssigned:
		// A previous run updated the listing but may have failed before
		// finishing the dependent writes. Only the original claimant may
		// resume.
		if listing.AssignedTo == nil || listing.AssignedTo.ID != actor.UserID {
			observability.ClaimConflictsTotal.Inc()
			return nil, ErrAlreadyClaimed
		}
		existing, err := s.activeCollection(ctx, listing.ID)
		if err != nil {
			return nil, &PersistenceError{Op: "collection read", Err: err}
		}
		if existing != nil {
			collection = existing
			resumed = true
		} else {
			s.Logger.Info("repairing partial claim", "listing_id", listing.ID, "claimant_id", actor.UserID)
		}
	default:
		observability.ClaimConflictsTotal.Inc()
		return nil, ErrAlreadyClaimed
	}

	if collection == nil {
		collection, err = s.createCollection(ctx, listing, actor, note)
		if err != nil {
			return nil, err
		}
	}

	suffix := strings.TrimPrefix(collection.ID, "collection-")
	donorNew, err := s.notifyID(ctx, "notification-"+suffix+"-donor", listing.HotelID,
		"Food Listing Claimed",
		fmt.Sprintf("Your food listing %q has been claimed by %s.", listing.FoodName, actor.Name),
		models.NotificationSuccess)
	if err != nil {
		return nil, err
	}
	claimantNew, err := s.notifyID(ctx, "notification-"+suffix+"-claimant", actor.UserID,
		"Food Claimed Successfully",
		fmt.Sprintf("You have successfully claimed %q from %s.", listing.FoodName, listing.HotelName),
		models.NotificationSuccess)
	if err != nil {
		return nil, err
	}

	if resumed && !donorNew && !claimantNew {
		// Nothing was missing; this is a plain repeat of a finished claim.
		observability.ClaimConflictsTotal.Inc()
		return nil, ErrAlreadyClaimed
	}

	observability.ClaimsTotal.Inc()
	s.Logger.Info("listing claimed",
		"listing_id", listing.ID,
		"claimant_id", actor.UserID,
		"claimant_role", actor.Role,
		"collection_id", collection.ID)

	return &ClaimResult{Listing: listing, Collection: collection}, nil
}

// assign performs the guarded available -> assigned transition.
func (s *Service) assign(ctx context.Context, listing *models.FoodListing, actor Identity) error {
	if !models.CanTransitionListing(listing.Status, models.ListingAssigned) {
		return ErrInvalidTransition
	}

	listing.Status = models.ListingAssigned
	listing.AssignedTo = &models.AssignedTo{
		ID:   actor.UserID,
		Name: actor.Name,
		Role: actor.Role,
	}

	err := s.Listings.UpdateVersioned(ctx, listing)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			// Someone else confirmed first.
			observability.ClaimConflictsTotal.Inc()
			return ErrAlreadyClaimed
		}
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return &PersistenceError{Op: "listing update", Err: err}
	}
	return nil
}

// createCollection records the pickup arrangement. The id derives from the
// listing id: a listing gets at most one collection over its lifetime, so a
// duplicate insert means a concurrent retry already created it.
func (s *Service) createCollection(ctx context.Context, listing *models.FoodListing, actor Identity, note string) (*models.FoodCollection, error) {
	collection := &models.FoodCollection{
		ID:            fmt.Sprintf("collection-%s", strings.TrimPrefix(listing.ID, "listing-")),
		FoodListingID: listing.ID,
		HotelID:       listing.HotelID,
		PickupTime:    s.nowMillis() + defaultPickupLead.Milliseconds(),
		Status:        models.CollectionScheduled,
		Notes:         note,
		CreatedAt:     s.nowMillis(),
	}
	if actor.Role == models.RoleVolunteer {
		collection.VolunteerID = actor.UserID
	} else {
		collection.NgoID = actor.UserID
	}

	if err := s.Collections.Create(ctx, collection); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			observability.ClaimConflictsTotal.Inc()
			return nil, ErrAlreadyClaimed
		}
		return nil, &PersistenceError{Op: "collection create", Err: err}
	}
	return collection, nil
}
