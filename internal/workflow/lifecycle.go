package workflow

import (
	"context"
	"errors"
	"fmt"

	"foodbridge-api-server/internal/models"
	"foodbridge-api-server/internal/store"
)

// ConfirmPickup marks a claimed listing as collected. Only the claimant on
// the collection may confirm. An optional proof photo URL is attached to the
// collection record.
func (s *Service) ConfirmPickup(ctx context.Context, actor Identity, collectionID, photoURL string) (*models.FoodCollection, error) {
	collection, listing, err := s.loadForTransition(ctx, actor, collectionID)
	if err != nil {
		return nil, err
	}

	if !models.CanTransitionCollection(collection.Status, models.CollectionInProgress) {
		return nil, ErrInvalidTransition
	}
	if !models.CanTransitionListing(listing.Status, models.ListingCollected) {
		return nil, ErrInvalidTransition
	}

	listing.Status = models.ListingCollected
	if err := s.Listings.UpdateVersioned(ctx, listing); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrInvalidTransition
		}
		return nil, &PersistenceError{Op: "listing update", Err: err}
	}

	collection.Status = models.CollectionInProgress
	if photoURL != "" {
		collection.PickupPhoto = photoURL
	}
	if err := s.Collections.Update(ctx, collection); err != nil {
		return nil, &PersistenceError{Op: "collection update", Err: err}
	}

	if err := s.notify(ctx, listing.HotelID,
		"Food Picked Up",
		fmt.Sprintf("%q has been picked up by %s.", listing.FoodName, actor.Name),
		models.NotificationInfo); err != nil {
		return nil, err
	}

	s.Logger.Info("pickup confirmed", "collection_id", collection.ID, "listing_id", listing.ID)
	return collection, nil
}

// ConfirmDelivery marks a collected listing as delivered and completes the
// collection, recording the delivery time.
func (s *Service) ConfirmDelivery(ctx context.Context, actor Identity, collectionID, photoURL string) (*models.FoodCollection, error) {
	collection, listing, err := s.loadForTransition(ctx, actor, collectionID)
	if err != nil {
		return nil, err
	}

	if !models.CanTransitionCollection(collection.Status, models.CollectionCompleted) {
		return nil, ErrInvalidTransition
	}
	if !models.CanTransitionListing(listing.Status, models.ListingDelivered) {
		return nil, ErrInvalidTransition
	}

	listing.Status = models.ListingDelivered
	if err := s.Listings.UpdateVersioned(ctx, listing); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrInvalidTransition
		}
		return nil, &PersistenceError{Op: "listing update", Err: err}
	}

	collection.Status = models.CollectionCompleted
	collection.DeliveryTime = s.nowMillis()
	if photoURL != "" {
		collection.DeliveryPhoto = photoURL
	}
	if err := s.Collections.Update(ctx, collection); err != nil {
		return nil, &PersistenceError{Op: "collection update", Err: err}
	}

	if err := s.notify(ctx, listing.HotelID,
		"Food Delivered",
		fmt.Sprintf("%q has been delivered. Thank you for your donation.", listing.FoodName),
		models.NotificationSuccess); err != nil {
		return nil, err
	}

	s.Logger.Info("delivery confirmed", "collection_id", collection.ID, "listing_id", listing.ID)
	return collection, nil
}

// CancelClaim cancels an active claim. The claimant or the donor may cancel;
// the listing returns to the cancelled state and the counterparty is told.
func (s *Service) CancelClaim(ctx context.Context, actor Identity, collectionID string) (*models.FoodCollection, error) {
	if actor.UserID == "" {
		return nil, ErrAuthenticationRequired
	}

	collection, err := s.Collections.GetByID(ctx, collectionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, &PersistenceError{Op: "collection read", Err: err}
	}

	isClaimant := collection.ClaimantID() == actor.UserID
	isDonor := collection.HotelID == actor.UserID
	if !isClaimant && !isDonor {
		return nil, ErrPermissionDenied
	}

	if !models.CanTransitionCollection(collection.Status, models.CollectionCancelled) {
		return nil, ErrInvalidTransition
	}

	listing, err := s.Listings.GetByID(ctx, collection.FoodListingID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, &PersistenceError{Op: "listing read", Err: err}
	}

	if models.CanTransitionListing(listing.Status, models.ListingCancelled) {
		listing.Status = models.ListingCancelled
		if err := s.Listings.UpdateVersioned(ctx, listing); err != nil && !errors.Is(err, store.ErrConflict) {
			return nil, &PersistenceError{Op: "listing update", Err: err}
		}
	}

	collection.Status = models.CollectionCancelled
	if err := s.Collections.Update(ctx, collection); err != nil {
		return nil, &PersistenceError{Op: "collection update", Err: err}
	}

	counterparty := collection.HotelID
	if isDonor {
		counterparty = collection.ClaimantID()
	}
	if err := s.notify(ctx, counterparty,
		"Collection Cancelled",
		fmt.Sprintf("The collection for %q has been cancelled by %s.", listing.FoodName, actor.Name),
		models.NotificationWarning); err != nil {
		return nil, err
	}

	s.Logger.Info("claim cancelled", "collection_id", collection.ID, "listing_id", listing.ID, "by", actor.UserID)
	return collection, nil
}

// loadForTransition fetches a collection and its listing, enforcing that the
// actor is the claimant.
func (s *Service) loadForTransition(ctx context.Context, actor Identity, collectionID string) (*models.FoodCollection, *models.FoodListing, error) {
	if actor.UserID == "" {
		return nil, nil, ErrAuthenticationRequired
	}

	collection, err := s.Collections.GetByID(ctx, collectionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, &PersistenceError{Op: "collection read", Err: err}
	}

	if collection.ClaimantID() != actor.UserID {
		return nil, nil, ErrPermissionDenied
	}

	listing, err := s.Listings.GetByID(ctx, collection.FoodListingID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, &PersistenceError{Op: "listing read", Err: err}
	}

	return collection, listing, nil
}
