package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"foodbridge-api-server/internal/models"
	"foodbridge-api-server/internal/observability"
	"foodbridge-api-server/internal/store"
)

// Sweeper periodically moves overdue available listings to expired. The web
// client only ever computed expiry for display; here it becomes a real
// transition so expired listings leave the claimable pool server-side.
type Sweeper struct {
	Service  *Service
	Interval time.Duration
}

func NewSweeper(svc *Service, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{Service: svc, Interval: interval}
}

// Run blocks until ctx is cancelled, sweeping once per interval.
func (sw *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(sw.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := sw.Service.SweepExpired(ctx); err != nil {
				sw.Service.Logger.Error("expiry sweep failed", "error", err)
			} else if n > 0 {
				sw.Service.Logger.Info("expiry sweep", "expired", n)
			}
		}
	}
}

// SweepExpired expires every available listing whose expiry time has passed
// and notifies its donor. Returns how many listings were expired. A listing
// claimed mid-sweep loses its expiry race and is left alone.
func (s *Service) SweepExpired(ctx context.Context) (int, error) {
	overdue, err := s.Listings.List(ctx, store.ListingFilter{
		Status:        models.ListingAvailable,
		ExpiredBefore: s.nowMillis(),
	})
	if err != nil {
		return 0, &PersistenceError{Op: "listing sweep query", Err: err}
	}

	expired := 0
	for i := range overdue {
		listing := overdue[i]
		if !models.CanTransitionListing(listing.Status, models.ListingExpired) {
			continue
		}
		listing.Status = models.ListingExpired
		if err := s.Listings.UpdateVersioned(ctx, &listing); err != nil {
			if errors.Is(err, store.ErrConflict) || errors.Is(err, store.ErrNotFound) {
				continue
			}
			return expired, &PersistenceError{Op: "listing expire", Err: err}
		}
		expired++
		observability.ListingsExpiredTotal.Inc()

		if err := s.notify(ctx, listing.HotelID,
			"Food Listing Expired",
			fmt.Sprintf("Your food listing %q expired before it was claimed.", listing.FoodName),
			models.NotificationWarning); err != nil {
			s.Logger.Warn("expiry notification failed", "listing_id", listing.ID, "error", err)
		}
	}
	return expired, nil
}
