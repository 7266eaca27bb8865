// Package workflow implements the listing lifecycle: claiming, pickup and
// delivery confirmation, cancellation, and time-based expiry. All status
// changes run through the transition tables in models and all listing writes
// are versioned, so two racing claimants can never both win.
package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"foodbridge-api-server/internal/models"
	"foodbridge-api-server/internal/observability"
	"foodbridge-api-server/internal/store"

	"github.com/google/uuid"
)

// defaultPickupLead is the default window between claiming a listing and the
// scheduled pickup.
const defaultPickupLead = time.Hour

// Failure kinds for the claim and lifecycle workflows. The HTTP layer maps
// each to a distinct status code; raw store errors never reach clients.
var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrPermissionDenied       = errors.New("permission denied")
	ErrAlreadyClaimed         = errors.New("listing is no longer available")
	ErrExpired                = errors.New("listing has expired")
	ErrNotFound               = errors.New("record not found")
	ErrInvalidTransition      = errors.New("invalid status transition")
)

// PersistenceError wraps a failed store operation. Callers must not assume
// any earlier write in the same workflow committed; re-running the claim is
// safe (see Claim's repair path).
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Identity is the acting principal, as supplied by the session layer.
type Identity struct {
	UserID string
	Name   string
	Role   models.Role
}

// Pusher delivers a payload to a connected user. The socket hub implements
// it; pushes are best effort.
type Pusher interface {
	Push(userID string, message []byte) error
}

// Service runs the lifecycle workflows over the entity stores.
type Service struct {
	Listings      store.ListingStore
	Collections   store.CollectionStore
	Notifications store.NotificationStore
	Logger        *slog.Logger
	Hub           Pusher

	// now is swappable in tests.
	now func() time.Time
}

func NewService(listings store.ListingStore, collections store.CollectionStore, notifications store.NotificationStore, hub Pusher, logger *slog.Logger) *Service {
	return &Service{
		Listings:      listings,
		Collections:   collections,
		Notifications: notifications,
		Hub:           hub,
		Logger:        logger,
		now:           time.Now,
	}
}

func (s *Service) nowMillis() int64 {
	return s.now().UnixMilli()
}

// notify creates a notification record under a fresh id and pushes it to the
// user if they are connected.
func (s *Service) notify(ctx context.Context, userID, title, message string, kind models.NotificationType) error {
	_, err := s.notifyID(ctx, fmt.Sprintf("notification-%s", uuid.New().String()[:8]), userID, title, message, kind)
	return err
}

// notifyID creates a notification under a caller-chosen id. An id collision
// means the notification already exists from an earlier run; it is left in
// place and reported as not created. The record is the source of truth; a
// failed push is only logged.
func (s *Service) notifyID(ctx context.Context, id, userID, title, message string, kind models.NotificationType) (bool, error) {
	n := &models.Notification{
		ID:        id,
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      kind,
		Read:      false,
		CreatedAt: s.nowMillis(),
	}
	if err := s.Notifications.Create(ctx, n); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return false, nil
		}
		return false, &PersistenceError{Op: "notification create", Err: err}
	}
	observability.NotificationsTotal.Inc()

	if s.Hub != nil {
		payload, _ := json.Marshal(map[string]interface{}{
			"event":        "notification",
			"notification": n,
		})
		if err := s.Hub.Push(userID, payload); err != nil {
			s.Logger.Warn("notification push failed", "user_id", userID, "error", err)
		}
	}
	return true, nil
}

// activeCollection returns the non-cancelled collection referencing a
// listing, if one exists. At most one may exist at a time.
func (s *Service) activeCollection(ctx context.Context, listingID string) (*models.FoodCollection, error) {
	collections, err := s.Collections.List(ctx, store.CollectionFilter{ListingID: listingID})
	if err != nil {
		return nil, err
	}
	for i := range collections {
		if collections[i].Status != models.CollectionCancelled {
			return &collections[i], nil
		}
	}
	return nil, nil
}
