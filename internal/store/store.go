// Package store defines the repositories backing the marketplace entities.
// Each entity gets an interface with a MongoDB implementation and an
// in-memory implementation; callers never see the underlying containers.
package store

import (
	"context"
	"errors"

	"foodbridge-api-server/internal/models"
)

var (
	// ErrNotFound is returned when no record matches the given id.
	ErrNotFound = errors.New("store: record not found")
	// ErrConflict is returned when a versioned update loses a race: the
	// record changed between the caller's read and its write.
	ErrConflict = errors.New("store: conditional update failed")
	// ErrDuplicate is returned when a unique field is already taken.
	ErrDuplicate = errors.New("store: duplicate record")
)

// ListingFilter narrows a listing query. Zero values mean "any".
type ListingFilter struct {
	Status  models.ListingStatus
	HotelID string
	// ExpiredBefore selects listings whose expiry time is at or before the
	// given epoch-millisecond instant. Used by the expiry sweeper.
	ExpiredBefore int64
}

// ListingStore persists food listings. Every mutation is versioned: the
// write only succeeds if the stored version still equals the version the
// caller read, which is what keeps two simultaneous claimants from both
// "winning" the same listing.
type ListingStore interface {
	GetByID(ctx context.Context, id string) (*models.FoodListing, error)
	List(ctx context.Context, f ListingFilter) ([]models.FoodListing, error)
	Create(ctx context.Context, l *models.FoodListing) error
	// UpdateVersioned replaces the stored listing if and only if its version
	// still equals l.Version; on success the stored version is l.Version+1.
	// Returns ErrConflict if the record moved on.
	UpdateVersioned(ctx context.Context, l *models.FoodListing) error
	Delete(ctx context.Context, id string) error
}

// CollectionFilter narrows a collection query. Zero values mean "any".
type CollectionFilter struct {
	ListingID string
	// ForUser matches any of the hotel, ngo, or volunteer ids.
	ForUser string
	Status  models.CollectionStatus
}

// CollectionStore persists pickup arrangements.
type CollectionStore interface {
	GetByID(ctx context.Context, id string) (*models.FoodCollection, error)
	List(ctx context.Context, f CollectionFilter) ([]models.FoodCollection, error)
	Create(ctx context.Context, c *models.FoodCollection) error
	Update(ctx context.Context, c *models.FoodCollection) error
}

// NotificationStore persists per-user notifications.
type NotificationStore interface {
	ListByUser(ctx context.Context, userID string) ([]models.Notification, error)
	Create(ctx context.Context, n *models.Notification) error
	// MarkRead flips the read flag on a notification owned by userID.
	MarkRead(ctx context.Context, id, userID string) error
	Delete(ctx context.Context, id, userID string) error
}

// UserStore persists user accounts and profiles.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, u *models.User) error
	Update(ctx context.Context, u *models.User) error
}
