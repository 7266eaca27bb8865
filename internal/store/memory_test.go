package store

import (
	"context"
	"errors"
	"testing"

	"foodbridge-api-server/internal/models"
)

func TestListingVersionedUpdateConflict(t *testing.T) {
	s := NewMemoryListingStore()
	ctx := context.Background()

	base := &models.FoodListing{ID: "L1", Status: models.ListingAvailable}
	if err := s.Create(ctx, base); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Two readers get the same version.
	first, _ := s.GetByID(ctx, "L1")
	second, _ := s.GetByID(ctx, "L1")

	first.Status = models.ListingAssigned
	if err := s.UpdateVersioned(ctx, first); err != nil {
		t.Fatalf("first UpdateVersioned() error = %v", err)
	}
	if first.Version != 1 {
		t.Errorf("winner version = %d, want 1", first.Version)
	}

	second.Status = models.ListingAssigned
	if err := s.UpdateVersioned(ctx, second); !errors.Is(err, ErrConflict) {
		t.Errorf("stale UpdateVersioned() error = %v, want ErrConflict", err)
	}

	stored, _ := s.GetByID(ctx, "L1")
	if stored.Version != 1 {
		t.Errorf("stored version = %d, want 1", stored.Version)
	}
}

func TestListingFilter(t *testing.T) {
	s := NewMemoryListingStore()
	ctx := context.Background()

	s.Create(ctx, &models.FoodListing{ID: "a", HotelID: "H1", Status: models.ListingAvailable, ExpiryTime: 100})
	s.Create(ctx, &models.FoodListing{ID: "b", HotelID: "H1", Status: models.ListingAssigned, ExpiryTime: 200})
	s.Create(ctx, &models.FoodListing{ID: "c", HotelID: "H2", Status: models.ListingAvailable, ExpiryTime: 300})

	got, _ := s.List(ctx, ListingFilter{Status: models.ListingAvailable})
	if len(got) != 2 {
		t.Errorf("status filter returned %d, want 2", len(got))
	}
	got, _ = s.List(ctx, ListingFilter{HotelID: "H1"})
	if len(got) != 2 {
		t.Errorf("hotel filter returned %d, want 2", len(got))
	}
	got, _ = s.List(ctx, ListingFilter{Status: models.ListingAvailable, ExpiredBefore: 150})
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("expiry filter = %v, want only a", got)
	}
}

func TestCollectionForUserFilter(t *testing.T) {
	s := NewMemoryCollectionStore()
	ctx := context.Background()

	s.Create(ctx, &models.FoodCollection{ID: "c1", FoodListingID: "L1", HotelID: "H1", NgoID: "N1"})
	s.Create(ctx, &models.FoodCollection{ID: "c2", FoodListingID: "L2", HotelID: "H2", VolunteerID: "V1"})

	for user, want := range map[string]int{"H1": 1, "N1": 1, "V1": 1, "H2": 1, "X": 0} {
		got, _ := s.List(ctx, CollectionFilter{ForUser: user})
		if len(got) != want {
			t.Errorf("ForUser %s returned %d, want %d", user, len(got), want)
		}
	}
}

func TestNotificationOwnershipScoping(t *testing.T) {
	s := NewMemoryNotificationStore()
	ctx := context.Background()

	s.Create(ctx, &models.Notification{ID: "n1", UserID: "U1"})

	if err := s.MarkRead(ctx, "n1", "U2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("MarkRead by non-owner error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "n1", "U2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete by non-owner error = %v, want ErrNotFound", err)
	}
	if err := s.MarkRead(ctx, "n1", "U1"); err != nil {
		t.Errorf("MarkRead by owner error = %v", err)
	}

	inbox, _ := s.ListByUser(ctx, "U1")
	if len(inbox) != 1 || !inbox[0].Read {
		t.Errorf("inbox = %v, want one read notification", inbox)
	}
}

func TestUserDuplicateEmail(t *testing.T) {
	s := NewMemoryUserStore()
	ctx := context.Background()

	if err := s.Create(ctx, &models.User{ID: "u1", Email: "a@example.com"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := s.Create(ctx, &models.User{ID: "u2", Email: "A@Example.com"}); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate email Create() error = %v, want ErrDuplicate", err)
	}
}
