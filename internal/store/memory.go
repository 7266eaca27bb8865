package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"foodbridge-api-server/internal/models"
)

// MemoryListingStore is a map-backed ListingStore used in tests and demo
// mode. The version check makes it honor the same compare-and-swap contract
// as the Mongo implementation.
type MemoryListingStore struct {
	mu       sync.RWMutex
	listings map[string]models.FoodListing
}

func NewMemoryListingStore() *MemoryListingStore {
	return &MemoryListingStore{listings: make(map[string]models.FoodListing)}
}

func (s *MemoryListingStore) GetByID(ctx context.Context, id string) (*models.FoodListing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.listings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &l, nil
}

func (s *MemoryListingStore) List(ctx context.Context, f ListingFilter) ([]models.FoodListing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.FoodListing, 0, len(s.listings))
	for _, l := range s.listings {
		if f.Status != "" && l.Status != f.Status {
			continue
		}
		if f.HotelID != "" && l.HotelID != f.HotelID {
			continue
		}
		if f.ExpiredBefore != 0 && l.ExpiryTime > f.ExpiredBefore {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

func (s *MemoryListingStore) Create(ctx context.Context, l *models.FoodListing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.listings[l.ID]; ok {
		return ErrDuplicate
	}
	s.listings[l.ID] = *l
	return nil
}

func (s *MemoryListingStore) UpdateVersioned(ctx context.Context, l *models.FoodListing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.listings[l.ID]
	if !ok {
		return ErrNotFound
	}
	if cur.Version != l.Version {
		return ErrConflict
	}
	next := *l
	next.Version = l.Version + 1
	s.listings[l.ID] = next
	l.Version = next.Version
	return nil
}

func (s *MemoryListingStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.listings[id]; !ok {
		return ErrNotFound
	}
	delete(s.listings, id)
	return nil
}

// MemoryCollectionStore is a map-backed CollectionStore.
type MemoryCollectionStore struct {
	mu          sync.RWMutex
	collections map[string]models.FoodCollection
}

func NewMemoryCollectionStore() *MemoryCollectionStore {
	return &MemoryCollectionStore{collections: make(map[string]models.FoodCollection)}
}

func (s *MemoryCollectionStore) GetByID(ctx context.Context, id string) (*models.FoodCollection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *MemoryCollectionStore) List(ctx context.Context, f CollectionFilter) ([]models.FoodCollection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.FoodCollection, 0)
	for _, c := range s.collections {
		if f.ListingID != "" && c.FoodListingID != f.ListingID {
			continue
		}
		if f.ForUser != "" && c.HotelID != f.ForUser && c.NgoID != f.ForUser && c.VolunteerID != f.ForUser {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

func (s *MemoryCollectionStore) Create(ctx context.Context, c *models.FoodCollection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[c.ID]; ok {
		return ErrDuplicate
	}
	s.collections[c.ID] = *c
	return nil
}

func (s *MemoryCollectionStore) Update(ctx context.Context, c *models.FoodCollection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[c.ID]; !ok {
		return ErrNotFound
	}
	s.collections[c.ID] = *c
	return nil
}

// MemoryNotificationStore is a map-backed NotificationStore.
type MemoryNotificationStore struct {
	mu            sync.RWMutex
	notifications map[string]models.Notification
}

func NewMemoryNotificationStore() *MemoryNotificationStore {
	return &MemoryNotificationStore{notifications: make(map[string]models.Notification)}
}

func (s *MemoryNotificationStore) ListByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Notification, 0)
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

func (s *MemoryNotificationStore) Create(ctx context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notifications[n.ID]; ok {
		return ErrDuplicate
	}
	s.notifications[n.ID] = *n
	return nil
}

func (s *MemoryNotificationStore) MarkRead(ctx context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok || n.UserID != userID {
		return ErrNotFound
	}
	n.Read = true
	s.notifications[id] = n
	return nil
}

func (s *MemoryNotificationStore) Delete(ctx context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok || n.UserID != userID {
		return ErrNotFound
	}
	delete(s.notifications, id)
	return nil
}

// MemoryUserStore is a map-backed UserStore.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]models.User)}
}

func (s *MemoryUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			out := u
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUserStore) List(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

func (s *MemoryUserStore) Create(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; ok {
		return ErrDuplicate
	}
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return ErrDuplicate
		}
	}
	s.users[u.ID] = *u
	return nil
}

func (s *MemoryUserStore) Update(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return ErrNotFound
	}
	s.users[u.ID] = *u
	return nil
}
