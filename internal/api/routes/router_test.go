package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"foodbridge-api-server/internal/auth"
	"foodbridge-api-server/internal/models"
	"foodbridge-api-server/internal/socket"
	"foodbridge-api-server/internal/store"
	"foodbridge-api-server/internal/workflow"

	"github.com/gin-gonic/gin"
)

type fixture struct {
	router *gin.Engine
	stores Stores
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	auth.JwtSecret = []byte("test-secret")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	stores := Stores{
		Listings:      store.NewMemoryListingStore(),
		Collections:   store.NewMemoryCollectionStore(),
		Notifications: store.NewMemoryNotificationStore(),
		Users:         store.NewMemoryUserStore(),
	}
	wf := workflow.NewService(stores.Listings, stores.Collections, stores.Notifications, nil, logger)
	router := SetupRouter(stores, wf, nil, nil, socket.NewHub(logger), time.Hour, logger)
	return &fixture{router: router, stores: stores}
}

func (f *fixture) seedUser(t *testing.T, id string, role models.Role) string {
	t.Helper()
	user := &models.User{
		ID:              id,
		Email:           id + "@example.com",
		Name:            "User " + id,
		Role:            role,
		ProfileComplete: true,
		CreatedAt:       time.Now().UnixMilli(),
	}
	if role == models.RoleHotel {
		user.Hotel = &models.HotelProfile{FssaiNumber: "FSSAI-123", ContactPerson: "Manager", BusinessType: "hotel"}
	}
	if err := f.stores.Users.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	token, err := auth.GenerateJWT(user.ID, string(user.Role), user.Name, time.Hour)
	if err != nil {
		t.Fatalf("token for %s: %v", id, err)
	}
	return token
}

func (f *fixture) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func listingPayload(expiryOffset time.Duration) map[string]interface{} {
	now := time.Now()
	return map[string]interface{}{
		"foodName":        "Paneer Tikka",
		"description":     "From tonight's buffet",
		"quantity":        8,
		"quantityUnit":    "kg",
		"preparationTime": now.Add(-time.Hour).UnixMilli(),
		"expiryTime":      now.Add(expiryOffset).UnixMilli(),
		"location": map[string]interface{}{
			"address": "12 MG Road, Bangalore",
			"lat":     12.9716,
			"lng":     77.5946,
		},
	}
}

func TestCreateListingRequiresHotelRole(t *testing.T) {
	f := newFixture(t)
	ngoToken := f.seedUser(t, "N1", models.RoleNGO)

	w := f.do(http.MethodPost, "/api/v1/listings/", ngoToken, listingPayload(time.Hour))
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403, body %s", w.Code, w.Body.String())
	}
}

func TestCreateListingRejectsPastExpiry(t *testing.T) {
	f := newFixture(t)
	hotelToken := f.seedUser(t, "H1", models.RoleHotel)

	w := f.do(http.MethodPost, "/api/v1/listings/", hotelToken, listingPayload(-time.Hour))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400, body %s", w.Code, w.Body.String())
	}
}

func TestClaimFlowOverHTTP(t *testing.T) {
	f := newFixture(t)
	hotelToken := f.seedUser(t, "H1", models.RoleHotel)
	ngoToken := f.seedUser(t, "N1", models.RoleNGO)
	otherNgoToken := f.seedUser(t, "N2", models.RoleNGO)

	w := f.do(http.MethodPost, "/api/v1/listings/", hotelToken, listingPayload(time.Hour))
	if w.Code != http.StatusCreated {
		t.Fatalf("create listing status = %d, body %s", w.Code, w.Body.String())
	}
	var created models.FoodListing
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created listing: %v", err)
	}
	if created.FssaiNumber != "FSSAI-123" {
		t.Errorf("listing fssai = %q, want copied from the hotel profile", created.FssaiNumber)
	}

	claimPath := fmt.Sprintf("/api/v1/listings/%s/claim", created.ID)

	// Hotels cannot claim.
	if w := f.do(http.MethodPost, claimPath, hotelToken, map[string]string{}); w.Code != http.StatusForbidden {
		t.Errorf("hotel claim status = %d, want 403", w.Code)
	}
	// Anonymous users cannot claim.
	if w := f.do(http.MethodPost, claimPath, "", map[string]string{}); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous claim status = %d, want 401", w.Code)
	}

	w = f.do(http.MethodPost, claimPath, ngoToken, map[string]string{"notes": "arriving by 5pm"})
	if w.Code != http.StatusOK {
		t.Fatalf("claim status = %d, body %s", w.Code, w.Body.String())
	}
	var claimResp struct {
		Listing    models.FoodListing    `json:"listing"`
		Collection models.FoodCollection `json:"collection"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &claimResp); err != nil {
		t.Fatalf("decode claim response: %v", err)
	}
	if claimResp.Listing.Status != models.ListingAssigned {
		t.Errorf("claimed listing status = %q, want assigned", claimResp.Listing.Status)
	}
	if claimResp.Collection.NgoID != "N1" || claimResp.Collection.Notes != "arriving by 5pm" {
		t.Errorf("collection = %+v, want ngoId N1 with notes", claimResp.Collection)
	}

	// A second claim by another NGO conflicts.
	if w := f.do(http.MethodPost, claimPath, otherNgoToken, map[string]string{}); w.Code != http.StatusConflict {
		t.Errorf("second claim status = %d, want 409, body %s", w.Code, w.Body.String())
	}

	// Both parties find the event in their inboxes.
	for _, token := range []string{hotelToken, ngoToken} {
		w := f.do(http.MethodGet, "/api/v1/notifications/", token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("inbox status = %d", w.Code)
		}
		var inbox []models.Notification
		if err := json.Unmarshal(w.Body.Bytes(), &inbox); err != nil {
			t.Fatalf("decode inbox: %v", err)
		}
		if len(inbox) != 1 {
			t.Errorf("inbox size = %d, want 1", len(inbox))
		}
	}
}

func TestNearbyListingFilterOverHTTP(t *testing.T) {
	f := newFixture(t)
	hotelToken := f.seedUser(t, "H1", models.RoleHotel)
	ngoToken := f.seedUser(t, "N1", models.RoleNGO)

	near := listingPayload(time.Hour)
	near["foodName"] = "Near"
	far := listingPayload(time.Hour)
	far["foodName"] = "Far"
	far["location"] = map[string]interface{}{"address": "Hubli", "lat": 15.3525, "lng": 75.1240}

	for _, payload := range []map[string]interface{}{near, far} {
		if w := f.do(http.MethodPost, "/api/v1/listings/", hotelToken, payload); w.Code != http.StatusCreated {
			t.Fatalf("create listing status = %d", w.Code)
		}
	}

	w := f.do(http.MethodGet, "/api/v1/listings/?lat=12.9716&lng=77.5946&radius=25", ngoToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d, body %s", w.Code, w.Body.String())
	}
	var listings []models.FoodListing
	if err := json.Unmarshal(w.Body.Bytes(), &listings); err != nil {
		t.Fatalf("decode listings: %v", err)
	}
	if len(listings) != 1 || listings[0].FoodName != "Near" {
		t.Errorf("nearby = %d listings, want only the near one", len(listings))
	}
}

func TestAdminEndpointsRoleGated(t *testing.T) {
	f := newFixture(t)
	ngoToken := f.seedUser(t, "N1", models.RoleNGO)
	adminToken := f.seedUser(t, "A1", models.RoleAdmin)

	if w := f.do(http.MethodGet, "/api/v1/admin/users", ngoToken, nil); w.Code != http.StatusForbidden {
		t.Errorf("ngo admin access status = %d, want 403", w.Code)
	}
	if w := f.do(http.MethodGet, "/api/v1/admin/users", adminToken, nil); w.Code != http.StatusOK {
		t.Errorf("admin access status = %d, want 200", w.Code)
	}
	if w := f.do(http.MethodGet, "/api/v1/admin/stats", adminToken, nil); w.Code != http.StatusOK {
		t.Errorf("admin stats status = %d, want 200", w.Code)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    "kitchen@grandpalace.example",
		"password": "a-strong-password",
		"name":     "Grand Palace",
		"role":     "hotel",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", w.Code, w.Body.String())
	}

	// Admin self-registration is refused.
	w = f.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    "root@example.com",
		"password": "a-strong-password",
		"name":     "Root",
		"role":     "admin",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("admin register status = %d, want 400", w.Code)
	}

	w = f.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "kitchen@grandpalace.example",
		"password": "a-strong-password",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		t.Errorf("login response missing token: %s", w.Body.String())
	}

	w = f.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "kitchen@grandpalace.example",
		"password": "wrong-password",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, want 401", w.Code)
	}
}
