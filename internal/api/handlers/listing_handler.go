package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"foodbridge-api-server/internal/geo"
	"foodbridge-api-server/internal/maps"
	"foodbridge-api-server/internal/models"
	"foodbridge-api-server/internal/store"
	"foodbridge-api-server/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ListingHandler struct {
	Listings store.ListingStore
	Users    store.UserStore
	Workflow *workflow.Service
	Maps     *maps.Client
}

type LocationRequest struct {
	Address string  `json:"address" binding:"required"`
	Lat     float64 `json:"lat" binding:"omitempty,min=-90,max=90"`
	Lng     float64 `json:"lng" binding:"omitempty,min=-180,max=180"`
}

type CreateListingRequest struct {
	FoodName        string             `json:"foodName" binding:"required"`
	Description     string             `json:"description"`
	Quantity        float64            `json:"quantity" binding:"required,gt=0"`
	QuantityUnit    string             `json:"quantityUnit" binding:"required"`
	PreparationTime int64              `json:"preparationTime" binding:"required"`
	ExpiryTime      int64              `json:"expiryTime" binding:"required"`
	DietaryInfo     models.DietaryInfo `json:"dietaryInfo"`
	Location        LocationRequest    `json:"location" binding:"required"`
}

// CreateListing posts a new surplus-food listing for the authenticated
// hotel. Listings that would already be expired are rejected.
func (h *ListingHandler) CreateListing(c *gin.Context) {
	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now().UnixMilli()
	if req.ExpiryTime <= now {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Expiry time must be in the future"})
		return
	}
	if req.ExpiryTime <= req.PreparationTime {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Expiry time must be after preparation time"})
		return
	}

	hotel, err := h.Users.GetByID(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load your account"})
		return
	}
	if !hotel.ProfileComplete {
		c.JSON(http.StatusForbidden, gin.H{"error": "Complete your profile before posting listings"})
		return
	}

	location := models.Location{Address: req.Location.Address, Lat: req.Location.Lat, Lng: req.Location.Lng}
	if location.Lat == 0 && location.Lng == 0 && h.Maps != nil {
		if point, err := h.Maps.Geocode(c.Request.Context(), location.Address); err == nil {
			location.Lat, location.Lng = point.Lat, point.Lng
		}
	}

	fssai := ""
	if hotel.Hotel != nil {
		fssai = hotel.Hotel.FssaiNumber
	}

	listing := &models.FoodListing{
		ID:              fmt.Sprintf("listing-%s", uuid.New().String()[:8]),
		HotelID:         hotel.ID,
		HotelName:       hotel.Name,
		FoodName:        req.FoodName,
		Description:     req.Description,
		Quantity:        req.Quantity,
		QuantityUnit:    req.QuantityUnit,
		PreparationTime: req.PreparationTime,
		ExpiryTime:      req.ExpiryTime,
		FssaiNumber:     fssai,
		DietaryInfo:     req.DietaryInfo,
		Location:        location,
		Status:          models.ListingAvailable,
		CreatedAt:       now,
	}

	if err := h.Listings.Create(c.Request.Context(), listing); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create listing"})
		return
	}

	c.JSON(http.StatusCreated, listing)
}

// ListListings returns listings filtered by status and, optionally, by
// distance from a point. Sort orders: expiry (default), quantity, distance.
func (h *ListingHandler) ListListings(c *gin.Context) {
	filter := store.ListingFilter{Status: models.ListingAvailable}
	if s := c.Query("status"); s != "" {
		filter.Status = models.ListingStatus(s)
	}

	listings, err := h.Listings.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query listings"})
		return
	}

	var ref models.GeoPoint
	hasPoint := false
	if latStr, lngStr := c.Query("lat"), c.Query("lng"); latStr != "" && lngStr != "" {
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lng, errLng := strconv.ParseFloat(lngStr, 64)
		if errLat != nil || errLng != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lat/lng"})
			return
		}
		ref = models.GeoPoint{Lat: lat, Lng: lng}
		hasPoint = true
	}

	if radiusStr := c.Query("radius"); radiusStr != "" {
		if !hasPoint {
			c.JSON(http.StatusBadRequest, gin.H{"error": "radius requires lat and lng"})
			return
		}
		radius, err := strconv.ParseFloat(radiusStr, 64)
		if err != nil || radius <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid radius"})
			return
		}
		listings = geo.WithinRadius(listings, ref, radius)
	}

	sortOrder := c.DefaultQuery("sort", geo.SortExpiry)
	if sortOrder == geo.SortDistance && !hasPoint {
		c.JSON(http.StatusBadRequest, gin.H{"error": "distance sort requires lat and lng"})
		return
	}
	geo.SortListings(listings, sortOrder, ref)

	c.JSON(http.StatusOK, listings)
}

// ListMyListings returns the authenticated hotel's own listings, any status.
func (h *ListingHandler) ListMyListings(c *gin.Context) {
	listings, err := h.Listings.List(c.Request.Context(), store.ListingFilter{HotelID: c.GetString("user_id")})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query listings"})
		return
	}
	c.JSON(http.StatusOK, listings)
}

// GetListing returns one listing by id.
func (h *ListingHandler) GetListing(c *gin.Context) {
	listing, err := h.Listings.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve listing"})
		return
	}
	c.JSON(http.StatusOK, listing)
}

type UpdateListingRequest struct {
	FoodName     string              `json:"foodName"`
	Description  *string             `json:"description"`
	Quantity     float64             `json:"quantity" binding:"omitempty,gt=0"`
	QuantityUnit string              `json:"quantityUnit"`
	ExpiryTime   int64               `json:"expiryTime"`
	DietaryInfo  *models.DietaryInfo `json:"dietaryInfo"`
}

// UpdateListing edits an available listing. Only the owning hotel may edit,
// and only while nobody has claimed it; the versioned write refuses edits
// that race a claim.
func (h *ListingHandler) UpdateListing(c *gin.Context) {
	var req UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing, err := h.Listings.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}
	if listing.HotelID != c.GetString("user_id") {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own listings"})
		return
	}
	if listing.Status != models.ListingAvailable {
		c.JSON(http.StatusConflict, gin.H{"error": "Only available listings can be edited"})
		return
	}

	if req.FoodName != "" {
		listing.FoodName = req.FoodName
	}
	if req.Description != nil {
		listing.Description = *req.Description
	}
	if req.Quantity > 0 {
		listing.Quantity = req.Quantity
	}
	if req.QuantityUnit != "" {
		listing.QuantityUnit = req.QuantityUnit
	}
	if req.ExpiryTime != 0 {
		if req.ExpiryTime <= time.Now().UnixMilli() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Expiry time must be in the future"})
			return
		}
		listing.ExpiryTime = req.ExpiryTime
	}
	if req.DietaryInfo != nil {
		listing.DietaryInfo = *req.DietaryInfo
	}

	if err := h.Listings.UpdateVersioned(c.Request.Context(), listing); err != nil {
		if err == store.ErrConflict {
			c.JSON(http.StatusConflict, gin.H{"error": "The listing changed while you were editing. Refresh and try again."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update listing"})
		return
	}

	c.JSON(http.StatusOK, listing)
}

// DeleteListing removes an unclaimed listing owned by the caller.
func (h *ListingHandler) DeleteListing(c *gin.Context) {
	listing, err := h.Listings.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}
	if listing.HotelID != c.GetString("user_id") {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own listings"})
		return
	}
	if listing.Status != models.ListingAvailable {
		c.JSON(http.StatusConflict, gin.H{"error": "Only available listings can be deleted"})
		return
	}

	if err := h.Listings.Delete(c.Request.Context(), listing.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete listing"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Listing deleted successfully"})
}

type ClaimRequest struct {
	Notes string `json:"notes"`
}

// ClaimListing runs the claim workflow for the authenticated recipient.
func (h *ListingHandler) ClaimListing(c *gin.Context) {
	var req ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Workflow.Claim(c.Request.Context(), identityFromContext(c), c.Param("id"), req.Notes)
	if err != nil {
		writeWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"listing":    result.Listing,
		"collection": result.Collection,
	})
}

// GetListingDistance reports distance and ETA from a point to a listing,
// for display only.
func (h *ListingHandler) GetListingDistance(c *gin.Context) {
	listing, err := h.Listings.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng query parameters are required"})
		return
	}

	origin := models.GeoPoint{Lat: lat, Lng: lng}
	dest := models.GeoPoint{Lat: listing.Location.Lat, Lng: listing.Location.Lng}

	if h.Maps == nil {
		c.JSON(http.StatusOK, gin.H{"distanceKm": geo.Haversine(origin.Lat, origin.Lng, dest.Lat, dest.Lng)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"distanceKm": h.Maps.DistanceKm(c.Request.Context(), origin, dest),
		"etaMinutes": h.Maps.ETAMinutes(c.Request.Context(), origin, dest),
	})
}
