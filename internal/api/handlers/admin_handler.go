package handlers

import (
	"net/http"

	"foodbridge-api-server/internal/models"
	"foodbridge-api-server/internal/store"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	Users    store.UserStore
	Listings store.ListingStore
}

// ListUsers returns every account on the platform.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.Users.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetStats reports listing counts per lifecycle status plus role counts.
func (h *AdminHandler) GetStats(c *gin.Context) {
	statuses := []models.ListingStatus{
		models.ListingAvailable, models.ListingAssigned, models.ListingCollected,
		models.ListingDelivered, models.ListingExpired, models.ListingCancelled,
	}

	listingCounts := make(map[string]int, len(statuses))
	for _, status := range statuses {
		listings, err := h.Listings.List(c.Request.Context(), store.ListingFilter{Status: status})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query listings"})
			return
		}
		listingCounts[string(status)] = len(listings)
	}

	users, err := h.Users.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query users"})
		return
	}
	roleCounts := make(map[string]int)
	for _, u := range users {
		roleCounts[string(u.Role)]++
	}

	c.JSON(http.StatusOK, gin.H{
		"listingsByStatus": listingCounts,
		"usersByRole":      roleCounts,
	})
}
