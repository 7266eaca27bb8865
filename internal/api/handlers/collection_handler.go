package handlers

import (
	"fmt"
	"net/http"
	"time"

	"foodbridge-api-server/internal/models"
	"foodbridge-api-server/internal/s3"
	"foodbridge-api-server/internal/store"
	"foodbridge-api-server/internal/workflow"

	"github.com/gin-gonic/gin"
)

type CollectionHandler struct {
	Collections store.CollectionStore
	Workflow    *workflow.Service
	S3Uploader  *s3.Uploader
}

// ListMyCollections returns every collection the caller participates in,
// as donor, claimant, or volunteer.
func (h *CollectionHandler) ListMyCollections(c *gin.Context) {
	filter := store.CollectionFilter{ForUser: c.GetString("user_id")}
	if s := c.Query("status"); s != "" {
		filter.Status = models.CollectionStatus(s)
	}

	collections, err := h.Collections.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query collections"})
		return
	}
	c.JSON(http.StatusOK, collections)
}

// GetCollection returns one collection; only its participants may read it.
func (h *CollectionHandler) GetCollection(c *gin.Context) {
	collection, err := h.Collections.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found"})
		return
	}

	userID := c.GetString("user_id")
	if collection.HotelID != userID && collection.NgoID != userID && collection.VolunteerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a participant in this collection"})
		return
	}

	c.JSON(http.StatusOK, collection)
}

// ConfirmPickup advances a collection to in-progress. An optional multipart
// "photo" file is stored as pickup proof.
func (h *CollectionHandler) ConfirmPickup(c *gin.Context) {
	photoURL, ok := h.uploadProof(c, "pickup")
	if !ok {
		return
	}

	collection, err := h.Workflow.ConfirmPickup(c.Request.Context(), identityFromContext(c), c.Param("id"), photoURL)
	if err != nil {
		writeWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, collection)
}

// ConfirmDelivery completes a collection. An optional multipart "photo"
// file is stored as delivery proof.
func (h *CollectionHandler) ConfirmDelivery(c *gin.Context) {
	photoURL, ok := h.uploadProof(c, "delivery")
	if !ok {
		return
	}

	collection, err := h.Workflow.ConfirmDelivery(c.Request.Context(), identityFromContext(c), c.Param("id"), photoURL)
	if err != nil {
		writeWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, collection)
}

// CancelCollection cancels an active claim; donor or claimant only.
func (h *CollectionHandler) CancelCollection(c *gin.Context) {
	collection, err := h.Workflow.CancelClaim(c.Request.Context(), identityFromContext(c), c.Param("id"))
	if err != nil {
		writeWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, collection)
}

// uploadProof reads an optional multipart photo and uploads it to S3. The
// second return value is false when the handler already wrote an error.
func (h *CollectionHandler) uploadProof(c *gin.Context, kind string) (string, bool) {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		// No photo attached; confirmation proceeds without proof.
		return "", true
	}
	if h.S3Uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Photo storage is not configured"})
		return "", false
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded photo"})
		return "", false
	}
	defer file.Close()

	objectKey := fmt.Sprintf("collections/%s/%s-%d.jpg", c.Param("id"), kind, time.Now().UnixMilli())
	url, err := h.S3Uploader.UploadPhoto(c.Request.Context(), file, objectKey, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store photo"})
		return "", false
	}
	return url, true
}
