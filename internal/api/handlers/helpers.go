package handlers

import (
	"errors"
	"net/http"

	"foodbridge-api-server/internal/models"
	"foodbridge-api-server/internal/workflow"

	"github.com/gin-gonic/gin"
)

// identityFromContext builds the acting principal from the values the
// Authenticate middleware stored.
func identityFromContext(c *gin.Context) workflow.Identity {
	return workflow.Identity{
		UserID: c.GetString("user_id"),
		Name:   c.GetString("user_name"),
		Role:   models.Role(c.GetString("user_role")),
	}
}

// writeWorkflowError converts a workflow failure into the right HTTP status.
// Raw store errors never reach the client; a persistence failure tells the
// caller to re-fetch state before retrying.
func writeWorkflowError(c *gin.Context, err error) {
	var pe *workflow.PersistenceError
	switch {
	case errors.Is(err, workflow.ErrAuthenticationRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	case errors.Is(err, workflow.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to perform this action"})
	case errors.Is(err, workflow.ErrAlreadyClaimed):
		c.JSON(http.StatusConflict, gin.H{"error": "This listing is no longer available"})
	case errors.Is(err, workflow.ErrExpired):
		c.JSON(http.StatusGone, gin.H{"error": "This listing has expired"})
	case errors.Is(err, workflow.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
	case errors.Is(err, workflow.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "The record is not in a state that allows this action"})
	case errors.As(err, &pe):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "A storage error occurred. Refresh and try again."})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}
