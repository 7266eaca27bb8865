package handlers

import (
	"fmt"
	"net/http"
	"time"

	"foodbridge-api-server/internal/auth"
	"foodbridge-api-server/internal/maps"
	"foodbridge-api-server/internal/models"
	"foodbridge-api-server/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserHandler struct {
	Users    store.UserStore
	Maps     *maps.Client
	TokenTTL time.Duration
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates an account. The role is fixed at registration; admin
// accounts are seeded, never self-registered.
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ValidRole(req.Role) || models.Role(req.Role) == models.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be one of hotel, ngo, volunteer"})
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password"})
		return
	}

	user := &models.User{
		ID:        fmt.Sprintf("user-%s", uuid.New().String()[:8]),
		Email:     req.Email,
		Password:  hashedPassword,
		Name:      req.Name,
		Role:      models.Role(req.Role),
		CreatedAt: time.Now().UnixMilli(),
	}

	if err := h.Users.Create(c.Request.Context(), user); err != nil {
		if err == store.ErrDuplicate {
			c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	token, err := auth.GenerateJWT(user.ID, string(user.Role), user.Name, h.TokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

// Login verifies credentials and issues a JWT.
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil || !auth.CheckPasswordHash(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := auth.GenerateJWT(user.ID, string(user.Role), user.Name, h.TokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// GetMe returns the authenticated user's record.
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.Users.GetByID(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

type CompleteProfileRequest struct {
	Phone   string   `json:"phone" binding:"required"`
	Address string   `json:"address" binding:"required"`
	Lat     *float64 `json:"lat" binding:"omitempty,min=-90,max=90"`
	Lng     *float64 `json:"lng" binding:"omitempty,min=-180,max=180"`

	// Role-specific sections; only the one matching the user's role is read.
	Hotel     *models.HotelProfile     `json:"hotelProfile"`
	NGO       *models.NGOProfile       `json:"ngoProfile"`
	Volunteer *models.VolunteerProfile `json:"volunteerProfile"`
}

// CompleteProfile fills in the role-specific profile during first-time
// setup. The address is geocoded when coordinates are not supplied.
func (h *UserHandler) CompleteProfile(c *gin.Context) {
	var req CompleteProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Users.GetByID(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	user.Phone = req.Phone
	user.Address = req.Address

	if req.Lat != nil && req.Lng != nil {
		user.Location = models.GeoPoint{Lat: *req.Lat, Lng: *req.Lng}
	} else if h.Maps != nil {
		point, err := h.Maps.Geocode(c.Request.Context(), req.Address)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Could not resolve the address to a location"})
			return
		}
		user.Location = point
	}

	switch user.Role {
	case models.RoleHotel:
		if req.Hotel == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "hotelProfile is required for hotel accounts"})
			return
		}
		user.Hotel = req.Hotel
	case models.RoleNGO:
		if req.NGO == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ngoProfile is required for ngo accounts"})
			return
		}
		user.NGO = req.NGO
	case models.RoleVolunteer:
		if req.Volunteer == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "volunteerProfile is required for volunteer accounts"})
			return
		}
		user.Volunteer = req.Volunteer
	}

	user.ProfileComplete = true

	if err := h.Users.Update(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, user)
}

type UpdateMeRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// UpdateMe changes the basic profile fields. Role is immutable.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Users.GetByID(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Address != "" {
		user.Address = req.Address
		if h.Maps != nil {
			if point, err := h.Maps.Geocode(c.Request.Context(), req.Address); err == nil {
				user.Location = point
			}
		}
	}

	if err := h.Users.Update(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, user)
}
