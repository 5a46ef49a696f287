package handlers

import (
	"errors"
	"net/http"

	"hueforge-backend/auth"
	"hueforge-backend/service"

	"github.com/gin-gonic/gin"
)

// UserHandler handles HTTP requests for user provisioning and stats
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// CreateUser handles POST /api/users. Provisioning is idempotent: the first
// call for an identity creates the mirror, later calls return the existing row.
func (h *UserHandler) CreateUser(c *gin.Context) {
	clerkUserID, ok := auth.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.users.EnsureUser(c.Request.Context(), service.EnsureUserRequest{
		ClerkUserID: clerkUserID,
	})
	if err != nil {
		if errors.Is(err, service.ErrProfileMissing) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No user found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	c.JSON(status, result.User)
}

// GetGeneratedSystems handles GET /api/users-generated-systems
func (h *UserHandler) GetGeneratedSystems(c *gin.Context) {
	clerkUserID, ok := auth.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.users.Stats(c.Request.Context(), service.StatsRequest{
		ClerkUserID: clerkUserID,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, result)
}
