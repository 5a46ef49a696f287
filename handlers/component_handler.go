package handlers

import (
	"errors"
	"net/http"

	"hueforge-backend/auth"
	"hueforge-backend/models"
	"hueforge-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ComponentHandler handles HTTP requests for saved components
type ComponentHandler struct {
	components *service.ComponentService
}

// NewComponentHandler creates a new component handler
func NewComponentHandler(components *service.ComponentService) *ComponentHandler {
	return &ComponentHandler{components: components}
}

// SaveComponentRequest represents the request body for saving a component
type SaveComponentRequest struct {
	Component models.GeneratedComponent `json:"component"`
}

// SaveComponent handles POST /api/saved-component
func (h *ComponentHandler) SaveComponent(c *gin.Context) {
	var req SaveComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil ||
		req.Component.ComponentName == "" ||
		req.Component.Category == "" ||
		len(req.Component.CodeFiles) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required component fields"})
		return
	}

	clerkUserID, ok := auth.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.components.SaveComponent(c.Request.Context(), service.SaveComponentRequest{
		ClerkUserID: clerkUserID,
		Component:   req.Component,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized - User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Component saved to library.",
		"newComponent": result.Component,
	})
}

// DeleteComponent handles DELETE /api/saved-component
func (h *ComponentHandler) DeleteComponent(c *gin.Context) {
	var req DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.DeleteID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "deleteId is missing"})
		return
	}

	clerkUserID, ok := auth.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := uuid.Parse(req.DeleteID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Component not found"})
		return
	}

	result, err := h.components.DeleteComponent(c.Request.Context(), service.DeleteComponentRequest{
		ClerkUserID: clerkUserID,
		ID:          id,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrComponentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Component not found"})
		case errors.Is(err, service.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete Component"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Component deleted successfully.",
		"deleteComponent": result.Component,
	})
}

// GetComponents handles GET /api/get-components
func (h *ComponentHandler) GetComponents(c *gin.Context) {
	clerkUserID, ok := auth.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.components.ListComponents(c.Request.Context(), service.ListComponentsRequest{
		ClerkUserID: clerkUserID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"components": result.Components})
}

// GetComponentByID handles GET /api/getById/:componentId
func (h *ComponentHandler) GetComponentByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("componentId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Component not found"})
		return
	}

	result, err := h.components.GetComponent(c.Request.Context(), service.GetComponentRequest{ID: id})
	if err != nil {
		if errors.Is(err, service.ErrComponentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Component not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"component": result.Component})
}
