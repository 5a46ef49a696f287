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

// TypographyHandler handles HTTP requests for saved typography presets
type TypographyHandler struct {
	typographies *service.TypographyService
}

// NewTypographyHandler creates a new typography handler
func NewTypographyHandler(typographies *service.TypographyService) *TypographyHandler {
	return &TypographyHandler{typographies: typographies}
}

// SaveTypographyRequest represents the request body for saving a preset
type SaveTypographyRequest struct {
	FontFamily string                   `json:"fontFamily"`
	Name       []string                 `json:"name"`
	Levels     []models.TypographyLevel `json:"levels"`
	Prompt     string                   `json:"prompt"`
}

// SaveTypography handles POST /api/saved-typography
func (h *TypographyHandler) SaveTypography(c *gin.Context) {
	var req SaveTypographyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fontFamily required"})
		return
	}
	if req.FontFamily == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fontFamily required"})
		return
	}
	if len(req.Name) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}
	if len(req.Levels) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "levels required"})
		return
	}

	clerkUserID, ok := auth.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.typographies.SaveTypography(c.Request.Context(), service.SaveTypographyRequest{
		ClerkUserID: clerkUserID,
		FontFamily:  req.FontFamily,
		Name:        req.Name,
		Levels:      req.Levels,
		Prompt:      req.Prompt,
	})
	if err != nil {
		if errors.Is(err, service.ErrProfileMissing) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save Typography"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Typography saved successfully",
		"typography": result.Typography,
	})
}

// DeleteTypography handles DELETE /api/saved-typography
func (h *TypographyHandler) DeleteTypography(c *gin.Context) {
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
		c.JSON(http.StatusNotFound, gin.H{"error": "Typography not found"})
		return
	}

	result, err := h.typographies.DeleteTypography(c.Request.Context(), service.DeleteTypographyRequest{
		ClerkUserID: clerkUserID,
		ID:          id,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTypographyNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Typography not found"})
		case errors.Is(err, service.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete Typography"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":          "Typography deleted successfully.",
		"deleteTypography": result.Typography,
	})
}

// GetTypographies handles GET /api/get-typography
func (h *TypographyHandler) GetTypographies(c *gin.Context) {
	clerkUserID, ok := auth.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.typographies.ListTypographies(c.Request.Context(), service.ListTypographiesRequest{
		ClerkUserID: clerkUserID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server Error"})
		return
	}

	c.JSON(http.StatusOK, result.Typographies)
}

// GetTypographyByID handles GET /api/getIdByTypography/:typographyId
func (h *TypographyHandler) GetTypographyByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("typographyId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Typography not found"})
		return
	}

	result, err := h.typographies.GetTypography(c.Request.Context(), service.GetTypographyRequest{ID: id})
	if err != nil {
		if errors.Is(err, service.ErrTypographyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Typography not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"typography": result.Typography})
}
