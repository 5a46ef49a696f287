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

// PaletteHandler handles HTTP requests for saved palettes
type PaletteHandler struct {
	palettes *service.PaletteService
}

// NewPaletteHandler creates a new palette handler
func NewPaletteHandler(palettes *service.PaletteService) *PaletteHandler {
	return &PaletteHandler{palettes: palettes}
}

// SavePaletteRequest represents the request body for saving a palette
type SavePaletteRequest struct {
	ColorPalette []models.PaletteColor `json:"colorPalette"`
	Name         string                `json:"name"`
}

// SavePalette handles POST /api/save-palette
func (h *PaletteHandler) SavePalette(c *gin.Context) {
	var req SavePaletteRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.ColorPalette) == 0 || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ColorPalette and name are required"})
		return
	}

	clerkUserID, ok := auth.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.palettes.SavePalette(c.Request.Context(), service.SavePaletteRequest{
		ClerkUserID: clerkUserID,
		Name:        req.Name,
		Colors:      req.ColorPalette,
	})
	if err != nil {
		var dup *service.DuplicatePaletteError
		switch {
		case errors.As(err, &dup):
			c.JSON(http.StatusConflict, gin.H{
				"error":           "You already saved this palette",
				"existingPalette": dup.Existing,
			})
		case errors.Is(err, service.ErrProfileMissing):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save palette"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Palette saved to library.",
		"palette": result.Palette,
	})
}

// DeleteRequest is the shared body shape of the delete endpoints
type DeleteRequest struct {
	DeleteID string `json:"deleteId"`
}

// DeletePalette handles DELETE /api/save-palette
func (h *PaletteHandler) DeletePalette(c *gin.Context) {
	var req DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.DeleteID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Delete id not found"})
		return
	}

	clerkUserID, ok := auth.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := uuid.Parse(req.DeleteID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Palette not found"})
		return
	}

	result, err := h.palettes.DeletePalette(c.Request.Context(), service.DeletePaletteRequest{
		ClerkUserID: clerkUserID,
		ID:          id,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaletteNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Palette not found"})
		case errors.Is(err, service.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete palette"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Deleted successfully",
		"deletePalette": result.Palette,
	})
}

// GetPalettes handles GET /api/get-palette
func (h *PaletteHandler) GetPalettes(c *gin.Context) {
	clerkUserID, ok := auth.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.palettes.ListPalettes(c.Request.Context(), service.ListPalettesRequest{
		ClerkUserID: clerkUserID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch palettes"})
		return
	}

	c.JSON(http.StatusOK, result.Palettes)
}

// GetPaletteByID handles GET /api/getIdByPalette/:paletteId
func (h *PaletteHandler) GetPaletteByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("paletteId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Palette not found"})
		return
	}

	result, err := h.palettes.GetPalette(c.Request.Context(), service.GetPaletteRequest{ID: id})
	if err != nil {
		if errors.Is(err, service.ErrPaletteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Palette not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"palette": result.Palette})
}
