package handlers

import (
	"errors"
	"net/http"

	"hueforge-backend/service"

	"github.com/gin-gonic/gin"
)

// GenerateHandler handles the generation endpoints. They are stateless:
// nothing is persisted until the user saves the result.
type GenerateHandler struct {
	generation *service.GenerationService
}

// NewGenerateHandler creates a new generation handler
func NewGenerateHandler(generation *service.GenerationService) *GenerateHandler {
	return &GenerateHandler{generation: generation}
}

// GeneratePaletteRequest represents the request body for palette generation
type GeneratePaletteRequest struct {
	ColorPalette string `json:"colorPalette"`
}

// GeneratePalette handles POST /api/generate-palette
func (h *GenerateHandler) GeneratePalette(c *gin.Context) {
	var req GeneratePaletteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ColorPalette == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prompt is missing!"})
		return
	}

	result, err := h.generation.GeneratePalette(c.Request.Context(), service.GeneratePaletteRequest{
		Theme: req.ColorPalette,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidModelOutput) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid JSON output"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Palette generated successfully.",
		"colors":  result.Colors,
	})
}

// GenerateTypographyRequest represents the request body for typography generation
type GenerateTypographyRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateTypography handles POST /api/generate-typography
func (h *GenerateHandler) GenerateTypography(c *gin.Context) {
	var req GenerateTypographyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Prompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prompt is missing!"})
		return
	}

	result, err := h.generation.GenerateTypography(c.Request.Context(), service.GenerateTypographyRequest{
		Prompt: req.Prompt,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong!"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":           "Typography generated successfully.",
		"typographyPresets": result.Presets,
	})
}

// GenerateComponentRequest represents the request body for component generation
type GenerateComponentRequest struct {
	Prompt          string                 `json:"prompt"`
	Typography      map[string]interface{} `json:"typography"`
	Palette         map[string]interface{} `json:"palette"`
	UseDesignSystem bool                   `json:"useDesignSystem"`
}

// GenerateComponent handles POST /api/generate-component
func (h *GenerateHandler) GenerateComponent(c *gin.Context) {
	var req GenerateComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Prompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prompt is required."})
		return
	}

	if req.UseDesignSystem && (len(req.Palette) == 0 || len(req.Typography) == 0) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "To enable Design System, please generate both a color palette and typography first.",
		})
		return
	}

	result, err := h.generation.GenerateComponent(c.Request.Context(), service.GenerateComponentRequest{
		Prompt:          req.Prompt,
		Palette:         req.Palette,
		Typography:      req.Typography,
		UseDesignSystem: req.UseDesignSystem,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidModelOutput) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid AI response format"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Component generated successfully.",
		"component": result.Component,
	})
}
