package http

import (
	"net/http"

	"github.com/GriffinCanCode/AniWidgets/internal/shared/utils"
	"github.com/gin-gonic/gin"
)

type addFeaturedRequest struct {
	DesignID string `json:"designId" binding:"required"`
}

type reorderRequest struct {
	Designs []string `json:"designs" binding:"required"`
}

// GetFeatured returns the featured registry
func (h *Handlers) GetFeatured(c *gin.Context) {
	c.JSON(http.StatusOK, h.c.Featured.Load(c.Request.Context()))
}

// AddFeatured appends a design to the featured registry
func (h *Handlers) AddFeatured(c *gin.Context) {
	var req addFeaturedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := utils.ValidateDesignID(req.DesignID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	done := h.metrics.TrackRegistry("add")
	ok := h.c.Featured.AddDesign(c.Request.Context(), req.DesignID)
	done(nil)
	if !ok {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "design already featured or registry full",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"featured": h.c.Featured.Load(c.Request.Context()),
	})
}

// RemoveFeatured removes a design from the featured registry
func (h *Handlers) RemoveFeatured(c *gin.Context) {
	designID := c.Param("id")
	if err := utils.ValidateDesignID(designID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	done := h.metrics.TrackRegistry("remove")
	ok := h.c.Featured.RemoveDesign(c.Request.Context(), designID)
	done(nil)

	c.JSON(http.StatusOK, gin.H{
		"success":   ok,
		"design_id": designID,
	})
}

// ReorderFeatured replaces the order of the featured designs
func (h *Handlers) ReorderFeatured(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	done := h.metrics.TrackRegistry("reorder")
	ok := h.c.Featured.Reorder(c.Request.Context(), req.Designs)
	done(nil)

	c.JSON(http.StatusOK, gin.H{
		"success":  ok,
		"featured": h.c.Featured.Load(c.Request.Context()),
	})
}
