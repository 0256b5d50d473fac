package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/GriffinCanCode/AniWidgets/internal/domain/frames"
	"github.com/GriffinCanCode/AniWidgets/internal/domain/provision"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/utils"
	"github.com/gin-gonic/gin"
)

// ListDesigns lists every discovered design
func (h *Handlers) ListDesigns(c *gin.Context) {
	done := h.metrics.TrackDesigns("list")
	designs := h.c.Catalog.List(c.Request.Context())
	done(nil)

	c.JSON(http.StatusOK, gin.H{
		"designs": designs,
		"count":   len(designs),
	})
}

// ProvisionDesign installs a bundled design into the container
func (h *Handlers) ProvisionDesign(c *gin.Context) {
	designID, ok := designParam(c)
	if !ok {
		return
	}

	done := h.metrics.TrackDesigns("provision")
	design, err := h.c.Provisioner.Provision(c.Request.Context(), designID, nil)
	done(err)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, provision.ErrNoSource):
			status = http.StatusNotFound
		case errors.Is(err, provision.ErrInvalidFrame):
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "design": design})
}

// RemoveDesign deletes a provisioned design
func (h *Handlers) RemoveDesign(c *gin.Context) {
	designID, ok := designParam(c)
	if !ok {
		return
	}

	done := h.metrics.TrackDesigns("remove")
	err := h.c.Provisioner.Remove(c.Request.Context(), designID)
	done(err)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "design_id": designID})
}

// GetFrame serves one frame image through the resolver chain
func (h *Handlers) GetFrame(c *gin.Context) {
	designID, ok := designParam(c)
	if !ok {
		return
	}
	frame, err := strconv.Atoi(c.Param("frame"))
	if err != nil || frame < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "frame must be a positive integer"})
		return
	}

	data, tier, found := h.c.Frames.ResolveWithTier(c.Request.Context(), designID, frame)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "frame not found"})
		return
	}

	c.Header("X-Frame-Tier", tier)
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, frames.ContentType(data), data)
}

func designParam(c *gin.Context) (string, bool) {
	designID := c.Param("id")
	if err := utils.ValidateDesignID(designID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return designID, true
}
