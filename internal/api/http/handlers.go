package http

import (
	"errors"
	"net/http"

	"github.com/GriffinCanCode/AniWidgets/internal/app"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/types"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/utils"
	"github.com/gin-gonic/gin"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	c       *app.Container
	metrics *HandlerMetrics
}

// NewHandlers creates a new handler set
func NewHandlers(c *app.Container, metrics *HandlerMetrics) *Handlers {
	if metrics == nil {
		metrics = NewHandlerMetrics(c.Metrics)
	}
	return &Handlers{c: c, metrics: metrics}
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	featured := h.c.Featured.Load(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"service":    "aniwidgets",
		"mode":       h.c.Scheduler.Mode(),
		"container":  h.c.Store.Root(),
		"featured":   len(featured.Designs),
		"bundle":     h.c.Bundle != nil,
		"frameCache": h.c.Frames.CacheState().String(),
	})
}

// SlotTimeline returns the timeline for a widget kind
func (h *Handlers) SlotTimeline(c *gin.Context) {
	pc, ok := placement(c)
	if !ok {
		return
	}
	done := h.metrics.TrackProvider("timeline")
	tl := h.c.Provider.Timeline(c.Request.Context(), pc)
	done(nil)

	c.JSON(http.StatusOK, gin.H{
		"kind":    pc.Kind,
		"entries": tl.Entries,
		"policy":  tl.Policy,
		"refresh": tl.Policy.String(),
	})
}

// SlotPlaceholder returns the placeholder entry for a widget kind
func (h *Handlers) SlotPlaceholder(c *gin.Context) {
	pc, ok := placement(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.c.Provider.Placeholder(pc))
}

func placement(c *gin.Context) (types.PlacementContext, bool) {
	pc := types.PlacementContext{Kind: c.Param("kind"), Family: c.Query("family")}
	if _, err := pc.Slot(); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return pc, false
	}
	return pc, true
}

// StartAnimation starts an instance's animation
func (h *Handlers) StartAnimation(c *gin.Context) {
	instanceID, ok := instanceParam(c)
	if !ok {
		return
	}
	done := h.metrics.TrackProvider("start")
	success := h.c.Provider.StartAnimation(c.Request.Context(), instanceID)
	done(nil)

	c.JSON(http.StatusOK, gin.H{
		"success":     success,
		"instance_id": instanceID,
	})
}

// CompleteAnimation persists the end of a finished animation
func (h *Handlers) CompleteAnimation(c *gin.Context) {
	instanceID, ok := instanceParam(c)
	if !ok {
		return
	}
	done := h.metrics.TrackProvider("complete")
	success := h.c.Provider.CompleteAnimation(c.Request.Context(), instanceID)
	done(nil)

	c.JSON(http.StatusOK, gin.H{
		"success":     success,
		"instance_id": instanceID,
	})
}

// ListInstances lists every persisted instance
func (h *Handlers) ListInstances(c *gin.Context) {
	done := h.metrics.TrackInstances("list")
	list, err := h.c.Instances.List(c.Request.Context())
	done(err)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"instances": list,
		"slots":     h.c.Slots.Assignments(c.Request.Context()),
	})
}

// GetInstance returns one instance document
func (h *Handlers) GetInstance(c *gin.Context) {
	instanceID, ok := instanceParam(c)
	if !ok {
		return
	}
	inst, found := h.c.Instances.Load(c.Request.Context(), instanceID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "instance not found"})
		return
	}
	c.JSON(http.StatusOK, inst)
}

// DeleteInstance removes an instance document
func (h *Handlers) DeleteInstance(c *gin.Context) {
	instanceID, ok := instanceParam(c)
	if !ok {
		return
	}
	done := h.metrics.TrackInstances("delete")
	err := h.c.Instances.Delete(c.Request.Context(), instanceID)
	done(err)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "instance_id": instanceID})
}

func instanceParam(c *gin.Context) (string, bool) {
	instanceID := c.Param("id")
	if err := utils.ValidateInstanceID(instanceID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return instanceID, true
}

// Stats reports instance, slot and request statistics
func (h *Handlers) Stats(c *gin.Context) {
	ctx := c.Request.Context()
	stats, err := h.c.Instances.Stats(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"instances": stats,
		"slots":     h.c.Slots.Assignments(ctx),
		"featured":  h.c.Featured.Load(ctx),
		"metrics":   h.c.Metrics.Snapshot(),
	})
}

// Cleanup runs the stale instance sweep now
func (h *Handlers) Cleanup(c *gin.Context) {
	done := h.metrics.TrackInstances("purge")
	res, err := h.c.Instances.Purge(c.Request.Context(), h.c.Config.Retention.Instances)
	done(err)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "result": res})
}

// bindError reports a request body that could not be decoded
func bindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
