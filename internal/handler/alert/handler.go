package alert

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/herd-api/internal/model"
	alertService "github.com/jwalitptl/herd-api/internal/service/alert"
)

type Handler struct {
	service *alertService.Service
}

func NewHandler(service *alertService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	farms := rg.Group("/farms/:farm_id")
	{
		farms.GET("/alerts", h.ListAlerts)
		farms.POST("/alerts/generate", h.GenerateAlerts)
		farms.POST("/alerts/regenerate", h.RegenerateAlerts)
		farms.POST("/alerts/resolve", h.ResolveAlerts)
	}
}

type resolveAlertsRequest struct {
	AlertIDs []uuid.UUID `json:"alert_ids" binding:"required,min=1"`
}

func (h *Handler) GenerateAlerts(c *gin.Context) {
	farmID, err := uuid.Parse(c.Param("farm_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid farm ID"})
		return
	}

	summary, err := h.service.GenerateForFarm(c.Request.Context(), farmID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": summary})
}

func (h *Handler) RegenerateAlerts(c *gin.Context) {
	farmID, err := uuid.Parse(c.Param("farm_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid farm ID"})
		return
	}

	summary, err := h.service.InvalidateAndRegenerate(c.Request.Context(), farmID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": summary})
}

func (h *Handler) ResolveAlerts(c *gin.Context) {
	farmID, err := uuid.Parse(c.Param("farm_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid farm ID"})
		return
	}

	var req resolveAlertsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	count, err := h.service.ResolveAlerts(c.Request.Context(), farmID, req.AlertIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": gin.H{"resolved": count}})
}

func (h *Handler) ListAlerts(c *gin.Context) {
	farmID, err := uuid.Parse(c.Param("farm_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid farm ID"})
		return
	}

	var filters model.AlertFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}
	if id := c.Query("animal_id"); id != "" {
		animalID, err := uuid.Parse(id)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid animal ID"})
			return
		}
		filters.AnimalID = &animalID
	}

	alerts, total, err := h.service.ListAlerts(c.Request.Context(), farmID, &filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": gin.H{
		"alerts": alerts,
		"total":  total,
	}})
}
