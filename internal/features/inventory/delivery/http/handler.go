package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/PhantomMist/TwitchDropsMiner/internal/common/errors"
	"github.com/PhantomMist/TwitchDropsMiner/internal/features/inventory/service"
)

// InventoryHandler exposes the campaign graph read-only for display
// consumers, plus a claim trigger and a forced refresh. Rendering itself is
// the consumer's business.
type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(service service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	campaigns := router.Group("/campaigns")
	{
		campaigns.GET("", h.list)
		campaigns.GET("/:id", h.getByID)
		campaigns.GET("/:id/drops", h.getDrops)
	}

	drops := router.Group("/drops")
	{
		drops.GET("/:id", h.getDrop)
		drops.POST("/:id/claim", h.claim)
	}

	router.GET("/status", h.status)
	router.POST("/refresh", h.refresh)
}

func (h *InventoryHandler) list(c *gin.Context) {
	campaigns := h.service.Campaigns()
	resp := make([]CampaignResponse, 0, len(campaigns))
	for _, campaign := range campaigns {
		resp = append(resp, toCampaignResponse(campaign, false))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventoryHandler) getByID(c *gin.Context) {
	campaign, err := h.service.Campaign(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCampaignResponse(campaign, true))
}

func (h *InventoryHandler) getDrops(c *gin.Context) {
	campaign, err := h.service.Campaign(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	drops := campaign.Drops()
	resp := make([]DropResponse, 0, len(drops))
	for _, drop := range drops {
		resp = append(resp, toDropResponse(drop))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventoryHandler) getDrop(c *gin.Context) {
	drop, err := h.service.Drop(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDropResponse(drop))
}

func (h *InventoryHandler) claim(c *gin.Context) {
	granted, err := h.service.Claim(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"claimed": granted})
}

func (h *InventoryHandler) status(c *gin.Context) {
	c.JSON(http.StatusOK, toStatusResponse(h.service.Campaigns()))
}

func (h *InventoryHandler) refresh(c *gin.Context) {
	if err := h.service.Refresh(c.Request.Context(), true); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"refreshed": true})
}

func respondError(c *gin.Context, err error) {
	if appErr, ok := apperrors.AsAppError(err); ok {
		switch {
		case appErr.IsNotFound():
			c.JSON(http.StatusNotFound, gin.H{"error": appErr.Message})
			return
		case appErr.IsDataContract():
			c.JSON(http.StatusBadGateway, gin.H{"error": appErr.Message})
			return
		}
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
