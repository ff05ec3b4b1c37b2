package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	engagement "unipress.io/engagement/internal/modules/engagement/service"
	"unipress.io/engagement/pkg/response"
)

type EngagementHandler struct {
	service engagement.EngagementService
}

func NewEngagementHandler(service engagement.EngagementService) *EngagementHandler {
	return &EngagementHandler{service: service}
}

func (h *EngagementHandler) GetTrending(c *gin.Context) {
	trending, err := h.service.Trending(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": trending})
}
