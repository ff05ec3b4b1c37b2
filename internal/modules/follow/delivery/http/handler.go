package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	follow "unipress.io/engagement/internal/modules/follow/service"
	"unipress.io/engagement/pkg/response"
)

type FollowHandler struct {
	service follow.FollowService
}

func NewFollowHandler(service follow.FollowService) *FollowHandler {
	return &FollowHandler{service: service}
}

func (h *FollowHandler) Toggle(c *gin.Context) {
	userID, err := response.RequireUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	following, err := h.service.Toggle(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"following": following})
}

func (h *FollowHandler) CountFollowers(c *gin.Context) {
	count, err := h.service.CountFollowers(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"followers": count})
}

func (h *FollowHandler) ListFollowing(c *gin.Context) {
	userID, err := response.RequireUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	follows, err := h.service.ListFollowing(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": follows})
}
