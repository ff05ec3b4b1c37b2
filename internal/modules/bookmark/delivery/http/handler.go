package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	bookmark "unipress.io/engagement/internal/modules/bookmark/service"
	"unipress.io/engagement/pkg/response"
)

type BookmarkHandler struct {
	service bookmark.BookmarkService
}

func NewBookmarkHandler(service bookmark.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{service: service}
}

func (h *BookmarkHandler) Toggle(c *gin.Context) {
	userID, err := response.RequireUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	bookmarked, err := h.service.Toggle(c.Request.Context(), userID, c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookmarked": bookmarked})
}

func (h *BookmarkHandler) ListMine(c *gin.Context) {
	userID, err := response.RequireUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	bookmarks, err := h.service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": bookmarks})
}
