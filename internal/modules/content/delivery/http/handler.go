package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	content "unipress.io/engagement/internal/modules/content/service"
	commonDto "unipress.io/engagement/pkg/dto"
	"unipress.io/engagement/pkg/response"
	"unipress.io/engagement/pkg/validator"
)

type ContentHandler struct {
	service content.ContentService
}

func NewContentHandler(service content.ContentService) *ContentHandler {
	return &ContentHandler{service: service}
}

func (h *ContentHandler) GetPost(c *gin.Context) {
	post, err := h.service.FetchPost(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": post})
}

func (h *ContentHandler) ListPosts(c *gin.Context) {
	start, _ := strconv.Atoi(c.DefaultQuery("start", "0"))
	end, _ := strconv.Atoi(c.DefaultQuery("end", "20"))
	if end <= start {
		end = start + 20
	}

	posts, err := h.service.FetchPostRange(c.Request.Context(), start, end, c.Query("filter"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": posts,
		"meta": commonDto.PaginationMeta{Start: start, End: end, Count: len(posts)},
	})
}

type summarizeRequest struct {
	Text string `json:"text" binding:"required,min=1"`
}

func (h *ContentHandler) Summarize(c *gin.Context) {
	var req summarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	summary, err := h.service.Summarize(c.Request.Context(), req.Text)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
