package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	commentDto "unipress.io/engagement/internal/modules/comment/dto"
	comment "unipress.io/engagement/internal/modules/comment/service"
	"unipress.io/engagement/pkg/apperror"
	"unipress.io/engagement/pkg/response"
	"unipress.io/engagement/pkg/validator"
)

type CommentHandler struct {
	service comment.CommentService
}

func NewCommentHandler(service comment.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

// ListComments serves either the flat list (default) or the reconstructed
// thread view (?view=thread).
func (h *CommentHandler) ListComments(c *gin.Context) {
	postSlug := c.Param("slug")

	if c.Query("view") == "thread" {
		c.JSON(http.StatusOK, gin.H{"data": h.service.ListThread(c.Request.Context(), postSlug)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": h.service.ListComments(c.Request.Context(), postSlug)})
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	var req commentDto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	actorID, err := response.GetActorID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	created, err := h.service.CreateComment(c.Request.Context(), actorID, c.Param("slug"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": created})
}

// DeleteComment is owner-scoped. A miss (unknown id or someone else's
// comment) resolves as a no-op rather than an error; the store still
// distinguishes the cases for logging.
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, apperror.ErrValidation)
		return
	}

	userID, err := response.RequireUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if _, err := h.service.DeleteComment(c.Request.Context(), userID, uint(id)); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "success"})
}
