package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	reactionDto "unipress.io/engagement/internal/modules/reaction/dto"
	reaction "unipress.io/engagement/internal/modules/reaction/service"
	"unipress.io/engagement/pkg/apperror"
	commonDto "unipress.io/engagement/pkg/dto"
	"unipress.io/engagement/pkg/response"
	"unipress.io/engagement/pkg/validator"
)

type ReactionHandler struct {
	service reaction.ReactionService
}

func NewReactionHandler(service reaction.ReactionService) *ReactionHandler {
	return &ReactionHandler{service: service}
}

func (h *ReactionHandler) ListReactions(c *gin.Context) {
	reactions, err := h.service.ListReactions(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": reactions})
}

func (h *ReactionHandler) QuickReactionCounts(c *gin.Context) {
	counts, err := h.service.QuickReactionCounts(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": counts})
}

func (h *ReactionHandler) TogglePostReaction(c *gin.Context) {
	var req reactionDto.ToggleReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	actorID, err := response.GetActorID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	action, err := h.service.TogglePostReaction(c.Request.Context(), actorID, c.Param("slug"), req.Kind)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, commonDto.ToggleResponse{Action: string(action)})
}

func (h *ReactionHandler) ToggleCommentReaction(c *gin.Context) {
	commentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, apperror.ErrValidation)
		return
	}

	var req reactionDto.ToggleReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	actorID, err := response.GetActorID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	// The reaction row and its cache keys are slug-addressed, so the slug
	// comes with the request instead of a comment lookup.
	postSlug := c.Query("post_slug")
	if postSlug == "" {
		response.Error(c, apperror.ErrValidation)
		return
	}

	action, err := h.service.ToggleCommentReaction(c.Request.Context(), actorID, postSlug, uint(commentID), req.Kind)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, commonDto.ToggleResponse{Action: string(action)})
}
