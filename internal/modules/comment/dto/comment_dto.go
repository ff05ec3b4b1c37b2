package dto

import (
	"time"

	commonDto "unipress.io/engagement/pkg/dto"
)

type CreateCommentRequest struct {
	ParentID    *uint   `json:"parent_id"`
	Body        string  `json:"body" binding:"required,min=1,max=1000"`
	DisplayName string  `json:"display_name" binding:"required,max=100"`
	AvatarURL   *string `json:"avatar_url" binding:"omitempty,max=500"`
}

type CommentResponse struct {
	ID          uint                     `json:"id"`
	PostSlug    string                   `json:"post_slug"`
	ParentID    *uint                    `json:"parent_id"`
	AuthorID    string                   `json:"author_id"`
	DisplayName string                   `json:"display_name"`
	AvatarURL   *string                  `json:"avatar_url"`
	Body        string                   `json:"body"`
	CreatedAt   time.Time                `json:"created_at"`
	Reactions   commonDto.ReactionSummary `json:"reactions"`
}

// ThreadNodeResponse is one rendered node of the comment forest.
type ThreadNodeResponse struct {
	Comment    CommentResponse       `json:"comment"`
	ReplyingTo *commonDto.ReplyRef   `json:"replying_to,omitempty"`
	Replies    []*ThreadNodeResponse `json:"replies,omitempty"`
}
