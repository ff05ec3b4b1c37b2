package entity

import (
	"time"
)

// Comment is a single entry in a post's discussion. Threading is a flat
// parent-pointer forest: ParentID nil means top-level, otherwise it must
// reference another comment on the same post slug.
type Comment struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	PostSlug    string     `gorm:"size:200;not null;index:idx_comments_post" json:"post_slug"`
	ParentID    *uint      `gorm:"index" json:"parent_id"`
	AuthorID    string     `gorm:"size:100;not null;index" json:"author_id"`
	DisplayName string     `gorm:"size:100;not null" json:"display_name"`
	AvatarURL   *string    `gorm:"size:500" json:"avatar_url"`
	Body        string     `gorm:"type:text;not null" json:"body"`
	Approved    bool       `gorm:"not null;default:true" json:"approved"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	Reactions   []Reaction `gorm:"foreignKey:TargetCommentID" json:"reactions"`
}

func (c *Comment) TableName() string {
	return "comments"
}

// MaxBodyLength bounds comment bodies at the store boundary.
const MaxBodyLength = 1000
