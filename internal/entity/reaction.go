package entity

import (
	"time"
)

// Reaction kinds form a small fixed vocabulary shared by post-level quick
// reactions and comment-level reactions.
const (
	KindLike       = "like"
	KindCelebrate  = "celebrate"
	KindInsightful = "insightful"
	KindCurious    = "curious"
)

// Kinds lists the accepted reaction vocabulary in display order.
var Kinds = []string{KindLike, KindCelebrate, KindInsightful, KindCurious}

// ValidKind reports whether kind belongs to the reaction vocabulary.
func ValidKind(kind string) bool {
	for _, k := range Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Reaction attributes one reaction symbol to one actor. TargetCommentID nil
// means the reaction sits on the post itself. The composite unique index is
// what makes toggle safe under two rapid clicks: the second insert hits the
// constraint instead of creating a duplicate row.
type Reaction struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	PostSlug        string    `gorm:"size:200;not null;index:idx_reactions_post;uniqueIndex:idx_reactions_tuple,priority:2" json:"post_slug"`
	TargetCommentID *uint     `gorm:"uniqueIndex:idx_reactions_tuple,priority:3" json:"target_comment_id"`
	ActorID         string    `gorm:"size:100;not null;uniqueIndex:idx_reactions_tuple,priority:1" json:"actor_id"`
	Kind            string    `gorm:"size:20;not null;uniqueIndex:idx_reactions_tuple,priority:4" json:"kind"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (r *Reaction) TableName() string {
	return "reactions"
}
