package entity

import (
	"time"
)

// Bookmark is a pure toggle row. Guests cannot bookmark, so UserID is always
// an authenticated subject.
type Bookmark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"size:100;not null;uniqueIndex:idx_bookmarks_pair,priority:1" json:"user_id"`
	PostSlug  string    `gorm:"size:200;not null;uniqueIndex:idx_bookmarks_pair,priority:2" json:"post_slug"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (b *Bookmark) TableName() string {
	return "bookmarks"
}
