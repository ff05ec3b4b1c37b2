package entity

import (
	"time"
)

// Follow links two authenticated users. Self-follow is rejected at the
// service layer before the row is ever constructed.
type Follow struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FollowerID  string    `gorm:"size:100;not null;uniqueIndex:idx_follows_pair,priority:1" json:"follower_id"`
	FollowingID string    `gorm:"size:100;not null;uniqueIndex:idx_follows_pair,priority:2" json:"following_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (f *Follow) TableName() string {
	return "follows"
}
