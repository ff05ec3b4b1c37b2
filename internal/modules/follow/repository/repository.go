package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"unipress.io/engagement/internal/entity"
	"unipress.io/engagement/pkg/apperror"
)

type FollowRepository interface {
	// Toggle inserts the pair if absent, deletes it if present, and reports
	// whether the follow now exists.
	Toggle(ctx context.Context, followerID, followingID string) (bool, error)
	CountFollowers(ctx context.Context, userID string) (int64, error)
	FindFollowing(ctx context.Context, followerID string) ([]entity.Follow, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Toggle(ctx context.Context, followerID, followingID string) (bool, error) {
	following := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).
			Delete(&entity.Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		following = true
		return tx.Create(&entity.Follow{FollowerID: followerID, FollowingID: followingID}).Error
	})
	if err != nil {
		return false, fmt.Errorf("%w: toggle follow: %v", apperror.ErrPersistence, err)
	}

	return following, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Follow{}).
		Where("following_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *followRepository) FindFollowing(ctx context.Context, followerID string) ([]entity.Follow, error) {
	var follows []entity.Follow
	err := r.db.WithContext(ctx).
		Where("follower_id = ?", followerID).
		Order("created_at DESC").
		Find(&follows).Error
	if err != nil {
		return nil, err
	}
	return follows, nil
}
