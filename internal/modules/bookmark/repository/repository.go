package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"unipress.io/engagement/internal/entity"
	"unipress.io/engagement/pkg/apperror"
)

type BookmarkRepository interface {
	// Toggle inserts the pair if absent, deletes it if present, and reports
	// whether the bookmark now exists.
	Toggle(ctx context.Context, userID, postSlug string) (bool, error)
	FindByUser(ctx context.Context, userID string) ([]entity.Bookmark, error)
	Exists(ctx context.Context, userID, postSlug string) (bool, error)
}

type bookmarkRepository struct {
	db *gorm.DB
}

func NewBookmarkRepository(db *gorm.DB) BookmarkRepository {
	return &bookmarkRepository{db: db}
}

func (r *bookmarkRepository) Toggle(ctx context.Context, userID, postSlug string) (bool, error) {
	bookmarked := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND post_slug = ?", userID, postSlug).
			Delete(&entity.Bookmark{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		bookmarked = true
		return tx.Create(&entity.Bookmark{UserID: userID, PostSlug: postSlug}).Error
	})
	if err != nil {
		return false, fmt.Errorf("%w: toggle bookmark: %v", apperror.ErrPersistence, err)
	}

	return bookmarked, nil
}

func (r *bookmarkRepository) FindByUser(ctx context.Context, userID string) ([]entity.Bookmark, error) {
	var bookmarks []entity.Bookmark
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookmarks).Error
	if err != nil {
		return nil, err
	}
	return bookmarks, nil
}

func (r *bookmarkRepository) Exists(ctx context.Context, userID, postSlug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Bookmark{}).
		Where("user_id = ? AND post_slug = ?", userID, postSlug).
		Count(&count).Error
	return count > 0, err
}
