package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"unipress.io/engagement/internal/entity"
	"unipress.io/engagement/pkg/apperror"
)

// DeleteOutcome distinguishes the two silent no-op cases of an owner-scoped
// delete. The gateway treats NotFound and NotOwned the same way (no-op), but
// the store reports them separately so callers can choose.
type DeleteOutcome int

const (
	OutcomeDeleted DeleteOutcome = iota
	OutcomeNotFound
	OutcomeNotOwned
)

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	FindByPostSlug(ctx context.Context, postSlug string) ([]entity.Comment, error)
	// DeleteOwned reports what happened and, for Deleted and NotOwned, the
	// row that was examined.
	DeleteOwned(ctx context.Context, id uint, authorID string) (DeleteOutcome, *entity.Comment, error)
	CountBySlugs(ctx context.Context, slugs []string) (map[string]int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("%w: insert comment: %v", apperror.ErrPersistence, err)
	}
	return nil
}

func (r *commentRepository) FindByPostSlug(ctx context.Context, postSlug string) ([]entity.Comment, error) {
	var comments []entity.Comment
	err := r.db.WithContext(ctx).
		Preload("Reactions").
		Where("post_slug = ?", postSlug).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) DeleteOwned(ctx context.Context, id uint, authorID string) (DeleteOutcome, *entity.Comment, error) {
	outcome := OutcomeDeleted
	var found *entity.Comment

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Find with a slice to avoid "record not found" log noise from First()
		var existing []entity.Comment
		if err := tx.Where("id = ?", id).Limit(1).Find(&existing).Error; err != nil {
			return err
		}
		if len(existing) == 0 {
			outcome = OutcomeNotFound
			return nil
		}
		found = &existing[0]
		if found.AuthorID != authorID {
			outcome = OutcomeNotOwned
			return nil
		}

		if err := tx.Delete(found).Error; err != nil {
			return err
		}
		// Reactions on the deleted comment would otherwise linger as
		// unreachable rows and skew post totals.
		return tx.Where("target_comment_id = ?", id).Delete(&entity.Reaction{}).Error
	})
	if err != nil {
		return OutcomeNotFound, nil, fmt.Errorf("%w: delete comment: %v", apperror.ErrPersistence, err)
	}

	return outcome, found, nil
}

func (r *commentRepository) CountBySlugs(ctx context.Context, slugs []string) (map[string]int64, error) {
	type result struct {
		PostSlug string
		Count    int64
	}
	var results []result

	err := r.db.WithContext(ctx).
		Model(&entity.Comment{}).
		Select("post_slug, count(*) as count").
		Where("post_slug IN ?", slugs).
		Group("post_slug").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64)
	for _, res := range results {
		counts[res.PostSlug] = res.Count
	}
	return counts, nil
}
