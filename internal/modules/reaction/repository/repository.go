package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"unipress.io/engagement/internal/entity"
	"unipress.io/engagement/pkg/apperror"
)

type ToggleAction string

const (
	ActionAdded    ToggleAction = "added"
	ActionRemoved  ToggleAction = "removed"
	ActionReplaced ToggleAction = "replaced"
)

type ReactionRepository interface {
	FindByPostSlug(ctx context.Context, postSlug string) ([]entity.Reaction, error)
	// Add inserts without any uniqueness check; duplicate prevention belongs
	// to the toggle operations.
	Add(ctx context.Context, reaction *entity.Reaction) error
	// Remove deletes by exact tuple match and reports how many rows went
	// away; zero is a silent no-op, not an error.
	Remove(ctx context.Context, postSlug string, targetCommentID *uint, actorID, kind string) (int64, error)
	// ToggleTuple is the authoritative per-kind toggle for comment-level
	// reactions. The insert leans on the composite unique index: two rapid
	// clicks race to the constraint instead of both inserting.
	ToggleTuple(ctx context.Context, reaction *entity.Reaction) (ToggleAction, error)
	// TogglePostExclusive implements the quick-reaction rule: one kind per
	// actor per post. Selecting a new kind removes any other kind first, as
	// a delete/insert pair, never an update in place. Returns the kind that
	// was displaced, if any.
	TogglePostExclusive(ctx context.Context, reaction *entity.Reaction) (ToggleAction, string, error)
	GroupCounts(ctx context.Context, postSlug string, targetCommentID *uint) (map[string]int64, error)
	CountBySlugs(ctx context.Context, slugs []string) (map[string]int64, error)
}

type reactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

func (r *reactionRepository) FindByPostSlug(ctx context.Context, postSlug string) ([]entity.Reaction, error) {
	var reactions []entity.Reaction
	err := r.db.WithContext(ctx).
		Where("post_slug = ?", postSlug).
		Order("created_at ASC").
		Find(&reactions).Error
	if err != nil {
		return nil, err
	}
	return reactions, nil
}

func (r *reactionRepository) Add(ctx context.Context, reaction *entity.Reaction) error {
	if err := r.db.WithContext(ctx).Create(reaction).Error; err != nil {
		return fmt.Errorf("%w: insert reaction: %v", apperror.ErrPersistence, err)
	}
	return nil
}

func (r *reactionRepository) Remove(ctx context.Context, postSlug string, targetCommentID *uint, actorID, kind string) (int64, error) {
	query := r.db.WithContext(ctx).
		Where("post_slug = ? AND actor_id = ? AND kind = ?", postSlug, actorID, kind)
	if targetCommentID == nil {
		query = query.Where("target_comment_id IS NULL")
	} else {
		query = query.Where("target_comment_id = ?", *targetCommentID)
	}

	res := query.Delete(&entity.Reaction{})
	if res.Error != nil {
		return 0, fmt.Errorf("%w: remove reaction: %v", apperror.ErrPersistence, res.Error)
	}
	return res.RowsAffected, nil
}

func (r *reactionRepository) ToggleTuple(ctx context.Context, reaction *entity.Reaction) (ToggleAction, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(reaction)
	if res.Error != nil {
		return "", fmt.Errorf("%w: toggle reaction: %v", apperror.ErrPersistence, res.Error)
	}
	if res.RowsAffected > 0 {
		return ActionAdded, nil
	}

	// The tuple already existed; this click toggles it off.
	if _, err := r.Remove(ctx, reaction.PostSlug, reaction.TargetCommentID, reaction.ActorID, reaction.Kind); err != nil {
		return "", err
	}
	return ActionRemoved, nil
}

func (r *reactionRepository) TogglePostExclusive(ctx context.Context, reaction *entity.Reaction) (ToggleAction, string, error) {
	action := ActionAdded
	oldKind := ""

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The unique index treats NULL target ids as distinct, so the
		// exclusivity rule lives in this transaction rather than in the
		// constraint.
		var existing []entity.Reaction
		err := tx.Where("post_slug = ? AND actor_id = ? AND target_comment_id IS NULL",
			reaction.PostSlug, reaction.ActorID).
			Find(&existing).Error
		if err != nil {
			return err
		}

		for _, row := range existing {
			oldKind = row.Kind
			if err := tx.Delete(&row).Error; err != nil {
				return err
			}
		}

		if oldKind == reaction.Kind {
			// Same kind clicked again: toggle off, nothing to insert.
			action = ActionRemoved
			return nil
		}
		if oldKind != "" {
			action = ActionReplaced
		}

		return tx.Create(reaction).Error
	})
	if err != nil {
		return "", "", fmt.Errorf("%w: toggle post reaction: %v", apperror.ErrPersistence, err)
	}

	return action, oldKind, nil
}

func (r *reactionRepository) GroupCounts(ctx context.Context, postSlug string, targetCommentID *uint) (map[string]int64, error) {
	type result struct {
		Kind  string
		Count int64
	}
	var results []result

	query := r.db.WithContext(ctx).
		Model(&entity.Reaction{}).
		Select("kind, count(*) as count").
		Where("post_slug = ?", postSlug)
	if targetCommentID == nil {
		query = query.Where("target_comment_id IS NULL")
	} else {
		query = query.Where("target_comment_id = ?", *targetCommentID)
	}

	if err := query.Group("kind").Scan(&results).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64)
	for _, res := range results {
		counts[res.Kind] = res.Count
	}
	return counts, nil
}

func (r *reactionRepository) CountBySlugs(ctx context.Context, slugs []string) (map[string]int64, error) {
	type result struct {
		PostSlug string
		Count    int64
	}
	var results []result

	err := r.db.WithContext(ctx).
		Model(&entity.Reaction{}).
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
