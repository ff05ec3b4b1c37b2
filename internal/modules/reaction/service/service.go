package reaction

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"unipress.io/engagement/internal/entity"
	reactionRepo "unipress.io/engagement/internal/modules/reaction/repository"
	"unipress.io/engagement/pkg/apperror"
	"unipress.io/engagement/pkg/cache"
	"unipress.io/engagement/pkg/logger"
)

type ReactionService interface {
	// ListReactions returns every reaction for a post, post-level and
	// comment-level mixed; callers filter by TargetCommentID.
	ListReactions(ctx context.Context, postSlug string) ([]entity.Reaction, error)
	// ToggleCommentReaction is the per-kind toggle: an actor may hold
	// several kinds on the same comment at once.
	ToggleCommentReaction(ctx context.Context, actorID, postSlug string, commentID uint, kind string) (reactionRepo.ToggleAction, error)
	// TogglePostReaction is the exclusive quick reaction: at most one kind
	// per actor per post, new kind displaces the old.
	TogglePostReaction(ctx context.Context, actorID, postSlug, kind string) (reactionRepo.ToggleAction, error)
	// QuickReactionCounts serves the post-level per-kind counts, redis
	// first, rebuilt from the store on miss.
	QuickReactionCounts(ctx context.Context, postSlug string) (map[string]int64, error)
}

type reactionService struct {
	repo        reactionRepo.ReactionRepository
	redisClient *redis.Client
	countsTTL   time.Duration
}

func NewReactionService(repo reactionRepo.ReactionRepository, redisClient *redis.Client, countsTTL time.Duration) ReactionService {
	return &reactionService{
		repo:        repo,
		redisClient: redisClient,
		countsTTL:   countsTTL,
	}
}

func (s *reactionService) ListReactions(ctx context.Context, postSlug string) ([]entity.Reaction, error) {
	return s.repo.FindByPostSlug(ctx, postSlug)
}

func (s *reactionService) ToggleCommentReaction(ctx context.Context, actorID, postSlug string, commentID uint, kind string) (reactionRepo.ToggleAction, error) {
	if !entity.ValidKind(kind) {
		return "", fmt.Errorf("%w: unknown reaction kind %q", apperror.ErrValidation, kind)
	}

	reaction := &entity.Reaction{
		PostSlug:        postSlug,
		TargetCommentID: &commentID,
		ActorID:         actorID,
		Kind:            kind,
	}

	action, err := s.repo.ToggleTuple(ctx, reaction)
	if err != nil {
		return "", err
	}

	delta := int64(1)
	if action == reactionRepo.ActionRemoved {
		delta = -1
	}
	target := fmt.Sprintf("comment:%d", commentID)
	s.adjustCounts(ctx, postSlug, target, map[string]int64{kind: delta})

	// Comment lists embed reactions, so the cached list is stale now.
	if err := cache.InvalidatePost(ctx, s.redisClient, postSlug); err != nil {
		logger.L().Warn("comment cache invalidation failed", "post_slug", postSlug, "err", err)
	}

	return action, nil
}

func (s *reactionService) TogglePostReaction(ctx context.Context, actorID, postSlug, kind string) (reactionRepo.ToggleAction, error) {
	if !entity.ValidKind(kind) {
		return "", fmt.Errorf("%w: unknown reaction kind %q", apperror.ErrValidation, kind)
	}

	reaction := &entity.Reaction{
		PostSlug: postSlug,
		ActorID:  actorID,
		Kind:     kind,
	}

	action, oldKind, err := s.repo.TogglePostExclusive(ctx, reaction)
	if err != nil {
		return "", err
	}

	deltas := make(map[string]int64)
	if oldKind != "" {
		deltas[oldKind]--
	}
	if action != reactionRepo.ActionRemoved {
		deltas[kind]++
	}
	s.adjustCounts(ctx, postSlug, "post", deltas)

	return action, nil
}

func (s *reactionService) QuickReactionCounts(ctx context.Context, postSlug string) (map[string]int64, error) {
	key := cache.CountsKey(postSlug, "post")

	val, err := s.redisClient.HGetAll(ctx, key).Result()
	if err == nil && len(val) > 0 {
		counts := make(map[string]int64)
		for k, v := range val {
			count, _ := strconv.ParseInt(v, 10, 64)
			if count > 0 { // incremental drift below zero is noise, not data
				counts[k] = count
			}
		}
		return counts, nil
	}

	// Cache miss: rebuild from the store and repopulate with a TTL so idle
	// posts eventually drop out of redis.
	counts, err := s.repo.GroupCounts(ctx, postSlug, nil)
	if err != nil {
		return nil, err
	}

	pipe := s.redisClient.Pipeline()
	pipe.Del(ctx, key)
	for kind, count := range counts {
		pipe.HSet(ctx, key, kind, count)
	}
	pipe.Expire(ctx, key, s.countsTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.L().Warn("reaction counts rebuild failed", "post_slug", postSlug, "err", err)
	}

	return counts, nil
}

// adjustCounts applies per-kind deltas to a count hash. Failures are logged
// only; the database already holds the truth and the hash rebuilds on miss.
func (s *reactionService) adjustCounts(ctx context.Context, postSlug, target string, deltas map[string]int64) {
	if len(deltas) == 0 {
		return
	}

	key := cache.CountsKey(postSlug, target)
	pipe := s.redisClient.Pipeline()
	for kind, delta := range deltas {
		if delta != 0 {
			pipe.HIncrBy(ctx, key, kind, delta)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logger.L().Warn("reaction counts update failed", "post_slug", postSlug, "target", target, "err", err)
	}
}
