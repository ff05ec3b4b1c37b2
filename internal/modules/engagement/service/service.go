package engagement

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	commentRepo "unipress.io/engagement/internal/modules/comment/repository"
	content "unipress.io/engagement/internal/modules/content/service"
	reactionRepo "unipress.io/engagement/internal/modules/reaction/repository"
	"unipress.io/engagement/pkg/cache"
	"unipress.io/engagement/pkg/logger"
)

// candidatePoolSize bounds how many recent posts are considered per refresh.
const candidatePoolSize = 100

type EngagementService interface {
	// Trending serves the ranked top posts, preferring the cached snapshot.
	Trending(ctx context.Context) ([]TrendingCandidate, error)
	// Refresh recomputes the snapshot from store counts and CMS flags.
	Refresh(ctx context.Context) ([]TrendingCandidate, error)
}

type engagementService struct {
	commentRepo  commentRepo.CommentRepository
	reactionRepo reactionRepo.ReactionRepository
	contentSvc   content.ContentService
	redisClient  *redis.Client
	rankConfig   RankConfig
	snapshotTTL  time.Duration
}

func NewEngagementService(
	commentRepo commentRepo.CommentRepository,
	reactionRepo reactionRepo.ReactionRepository,
	contentSvc content.ContentService,
	redisClient *redis.Client,
	rankConfig RankConfig,
	snapshotTTL time.Duration,
) EngagementService {
	return &engagementService{
		commentRepo:  commentRepo,
		reactionRepo: reactionRepo,
		contentSvc:   contentSvc,
		redisClient:  redisClient,
		rankConfig:   rankConfig,
		snapshotTTL:  snapshotTTL,
	}
}

func (s *engagementService) Trending(ctx context.Context) ([]TrendingCandidate, error) {
	if raw, err := s.redisClient.Get(ctx, cache.TrendingKey()).Result(); err == nil {
		var cached []TrendingCandidate
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return cached, nil
		}
	}

	return s.Refresh(ctx)
}

func (s *engagementService) Refresh(ctx context.Context) ([]TrendingCandidate, error) {
	posts, err := s.contentSvc.FetchPostRange(ctx, 0, candidatePoolSize, "")
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, nil
	}

	slugs := make([]string, len(posts))
	for i, p := range posts {
		slugs[i] = p.Slug
	}

	// One GROUP BY per signal instead of a query per post.
	reactionCounts, err := s.reactionRepo.CountBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}
	commentCounts, err := s.commentRepo.CountBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}

	candidates := make([]TrendingCandidate, 0, len(posts))
	for _, p := range posts {
		candidates = append(candidates, TrendingCandidate{
			PostSlug:           p.Slug,
			IsManuallyTrending: p.Featured,
			ReactionCount:      int(reactionCounts[p.Slug]),
			CommentCount:       int(commentCounts[p.Slug]),
		})
	}

	ranked := Rank(candidates, s.rankConfig)

	if encoded, err := json.Marshal(ranked); err == nil {
		if err := s.redisClient.Set(ctx, cache.TrendingKey(), encoded, s.snapshotTTL).Err(); err != nil {
			logger.L().Warn("trending snapshot write failed", "err", err)
		}
	}

	return ranked, nil
}
