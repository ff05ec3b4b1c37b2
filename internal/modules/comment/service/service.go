package comment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"unipress.io/engagement/internal/entity"
	commentDto "unipress.io/engagement/internal/modules/comment/dto"
	commentRepo "unipress.io/engagement/internal/modules/comment/repository"
	"unipress.io/engagement/pkg/apperror"
	"unipress.io/engagement/pkg/cache"
	"unipress.io/engagement/pkg/logger"
)

type CommentService interface {
	// ListComments returns the flat newest-first list with embedded
	// reactions. Read failures are logged and reported as an empty list,
	// never as an error.
	ListComments(ctx context.Context, postSlug string) []commentDto.CommentResponse
	ListThread(ctx context.Context, postSlug string) []*commentDto.ThreadNodeResponse
	CreateComment(ctx context.Context, actorID, postSlug string, req commentDto.CreateCommentRequest) (*commentDto.CommentResponse, error)
	DeleteComment(ctx context.Context, userID string, id uint) (commentRepo.DeleteOutcome, error)
}

type commentService struct {
	repo        commentRepo.CommentRepository
	redisClient *redis.Client
	cacheTTL    time.Duration
	sanitizer   *bluemonday.Policy
}

func NewCommentService(repo commentRepo.CommentRepository, redisClient *redis.Client, cacheTTL time.Duration) CommentService {
	return &commentService{
		repo:        repo,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
		sanitizer:   bluemonday.StrictPolicy(),
	}
}

func (s *commentService) ListComments(ctx context.Context, postSlug string) []commentDto.CommentResponse {
	comments := s.fetch(ctx, postSlug)

	out := make([]commentDto.CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, toResponse(c))
	}
	return out
}

func (s *commentService) ListThread(ctx context.Context, postSlug string) []*commentDto.ThreadNodeResponse {
	return BuildThread(s.fetch(ctx, postSlug))
}

func (s *commentService) CreateComment(ctx context.Context, actorID, postSlug string, req commentDto.CreateCommentRequest) (*commentDto.CommentResponse, error) {
	body := strings.TrimSpace(s.sanitizer.Sanitize(req.Body))
	if body == "" {
		return nil, fmt.Errorf("%w: comment body is empty", apperror.ErrValidation)
	}
	// The limit counts characters, not bytes, matching the binding tag.
	if utf8.RuneCountInString(body) > entity.MaxBodyLength {
		return nil, fmt.Errorf("%w: comment body exceeds %d characters", apperror.ErrValidation, entity.MaxBodyLength)
	}

	comment := &entity.Comment{
		PostSlug:    postSlug,
		ParentID:    req.ParentID,
		AuthorID:    actorID,
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
		Body:        body,
		// No moderation queue here: everything is auto-approved at creation.
		Approved: true,
	}

	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.invalidate(ctx, postSlug)

	resp := toResponse(*comment)
	return &resp, nil
}

func (s *commentService) DeleteComment(ctx context.Context, userID string, id uint) (commentRepo.DeleteOutcome, error) {
	outcome, deleted, err := s.repo.DeleteOwned(ctx, id, userID)
	if err != nil {
		return outcome, err
	}

	if outcome == commentRepo.OutcomeDeleted && deleted != nil {
		s.invalidate(ctx, deleted.PostSlug)
	}

	return outcome, nil
}

// fetch serves the flat entity list, redis first, store on miss. Every
// failure path degrades to an empty list; the UI treats a broken comment box
// as an empty one.
func (s *commentService) fetch(ctx context.Context, postSlug string) []entity.Comment {
	key := cache.CommentsKey(postSlug)

	if raw, err := s.redisClient.Get(ctx, key).Result(); err == nil {
		var cached []entity.Comment
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return cached
		}
	}

	comments, err := s.repo.FindByPostSlug(ctx, postSlug)
	if err != nil {
		logger.L().Warn("comment list read failed", "post_slug", postSlug, "err", err)
		return nil
	}

	if encoded, err := json.Marshal(comments); err == nil {
		if err := s.redisClient.Set(ctx, key, encoded, s.cacheTTL).Err(); err != nil {
			logger.L().Warn("comment cache write failed", "post_slug", postSlug, "err", err)
		}
	}

	return comments
}

func (s *commentService) invalidate(ctx context.Context, postSlug string) {
	if err := cache.InvalidatePost(ctx, s.redisClient, postSlug); err != nil {
		logger.L().Warn("comment cache invalidation failed", "post_slug", postSlug, "err", err)
	}
}
