package follow

import (
	"context"
	"fmt"

	"unipress.io/engagement/internal/entity"
	followRepo "unipress.io/engagement/internal/modules/follow/repository"
	"unipress.io/engagement/pkg/apperror"
)

type FollowService interface {
	// Toggle flips the follow edge and reports the resulting state.
	// Following yourself is rejected before the store is touched.
	Toggle(ctx context.Context, followerID, followingID string) (bool, error)
	CountFollowers(ctx context.Context, userID string) (int64, error)
	ListFollowing(ctx context.Context, followerID string) ([]entity.Follow, error)
}

type followService struct {
	repo followRepo.FollowRepository
}

func NewFollowService(repo followRepo.FollowRepository) FollowService {
	return &followService{repo: repo}
}

func (s *followService) Toggle(ctx context.Context, followerID, followingID string) (bool, error) {
	if followerID == followingID {
		return false, fmt.Errorf("%w: cannot follow yourself", apperror.ErrInvalidOperation)
	}
	return s.repo.Toggle(ctx, followerID, followingID)
}

func (s *followService) CountFollowers(ctx context.Context, userID string) (int64, error) {
	return s.repo.CountFollowers(ctx, userID)
}

func (s *followService) ListFollowing(ctx context.Context, followerID string) ([]entity.Follow, error) {
	return s.repo.FindFollowing(ctx, followerID)
}
