package bookmark

import (
	"context"

	"unipress.io/engagement/internal/entity"
	bookmarkRepo "unipress.io/engagement/internal/modules/bookmark/repository"
)

type BookmarkService interface {
	// Toggle flips the bookmark for an authenticated user and reports the
	// resulting state.
	Toggle(ctx context.Context, userID, postSlug string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]entity.Bookmark, error)
}

type bookmarkService struct {
	repo bookmarkRepo.BookmarkRepository
}

func NewBookmarkService(repo bookmarkRepo.BookmarkRepository) BookmarkService {
	return &bookmarkService{repo: repo}
}

func (s *bookmarkService) Toggle(ctx context.Context, userID, postSlug string) (bool, error) {
	return s.repo.Toggle(ctx, userID, postSlug)
}

func (s *bookmarkService) ListByUser(ctx context.Context, userID string) ([]entity.Bookmark, error) {
	return s.repo.FindByUser(ctx, userID)
}
