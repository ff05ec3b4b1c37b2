package content

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"unipress.io/engagement/pkg/apperror"
	"unipress.io/engagement/pkg/logger"
)

// Post is the read-only projection of a CMS document this service consumes.
// Featured is the editors' manual-trending override.
type Post struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	PublishedAt time.Time `json:"published_at"`
	Body        string    `json:"body"`
	Featured    bool      `json:"featured"`
}

type ContentService interface {
	FetchPost(ctx context.Context, slug string) (*Post, error)
	// FetchPostRange returns posts [start, end) newest-first. A non-empty
	// filter is served from the search index when one is configured,
	// falling back to the CMS range otherwise.
	FetchPostRange(ctx context.Context, start, end int, filter string) ([]Post, error)
	// Summarize proxies the stateless text-in/text-out AI endpoint.
	Summarize(ctx context.Context, text string) (string, error)
}

type contentService struct {
	cms     *resty.Client
	summary *resty.Client
	search  *SearchIndex
}

func NewContentService(contentAPIURL, summaryAPIURL string, search *SearchIndex) ContentService {
	return &contentService{
		cms:     resty.New().SetBaseURL(contentAPIURL).SetTimeout(10 * time.Second),
		summary: resty.New().SetBaseURL(summaryAPIURL).SetTimeout(30 * time.Second),
		search:  search,
	}
}

func (s *contentService) FetchPost(ctx context.Context, slug string) (*Post, error) {
	var post Post
	resp, err := s.cms.R().
		SetContext(ctx).
		SetResult(&post).
		SetPathParam("slug", slug).
		Get("/posts/{slug}")
	if err != nil {
		return nil, fmt.Errorf("%w: fetch post: %v", apperror.ErrPersistence, err)
	}
	if resp.StatusCode() == 404 {
		return nil, fmt.Errorf("%w: post %q", apperror.ErrNotFound, slug)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: fetch post: status %d", apperror.ErrPersistence, resp.StatusCode())
	}

	s.index([]Post{post})
	return &post, nil
}

func (s *contentService) FetchPostRange(ctx context.Context, start, end int, filter string) ([]Post, error) {
	if filter != "" && s.search != nil {
		posts, err := s.search.Search(filter, end-start)
		if err == nil {
			return posts, nil
		}
		logger.L().Warn("post search failed, falling back to CMS range", "filter", filter, "err", err)
	}

	var posts []Post
	resp, err := s.cms.R().
		SetContext(ctx).
		SetResult(&posts).
		SetQueryParams(map[string]string{
			"start": fmt.Sprintf("%d", start),
			"end":   fmt.Sprintf("%d", end),
		}).
		Get("/posts")
	if err != nil {
		return nil, fmt.Errorf("%w: fetch post range: %v", apperror.ErrPersistence, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: fetch post range: status %d", apperror.ErrPersistence, resp.StatusCode())
	}

	s.index(posts)
	return posts, nil
}

func (s *contentService) Summarize(ctx context.Context, text string) (string, error) {
	var result struct {
		Summary string `json:"summary"`
	}
	resp, err := s.summary.R().
		SetContext(ctx).
		SetBody(map[string]string{"text": text}).
		SetResult(&result).
		Post("/summarize")
	if err != nil {
		return "", fmt.Errorf("%w: summarize: %v", apperror.ErrPersistence, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%w: summarize: status %d", apperror.ErrPersistence, resp.StatusCode())
	}

	return result.Summary, nil
}

// index mirrors fetched posts into the search index, best-effort.
func (s *contentService) index(posts []Post) {
	if s.search == nil || len(posts) == 0 {
		return
	}
	if err := s.search.IndexPosts(posts); err != nil {
		logger.L().Warn("post indexing failed", "count", len(posts), "err", err)
	}
}
