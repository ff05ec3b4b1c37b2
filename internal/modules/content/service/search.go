package content

import (
	"encoding/json"
	"fmt"

	meili "github.com/meilisearch/meilisearch-go"
	"unipress.io/engagement/pkg/logger"
)

const postsIndex = "unipress_posts"

// SearchIndex mirrors CMS post summaries into Meilisearch so range filters
// can be served as full-text queries.
type SearchIndex struct {
	client meili.ServiceManager
}

// NewSearchIndex connects to Meilisearch and configures the posts index.
// Returns nil when no host is configured; callers treat a nil index as
// "search disabled".
func NewSearchIndex(host, apiKey string) *SearchIndex {
	if host == "" {
		return nil
	}

	client := meili.New(host, meili.WithAPIKey(apiKey))
	if _, err := client.Health(); err != nil {
		logger.L().Warn("meilisearch unavailable, search disabled", "host", host, "err", err)
		return nil
	}

	if _, err := client.CreateIndex(&meili.IndexConfig{
		Uid:        postsIndex,
		PrimaryKey: "slug",
	}); err != nil {
		logger.L().Warn("create posts index (may already exist)", "err", err)
	}

	searchable := []string{"title", "author", "body"}
	if _, err := client.Index(postsIndex).UpdateSearchableAttributes(&searchable); err != nil {
		logger.L().Warn("update posts searchable attributes failed", "err", err)
	}

	return &SearchIndex{client: client}
}

func (s *SearchIndex) IndexPosts(posts []Post) error {
	_, err := s.client.Index(postsIndex).AddDocuments(posts, strPtr("slug"))
	return err
}

func strPtr(s string) *string {
	return &s
}

func (s *SearchIndex) Search(query string, limit int) ([]Post, error) {
	if limit <= 0 {
		limit = 20
	}

	resp, err := s.client.Index(postsIndex).Search(query, &meili.SearchRequest{
		Limit: int64(limit),
	})
	if err != nil {
		return nil, err
	}

	posts := make([]Post, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		raw, err := json.Marshal(hit)
		if err != nil {
			return nil, fmt.Errorf("decode search hit: %w", err)
		}
		var post Post
		if err := json.Unmarshal(raw, &post); err != nil {
			return nil, fmt.Errorf("decode search hit: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, nil
}
