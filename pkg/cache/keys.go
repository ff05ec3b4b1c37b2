package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Key builders for every redis view this service maintains. Mutation paths
// call InvalidatePost so a subsequent list observes the change; count hashes
// are adjusted incrementally and rebuilt from the database on miss.

func CommentsKey(postSlug string) string {
	return fmt.Sprintf("comments:%s", postSlug)
}

// CountsKey addresses the per-kind reaction count hash for one target:
// target "post" for post-level reactions, "comment:<id>" for a comment.
func CountsKey(postSlug, target string) string {
	return fmt.Sprintf("counts:%s:%s", postSlug, target)
}

func TrendingKey() string {
	return "trending:posts"
}

// InvalidatePost drops the cached comment list for a slug. Count hashes are
// left alone; they are maintained incrementally by the reaction service.
func InvalidatePost(ctx context.Context, rdb *redis.Client, postSlug string) error {
	return rdb.Del(ctx, CommentsKey(postSlug)).Err()
}
