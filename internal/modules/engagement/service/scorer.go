package engagement

import (
	"sort"
)

// TrendingCandidate is derived on demand, never persisted.
type TrendingCandidate struct {
	PostSlug           string `json:"post_slug"`
	IsManuallyTrending bool   `json:"is_manually_trending"`
	ReactionCount      int    `json:"reaction_count"`
	CommentCount       int    `json:"comment_count"`
	Score              int    `json:"score"`
}

// RankConfig holds the scoring knobs. ManualBoost lets editors force-feature
// a post regardless of organic engagement; ReactionFloor keeps low-signal
// posts out of the set even when arithmetic would rank them.
type RankConfig struct {
	ManualBoost    int
	CommentWeight  int
	ReactionWeight int
	ReactionFloor  int
	Limit          int
}

var DefaultRankConfig = RankConfig{
	ManualBoost:    1000,
	CommentWeight:  3,
	ReactionWeight: 1,
	ReactionFloor:  50,
	Limit:          5,
}

// Score computes the weighted engagement score for one candidate.
func Score(c TrendingCandidate, cfg RankConfig) int {
	score := c.CommentCount*cfg.CommentWeight + c.ReactionCount*cfg.ReactionWeight
	if c.IsManuallyTrending {
		score += cfg.ManualBoost
	}
	return score
}

// Rank filters to eligible candidates (manual flag or reaction floor),
// scores them, and returns the top cfg.Limit sorted descending by score.
// The sort is stable, so ties keep input order.
func Rank(candidates []TrendingCandidate, cfg RankConfig) []TrendingCandidate {
	eligible := make([]TrendingCandidate, 0, len(candidates))
	for _, c := range candidates {
		if !c.IsManuallyTrending && c.ReactionCount < cfg.ReactionFloor {
			continue
		}
		c.Score = Score(c, cfg)
		eligible = append(eligible, c)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Score > eligible[j].Score
	})

	if cfg.Limit > 0 && len(eligible) > cfg.Limit {
		eligible = eligible[:cfg.Limit]
	}
	return eligible
}
