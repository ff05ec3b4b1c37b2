package dto

// ReactionSummary reduces a node's reaction multiset for compact display.
// ByKind carries the full per-kind breakdown for the expanded view.
type ReactionSummary struct {
	TotalCount    int            `json:"total_count"`
	DistinctKinds []string       `json:"distinct_kinds"`
	ByKind        map[string]int `json:"by_kind"`
}

// ReplyRef points a reply at its immediate parent's author for the
// "replying to X" hint. Registered is false for guest authors, whose display
// names never link to a profile.
type ReplyRef struct {
	AuthorID    string `json:"author_id"`
	DisplayName string `json:"display_name"`
	Registered  bool   `json:"registered"`
}

type ToggleResponse struct {
	Action string `json:"action"`
}

type PaginationMeta struct {
	Start int `json:"start"`
	End   int `json:"end"`
	Count int `json:"count"`
}
