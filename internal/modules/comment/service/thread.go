package comment

import (
	"unipress.io/engagement/internal/entity"
	commentDto "unipress.io/engagement/internal/modules/comment/dto"
	commonDto "unipress.io/engagement/pkg/dto"
	"unipress.io/engagement/pkg/response"
)

// BuildThread reconstructs the display forest from a flat comment list.
// Children of a node are exactly the input comments whose ParentID equals
// the node's ID; roots have a nil ParentID. A comment whose parent id is
// absent from the input is an orphan and is excluded entirely, along with
// its subtree: recursion only ever starts from roots, so nothing hanging
// off an unrendered node can surface.
//
// The whole pass is O(n): one index map, one child-grouping map, one
// depth-first emit. Input order is preserved among siblings.
func BuildThread(comments []entity.Comment) []*commentDto.ThreadNodeResponse {
	byID := make(map[uint]*entity.Comment, len(comments))
	for i := range comments {
		byID[comments[i].ID] = &comments[i]
	}

	children := make(map[uint][]*entity.Comment)
	var roots []*entity.Comment
	for i := range comments {
		c := &comments[i]
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		if _, ok := byID[*c.ParentID]; !ok {
			continue // orphan
		}
		children[*c.ParentID] = append(children[*c.ParentID], c)
	}

	nodes := make([]*commentDto.ThreadNodeResponse, 0, len(roots))
	for _, root := range roots {
		nodes = append(nodes, buildNode(root, byID, children))
	}
	return nodes
}

func buildNode(c *entity.Comment, byID map[uint]*entity.Comment, children map[uint][]*entity.Comment) *commentDto.ThreadNodeResponse {
	node := &commentDto.ThreadNodeResponse{
		Comment:    toResponse(*c),
		ReplyingTo: replyRef(c, byID),
	}
	for _, child := range children[c.ID] {
		node.Replies = append(node.Replies, buildNode(child, byID, children))
	}
	return node
}

// replyRef resolves the "replying to X" hint from the same flat list; no
// extra fetch, just the id index.
func replyRef(c *entity.Comment, byID map[uint]*entity.Comment) *commonDto.ReplyRef {
	if c.ParentID == nil {
		return nil
	}
	parent, ok := byID[*c.ParentID]
	if !ok {
		return nil
	}
	return &commonDto.ReplyRef{
		AuthorID:    parent.AuthorID,
		DisplayName: parent.DisplayName,
		Registered:  !response.IsGuestID(parent.AuthorID),
	}
}

func toResponse(c entity.Comment) commentDto.CommentResponse {
	return commentDto.CommentResponse{
		ID:          c.ID,
		PostSlug:    c.PostSlug,
		ParentID:    c.ParentID,
		AuthorID:    c.AuthorID,
		DisplayName: c.DisplayName,
		AvatarURL:   c.AvatarURL,
		Body:        c.Body,
		CreatedAt:   c.CreatedAt,
		Reactions:   summarize(c.Reactions),
	}
}

func summarize(reactions []entity.Reaction) commonDto.ReactionSummary {
	byKind := make(map[string]int)
	for _, r := range reactions {
		byKind[r.Kind]++
	}

	// Vocabulary order keeps the compact display stable between renders.
	var distinct []string
	for _, kind := range entity.Kinds {
		if byKind[kind] > 0 {
			distinct = append(distinct, kind)
		}
	}

	return commonDto.ReactionSummary{
		TotalCount:    len(reactions),
		DistinctKinds: distinct,
		ByKind:        byKind,
	}
}
