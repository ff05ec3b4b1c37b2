package optimistic

import (
	"context"
	"errors"
	"testing"
)

// fakeGateway keeps server-side collections in memory and can be told to fail
// individual operations.
type fakeGateway struct {
	comments  []Comment
	reactions []Reaction
	nextID    int64

	failCreate bool
	failDelete bool
	failToggle bool
	failList   bool
}

func (g *fakeGateway) ListComments(ctx context.Context, postSlug string) ([]Comment, error) {
	if g.failList {
		return nil, errors.New("list unavailable")
	}
	out := make([]Comment, len(g.comments))
	copy(out, g.comments)
	return out, nil
}

func (g *fakeGateway) ListReactions(ctx context.Context, postSlug string) ([]Reaction, error) {
	if g.failList {
		return nil, errors.New("list unavailable")
	}
	out := make([]Reaction, len(g.reactions))
	copy(out, g.reactions)
	return out, nil
}

func (g *fakeGateway) CreateComment(ctx context.Context, postSlug string, nc NewComment) (Comment, error) {
	if g.failCreate {
		return Comment{}, errors.New("create rejected")
	}
	g.nextID++
	c := Comment{
		ID:          g.nextID,
		PostSlug:    postSlug,
		ParentID:    nc.ParentID,
		DisplayName: nc.DisplayName,
		Body:        nc.Body,
	}
	g.comments = append([]Comment{c}, g.comments...)
	return c, nil
}

func (g *fakeGateway) DeleteComment(ctx context.Context, id int64) error {
	if g.failDelete {
		return errors.New("delete rejected")
	}
	kept := g.comments[:0:0]
	for _, c := range g.comments {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	g.comments = kept
	return nil
}

func (g *fakeGateway) ToggleCommentReaction(ctx context.Context, postSlug string, commentID int64, kind string) (string, error) {
	if g.failToggle {
		return "", errors.New("toggle rejected")
	}
	return "added", nil
}

func (g *fakeGateway) TogglePostReaction(ctx context.Context, postSlug, kind string) (string, error) {
	if g.failToggle {
		return "", errors.New("toggle rejected")
	}
	return "added", nil
}

func TestAddCommentAdoptsServerIDs(t *testing.T) {
	gw := &fakeGateway{}
	coord := NewCoordinator(gw, StaticIdentity("user-1"), "p1")
	ctx := context.Background()

	if err := coord.AddComment(ctx, NewComment{DisplayName: "Alice", Body: "hello"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	comments := coord.Comments()
	if len(comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(comments))
	}
	// After reconciliation the placeholder id is gone.
	if comments[0].ID <= 0 {
		t.Fatalf("comment still carries placeholder id %d", comments[0].ID)
	}
	if coord.State() != StateIdle {
		t.Fatalf("state = %v, want idle", coord.State())
	}
}

func TestAddCommentRollsBackOnFailure(t *testing.T) {
	gw := &fakeGateway{
		comments:   []Comment{{ID: 1, PostSlug: "p1", Body: "existing"}},
		failCreate: true,
		failList:   true, // rollback refetch also fails, snapshot stands
	}
	coord := NewCoordinator(gw, StaticIdentity("user-1"), "p1")
	ctx := context.Background()

	coord.comments = []Comment{{ID: 1, PostSlug: "p1", Body: "existing"}}

	if err := coord.AddComment(ctx, NewComment{DisplayName: "Alice", Body: "doomed"}); err == nil {
		t.Fatal("expected create failure")
	}

	comments := coord.Comments()
	if len(comments) != 1 || comments[0].Body != "existing" {
		t.Fatalf("rollback did not restore the snapshot: %+v", comments)
	}
	if coord.State() != StateIdle {
		t.Fatalf("state = %v, want idle after rollback", coord.State())
	}
}

func TestDeleteCommentOptimisticThenReconcile(t *testing.T) {
	gw := &fakeGateway{comments: []Comment{
		{ID: 1, PostSlug: "p1", Body: "keep"},
		{ID: 2, PostSlug: "p1", Body: "remove"},
	}}
	coord := NewCoordinator(gw, StaticIdentity("user-1"), "p1")
	ctx := context.Background()

	if err := coord.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := coord.DeleteComment(ctx, 2); err != nil {
		t.Fatalf("delete: %v", err)
	}

	comments := coord.Comments()
	if len(comments) != 1 || comments[0].ID != 1 {
		t.Fatalf("unexpected comments after delete: %+v", comments)
	}
}

func TestToggleReactionKeepsLocalOnSuccess(t *testing.T) {
	gw := &fakeGateway{}
	coord := NewCoordinator(gw, StaticIdentity("guest_abc"), "p1")
	ctx := context.Background()

	commentID := int64(7)
	if err := coord.ToggleCommentReaction(ctx, commentID, "like"); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	reactions := coord.Reactions()
	if len(reactions) != 1 {
		t.Fatalf("expected 1 local reaction, got %d", len(reactions))
	}
	r := reactions[0]
	if r.ActorID != "guest_abc" || r.Kind != "like" || r.TargetCommentID == nil || *r.TargetCommentID != commentID {
		t.Fatalf("unexpected local reaction: %+v", r)
	}

	// Toggling again removes it locally without waiting for a refetch.
	if err := coord.ToggleCommentReaction(ctx, commentID, "like"); err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if got := coord.Reactions(); len(got) != 0 {
		t.Fatalf("expected empty reactions after toggle pair, got %d", len(got))
	}
}

func TestToggleReactionRollsBackOnFailure(t *testing.T) {
	existing := Reaction{ID: 10, PostSlug: "p1", ActorID: "other", Kind: "curious"}
	gw := &fakeGateway{
		reactions:  []Reaction{existing},
		failToggle: true,
		failList:   true,
	}
	coord := NewCoordinator(gw, StaticIdentity("guest_abc"), "p1")
	ctx := context.Background()

	coord.reactions = []Reaction{existing}

	commentID := int64(7)
	if err := coord.ToggleCommentReaction(ctx, commentID, "like"); err == nil {
		t.Fatal("expected toggle failure")
	}

	// The failed mutation leaves the reaction set exactly as it was.
	reactions := coord.Reactions()
	if len(reactions) != 1 || reactions[0].ID != 10 {
		t.Fatalf("rollback did not restore reactions: %+v", reactions)
	}
	if coord.State() != StateIdle {
		t.Fatalf("state = %v, want idle after rollback", coord.State())
	}
}

func TestRollbackPrefersServerTruthWhenReachable(t *testing.T) {
	serverReaction := Reaction{ID: 42, PostSlug: "p1", ActorID: "other", Kind: "like"}
	gw := &fakeGateway{
		reactions:  []Reaction{serverReaction},
		failToggle: true, // mutation fails but lists still work
	}
	coord := NewCoordinator(gw, StaticIdentity("guest_abc"), "p1")
	ctx := context.Background()

	if err := coord.TogglePostReaction(ctx, "celebrate"); err == nil {
		t.Fatal("expected toggle failure")
	}

	// The post-rollback refetch picked up the concurrent server-side change.
	reactions := coord.Reactions()
	if len(reactions) != 1 || reactions[0].ID != 42 {
		t.Fatalf("expected server truth after rollback refetch, got %+v", reactions)
	}
}

func TestTogglePostReactionExclusiveLocally(t *testing.T) {
	gw := &fakeGateway{}
	coord := NewCoordinator(gw, StaticIdentity("user-1"), "p1")
	ctx := context.Background()

	if err := coord.TogglePostReaction(ctx, "like"); err != nil {
		t.Fatalf("toggle like: %v", err)
	}
	if err := coord.TogglePostReaction(ctx, "celebrate"); err != nil {
		t.Fatalf("toggle celebrate: %v", err)
	}

	reactions := coord.Reactions()
	if len(reactions) != 1 || reactions[0].Kind != "celebrate" {
		t.Fatalf("expected single celebrate reaction, got %+v", reactions)
	}

	// Same kind again toggles off.
	if err := coord.TogglePostReaction(ctx, "celebrate"); err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if got := coord.Reactions(); len(got) != 0 {
		t.Fatalf("expected no post reactions, got %+v", got)
	}
}

func TestTogglePostReactionLeavesCommentReactionsAlone(t *testing.T) {
	gw := &fakeGateway{}
	coord := NewCoordinator(gw, StaticIdentity("user-1"), "p1")
	ctx := context.Background()

	commentID := int64(3)
	if err := coord.ToggleCommentReaction(ctx, commentID, "like"); err != nil {
		t.Fatalf("comment toggle: %v", err)
	}
	if err := coord.TogglePostReaction(ctx, "like"); err != nil {
		t.Fatalf("post toggle: %v", err)
	}
	if err := coord.TogglePostReaction(ctx, "celebrate"); err != nil {
		t.Fatalf("post replace: %v", err)
	}

	var commentLevel, postLevel int
	for _, r := range coord.Reactions() {
		if r.TargetCommentID != nil {
			commentLevel++
		} else {
			postLevel++
		}
	}
	if commentLevel != 1 {
		t.Fatalf("comment-level reaction was disturbed, count = %d", commentLevel)
	}
	if postLevel != 1 {
		t.Fatalf("expected exactly one post-level reaction, got %d", postLevel)
	}
}

func TestToggleExpandedPerNode(t *testing.T) {
	coord := NewCoordinator(&fakeGateway{}, StaticIdentity("user-1"), "p1")

	if coord.IsExpanded(1) {
		t.Fatal("nodes start collapsed")
	}
	if !coord.ToggleExpanded(1) {
		t.Fatal("first toggle should expand")
	}
	if coord.IsExpanded(2) {
		t.Fatal("sibling expansion state must be independent")
	}
	if coord.ToggleExpanded(1) {
		t.Fatal("second toggle should collapse")
	}
}
