package reaction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"unipress.io/engagement/internal/entity"
	reactionRepo "unipress.io/engagement/internal/modules/reaction/repository"
	"unipress.io/engagement/pkg/apperror"
)

// fakeReactionRepo keeps reactions in a slice and mirrors the store's toggle
// contracts: per-tuple uniqueness for comment reactions, one-kind-per-actor
// exclusivity for post reactions.
type fakeReactionRepo struct {
	rows   []entity.Reaction
	nextID uint
	err    error
}

func (f *fakeReactionRepo) FindByPostSlug(ctx context.Context, postSlug string) ([]entity.Reaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []entity.Reaction
	for _, r := range f.rows {
		if r.PostSlug == postSlug {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReactionRepo) Add(ctx context.Context, reaction *entity.Reaction) error {
	if f.err != nil {
		return f.err
	}
	f.nextID++
	reaction.ID = f.nextID
	f.rows = append(f.rows, *reaction)
	return nil
}

func (f *fakeReactionRepo) Remove(ctx context.Context, postSlug string, targetCommentID *uint, actorID, kind string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	var removed int64
	kept := f.rows[:0:0]
	for _, r := range f.rows {
		if r.PostSlug == postSlug && r.ActorID == actorID && r.Kind == kind && uintPtrEqual(r.TargetCommentID, targetCommentID) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	f.rows = kept
	return removed, nil
}

func (f *fakeReactionRepo) ToggleTuple(ctx context.Context, reaction *entity.Reaction) (reactionRepo.ToggleAction, error) {
	if f.err != nil {
		return "", f.err
	}
	for _, r := range f.rows {
		if r.PostSlug == reaction.PostSlug && r.ActorID == reaction.ActorID &&
			r.Kind == reaction.Kind && uintPtrEqual(r.TargetCommentID, reaction.TargetCommentID) {
			if _, err := f.Remove(ctx, reaction.PostSlug, reaction.TargetCommentID, reaction.ActorID, reaction.Kind); err != nil {
				return "", err
			}
			return reactionRepo.ActionRemoved, nil
		}
	}
	if err := f.Add(ctx, reaction); err != nil {
		return "", err
	}
	return reactionRepo.ActionAdded, nil
}

func (f *fakeReactionRepo) TogglePostExclusive(ctx context.Context, reaction *entity.Reaction) (reactionRepo.ToggleAction, string, error) {
	if f.err != nil {
		return "", "", f.err
	}
	oldKind := ""
	kept := f.rows[:0:0]
	for _, r := range f.rows {
		if r.PostSlug == reaction.PostSlug && r.ActorID == reaction.ActorID && r.TargetCommentID == nil {
			oldKind = r.Kind
			continue
		}
		kept = append(kept, r)
	}
	f.rows = kept

	if oldKind == reaction.Kind {
		return reactionRepo.ActionRemoved, oldKind, nil
	}

	if err := f.Add(ctx, reaction); err != nil {
		return "", "", err
	}
	if oldKind != "" {
		return reactionRepo.ActionReplaced, oldKind, nil
	}
	return reactionRepo.ActionAdded, oldKind, nil
}

func (f *fakeReactionRepo) GroupCounts(ctx context.Context, postSlug string, targetCommentID *uint) (map[string]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	counts := make(map[string]int64)
	for _, r := range f.rows {
		if r.PostSlug == postSlug && uintPtrEqual(r.TargetCommentID, targetCommentID) {
			counts[r.Kind]++
		}
	}
	return counts, nil
}

func (f *fakeReactionRepo) CountBySlugs(ctx context.Context, slugs []string) (map[string]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	counts := make(map[string]int64)
	for _, r := range f.rows {
		for _, slug := range slugs {
			if r.PostSlug == slug {
				counts[slug]++
			}
		}
	}
	return counts, nil
}

func uintPtrEqual(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func newTestService(t *testing.T) (ReactionService, *fakeReactionRepo, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repo := &fakeReactionRepo{}
	svc := NewReactionService(repo, client, time.Hour)
	return svc, repo, mr
}

func TestToggleCommentReactionAddRemovePair(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	action, err := svc.ToggleCommentReaction(ctx, "guest_1", "p1", 7, entity.KindLike)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if action != reactionRepo.ActionAdded {
		t.Fatalf("first toggle = %q, want added", action)
	}
	if len(repo.rows) != 1 {
		t.Fatalf("expected 1 stored reaction, got %d", len(repo.rows))
	}

	action, err = svc.ToggleCommentReaction(ctx, "guest_1", "p1", 7, entity.KindLike)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if action != reactionRepo.ActionRemoved {
		t.Fatalf("second toggle = %q, want removed", action)
	}
	if len(repo.rows) != 0 {
		t.Fatalf("expected empty store after toggle pair, got %d rows", len(repo.rows))
	}
}

func TestToggleCommentReactionKindsAreIndependent(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	for _, kind := range []string{entity.KindLike, entity.KindCurious, entity.KindInsightful} {
		if _, err := svc.ToggleCommentReaction(ctx, "user-1", "p1", 7, kind); err != nil {
			t.Fatalf("toggle %s: %v", kind, err)
		}
	}

	// One actor can hold several kinds on the same comment at once.
	if len(repo.rows) != 3 {
		t.Fatalf("expected 3 coexisting reactions, got %d", len(repo.rows))
	}

	// Toggling one kind off leaves the others alone.
	if _, err := svc.ToggleCommentReaction(ctx, "user-1", "p1", 7, entity.KindCurious); err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if len(repo.rows) != 2 {
		t.Fatalf("expected 2 reactions after removing one kind, got %d", len(repo.rows))
	}
	for _, r := range repo.rows {
		if r.Kind == entity.KindCurious {
			t.Fatal("curious reaction should have been removed")
		}
	}
}

func TestToggleCommentReactionRejectsUnknownKind(t *testing.T) {
	svc, repo, _ := newTestService(t)

	_, err := svc.ToggleCommentReaction(context.Background(), "user-1", "p1", 7, "applause")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.rows) != 0 {
		t.Fatal("invalid kind must not reach the store")
	}
}

func TestTogglePostReactionExclusive(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	action, err := svc.TogglePostReaction(ctx, "user-1", "p1", entity.KindLike)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if action != reactionRepo.ActionAdded {
		t.Fatalf("first toggle = %q, want added", action)
	}

	// Selecting a different kind displaces the old one.
	action, err = svc.TogglePostReaction(ctx, "user-1", "p1", entity.KindCelebrate)
	if err != nil {
		t.Fatalf("replace toggle: %v", err)
	}
	if action != reactionRepo.ActionReplaced {
		t.Fatalf("replace toggle = %q, want replaced", action)
	}
	if len(repo.rows) != 1 || repo.rows[0].Kind != entity.KindCelebrate {
		t.Fatalf("expected single celebrate reaction, got %+v", repo.rows)
	}

	// Same kind again toggles off entirely.
	action, err = svc.TogglePostReaction(ctx, "user-1", "p1", entity.KindCelebrate)
	if err != nil {
		t.Fatalf("off toggle: %v", err)
	}
	if action != reactionRepo.ActionRemoved {
		t.Fatalf("off toggle = %q, want removed", action)
	}
	if len(repo.rows) != 0 {
		t.Fatalf("expected empty store, got %d rows", len(repo.rows))
	}
}

func TestTogglePostReactionDoesNotTouchOtherActors(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.TogglePostReaction(ctx, "user-1", "p1", entity.KindLike); err != nil {
		t.Fatalf("toggle user-1: %v", err)
	}
	if _, err := svc.TogglePostReaction(ctx, "guest_2", "p1", entity.KindLike); err != nil {
		t.Fatalf("toggle guest_2: %v", err)
	}
	if _, err := svc.TogglePostReaction(ctx, "user-1", "p1", entity.KindCurious); err != nil {
		t.Fatalf("replace user-1: %v", err)
	}

	if len(repo.rows) != 2 {
		t.Fatalf("expected 2 reactions, got %d", len(repo.rows))
	}
	for _, r := range repo.rows {
		if r.ActorID == "guest_2" && r.Kind != entity.KindLike {
			t.Fatalf("guest_2's reaction was disturbed: %+v", r)
		}
	}
}

func TestQuickReactionCountsTracksToggles(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.TogglePostReaction(ctx, "user-1", "p1", entity.KindLike); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := svc.TogglePostReaction(ctx, "user-2", "p1", entity.KindLike); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := svc.TogglePostReaction(ctx, "user-3", "p1", entity.KindCelebrate); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	counts, err := svc.QuickReactionCounts(ctx, "p1")
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts[entity.KindLike] != 2 || counts[entity.KindCelebrate] != 1 {
		t.Fatalf("counts = %v, want like=2 celebrate=1", counts)
	}

	// Replacing a kind moves the count between hash fields.
	if _, err := svc.TogglePostReaction(ctx, "user-2", "p1", entity.KindCelebrate); err != nil {
		t.Fatalf("replace: %v", err)
	}
	counts, err = svc.QuickReactionCounts(ctx, "p1")
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts[entity.KindLike] != 1 || counts[entity.KindCelebrate] != 2 {
		t.Fatalf("counts = %v, want like=1 celebrate=2", counts)
	}
}

func TestQuickReactionCountsRebuildsOnMiss(t *testing.T) {
	svc, repo, mr := newTestService(t)
	ctx := context.Background()

	repo.rows = []entity.Reaction{
		{ID: 1, PostSlug: "p1", ActorID: "a", Kind: entity.KindLike},
		{ID: 2, PostSlug: "p1", ActorID: "b", Kind: entity.KindLike},
		{ID: 3, PostSlug: "p1", ActorID: "c", Kind: entity.KindInsightful},
	}

	counts, err := svc.QuickReactionCounts(ctx, "p1")
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts[entity.KindLike] != 2 || counts[entity.KindInsightful] != 1 {
		t.Fatalf("rebuilt counts = %v", counts)
	}

	// Rebuild populated the hash so the next read skips the store.
	if !mr.Exists("counts:p1:post") {
		t.Fatal("expected counts hash to be repopulated")
	}
	repo.err = errors.New("store down")
	counts, err = svc.QuickReactionCounts(ctx, "p1")
	if err != nil {
		t.Fatalf("cached counts: %v", err)
	}
	if counts[entity.KindLike] != 2 {
		t.Fatalf("cached counts = %v", counts)
	}
}
