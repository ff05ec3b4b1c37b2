// Package optimistic implements the client-side mutation coordinator for the
// engagement API: mutations are applied to a local in-memory view before the
// durable write is issued, then reconciled against the server outcome or
// rolled back on failure.
package optimistic

import (
	"context"
	"sync"
	"time"
)

// Comment is the client-side view of a comment. IDs are int64 so optimistic
// placeholders can live in the negative range until the server assigns a
// real id.
type Comment struct {
	ID          int64      `json:"id"`
	PostSlug    string     `json:"post_slug"`
	ParentID    *int64     `json:"parent_id"`
	AuthorID    string     `json:"author_id"`
	DisplayName string     `json:"display_name"`
	AvatarURL   *string    `json:"avatar_url"`
	Body        string     `json:"body"`
	CreatedAt   time.Time  `json:"created_at"`
	Reactions   []Reaction `json:"reactions"`
}

type Reaction struct {
	ID              int64     `json:"id"`
	PostSlug        string    `json:"post_slug"`
	TargetCommentID *int64    `json:"target_comment_id"`
	ActorID         string    `json:"actor_id"`
	Kind            string    `json:"kind"`
	CreatedAt       time.Time `json:"created_at"`
}

type NewComment struct {
	ParentID    *int64
	DisplayName string
	AvatarURL   *string
	Body        string
}

// Gateway is the durable-write surface the coordinator drives; in
// production it is the engagement REST API, in tests a fake.
type Gateway interface {
	ListComments(ctx context.Context, postSlug string) ([]Comment, error)
	ListReactions(ctx context.Context, postSlug string) ([]Reaction, error)
	CreateComment(ctx context.Context, postSlug string, c NewComment) (Comment, error)
	DeleteComment(ctx context.Context, id int64) error
	ToggleCommentReaction(ctx context.Context, postSlug string, commentID int64, kind string) (string, error)
	TogglePostReaction(ctx context.Context, postSlug, kind string) (string, error)
}

// State is the coordinator's mutation phase. Pending covers the window
// between optimistic apply and the durable write's return; Reconciling
// covers refetch/rollback.
type State int

const (
	StateIdle State = iota
	StatePending
	StateReconciling
)

// Coordinator owns the local comment and reaction collections for one post.
// It is the only writer to those collections. Mutations are not serialized
// against each other: a second mutation may be issued while the first is in
// flight, and the last reconciliation wins for overlapping state.
type Coordinator struct {
	mu       sync.Mutex
	gw       Gateway
	identity IdentityProvider
	postSlug string

	comments  []Comment
	reactions []Reaction
	expanded  map[int64]bool

	nextPlaceholder int64
	inFlight        int
	state           State
}

func NewCoordinator(gw Gateway, identity IdentityProvider, postSlug string) *Coordinator {
	return &Coordinator{
		gw:              gw,
		identity:        identity,
		postSlug:        postSlug,
		expanded:        make(map[int64]bool),
		nextPlaceholder: -1,
	}
}

// Load replaces the local collections with server truth.
func (c *Coordinator) Load(ctx context.Context) error {
	comments, err := c.gw.ListComments(ctx, c.postSlug)
	if err != nil {
		return err
	}
	reactions, err := c.gw.ListReactions(ctx, c.postSlug)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.comments = comments
	c.reactions = reactions
	return nil
}

// Comments returns a copy of the local comment collection.
func (c *Coordinator) Comments() []Comment {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Comment, len(c.comments))
	copy(out, c.comments)
	return out
}

// Reactions returns a copy of the local reaction collection.
func (c *Coordinator) Reactions() []Reaction {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Reaction, len(c.reactions))
	copy(out, c.reactions)
	return out
}

// State reports the coordinator's current mutation phase.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ToggleExpanded flips the lazily-revealed reply list for one node. Subtrees
// are collapsed by default, one boolean per node, independent of siblings.
func (c *Coordinator) ToggleExpanded(commentID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expanded[commentID] = !c.expanded[commentID]
	return c.expanded[commentID]
}

func (c *Coordinator) IsExpanded(commentID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expanded[commentID]
}

// AddComment optimistically inserts a placeholder comment, issues the write,
// and on success refetches the list: comments carry server-assigned ids that
// replies need immediately, so adopting the placeholder silently is unsafe.
func (c *Coordinator) AddComment(ctx context.Context, nc NewComment) error {
	c.mu.Lock()
	placeholder := Comment{
		ID:          c.nextPlaceholder,
		PostSlug:    c.postSlug,
		ParentID:    nc.ParentID,
		AuthorID:    c.identity.ActorID(),
		DisplayName: nc.DisplayName,
		AvatarURL:   nc.AvatarURL,
		Body:        nc.Body,
		CreatedAt:   time.Now(),
	}
	c.nextPlaceholder--
	snapshot := c.snapshotLocked()
	c.comments = append([]Comment{placeholder}, c.comments...) // newest-first
	c.beginLocked()
	c.mu.Unlock()

	_, err := c.gw.CreateComment(ctx, c.postSlug, nc)
	if err != nil {
		c.rollback(ctx, snapshot)
		return err
	}

	c.refetchComments(ctx)
	c.finish()
	return nil
}

// DeleteComment optimistically removes the row, then refetches on success so
// any sibling/children drift is corrected from server truth.
func (c *Coordinator) DeleteComment(ctx context.Context, id int64) error {
	c.mu.Lock()
	snapshot := c.snapshotLocked()
	kept := c.comments[:0:0]
	for _, cm := range c.comments {
		if cm.ID != id {
			kept = append(kept, cm)
		}
	}
	c.comments = kept
	c.beginLocked()
	c.mu.Unlock()

	if err := c.gw.DeleteComment(ctx, id); err != nil {
		c.rollback(ctx, snapshot)
		return err
	}

	c.refetchComments(ctx)
	c.finish()
	return nil
}

// ToggleCommentReaction applies the per-kind toggle locally and keeps the
// optimistic state as final on success: reactions need no server-assigned id
// for the UI, so the refetch round-trip is skipped for responsiveness. Two
// racing toggles from separate sessions can therefore diverge from server
// truth until the next full refetch; that staleness window is accepted.
func (c *Coordinator) ToggleCommentReaction(ctx context.Context, commentID int64, kind string) error {
	actor := c.identity.ActorID()

	c.mu.Lock()
	snapshot := c.snapshotLocked()
	c.toggleLocalLocked(&commentID, actor, kind)
	c.beginLocked()
	c.mu.Unlock()

	if _, err := c.gw.ToggleCommentReaction(ctx, c.postSlug, commentID, kind); err != nil {
		c.rollback(ctx, snapshot)
		return err
	}

	c.finish()
	return nil
}

// TogglePostReaction applies the exclusive quick-reaction rule locally: any
// other kind held by this actor on the post is removed first. Same
// keep-on-success policy as comment reactions.
func (c *Coordinator) TogglePostReaction(ctx context.Context, kind string) error {
	actor := c.identity.ActorID()

	c.mu.Lock()
	snapshot := c.snapshotLocked()
	c.togglePostExclusiveLocked(actor, kind)
	c.beginLocked()
	c.mu.Unlock()

	if _, err := c.gw.TogglePostReaction(ctx, c.postSlug, kind); err != nil {
		c.rollback(ctx, snapshot)
		return err
	}

	c.finish()
	return nil
}

type snapshot struct {
	comments  []Comment
	reactions []Reaction
}

func (c *Coordinator) snapshotLocked() snapshot {
	comments := make([]Comment, len(c.comments))
	copy(comments, c.comments)
	reactions := make([]Reaction, len(c.reactions))
	copy(reactions, c.reactions)
	return snapshot{comments: comments, reactions: reactions}
}

func (c *Coordinator) beginLocked() {
	c.inFlight++
	c.state = StatePending
}

func (c *Coordinator) finish() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight--
	if c.inFlight == 0 {
		c.state = StateIdle
	}
}

// rollback restores the last known-good snapshot and then tries a refetch so
// concurrent server-side changes aren't lost; if the refetch also fails the
// snapshot stands.
func (c *Coordinator) rollback(ctx context.Context, snap snapshot) {
	c.mu.Lock()
	c.state = StateReconciling
	c.comments = snap.comments
	c.reactions = snap.reactions
	c.mu.Unlock()

	if comments, err := c.gw.ListComments(ctx, c.postSlug); err == nil {
		if reactions, err := c.gw.ListReactions(ctx, c.postSlug); err == nil {
			c.mu.Lock()
			c.comments = comments
			c.reactions = reactions
			c.mu.Unlock()
		}
	}

	c.finish()
}

// refetchComments adopts authoritative ids and timestamps after a successful
// comment mutation, discarding any placeholder. Failure here leaves the
// optimistic state in place; the next load corrects it.
func (c *Coordinator) refetchComments(ctx context.Context) {
	c.mu.Lock()
	c.state = StateReconciling
	c.mu.Unlock()

	comments, err := c.gw.ListComments(ctx, c.postSlug)
	if err != nil {
		return
	}

	c.mu.Lock()
	c.comments = comments
	c.mu.Unlock()
}

func (c *Coordinator) toggleLocalLocked(target *int64, actor, kind string) {
	for i, r := range c.reactions {
		if r.ActorID == actor && r.Kind == kind && int64PtrEqual(r.TargetCommentID, target) {
			c.reactions = append(c.reactions[:i], c.reactions[i+1:]...)
			return
		}
	}

	c.reactions = append(c.reactions, Reaction{
		ID:              c.nextPlaceholder,
		PostSlug:        c.postSlug,
		TargetCommentID: target,
		ActorID:         actor,
		Kind:            kind,
		CreatedAt:       time.Now(),
	})
	c.nextPlaceholder--
}

func (c *Coordinator) togglePostExclusiveLocked(actor, kind string) {
	sameKind := false
	kept := c.reactions[:0:0]
	for _, r := range c.reactions {
		if r.ActorID == actor && r.TargetCommentID == nil {
			if r.Kind == kind {
				sameKind = true
			}
			continue // any post-level reaction by this actor is displaced
		}
		kept = append(kept, r)
	}
	c.reactions = kept

	if sameKind {
		return // same kind clicked again: toggled off
	}

	c.reactions = append(c.reactions, Reaction{
		ID:        c.nextPlaceholder,
		PostSlug:  c.postSlug,
		ActorID:   actor,
		Kind:      kind,
		CreatedAt: time.Now(),
	})
	c.nextPlaceholder--
}

func int64PtrEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
