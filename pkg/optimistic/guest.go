package optimistic

import (
	"github.com/google/uuid"
)

const guestStorageKey = "engagement_guest_id"

// IdentityProvider supplies the actor id attached to optimistic mutations.
type IdentityProvider interface {
	ActorID() string
}

// Storage is the minimal client-local persistence a guest identity needs:
// browser local storage, a cookie jar, a file, or a map in tests.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// GuestIdentity assigns a stable pseudo-identity to an unauthenticated
// visitor: created once per storage session, reused on every later call. It
// provides continuity ("this browser reacted already"), not identity proof,
// and must never be trusted for authorization decisions.
type GuestIdentity struct {
	storage Storage
}

func NewGuestIdentity(storage Storage) *GuestIdentity {
	return &GuestIdentity{storage: storage}
}

func (g *GuestIdentity) ActorID() string {
	if id, ok := g.storage.Get(guestStorageKey); ok && id != "" {
		return id
	}

	id := "guest_" + uuid.NewString()
	g.storage.Set(guestStorageKey, id)
	return id
}

// StaticIdentity adapts an authenticated subject to IdentityProvider.
type StaticIdentity string

func (s StaticIdentity) ActorID() string {
	return string(s)
}

// MapStorage is an in-memory Storage, handy for tests and non-browser hosts.
type MapStorage map[string]string

func (m MapStorage) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m MapStorage) Set(key, value string) {
	m[key] = value
}
