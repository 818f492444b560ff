package chat

import (
	"github.com/proxchat/backend/pkg/idutil"

	"github.com/puzpuzpuz/xsync"
)

// Registry owns the authoritative mapping from connection id to session.
// It is a concurrent map with per-bucket locking: writes to the same id are
// serialized, reads never block behind writers, and iteration sees a weakly
// consistent snapshot. That is the behaviour the broadcast path relies on:
// sessions published mid-iteration may be skipped and sessions removed
// mid-iteration may still be visited.
type Registry struct {
	ids      idutil.Allocator
	sessions *xsync.MapOf[int64, *Session]
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: xsync.NewTypedMapOf[int64, *Session](idutil.HashInt64),
	}
}

// AllocateID returns the next connection id. Ids are strictly increasing
// and never reused within a process lifetime.
func (r *Registry) AllocateID() int64 {
	return r.ids.Next()
}

// Publish inserts or replaces the session stored under id.
func (r *Registry) Publish(id int64, s *Session) {
	r.sessions.Store(id, s)
}

// Remove deletes the session stored under id. Removing an unknown id is a
// no-op, so duplicate or late close events are harmless.
func (r *Registry) Remove(id int64) bool {
	_, existed := r.sessions.LoadAndDelete(id)
	return existed
}

func (r *Registry) Get(id int64) (*Session, bool) {
	return r.sessions.Load(id)
}

// Range visits the current sessions. The visitor must tolerate delivering
// to a session whose connection has just closed.
func (r *Registry) Range(visit func(s *Session) bool) {
	r.sessions.Range(func(_ int64, s *Session) bool {
		return visit(s)
	})
}

// Count is an approximate number of live sessions, for observability only.
func (r *Registry) Count() int {
	return r.sessions.Size()
}
