package chat

import "sync/atomic"

// Sender delivers one payload to one client. Implementations are shared
// with the transport layer and must be safe for concurrent use; a failed
// delivery means the connection is going away.
type Sender interface {
	Send(msg []byte) error
}

// Session is one live connection as the workers see it. The bound user id
// stays 0 until a login or registration succeeds on this connection, and is
// set at most once for the lifetime of the session.
type Session struct {
	id     int64
	userID int64
	sender Sender
}

func NewSession(sender Sender) *Session {
	return &Session{sender: sender}
}

func (s *Session) ID() int64 {
	return atomic.LoadInt64(&s.id)
}

func (s *Session) setID(id int64) {
	atomic.StoreInt64(&s.id, id)
}

// Bind attaches a user identity to the session. It reports false when the
// session already carries an identity; rebinding is not supported.
func (s *Session) Bind(userID int64) bool {
	return atomic.CompareAndSwapInt64(&s.userID, 0, userID)
}

// UserID returns the bound user id, or 0 for an unauthenticated session.
func (s *Session) UserID() int64 {
	return atomic.LoadInt64(&s.userID)
}

func (s *Session) Send(msg []byte) error {
	return s.sender.Send(msg)
}
