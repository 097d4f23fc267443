package session

import "time"

// Session is one upload lifetime for an owner. Records written under an
// older session are swept away on the owner's next ingestion.
type Session struct {
	id        string
	ownerId   string
	startedAt time.Time
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) OwnerID() string {
	return s.ownerId
}

func (s *Session) StartedAt() time.Time {
	return s.startedAt
}
