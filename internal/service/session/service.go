package session

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/w-h-a/finrag/retriever"
)

type Service struct {
	sessions map[string]*Session
	mtx      sync.RWMutex
}

// StartSession opens a fresh session for the owner, replacing whatever
// session was current. Pass an id to adopt an externally issued one.
func (s *Service) StartSession(ctx context.Context, ownerId string, id string) (*Session, error) {
	if len(strings.TrimSpace(ownerId)) == 0 {
		return nil, &retriever.RetrievalError{OwnerId: ownerId, Err: retriever.ErrMissingSession}
	}

	if len(strings.TrimSpace(id)) == 0 {
		id = uuid.NewString()
	}

	session := &Session{
		id:        id,
		ownerId:   ownerId,
		startedAt: time.Now().UTC(),
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.sessions[ownerId] = session

	return session, nil
}

// CurrentSession returns the owner's live session or ErrMissingSession
// when none has been started.
func (s *Service) CurrentSession(ctx context.Context, ownerId string) (*Session, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	session, ok := s.sessions[ownerId]
	if !ok {
		return nil, retriever.ErrMissingSession
	}

	return session, nil
}

func (s *Service) ListOwnerIds(ctx context.Context) []string {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}

func (s *Service) EndSession(ctx context.Context, ownerId string) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	delete(s.sessions, ownerId)
}

func New() *Service {
	return &Service{
		sessions: map[string]*Session{},
		mtx:      sync.RWMutex{},
	}
}
