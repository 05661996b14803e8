package repository

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"searchpattern-service/internal/domain/entity"
	"searchpattern-service/internal/domain/repository"
)

// MemorySessionRepository keeps sessions in an expiring in-process LRU.
// A session expires ttl after it was last saved; the least recently used
// session is evicted once capacity is reached.
type MemorySessionRepository struct {
	sessions *expirable.LRU[string, *entity.Session]
}

// NewMemorySessionRepository creates a new in-memory session repository
func NewMemorySessionRepository(capacity int, ttl time.Duration) repository.SessionRepository {
	return &MemorySessionRepository{
		sessions: expirable.NewLRU[string, *entity.Session](capacity, nil, ttl),
	}
}

// Save stores a copy of the session
func (r *MemorySessionRepository) Save(ctx context.Context, session *entity.Session) error {
	r.sessions.Add(session.ID, session.Clone())
	return nil
}

// FindByID returns a copy of the session
func (r *MemorySessionRepository) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	session, ok := r.sessions.Get(id)
	if !ok {
		return nil, entity.ErrSessionNotFound
	}
	return session.Clone(), nil
}

// Delete removes the session
func (r *MemorySessionRepository) Delete(ctx context.Context, id string) error {
	r.sessions.Remove(id)
	return nil
}
