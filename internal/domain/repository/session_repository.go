package repository

import (
	"context"

	"searchpattern-service/internal/domain/entity"
)

// SessionRepository defines the interface for transient session storage
type SessionRepository interface {
	Save(ctx context.Context, session *entity.Session) error
	FindByID(ctx context.Context, id string) (*entity.Session, error)
	Delete(ctx context.Context, id string) error
}
