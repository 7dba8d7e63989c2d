package session

import (
	"context"
	"errors"
)

var ErrSessionNotFound = errors.New("session not found")

type Repository interface {
	GetByID(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id string) error
}
