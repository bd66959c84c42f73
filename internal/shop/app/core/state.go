package core

import (
	"context"

	"naikai-shop/internal/shop/domain/state"
)

// IStateStore keeps client states between requests. Load returns
// ErrClientNotFound for unknown or expired ids.
type IStateStore interface {
	Load(ctx context.Context, id string) (*state.ClientState, error)
	Save(ctx context.Context, s *state.ClientState) error
	Delete(ctx context.Context, id string) error
	Close() error
}
