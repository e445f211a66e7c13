// Package session holds live game sessions in process memory
package session

//go:generate mockgen -destination=mock/mock_repository.go -package=sessionmock github.com/KirkDiggler/rpg-gm/internal/repositories/session Repository

import (
	"context"

	"github.com/KirkDiggler/rpg-gm/internal/entities"
)

// Repository defines the storage interface for live sessions. Sessions are
// copied in and out; callers never share mutable state with the store.
type Repository interface {
	// Create stores a new session; the id must be unused
	Create(ctx context.Context, input *CreateInput) (*CreateOutput, error)

	// Get retrieves a copy of a session by id
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)

	// Update replaces an existing session
	Update(ctx context.Context, input *UpdateInput) (*UpdateOutput, error)

	// Restore stores a session under its own id, replacing any live one
	Restore(ctx context.Context, input *RestoreInput) (*RestoreOutput, error)

	// Lock serializes mutations of one session. The returned release
	// function is safe to call more than once.
	Lock(ctx context.Context, sessionID string) (release func(), err error)
}

// CreateInput contains parameters for creating a session
type CreateInput struct {
	Session *entities.Session
}

// CreateOutput contains the stored session
type CreateOutput struct {
	Session *entities.Session
}

// GetInput contains parameters for retrieving a session
type GetInput struct {
	ID string
}

// GetOutput contains the retrieved session
type GetOutput struct {
	Session *entities.Session
}

// UpdateInput contains the session to write back
type UpdateInput struct {
	Session *entities.Session
}

// UpdateOutput contains the stored session
type UpdateOutput struct {
	Session *entities.Session
}

// RestoreInput contains a session rehydrated from durable storage
type RestoreInput struct {
	Session *entities.Session
}

// RestoreOutput reports whether a live session was replaced
type RestoreOutput struct {
	Replaced bool
}
