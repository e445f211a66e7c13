package session

import (
	"context"
	"sync"

	"github.com/KirkDiggler/rpg-gm/internal/entities"
	"github.com/KirkDiggler/rpg-gm/internal/errors"
)

var _ Repository = (*InMemoryRepository)(nil)

const (
	errInputRequired   = "input is required"
	errSessionRequired = "session is required"
	errIDRequired      = "session ID is required"
)

// InMemoryRepository implements Repository using in-memory storage
type InMemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*entities.Session
	locks map[string]chan struct{}
}

// NewInMemory creates a new in-memory repository
func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{
		store: make(map[string]*entities.Session),
		locks: make(map[string]chan struct{}),
	}
}

// Create stores a new session
func (r *InMemoryRepository) Create(_ context.Context, input *CreateInput) (*CreateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputRequired)
	}
	sess := input.Session
	if err := validateSession(sess); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[sess.ID]; exists {
		return nil, errors.AlreadyExistsf("session %s already exists", sess.ID)
	}
	r.store[sess.ID] = sess.Clone()

	return &CreateOutput{Session: sess.Clone()}, nil
}

// Get retrieves a session by ID
func (r *InMemoryRepository) Get(_ context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputRequired)
	}
	if input.ID == "" {
		return nil, errors.InvalidArgument(errIDRequired)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	sess, exists := r.store[input.ID]
	if !exists {
		return nil, errors.NotFoundf("session %s not found", input.ID)
	}

	return &GetOutput{Session: sess.Clone()}, nil
}

// Update replaces an existing session
func (r *InMemoryRepository) Update(_ context.Context, input *UpdateInput) (*UpdateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputRequired)
	}
	sess := input.Session
	if err := validateSession(sess); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[sess.ID]; !exists {
		return nil, errors.NotFoundf("session %s not found", sess.ID)
	}
	r.store[sess.ID] = sess.Clone()

	return &UpdateOutput{Session: sess.Clone()}, nil
}

// Restore upserts a session under its own id
func (r *InMemoryRepository) Restore(_ context.Context, input *RestoreInput) (*RestoreOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputRequired)
	}
	sess := input.Session
	if err := validateSession(sess); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, replaced := r.store[sess.ID]
	r.store[sess.ID] = sess.Clone()

	return &RestoreOutput{Replaced: replaced}, nil
}

// Lock blocks until the session is free or ctx is done
func (r *InMemoryRepository) Lock(ctx context.Context, sessionID string) (func(), error) {
	if sessionID == "" {
		return nil, errors.InvalidArgument(errIDRequired)
	}

	r.mu.Lock()
	ch, ok := r.locks[sessionID]
	if !ok {
		ch = make(chan struct{}, 1)
		r.locks[sessionID] = ch
	}
	r.mu.Unlock()

	select {
	case ch <- struct{}{}:
	case <-ctx.Done():
		return nil, errors.Wrapf(ctx.Err(), "waiting for session %s", sessionID)
	}

	var once sync.Once
	return func() {
		once.Do(func() { <-ch })
	}, nil
}

func validateSession(sess *entities.Session) error {
	if sess == nil {
		return errors.InvalidArgument(errSessionRequired)
	}
	if sess.ID == "" {
		return errors.InvalidArgument(errIDRequired)
	}
	return nil
}
