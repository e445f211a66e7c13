// Package saves persists session snapshots so a game can be resumed after
// the process restarts. Snapshots are addressed by a handle derived from
// the character name and session id.
package saves

//go:generate mockgen -destination=mock/mock_repository.go -package=savesmock github.com/KirkDiggler/rpg-gm/internal/repositories/saves Repository

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/KirkDiggler/rpg-gm/internal/entities"
	"github.com/KirkDiggler/rpg-gm/internal/errors"
)

const (
	// DefaultListLimit bounds List when no limit is given
	DefaultListLimit = 100

	errInputNil        = "input cannot be nil"
	errSessionNil      = "session cannot be nil"
	errSessionIDEmpty  = "session ID cannot be empty"
	errNeverStamped    = "session has no save timestamp"
	errHandleEmpty     = "handle cannot be empty"
	errHandleMalformed = "handle may only contain lowercase letters, digits and underscores"
)

var (
	unsafeHandleChars = regexp.MustCompile(`[^a-z0-9]`)
	validHandle       = regexp.MustCompile(`^[a-z0-9_]+$`)
)

// Repository defines durable storage for session snapshots
type Repository interface {
	// Save writes a snapshot, replacing the previous one for the session
	Save(ctx context.Context, input *SaveInput) (*SaveOutput, error)

	// Load reads a snapshot by handle
	Load(ctx context.Context, input *LoadInput) (*LoadOutput, error)

	// List returns snapshot summaries, newest first
	List(ctx context.Context, input *ListInput) (*ListOutput, error)
}

// Summary describes a snapshot without its history
type Summary struct {
	Handle        string    `json:"filename"`
	SessionID     string    `json:"sessionId"`
	CharacterName string    `json:"characterName"`
	Race          string    `json:"race"`
	Class         string    `json:"class"`
	Model         string    `json:"model"`
	LastSaved     time.Time `json:"lastSaved"`
}

// SaveInput contains the session to persist. Session.LastSaved must be set.
type SaveInput struct {
	Session *entities.Session
}

// SaveOutput identifies the written snapshot
type SaveOutput struct {
	Summary Summary
}

// LoadInput contains parameters for reading a snapshot
type LoadInput struct {
	Handle string
}

// LoadOutput contains the rehydrated session
type LoadOutput struct {
	Session *entities.Session
}

// ListInput contains parameters for listing snapshots
type ListInput struct {
	// Limit caps the result (optional, defaults to DefaultListLimit)
	Limit int
}

// ListOutput contains snapshot summaries, newest first
type ListOutput struct {
	Saves []Summary
}

// HandleFor derives the snapshot handle for a session: the character name
// lowercased with anything but letters and digits replaced by '_', then
// the session id.
func HandleFor(sess *entities.Session) string {
	name := unsafeHandleChars.ReplaceAllString(strings.ToLower(sess.Character.Name), "_")
	id := unsafeHandleChars.ReplaceAllString(strings.ToLower(sess.ID), "_")
	return name + "_" + id
}

// SummaryOf describes a session as a snapshot
func SummaryOf(sess *entities.Session) Summary {
	s := Summary{
		Handle:        HandleFor(sess),
		SessionID:     sess.ID,
		CharacterName: sess.Character.Name,
		Race:          sess.Character.Race,
		Class:         sess.Character.Class,
		Model:         sess.Model,
	}
	if sess.LastSaved != nil {
		s.LastSaved = *sess.LastSaved
	}
	return s
}

func validateSave(input *SaveInput) error {
	if input == nil {
		return errors.InvalidArgument(errInputNil)
	}
	if input.Session == nil {
		return errors.InvalidArgument(errSessionNil)
	}
	if input.Session.ID == "" {
		return errors.InvalidArgument(errSessionIDEmpty)
	}
	if input.Session.LastSaved == nil {
		return errors.InvalidArgument(errNeverStamped)
	}
	return nil
}

func validateHandle(input *LoadInput) error {
	if input == nil {
		return errors.InvalidArgument(errInputNil)
	}
	if input.Handle == "" {
		return errors.InvalidArgument(errHandleEmpty)
	}
	if !validHandle.MatchString(input.Handle) {
		return errors.InvalidArgument(errHandleMalformed)
	}
	return nil
}

func listLimit(input *ListInput) int {
	if input == nil || input.Limit <= 0 {
		return DefaultListLimit
	}
	return input.Limit
}
