package game

import (
	"github.com/KirkDiggler/rpg-gm/internal/entities"
	"github.com/KirkDiggler/rpg-gm/internal/orchestrators/turn"
	"github.com/KirkDiggler/rpg-gm/internal/repositories/saves"
)

// StartGameInput contains the new character and session settings
type StartGameInput struct {
	Character entities.Character
	// Model is optional; the first listed model, then the configured
	// default, is used when empty
	Model string
	// Language is optional and defaults to English
	Language string
}

// StartGameOutput contains the new session after its opening scene
type StartGameOutput struct {
	Session *entities.Session
	Opening *turn.StepOutput
}

// GetSessionInput identifies a session
type GetSessionInput struct {
	SessionID string
}

// GetSessionOutput contains a snapshot of the session
type GetSessionOutput struct {
	Session *entities.Session
}

// SwitchModelInput names the model a session should use from now on
type SwitchModelInput struct {
	SessionID string
	Model     string
}

// SwitchModelOutput contains the updated session
type SwitchModelOutput struct {
	Session *entities.Session
}

// ListModelsInput is empty; the backend decides what is installed
type ListModelsInput struct{}

// ListModelsOutput lists installed models. Models is empty, never nil,
// when the backend could not be reached.
type ListModelsOutput struct {
	Models  []string
	Default string
}

// SaveGameInput identifies the session to save
type SaveGameInput struct {
	SessionID string
}

// SaveGameOutput describes the written snapshot
type SaveGameOutput struct {
	Summary saves.Summary
}

// ListSavesInput contains parameters for listing snapshots
type ListSavesInput struct {
	Limit int
}

// ListSavesOutput contains snapshot summaries, newest first
type ListSavesOutput struct {
	Saves []saves.Summary
}

// LoadGameInput names the snapshot to restore
type LoadGameInput struct {
	Handle string
}

// LoadGameOutput contains the restored session
type LoadGameOutput struct {
	Session *entities.Session
	// Replaced reports that a live session with the same id was overwritten
	Replaced bool
}
