// Package game owns the session lifecycle around the turn loop: starting
// a game with its opening scene, model selection, and save/load.
package game

//go:generate mockgen -destination=mock/mock_service.go -package=gamemock github.com/KirkDiggler/rpg-gm/internal/orchestrators/game Service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/KirkDiggler/rpg-gm/internal/clients/llm"
	"github.com/KirkDiggler/rpg-gm/internal/engine/prompt"
	"github.com/KirkDiggler/rpg-gm/internal/entities"
	"github.com/KirkDiggler/rpg-gm/internal/errors"
	"github.com/KirkDiggler/rpg-gm/internal/orchestrators/turn"
	"github.com/KirkDiggler/rpg-gm/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-gm/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-gm/internal/repositories/saves"
	"github.com/KirkDiggler/rpg-gm/internal/repositories/session"
)

const (
	// DefaultModel is used when the backend lists nothing
	DefaultModel = "llama3"

	maxNameLength  = 64
	maxFieldLength = 64
	minAbility     = 1
	maxAbility     = 30
)

// Service defines the interface for game lifecycle operations
type Service interface {
	// StartGame creates a session and narrates its opening scene
	StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error)

	// GetSession returns the full state of a session
	GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error)

	// SwitchModel changes the model used for later steps
	SwitchModel(ctx context.Context, input *SwitchModelInput) (*SwitchModelOutput, error)

	// ListModels returns the models installed on the backend
	ListModels(ctx context.Context, input *ListModelsInput) (*ListModelsOutput, error)

	// SaveGame stamps and persists a session snapshot
	SaveGame(ctx context.Context, input *SaveGameInput) (*SaveGameOutput, error)

	// ListSaves returns snapshot summaries, newest first
	ListSaves(ctx context.Context, input *ListSavesInput) (*ListSavesOutput, error)

	// LoadGame restores a snapshot, replacing any live session with its id
	LoadGame(ctx context.Context, input *LoadGameInput) (*LoadGameOutput, error)
}

// Config holds the dependencies for the game orchestrator
type Config struct {
	SessionRepo session.Repository
	SaveRepo    saves.Repository
	Turns       turn.Service
	LLM         llm.Client
	Prompts     *prompt.Builder
	IDGenerator idgen.Generator
	Clock       clock.Clock

	// DefaultModel is used when no model is requested and none is listed
	// (optional, defaults to DefaultModel)
	DefaultModel string
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.SessionRepo == nil {
		vb.RequiredField("SessionRepo")
	}
	if c.SaveRepo == nil {
		vb.RequiredField("SaveRepo")
	}
	if c.Turns == nil {
		vb.RequiredField("Turns")
	}
	if c.LLM == nil {
		vb.RequiredField("LLM")
	}
	if c.Prompts == nil {
		vb.RequiredField("Prompts")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}

	return vb.Build()
}

type orchestrator struct {
	sessions     session.Repository
	saves        saves.Repository
	turns        turn.Service
	llm          llm.Client
	prompts      *prompt.Builder
	idGen        idgen.Generator
	clock        clock.Clock
	defaultModel string
}

// NewOrchestrator creates a new game orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	defaultModel := cfg.DefaultModel
	if defaultModel == "" {
		defaultModel = DefaultModel
	}

	return &orchestrator{
		sessions:     cfg.SessionRepo,
		saves:        cfg.SaveRepo,
		turns:        cfg.Turns,
		llm:          cfg.LLM,
		prompts:      cfg.Prompts,
		idGen:        cfg.IDGenerator,
		clock:        cfg.Clock,
		defaultModel: defaultModel,
	}, nil
}

// StartGame creates a session, stores the localized system prompt as its
// first message and runs one step for the opening scene. If that step
// fails the session still exists; the error carries its id so the caller
// can retry with Continue.
func (o *orchestrator) StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateCharacter(&input.Character); err != nil {
		return nil, err
	}

	model := strings.TrimSpace(input.Model)
	if model == "" {
		model = o.pickModel(ctx)
	}

	sess := entities.NewSession(o.idGen.Generate(), input.Character, model, input.Language, o.clock.Now())
	sess.Append(entities.SystemMessage(o.prompts.SystemPrompt(sess.Character, sess.Language)))

	if _, err := o.sessions.Create(ctx, &session.CreateInput{Session: sess}); err != nil {
		return nil, errors.Wrap(err, "failed to create session")
	}

	slog.Info("Game started",
		"session_id", sess.ID,
		"character", sess.Character.Name,
		"model", sess.Model,
		"language", sess.Language)

	opening, err := o.turns.Continue(ctx, &turn.ContinueInput{SessionID: sess.ID})
	if err != nil {
		slog.Error("Opening scene failed", "session_id", sess.ID, "error", err)
		return nil, errors.Wrap(err, errors.GetMessage(err)).WithMeta("session_id", sess.ID)
	}

	return &StartGameOutput{
		Session: opening.Session,
		Opening: opening,
	}, nil
}

// pickModel returns the first installed model, falling back to the
// configured default when the backend is unreachable or empty
func (o *orchestrator) pickModel(ctx context.Context) string {
	models, err := o.llm.ListModels(ctx)
	if err != nil {
		slog.Warn("Could not list models, using default", "default", o.defaultModel, "error", err)
		return o.defaultModel
	}
	if len(models) == 0 {
		return o.defaultModel
	}
	return models[0]
}

// GetSession returns the full state of a session
func (o *orchestrator) GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session_id is required")
	}

	out, err := o.sessions.Get(ctx, &session.GetInput{ID: input.SessionID})
	if err != nil {
		return nil, err
	}

	return &GetSessionOutput{Session: out.Session}, nil
}

// SwitchModel changes the model used for later steps
func (o *orchestrator) SwitchModel(ctx context.Context, input *SwitchModelInput) (*SwitchModelOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	model := strings.TrimSpace(input.Model)
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("session_id", input.SessionID, vb)
	errors.ValidateRequired("model", model, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	sess, err := o.mutate(ctx, input.SessionID, func(sess *entities.Session) {
		sess.Model = model
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Model switched", "session_id", sess.ID, "model", model)
	return &SwitchModelOutput{Session: sess}, nil
}

// ListModels returns the models installed on the backend. A backend that
// cannot be reached yields an empty list rather than an error.
func (o *orchestrator) ListModels(ctx context.Context, _ *ListModelsInput) (*ListModelsOutput, error) {
	models, err := o.llm.ListModels(ctx)
	if err != nil {
		if errors.IsCanceled(err) {
			return nil, err
		}
		slog.Warn("Could not list models", "error", err)
		models = []string{}
	}

	return &ListModelsOutput{
		Models:  models,
		Default: o.defaultModel,
	}, nil
}

// SaveGame stamps the session with the current time and persists it
func (o *orchestrator) SaveGame(ctx context.Context, input *SaveGameInput) (*SaveGameOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session_id is required")
	}

	var summary saves.Summary
	_, err := o.mutateE(ctx, input.SessionID, func(sess *entities.Session) error {
		now := o.clock.Now()
		sess.LastSaved = &now

		out, err := o.saves.Save(ctx, &saves.SaveInput{Session: sess})
		if err != nil {
			return errors.Wrapf(err, "failed to save session %s", sess.ID)
		}
		summary = out.Summary
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Game saved", "session_id", input.SessionID, "handle", summary.Handle)
	return &SaveGameOutput{Summary: summary}, nil
}

// ListSaves returns snapshot summaries, newest first
func (o *orchestrator) ListSaves(ctx context.Context, input *ListSavesInput) (*ListSavesOutput, error) {
	limit := 0
	if input != nil {
		limit = input.Limit
	}
	if limit < 0 {
		return nil, errors.InvalidArgument("limit must not be negative")
	}

	out, err := o.saves.List(ctx, &saves.ListInput{Limit: limit})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list saves")
	}

	return &ListSavesOutput{Saves: out.Saves}, nil
}

// LoadGame restores a snapshot. The restored session is trusted as-is and
// replaces any live session with the same id.
func (o *orchestrator) LoadGame(ctx context.Context, input *LoadGameInput) (*LoadGameOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Handle == "" {
		return nil, errors.InvalidArgument("handle is required")
	}

	loaded, err := o.saves.Load(ctx, &saves.LoadInput{Handle: input.Handle})
	if err != nil {
		return nil, err
	}
	sess := loaded.Session

	release, err := o.sessions.Lock(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	restored, err := o.sessions.Restore(ctx, &session.RestoreInput{Session: sess})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to restore session %s", sess.ID)
	}

	slog.Info("Game loaded",
		"session_id", sess.ID,
		"handle", input.Handle,
		"replaced", restored.Replaced)

	return &LoadGameOutput{
		Session:  sess,
		Replaced: restored.Replaced,
	}, nil
}

func (o *orchestrator) mutate(ctx context.Context, sessionID string, fn func(*entities.Session)) (*entities.Session, error) {
	return o.mutateE(ctx, sessionID, func(sess *entities.Session) error {
		fn(sess)
		return nil
	})
}

// mutateE applies fn to the session under its lock and commits the result
// only when fn succeeds
func (o *orchestrator) mutateE(ctx context.Context, sessionID string, fn func(*entities.Session) error) (*entities.Session, error) {
	release, err := o.sessions.Lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	got, err := o.sessions.Get(ctx, &session.GetInput{ID: sessionID})
	if err != nil {
		return nil, err
	}
	sess := got.Session

	if err := fn(sess); err != nil {
		return nil, err
	}

	if _, err := o.sessions.Update(ctx, &session.UpdateInput{Session: sess}); err != nil {
		return nil, errors.Wrapf(err, "failed to update session %s", sessionID)
	}
	return sess, nil
}

func validateCharacter(c *entities.Character) error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("character.name", c.Name, vb)
	errors.ValidateMaxLength("character.name", c.Name, maxNameLength, vb)
	errors.ValidateMaxLength("character.race", c.Race, maxFieldLength, vb)
	errors.ValidateMaxLength("character.class", c.Class, maxFieldLength, vb)

	abilities := []struct {
		field string
		score int
	}{
		{"character.stats.str", c.Stats.Strength},
		{"character.stats.dex", c.Stats.Dexterity},
		{"character.stats.con", c.Stats.Constitution},
		{"character.stats.int", c.Stats.Intelligence},
		{"character.stats.wis", c.Stats.Wisdom},
		{"character.stats.cha", c.Stats.Charisma},
	}
	for _, a := range abilities {
		// zero means unset
		if a.score != 0 {
			errors.ValidateRange(a.field, a.score, minAbility, maxAbility, vb)
		}
	}

	return vb.Build()
}
