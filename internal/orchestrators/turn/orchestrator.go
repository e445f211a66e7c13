// Package turn drives the narrator one step at a time: build the model
// context, call the model, sanitize its text, enforce the directive
// protocol, apply the directives to the session and decide whether the
// turn continues.
package turn

//go:generate mockgen -destination=mock/mock_service.go -package=turnmock github.com/KirkDiggler/rpg-gm/internal/orchestrators/turn Service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/KirkDiggler/rpg-gm/internal/clients/llm"
	"github.com/KirkDiggler/rpg-gm/internal/engine/dice"
	"github.com/KirkDiggler/rpg-gm/internal/engine/fallback"
	"github.com/KirkDiggler/rpg-gm/internal/engine/prompt"
	"github.com/KirkDiggler/rpg-gm/internal/engine/sanitize"
	"github.com/KirkDiggler/rpg-gm/internal/entities"
	"github.com/KirkDiggler/rpg-gm/internal/errors"
	"github.com/KirkDiggler/rpg-gm/internal/i18n"
	"github.com/KirkDiggler/rpg-gm/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-gm/internal/repositories/session"
)

const (
	// DefaultMaxStepsPerCall keeps one model call per request; the caller
	// drives continuation
	DefaultMaxStepsPerCall = 1

	// MaxActionLength bounds a single player message
	MaxActionLength = 4000

	tracerName = "github.com/KirkDiggler/rpg-gm/internal/orchestrators/turn"
)

// Service defines the interface for turn operations
type Service interface {
	// Act records the player's action and runs the narrator
	Act(ctx context.Context, input *ActInput) (*StepOutput, error)

	// Continue runs the narrator again without player input, after a
	// roll result or to open a new session
	Continue(ctx context.Context, input *ContinueInput) (*StepOutput, error)
}

// Config holds the dependencies for the turn orchestrator
type Config struct {
	SessionRepo session.Repository
	LLM         llm.Client
	Dice        *dice.Engine
	Prompts     *prompt.Builder
	Sanitizer   *sanitize.Sanitizer
	Catalog     *i18n.Catalog
	IDGenerator idgen.Generator

	// Fallback reads HP/MP from prose when no UPDATE_STATS is present
	// (optional, defaults to the regex extractor)
	Fallback fallback.Extractor
	// EventBus receives game events (optional)
	EventBus events.EventBus
	// MaxStepsPerCall bounds chained steps per request (optional, defaults to 1)
	MaxStepsPerCall int
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.SessionRepo == nil {
		vb.RequiredField("SessionRepo")
	}
	if c.LLM == nil {
		vb.RequiredField("LLM")
	}
	if c.Dice == nil {
		vb.RequiredField("Dice")
	}
	if c.Prompts == nil {
		vb.RequiredField("Prompts")
	}
	if c.Sanitizer == nil {
		vb.RequiredField("Sanitizer")
	}
	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.MaxStepsPerCall < 0 {
		vb.InvalidField("MaxStepsPerCall", "must not be negative")
	}

	return vb.Build()
}

type orchestrator struct {
	sessions  session.Repository
	llm       llm.Client
	dice      *dice.Engine
	prompts   *prompt.Builder
	sanitizer *sanitize.Sanitizer
	catalog   *i18n.Catalog
	idGen     idgen.Generator
	fallback  fallback.Extractor
	bus       events.EventBus
	maxSteps  int
	tracer    trace.Tracer
}

// NewOrchestrator creates a new turn orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	extractor := cfg.Fallback
	if extractor == nil {
		extractor = fallback.NewRegexExtractor()
	}
	maxSteps := cfg.MaxStepsPerCall
	if maxSteps == 0 {
		maxSteps = DefaultMaxStepsPerCall
	}

	return &orchestrator{
		sessions:  cfg.SessionRepo,
		llm:       cfg.LLM,
		dice:      cfg.Dice,
		prompts:   cfg.Prompts,
		sanitizer: cfg.Sanitizer,
		catalog:   cfg.Catalog,
		idGen:     cfg.IDGenerator,
		fallback:  extractor,
		bus:       cfg.EventBus,
		maxSteps:  maxSteps,
		tracer:    otel.Tracer(tracerName),
	}, nil
}

// Act records the player's action and runs the narrator
func (o *orchestrator) Act(ctx context.Context, input *ActInput) (*StepOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	action := strings.TrimSpace(input.Action)
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("session_id", input.SessionID, vb)
	errors.ValidateRequired("action", action, vb)
	errors.ValidateMaxLength("action", action, MaxActionLength, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	slog.Info("Player action", "session_id", input.SessionID, "length", len(action))

	player := entities.UserMessage(action)
	return o.run(ctx, input.SessionID, []entities.Message{player})
}

// Continue runs the narrator again without player input
func (o *orchestrator) Continue(ctx context.Context, input *ContinueInput) (*StepOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session_id is required")
	}

	return o.run(ctx, input.SessionID, nil)
}

// run executes up to maxSteps steps under the session lock. Each finished
// step is committed before the next one starts, so a failing model call
// never loses earlier progress and never leaves a partial step behind.
func (o *orchestrator) run(ctx context.Context, sessionID string, pending []entities.Message) (*StepOutput, error) {
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

	out := &StepOutput{
		Status:      StatusComplete,
		Rolls:       []*entities.RollResult{},
		Corrections: []Correction{},
	}

	for out.Steps < o.maxSteps {
		res, err := o.step(ctx, sess, pending)
		if err != nil {
			return nil, err
		}

		if _, err := o.sessions.Update(ctx, &session.UpdateInput{Session: sess}); err != nil {
			return nil, errors.Wrapf(err, "failed to commit step for session %s", sessionID)
		}
		o.publishAll(ctx, res.events)

		pending = nil
		out.Steps++
		out.Status = res.status
		out.Message = res.message
		out.Narrative = res.narrative
		out.Rolls = append(out.Rolls, res.rolls...)
		out.Corrections = append(out.Corrections, res.corrections...)

		if res.status != StatusContinue {
			break
		}
	}

	out.Session = sess.Clone()
	return out, nil
}
