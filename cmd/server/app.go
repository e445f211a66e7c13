package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	rpgdice "github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-gm/internal/clients/llm"
	"github.com/KirkDiggler/rpg-gm/internal/config"
	"github.com/KirkDiggler/rpg-gm/internal/engine/dice"
	"github.com/KirkDiggler/rpg-gm/internal/engine/fallback"
	"github.com/KirkDiggler/rpg-gm/internal/engine/prompt"
	"github.com/KirkDiggler/rpg-gm/internal/engine/sanitize"
	v1 "github.com/KirkDiggler/rpg-gm/internal/handlers/http/v1"
	"github.com/KirkDiggler/rpg-gm/internal/i18n"
	"github.com/KirkDiggler/rpg-gm/internal/orchestrators/game"
	"github.com/KirkDiggler/rpg-gm/internal/orchestrators/turn"
	"github.com/KirkDiggler/rpg-gm/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-gm/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-gm/internal/redis"
	"github.com/KirkDiggler/rpg-gm/internal/repositories/saves"
	"github.com/KirkDiggler/rpg-gm/internal/repositories/session"
)

const redisPingTimeout = 5 * time.Second

// app is the wired server
type app struct {
	handler http.Handler
	llm     llm.Client
	bus     events.EventBus
	closers []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			slog.Warn("Close failed", "error", err)
		}
	}
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}

	catalog, err := i18n.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	rules, err := prompt.LoadRulebook(cfg.RulesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load rulebook: %w", err)
	}

	prompts, err := prompt.NewBuilder(&prompt.Config{Rulebook: rules, Catalog: catalog})
	if err != nil {
		return nil, fmt.Errorf("failed to create prompt builder: %w", err)
	}

	llmClient, err := newLLMClient(cfg)
	if err != nil {
		return nil, err
	}
	a.llm = llmClient

	saveRepo, closeSaves, err := newSaveRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeSaves)

	sessions := session.NewInMemory()

	a.bus = events.NewBus()
	logEvents(a.bus)

	var extractor fallback.Extractor = fallback.NewRegexExtractor()
	if !cfg.ProseFallback {
		extractor = fallback.Disabled{}
	}

	turns, err := turn.NewOrchestrator(&turn.Config{
		SessionRepo:     sessions,
		LLM:             llmClient,
		Dice:            dice.NewEngine(newRoller(cfg)),
		Prompts:         prompts,
		Sanitizer:       sanitize.New(nil),
		Catalog:         catalog,
		IDGenerator:     idgen.NewUUID("roll"),
		Fallback:        extractor,
		EventBus:        a.bus,
		MaxStepsPerCall: cfg.MaxStepsPerCall,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create turn orchestrator: %w", err)
	}

	games, err := game.NewOrchestrator(&game.Config{
		SessionRepo:  sessions,
		SaveRepo:     saveRepo,
		Turns:        turns,
		LLM:          llmClient,
		Prompts:      prompts,
		IDGenerator:  idgen.NewULID(),
		Clock:        clock.New(),
		DefaultModel: cfg.DefaultModel,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create game orchestrator: %w", err)
	}

	handler, err := v1.NewHandler(&v1.HandlerConfig{
		GameService:   games,
		TurnService:   turns,
		AllowedOrigin: cfg.CORSOrigin,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create http handler: %w", err)
	}
	a.handler = handler.Routes()

	return a, nil
}

func newLLMClient(cfg *config.Config) (llm.Client, error) {
	client, err := llm.New(&llm.Config{
		BaseURL: cfg.OllamaURL,
		APIKey:  cfg.OllamaAPIKey,
		Timeout: cfg.ModelTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}
	return client, nil
}

func newRoller(cfg *config.Config) rpgdice.Roller {
	if cfg.DiceSource == config.DiceCrypto {
		return rpgdice.DefaultRoller
	}
	return dice.NewRandomRoller()
}

// newSaveRepository opens the configured snapshot store and returns its
// close function
func newSaveRepository(ctx context.Context, cfg *config.Config) (saves.Repository, func() error, error) {
	switch cfg.SaveBackend {
	case config.SaveBackendRedis:
		client, err := redis.NewClient(cfg.RedisAddr, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create redis client: %w", err)
		}
		if err := redis.Ping(ctx, client, redisPingTimeout); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis at %s is not reachable: %w", cfg.RedisAddr, err)
		}
		repo, err := saves.NewRedisRepository(&saves.RedisConfig{Client: client})
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		slog.Info("Saving to redis", "addr", cfg.RedisAddr)
		return repo, client.Close, nil

	default:
		repo, err := saves.NewSQLiteRepository(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open %s: %w", cfg.SQLitePath, err)
		}
		slog.Info("Saving to sqlite", "path", cfg.SQLitePath)
		return repo, repo.Close, nil
	}
}

// logEvents mirrors game events into the debug log
func logEvents(bus events.EventBus) {
	for _, eventType := range []string{
		turn.EventRollPerformed,
		turn.EventStatsChanged,
		turn.EventPositionChanged,
		turn.EventCompanionJoined,
		turn.EventCompanionLeft,
	} {
		bus.SubscribeFunc(eventType, 0, func(ctx context.Context, e events.Event) error {
			attrs := []any{"event", e.Type()}
			if e.Target() != nil {
				attrs = append(attrs, "session_id", e.Target().GetID())
			}
			slog.DebugContext(ctx, "Game event", attrs...)
			return nil
		})
	}
}
