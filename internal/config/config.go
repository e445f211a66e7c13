// Package config loads server settings from the environment, optionally
// seeded from a .env file.
package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/KirkDiggler/rpg-gm/internal/errors"
)

// Save backends
const (
	SaveBackendRedis  = "redis"
	SaveBackendSQLite = "sqlite"
)

// Dice sources
const (
	// DiceFast draws from math/rand
	DiceFast = "fast"
	// DiceCrypto draws from the toolkit's crypto-backed default roller
	DiceCrypto = "crypto"
)

// Log settings
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

const maxStepsLimit = 10

// Config holds every server setting
type Config struct {
	HTTPAddr   string `env:"RPG_GM_HTTP_ADDR" envDefault:":3000"`
	GRPCAddr   string `env:"RPG_GM_GRPC_ADDR" envDefault:":50051"`
	CORSOrigin string `env:"RPG_GM_CORS_ORIGIN" envDefault:"*"`

	OllamaURL    string        `env:"RPG_GM_OLLAMA_URL" envDefault:"http://localhost:11434/v1/"`
	OllamaAPIKey string        `env:"RPG_GM_OLLAMA_API_KEY"`
	DefaultModel string        `env:"RPG_GM_DEFAULT_MODEL" envDefault:"llama3"`
	ModelTimeout time.Duration `env:"RPG_GM_MODEL_TIMEOUT" envDefault:"120s"`

	SaveBackend string `env:"RPG_GM_SAVE_BACKEND" envDefault:"sqlite"`
	RedisAddr   string `env:"RPG_GM_REDIS_ADDR" envDefault:"localhost:6379"`
	SQLitePath  string `env:"RPG_GM_SQLITE_PATH" envDefault:"saves/rpg-gm.db"`

	RulesFile       string `env:"RPG_GM_RULES_FILE"`
	MaxStepsPerCall int    `env:"RPG_GM_MAX_STEPS_PER_CALL" envDefault:"1"`
	DiceSource      string `env:"RPG_GM_DICE" envDefault:"fast"`
	ProseFallback   bool   `env:"RPG_GM_PROSE_FALLBACK" envDefault:"true"`

	OTelEndpoint string `env:"RPG_GM_OTEL_ENDPOINT"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat    string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load reads the process environment. Values from envFile fill only keys
// the environment does not set; a missing envFile is not an error.
func Load(envFile string) (*Config, error) {
	environ := env.ToMap(os.Environ())

	if envFile != "" {
		fileVars, err := godotenv.Read(envFile)
		switch {
		case stderrors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, errors.InvalidArgumentf("failed to read %s: %v", envFile, err)
		default:
			for k, v := range fileVars {
				if _, set := environ[k]; !set {
					environ[k] = v
				}
			}
		}
	}

	return FromMap(environ)
}

// FromMap parses settings from an explicit environment
func FromMap(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, errors.InvalidArgumentf("parse env: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("RPG_GM_HTTP_ADDR", c.HTTPAddr, vb)
	errors.ValidateRequired("RPG_GM_OLLAMA_URL", c.OllamaURL, vb)
	errors.ValidateRequired("RPG_GM_DEFAULT_MODEL", c.DefaultModel, vb)
	errors.ValidateEnum("RPG_GM_SAVE_BACKEND", c.SaveBackend,
		[]string{SaveBackendRedis, SaveBackendSQLite}, vb)
	errors.ValidateEnum("RPG_GM_DICE", c.DiceSource, []string{DiceFast, DiceCrypto}, vb)
	errors.ValidateRange("RPG_GM_MAX_STEPS_PER_CALL", c.MaxStepsPerCall, 1, maxStepsLimit, vb)
	errors.ValidateEnum("LOG_FORMAT", c.LogFormat, []string{LogFormatText, LogFormatJSON}, vb)

	if c.ModelTimeout <= 0 {
		vb.InvalidField("RPG_GM_MODEL_TIMEOUT", "must be positive")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		vb.InvalidField("LOG_LEVEL", err.Error())
	}

	switch c.SaveBackend {
	case SaveBackendRedis:
		errors.ValidateRequired("RPG_GM_REDIS_ADDR", c.RedisAddr, vb)
	case SaveBackendSQLite:
		errors.ValidateRequired("RPG_GM_SQLITE_PATH", c.SQLitePath, vb)
	}

	return vb.Build()
}
