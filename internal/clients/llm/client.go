// Package llm is the client for the narrator model. It speaks the
// OpenAI-compatible chat API that Ollama serves under /v1.
package llm

//go:generate mockgen -destination=mock/mock_client.go -package=llmmock github.com/KirkDiggler/rpg-gm/internal/clients/llm Client

import (
	"context"

	"github.com/KirkDiggler/rpg-gm/internal/entities"
)

// Client defines the interface for model interactions
type Client interface {
	// Complete runs one chat completion over the given conversation
	Complete(ctx context.Context, input *CompleteInput) (*CompleteOutput, error)

	// ListModels returns the names of the models the backend can serve
	ListModels(ctx context.Context) ([]string, error)
}

// CompleteInput is one chat completion request
type CompleteInput struct {
	Model    string
	Messages []entities.Message
}

// CompleteOutput is the raw, unsanitized model text
type CompleteOutput struct {
	Text  string
	Model string
}
