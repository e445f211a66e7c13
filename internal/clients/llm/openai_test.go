package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-gm/internal/clients/llm"
	"github.com/KirkDiggler/rpg-gm/internal/entities"
	"github.com/KirkDiggler/rpg-gm/internal/errors"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	Stop []string `json:"stop"`
}

type OpenAIClientTestSuite struct {
	suite.Suite
	server   *httptest.Server
	handler  http.HandlerFunc
	client   llm.Client
	captured *chatRequest
}

func TestOpenAIClientTestSuite(t *testing.T) {
	suite.Run(t, new(OpenAIClientTestSuite))
}

func (s *OpenAIClientTestSuite) SetupTest() {
	s.captured = nil
	s.handler = nil
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Require().NotNil(s.handler, "unexpected request %s %s", r.Method, r.URL.Path)
		s.handler(w, r)
	}))

	client, err := llm.New(&llm.Config{
		BaseURL: s.server.URL + "/v1",
		Timeout: 5 * time.Second,
	})
	s.Require().NoError(err)
	s.client = client
}

func (s *OpenAIClientTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *OpenAIClientTestSuite) respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/chat/completions" {
			var req chatRequest
			s.Require().NoError(json.NewDecoder(r.Body).Decode(&req))
			s.captured = &req
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func (s *OpenAIClientTestSuite) TestComplete() {
	s.handler = s.respond(http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"created": 1,
		"model": "llama3:latest",
		"choices": [{
			"index": 0,
			"finish_reason": "stop",
			"message": {"role": "assistant", "content": "The tavern is warm. [[coordinates[x: 0, y: 0]]]"}
		}]
	}`)

	out, err := s.client.Complete(context.Background(), &llm.CompleteInput{
		Model: "llama3",
		Messages: []entities.Message{
			entities.SystemMessage("You are the DM."),
			entities.UserMessage("I enter the tavern."),
			entities.AssistantMessage("Welcome."),
		},
	})
	s.Require().NoError(err)
	s.Equal("The tavern is warm. [[coordinates[x: 0, y: 0]]]", out.Text)
	s.Equal("llama3:latest", out.Model)

	s.Require().NotNil(s.captured)
	s.Equal("llama3", s.captured.Model)
	s.Require().Len(s.captured.Messages, 3)
	s.Equal("system", s.captured.Messages[0].Role)
	s.Equal("user", s.captured.Messages[1].Role)
	s.Equal("assistant", s.captured.Messages[2].Role)
	s.Equal("I enter the tavern.", s.captured.Messages[1].Content)
	s.Contains(s.captured.Stop, "<|eot_id|>")
	s.LessOrEqual(len(s.captured.Stop), 4)
}

func (s *OpenAIClientTestSuite) TestCompleteUpstreamError() {
	s.handler = s.respond(http.StatusNotFound, `{"error": {"message": "model \"nope\" not found"}}`)

	out, err := s.client.Complete(context.Background(), &llm.CompleteInput{
		Model:    "nope",
		Messages: []entities.Message{entities.UserMessage("hi")},
	})
	s.Nil(out)
	s.Require().Error(err)
	s.True(errors.IsUnavailable(err))
	s.Equal("nope", errors.GetMeta(err)["model"])
	s.Equal(http.StatusNotFound, errors.GetMeta(err)["status"])
}

func (s *OpenAIClientTestSuite) TestCompleteNoChoices() {
	s.handler = s.respond(http.StatusOK, `{"id": "x", "object": "chat.completion", "model": "llama3", "choices": []}`)

	_, err := s.client.Complete(context.Background(), &llm.CompleteInput{
		Model:    "llama3",
		Messages: []entities.Message{entities.UserMessage("hi")},
	})
	s.True(errors.IsUnavailable(err))
}

func (s *OpenAIClientTestSuite) TestCompleteValidation() {
	testCases := []struct {
		name  string
		input *llm.CompleteInput
	}{
		{name: "nil input", input: nil},
		{name: "missing model", input: &llm.CompleteInput{Messages: []entities.Message{entities.UserMessage("hi")}}},
		{name: "no messages", input: &llm.CompleteInput{Model: "llama3"}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.client.Complete(context.Background(), tc.input)
			s.True(errors.IsInvalidArgument(err))
		})
	}
}

func (s *OpenAIClientTestSuite) TestListModels() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		s.Equal("/v1/models", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"object": "list",
			"data": [
				{"id": "llama3:latest", "object": "model", "created": 1, "owned_by": "library"},
				{"id": "mistral:7b", "object": "model", "created": 2, "owned_by": "library"}
			]
		}`))
	}

	models, err := s.client.ListModels(context.Background())
	s.Require().NoError(err)
	s.Equal([]string{"llama3:latest", "mistral:7b"}, models)
}

func (s *OpenAIClientTestSuite) TestListModelsUnreachable() {
	s.server.Close()

	_, err := s.client.ListModels(context.Background())
	s.Require().Error(err)
	s.True(errors.IsUnavailable(err))
}

func TestConfigValidate(t *testing.T) {
	cfg := &llm.Config{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != llm.DefaultBaseURL {
		t.Fatalf("expected default base url, got %q", cfg.BaseURL)
	}

	tooMany := &llm.Config{StopSequences: []string{"a", "b", "c", "d", "e"}}
	if err := tooMany.Validate(); !errors.IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}
