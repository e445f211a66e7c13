package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-gm/internal/errors"
)

type ClientTestSuite struct {
	suite.Suite
	server   *httptest.Server
	mux      *http.ServeMux
	previous string
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) SetupTest() {
	s.mux = http.NewServeMux()
	s.server = httptest.NewServer(s.mux)
	s.previous = serverURL
	serverURL = s.server.URL + "/"
	asJSON = false
}

func (s *ClientTestSuite) TearDownTest() {
	s.server.Close()
	serverURL = s.previous
}

func (s *ClientTestSuite) TestDoDecodesSuccess() {
	s.mux.HandleFunc("POST /api/continue", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		s.Require().NoError(json.NewDecoder(r.Body).Decode(&body))
		s.Equal("sess-1", body["sessionId"])
		s.Equal("application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{"sessionId":"sess-1","status":"complete","narrative":"The door creaks."}`))
	})

	var resp turnResponse
	_, err := do(context.Background(), "POST", "/api/continue", map[string]string{"sessionId": "sess-1"}, &resp)
	s.Require().NoError(err)
	s.Equal("The door creaks.", resp.Narrative)
	s.Equal("complete", resp.Status)
}

func (s *ClientTestSuite) TestDoSurfacesErrorEnvelope() {
	s.mux.HandleFunc("POST /api/start", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(errors.HTTPBody{
			Error:     "The model backend is unavailable",
			Code:      errors.CodeUnavailable,
			Retryable: true,
			SessionID: "sess-9",
		})
	})

	_, err := do(context.Background(), "POST", "/api/start", map[string]string{}, nil)
	s.Require().Error(err)

	var apiErr *apiError
	s.Require().ErrorAs(err, &apiErr)
	s.Equal(http.StatusServiceUnavailable, apiErr.Status)
	s.Equal(errors.CodeUnavailable, apiErr.Body.Code)
	s.Contains(err.Error(), "client continue sess-9")
}

func (s *ClientTestSuite) TestDoPlainTextError() {
	s.mux.HandleFunc("GET /api/state/{id}", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gateway exploded", http.StatusBadGateway)
	})

	_, err := do(context.Background(), "GET", "/api/state/x", nil, nil)
	s.Require().Error(err)
	s.Contains(err.Error(), "502: gateway exploded")
}

func (s *ClientTestSuite) TestActJoinsWords() {
	s.mux.HandleFunc("POST /api/action", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		s.Require().NoError(json.NewDecoder(r.Body).Decode(&body))
		s.Equal("open the door", body["action"])
		_, _ = w.Write([]byte(`{"sessionId":"sess-1","status":"continue","narrative":"Roll to force it.",` +
			`"rolls":[{"label":"Strength","expression":"1d20+2","total":14}]}`))
	})

	out := s.run(actCmd, "sess-1", "open", "the", "door")
	s.Contains(out, "Roll to force it.")
	s.Contains(out, "Strength 1d20+2 = 14")
	s.Contains(out, "client continue sess-1")
}

func (s *ClientTestSuite) TestSavesEmpty() {
	s.mux.HandleFunc("GET /api/saves", func(w http.ResponseWriter, r *http.Request) {
		s.Empty(r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"saves":[]}`))
	})

	out := s.run(savesCmd)
	s.Equal("no saved games\n", out)
}

func (s *ClientTestSuite) run(cmd *cobra.Command, args ...string) string {
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetContext(context.Background())
	s.Require().NoError(cmd.RunE(cmd, args))
	return buf.String()
}
