// Package v1 serves the browser-facing JSON API
package v1

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/KirkDiggler/rpg-gm/internal/entities"
	"github.com/KirkDiggler/rpg-gm/internal/errors"
	"github.com/KirkDiggler/rpg-gm/internal/orchestrators/game"
	"github.com/KirkDiggler/rpg-gm/internal/orchestrators/turn"
	"github.com/KirkDiggler/rpg-gm/internal/repositories/saves"
)

const maxBodyBytes = 1 << 20

// HandlerConfig holds dependencies for the HTTP handler
type HandlerConfig struct {
	GameService game.Service
	TurnService turn.Service
	// AllowedOrigin is sent as Access-Control-Allow-Origin (optional, defaults to "*")
	AllowedOrigin string
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.GameService == nil {
		vb.RequiredField("GameService")
	}
	if c.TurnService == nil {
		vb.RequiredField("TurnService")
	}

	return vb.Build()
}

// Handler implements the /api routes
type Handler struct {
	game          game.Service
	turns         turn.Service
	allowedOrigin string
}

// NewHandler creates a new HTTP handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	origin := cfg.AllowedOrigin
	if origin == "" {
		origin = "*"
	}

	return &Handler{
		game:          cfg.GameService,
		turns:         cfg.TurnService,
		allowedOrigin: origin,
	}, nil
}

// Routes returns the API mux wrapped in its middleware
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.HandleFunc("GET /api/models", h.handleListModels)
	mux.HandleFunc("POST /api/start", h.handleStart)
	mux.HandleFunc("POST /api/action", h.handleAction)
	mux.HandleFunc("POST /api/continue", h.handleContinue)
	mux.HandleFunc("GET /api/state/{id}", h.handleState)
	mux.HandleFunc("POST /api/session/model", h.handleSwitchModel)
	mux.HandleFunc("POST /api/save", h.handleSave)
	mux.HandleFunc("GET /api/saves", h.handleListSaves)
	mux.HandleFunc("POST /api/load", h.handleLoad)

	return chain(mux, withRecovery, withLogging, withCORS(h.allowedOrigin))
}

type startRequest struct {
	Character entities.Character `json:"character"`
	Model     string             `json:"model"`
	Language  string             `json:"language"`
}

type sessionRequest struct {
	SessionID string `json:"sessionId"`
}

type actionRequest struct {
	SessionID string `json:"sessionId"`
	Action    string `json:"action"`
}

type switchModelRequest struct {
	SessionID string `json:"sessionId"`
	Model     string `json:"model"`
}

type loadRequest struct {
	Filename string `json:"filename"`
}

type modelsResponse struct {
	Models  []string `json:"models"`
	Default string   `json:"default"`
}

// turnResponse reports one turn call. Message keeps a trailing roll
// directive so the client can show what was rolled.
type turnResponse struct {
	SessionID   string                 `json:"sessionId"`
	Status      turn.Status            `json:"status"`
	Message     string                 `json:"message"`
	Narrative   string                 `json:"narrative"`
	Rolls       []*entities.RollResult `json:"rolls"`
	Corrections []turn.Correction      `json:"corrections,omitempty"`
	Session     *entities.Session      `json:"session"`
}

type switchModelResponse struct {
	Message string `json:"message"`
	Model   string `json:"model"`
}

type saveResponse struct {
	Message   string    `json:"message"`
	Filename  string    `json:"filename"`
	Timestamp time.Time `json:"timestamp"`
}

type savesResponse struct {
	Saves []saves.Summary `json:"saves"`
}

type loadResponse struct {
	SessionID string            `json:"sessionId"`
	Message   string            `json:"message"`
	Replaced  bool              `json:"replaced"`
	Session   *entities.Session `json:"session"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleListModels(w http.ResponseWriter, r *http.Request) {
	out, err := h.game.ListModels(r.Context(), &game.ListModelsInput{})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, modelsResponse{Models: out.Models, Default: out.Default})
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if !decode(w, r, &req) {
		return
	}

	out, err := h.game.StartGame(r.Context(), &game.StartGameInput{
		Character: req.Character,
		Model:     req.Model,
		Language:  req.Language,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTurnResponse(out.Opening))
}

func (h *Handler) handleAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if !decode(w, r, &req) {
		return
	}

	out, err := h.turns.Act(r.Context(), &turn.ActInput{
		SessionID: req.SessionID,
		Action:    req.Action,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTurnResponse(out))
}

func (h *Handler) handleContinue(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if !decode(w, r, &req) {
		return
	}

	out, err := h.turns.Continue(r.Context(), &turn.ContinueInput{SessionID: req.SessionID})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTurnResponse(out))
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	out, err := h.game.GetSession(r.Context(), &game.GetSessionInput{SessionID: r.PathValue("id")})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, out.Session)
}

func (h *Handler) handleSwitchModel(w http.ResponseWriter, r *http.Request) {
	var req switchModelRequest
	if !decode(w, r, &req) {
		return
	}

	out, err := h.game.SwitchModel(r.Context(), &game.SwitchModelInput{
		SessionID: req.SessionID,
		Model:     req.Model,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, switchModelResponse{Message: "Model updated", Model: out.Session.Model})
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if !decode(w, r, &req) {
		return
	}

	out, err := h.game.SaveGame(r.Context(), &game.SaveGameInput{SessionID: req.SessionID})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, saveResponse{
		Message:   "Game saved successfully",
		Filename:  out.Summary.Handle,
		Timestamp: out.Summary.LastSaved,
	})
}

func (h *Handler) handleListSaves(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, errors.InvalidArgumentf("limit must be a number, got %q", raw))
			return
		}
		limit = n
	}

	out, err := h.game.ListSaves(r.Context(), &game.ListSavesInput{Limit: limit})
	if err != nil {
		writeError(w, err)
		return
	}

	list := out.Saves
	if list == nil {
		list = []saves.Summary{}
	}
	writeJSON(w, http.StatusOK, savesResponse{Saves: list})
}

func (h *Handler) handleLoad(w http.ResponseWriter, r *http.Request) {
	var req loadRequest
	if !decode(w, r, &req) {
		return
	}

	out, err := h.game.LoadGame(r.Context(), &game.LoadGameInput{Handle: req.Filename})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loadResponse{
		SessionID: out.Session.ID,
		Message:   "Game loaded",
		Replaced:  out.Replaced,
		Session:   out.Session,
	})
}

func toTurnResponse(out *turn.StepOutput) turnResponse {
	resp := turnResponse{
		Status:      out.Status,
		Message:     out.Message,
		Narrative:   out.Narrative,
		Rolls:       out.Rolls,
		Corrections: out.Corrections,
		Session:     out.Session,
	}
	if resp.Rolls == nil {
		resp.Rolls = []*entities.RollResult{}
	}
	if out.Session != nil {
		resp.SessionID = out.Session.ID
	}
	return resp
}

// decode reads a JSON body, answering 400 itself on failure
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid JSON body"))
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error) {
	status, body := errors.ToHTTP(err)
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
