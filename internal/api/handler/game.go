package handler

import (
	"net/http"

	"github.com/mmind/mastermind-go/internal/api/middleware"
	"github.com/mmind/mastermind-go/internal/api/request"
	"github.com/mmind/mastermind-go/internal/api/response"
	"github.com/mmind/mastermind-go/internal/services/game"
)

// GameHandler handles the caller's current game
type GameHandler struct {
	gameController *game.Controller
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameController *game.Controller) *GameHandler {
	return &GameHandler{
		gameController: gameController,
	}
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	g, err := h.gameController.NewGame(r.Context(), identity.PlayerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, "/api/v1/games/current", response.GameFromModel(g))
}

// GetCurrent handles GET /api/v1/games/current
func (h *GameHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	g, err := h.gameController.CurrentGame(r.Context(), identity.PlayerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// ListRounds handles GET /api/v1/games/current/rounds
func (h *GameHandler) ListRounds(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	gameID, err := h.gameController.CurrentGameID(r.Context(), identity.PlayerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	rounds, err := h.gameController.ListRounds(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoundsFromModel(rounds))
}

// SubmitGuess handles POST /api/v1/games/current/rounds
func (h *GameHandler) SubmitGuess(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	var req request.GuessRequest
	if !decode(w, r, &req) {
		return
	}

	gameID, err := h.gameController.CurrentGameID(r.Context(), identity.PlayerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	result, err := h.gameController.SubmitGuess(r.Context(), gameID, req.Guess)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, "/api/v1/games/current/rounds", response.GuessResponseFromResult(result))
}

// Resume handles POST /api/v1/games/current/resume
func (h *GameHandler) Resume(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	var req request.ResumeRequest
	if !decode(w, r, &req) {
		return
	}

	pausedAt, err := game.ParsePauseTimestamp(req.PausedAtString())
	if err != nil {
		WriteError(w, err)
		return
	}

	gameID, err := h.gameController.CurrentGameID(r.Context(), identity.PlayerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	g, err := h.gameController.Resume(r.Context(), gameID, pausedAt)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}
