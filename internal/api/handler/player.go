package handler

import (
	"net/http"

	"github.com/mmind/mastermind-go/internal/api/middleware"
	"github.com/mmind/mastermind-go/internal/api/request"
	"github.com/mmind/mastermind-go/internal/api/response"
	"github.com/mmind/mastermind-go/internal/services/player"
)

// PlayerHandler handles profile and difficulty endpoints
type PlayerHandler struct {
	playerService *player.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(playerService *player.Service) *PlayerHandler {
	return &PlayerHandler{
		playerService: playerService,
	}
}

// GetMe handles GET /api/v1/players/me
func (h *PlayerHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	profile, err := h.playerService.GetProfile(r.Context(), identity.PlayerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ProfileFromModel(profile, identity.Username))
}

// GetDifficulty handles GET /api/v1/difficulty
func (h *PlayerHandler) GetDifficulty(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	difficulty, err := h.playerService.GetDifficulty(r.Context(), identity.PlayerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Difficulty{Difficulty: difficulty})
}

// SetDifficulty handles PATCH /api/v1/difficulty
func (h *PlayerHandler) SetDifficulty(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	var req request.DifficultyRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Difficulty == nil {
		WriteError(w, NewInvalidRequestError("difficulty is required"))
		return
	}

	profile, err := h.playerService.SetDifficulty(r.Context(), identity.PlayerID, *req.Difficulty)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Difficulty{Difficulty: profile.Difficulty})
}
