package handler

import (
	"net/http"
	"strconv"

	"github.com/mmind/mastermind-go/internal/api/middleware"
	"github.com/mmind/mastermind-go/internal/api/response"
	"github.com/mmind/mastermind-go/internal/services/leaderboard"
)

// LeaderboardHandler handles leaderboard endpoints
type LeaderboardHandler struct {
	leaderboardService *leaderboard.Service
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(leaderboardService *leaderboard.Service) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
	}
}

// Totals handles GET /api/v1/leaderboard. Defaults to the caller's current
// difficulty; ?difficulty=N overrides it.
func (h *LeaderboardHandler) Totals(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	difficulty, ok := difficultyParam(w, r, identity.Difficulty)
	if !ok {
		return
	}

	totals, err := h.leaderboardService.Totals(r.Context(), identity.PlayerID, difficulty)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LeaderboardTotalsFromModel(totals))
}

// History handles GET /api/v1/leaderboard/history
func (h *LeaderboardHandler) History(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	difficulty, ok := difficultyParam(w, r, 0)
	if !ok {
		return
	}

	entries, err := h.leaderboardService.History(r.Context(), identity.PlayerID, difficulty)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LeaderboardEntriesFromModel(entries))
}

func difficultyParam(w http.ResponseWriter, r *http.Request, fallback int) (int, bool) {
	raw := r.URL.Query().Get("difficulty")
	if raw == "" {
		return fallback, true
	}
	difficulty, err := strconv.Atoi(raw)
	if err != nil {
		WriteError(w, NewInvalidRequestError("difficulty must be a number"))
		return 0, false
	}
	return difficulty, true
}
