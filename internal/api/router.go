package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/mmind/mastermind-go/internal/api/handler"
	"github.com/mmind/mastermind-go/internal/api/middleware"
	"github.com/mmind/mastermind-go/internal/api/response"
	sharedmw "github.com/mmind/mastermind-go/internal/middleware"
	"github.com/mmind/mastermind-go/internal/services/auth"
	"github.com/mmind/mastermind-go/internal/services/game"
	"github.com/mmind/mastermind-go/internal/services/leaderboard"
	"github.com/mmind/mastermind-go/internal/services/player"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger             zerolog.Logger
	AuthService        *auth.Service
	PlayerService      *player.Service
	GameController     *game.Controller
	LeaderboardService *leaderboard.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	accountHandler := handler.NewAccountHandler(cfg.AuthService)
	playerHandler := handler.NewPlayerHandler(cfg.PlayerService)
	gameHandler := handler.NewGameHandler(cfg.GameController)
	leaderboardHandler := handler.NewLeaderboardHandler(cfg.LeaderboardService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := sharedmw.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Account routes (no auth required)
	api.HandleFunc("/accounts/register", accountHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/accounts/login", accountHandler.Login).Methods(http.MethodPost)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Everything else requires a resolved identity
	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware)

	protected.HandleFunc("/players/me", playerHandler.GetMe).Methods(http.MethodGet)
	protected.HandleFunc("/difficulty", playerHandler.GetDifficulty).Methods(http.MethodGet)
	protected.HandleFunc("/difficulty", playerHandler.SetDifficulty).Methods(http.MethodPatch)

	protected.HandleFunc("/games", gameHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/games/current", gameHandler.GetCurrent).Methods(http.MethodGet)
	protected.HandleFunc("/games/current/rounds", gameHandler.ListRounds).Methods(http.MethodGet)
	protected.HandleFunc("/games/current/rounds", gameHandler.SubmitGuess).Methods(http.MethodPost)
	protected.HandleFunc("/games/current/resume", gameHandler.Resume).Methods(http.MethodPost)

	protected.HandleFunc("/leaderboard", leaderboardHandler.Totals).Methods(http.MethodGet)
	protected.HandleFunc("/leaderboard/history", leaderboardHandler.History).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
