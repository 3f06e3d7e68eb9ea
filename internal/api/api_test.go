package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mmind/mastermind-go/internal/api"
	"github.com/mmind/mastermind-go/internal/api/apierr"
	"github.com/mmind/mastermind-go/internal/api/middleware"
	"github.com/mmind/mastermind-go/internal/api/response"
	"github.com/mmind/mastermind-go/internal/factory"
	"github.com/mmind/mastermind-go/internal/testutil"
)

type APISuite struct {
	suite.Suite
	app     *factory.TestApp
	handler http.Handler
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	logger := testutil.NopLogger()
	s.app = factory.NewTestAppWithLogger(logger)
	s.handler = api.NewRouter(api.RouterConfig{
		Logger:             logger,
		AuthService:        s.app.AuthService,
		PlayerService:      s.app.PlayerService,
		GameController:     s.app.GameController,
		LeaderboardService: s.app.LeaderboardService,
	})
}

func (s *APISuite) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	reqBody := bytes.NewBuffer(nil)
	if body != nil {
		b, err := json.Marshal(body)
		s.Require().NoError(err)
		reqBody = bytes.NewBuffer(b)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func (s *APISuite) decode(rr *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), v), rr.Body.String())
}

func (s *APISuite) errorCode(rr *httptest.ResponseRecorder) string {
	var resp apierr.ErrorResponse
	s.decode(rr, &resp)
	return resp.Error.Code
}

func (s *APISuite) register(username string) string {
	rr := s.request(http.MethodPost, "/api/v1/accounts/register",
		map[string]string{"username": username, "password": "password123"}, "")
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())

	var resp response.AuthResponse
	s.decode(rr, &resp)
	return resp.AccessToken
}

func (s *APISuite) startGame(token, gameID, secret string) response.Game {
	s.app.MockRandom.QueueString(gameID)
	s.app.MockGenerator.QueueSecret(secret)

	rr := s.request(http.MethodPost, "/api/v1/games", nil, token)
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())

	var game response.Game
	s.decode(rr, &game)
	return game
}

func (s *APISuite) TestHealthCheck() {
	rr := s.request(http.MethodGet, "/api/v1/health", nil, "")
	s.Equal(http.StatusOK, rr.Code)
	s.Contains(rr.Body.String(), "ok")
}

func (s *APISuite) TestRegisterAndLogin() {
	rr := s.request(http.MethodPost, "/api/v1/accounts/register",
		map[string]string{"username": "alice", "password": "password123"}, "")
	s.Require().Equal(http.StatusCreated, rr.Code)

	s.Equal("/api/v1/players/me", rr.Header().Get("Location"))

	var registered response.AuthResponse
	s.decode(rr, &registered)
	s.Equal("alice", registered.Username)
	s.NotEmpty(registered.AccessToken)
	s.NotEmpty(registered.PlayerID)

	cookies := rr.Result().Cookies()
	s.Require().NotEmpty(cookies)
	s.Equal(middleware.TokenCookie, cookies[0].Name)

	rr = s.request(http.MethodPost, "/api/v1/accounts/login",
		map[string]string{"username": "alice", "password": "password123"}, "")
	s.Require().Equal(http.StatusOK, rr.Code)

	var loggedIn response.AuthResponse
	s.decode(rr, &loggedIn)
	s.Equal(registered.PlayerID, loggedIn.PlayerID)
}

func (s *APISuite) TestRegisterDuplicateUsername() {
	s.register("alice")

	rr := s.request(http.MethodPost, "/api/v1/accounts/register",
		map[string]string{"username": "alice", "password": "password123"}, "")
	s.Equal(http.StatusBadRequest, rr.Code)
	s.Equal(apierr.CodeUsernameTaken, s.errorCode(rr))
}

func (s *APISuite) TestRegisterPasswordTooLong() {
	rr := s.request(http.MethodPost, "/api/v1/accounts/register",
		map[string]string{"username": "alice", "password": strings.Repeat("a", 80)}, "")
	s.Equal(http.StatusBadRequest, rr.Code)
	s.Equal(apierr.CodePasswordTooLong, s.errorCode(rr))
}

func (s *APISuite) TestLoginWrongPassword() {
	s.register("alice")

	rr := s.request(http.MethodPost, "/api/v1/accounts/login",
		map[string]string{"username": "alice", "password": "wrong-password"}, "")
	s.Equal(http.StatusUnauthorized, rr.Code)
	s.Equal(apierr.CodeInvalidCredentials, s.errorCode(rr))
}

func (s *APISuite) TestProtectedRoutesRequireToken() {
	paths := []struct{ method, path string }{
		{http.MethodGet, "/api/v1/players/me"},
		{http.MethodGet, "/api/v1/difficulty"},
		{http.MethodPost, "/api/v1/games"},
		{http.MethodGet, "/api/v1/games/current"},
		{http.MethodGet, "/api/v1/leaderboard"},
	}
	for _, p := range paths {
		rr := s.request(p.method, p.path, nil, "")
		s.Equal(http.StatusUnauthorized, rr.Code, p.path)
	}

	rr := s.request(http.MethodGet, "/api/v1/players/me", nil, "not-a-token")
	s.Equal(http.StatusUnauthorized, rr.Code)
}

func (s *APISuite) TestCookieAuth() {
	token := s.register("alice")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/players/me", nil)
	req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: token})
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)

	s.Equal(http.StatusOK, rr.Code)
}

func (s *APISuite) TestProfileAndDifficulty() {
	token := s.register("alice")

	rr := s.request(http.MethodGet, "/api/v1/players/me", nil, token)
	s.Require().Equal(http.StatusOK, rr.Code)
	var profile response.Profile
	s.decode(rr, &profile)
	s.Equal(4, profile.Difficulty)
	s.Nil(profile.CurrentGame)

	rr = s.request(http.MethodPatch, "/api/v1/difficulty", map[string]int{"difficulty": 5}, token)
	s.Require().Equal(http.StatusOK, rr.Code)

	rr = s.request(http.MethodGet, "/api/v1/difficulty", nil, token)
	s.Require().Equal(http.StatusOK, rr.Code)
	var difficulty response.Difficulty
	s.decode(rr, &difficulty)
	s.Equal(5, difficulty.Difficulty)

	rr = s.request(http.MethodPatch, "/api/v1/difficulty", map[string]int{"difficulty": 9}, token)
	s.Equal(http.StatusBadRequest, rr.Code)
	s.Equal(apierr.CodeInvalidDifficulty, s.errorCode(rr))

	rr = s.request(http.MethodPatch, "/api/v1/difficulty", map[string]any{}, token)
	s.Equal(http.StatusBadRequest, rr.Code)
}

func (s *APISuite) TestNoCurrentGame() {
	token := s.register("alice")

	rr := s.request(http.MethodGet, "/api/v1/games/current", nil, token)
	s.Equal(http.StatusNotFound, rr.Code)
	s.Equal(apierr.CodeNoCurrentGame, s.errorCode(rr))
}

func (s *APISuite) TestPlayToWin() {
	token := s.register("alice")
	game := s.startGame(token, "GAME00000001", "1234")
	s.Equal("GAME00000001", game.ID)
	s.Equal("active", game.State)
	s.Empty(game.SecretNumber)
	s.Equal(10, game.RoundsLeft)

	s.app.MockClock.Advance(3 * time.Second)
	rr := s.request(http.MethodPost, "/api/v1/games/current/rounds", map[string]string{"guess": "1243"}, token)
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	var guess response.GuessResponse
	s.decode(rr, &guess)
	s.Equal(4, guess.Round.CorrectNumbers)
	s.Equal(2, guess.Round.CorrectPositions)
	s.Nil(guess.Result)

	// Same guess again
	rr = s.request(http.MethodPost, "/api/v1/games/current/rounds", map[string]string{"guess": "1243"}, token)
	s.Equal(http.StatusBadRequest, rr.Code)
	s.Equal(apierr.CodeDuplicateGuess, s.errorCode(rr))

	s.app.MockClock.Advance(2 * time.Second)
	rr = s.request(http.MethodPost, "/api/v1/games/current/rounds", map[string]string{"guess": "1234"}, token)
	s.Require().Equal(http.StatusCreated, rr.Code)
	s.decode(rr, &guess)
	s.Require().NotNil(guess.Result)
	s.Equal("W", *guess.Result)
	s.Equal("won", guess.Game.State)
	s.Equal("1234", guess.Game.SecretNumber)

	rr = s.request(http.MethodGet, "/api/v1/games/current/rounds", nil, token)
	s.Require().Equal(http.StatusOK, rr.Code)
	var rounds []response.Round
	s.decode(rr, &rounds)
	s.Require().Len(rounds, 2)
	s.Equal("1243", rounds[0].Guess)
	s.Equal("1234", rounds[1].Guess)

	rr = s.request(http.MethodPost, "/api/v1/games/current/rounds", map[string]string{"guess": "5670"}, token)
	s.Equal(http.StatusBadRequest, rr.Code)
	s.Equal(apierr.CodeGameOver, s.errorCode(rr))

	rr = s.request(http.MethodGet, "/api/v1/leaderboard", nil, token)
	s.Require().Equal(http.StatusOK, rr.Code)
	var totals response.LeaderboardTotals
	s.decode(rr, &totals)
	s.Equal(4, totals.Difficulty)
	s.Equal(1, totals.Wins)
	s.Equal(0, totals.Losses)
	s.Require().NotNil(totals.FastestTimeMS)
	s.Equal(int64(5000), *totals.FastestTimeMS)

	rr = s.request(http.MethodGet, "/api/v1/leaderboard/history", nil, token)
	s.Require().Equal(http.StatusOK, rr.Code)
	var history []response.LeaderboardEntry
	s.decode(rr, &history)
	s.Require().Len(history, 1)
	s.Equal("GAME00000001", history[0].GameID)
}

func (s *APISuite) TestInvalidGuesses() {
	token := s.register("alice")
	s.startGame(token, "GAME00000002", "1234")

	cases := map[string]string{
		"1234567": apierr.CodeGuessTooLong,
		"12a4":    apierr.CodeGuessNotDigits,
		"123":     apierr.CodeGuessLengthMismatch,
	}
	for guess, code := range cases {
		rr := s.request(http.MethodPost, "/api/v1/games/current/rounds", map[string]string{"guess": guess}, token)
		s.Equal(http.StatusBadRequest, rr.Code, guess)
		s.Equal(code, s.errorCode(rr), guess)
	}

	rr := s.request(http.MethodGet, "/api/v1/games/current", nil, token)
	s.Require().Equal(http.StatusOK, rr.Code)
	var game response.Game
	s.decode(rr, &game)
	s.Equal(0, game.Round)
}

func (s *APISuite) TestResume() {
	token := s.register("alice")
	s.startGame(token, "GAME00000003", "1234")

	s.app.MockClock.Advance(4 * time.Second)
	pausedAt := s.app.MockClock.Now()
	s.app.MockClock.Advance(time.Minute)

	rr := s.request(http.MethodPost, "/api/v1/games/current/resume",
		map[string]any{"paused_at": pausedAt.UnixMilli()}, token)
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())

	rr = s.request(http.MethodPost, "/api/v1/games/current/rounds", map[string]string{"guess": "1234"}, token)
	s.Require().Equal(http.StatusCreated, rr.Code)
	var guess response.GuessResponse
	s.decode(rr, &guess)
	s.Equal(int64(4000), guess.Game.TotalTimeMS)
}

func (s *APISuite) TestResumeRejectsBadTimestamps() {
	token := s.register("alice")
	s.startGame(token, "GAME00000004", "1234")

	future := s.app.MockClock.Now().Add(time.Hour)
	bodies := []map[string]any{
		{},
		{"paused_at": "yesterday"},
		{"paused_at": future.Format(time.RFC3339)},
		{"paused_at": strconv.Itoa(-5)},
	}
	for _, body := range bodies {
		rr := s.request(http.MethodPost, "/api/v1/games/current/resume", body, token)
		s.Equal(http.StatusBadRequest, rr.Code)
		s.Equal(apierr.CodeInvalidPauseTimestamp, s.errorCode(rr))
	}
}

func (s *APISuite) TestSecretGeneratorFailure() {
	token := s.register("alice")
	s.app.MockGenerator.Fail(assertErr("random.org unavailable"))

	rr := s.request(http.MethodPost, "/api/v1/games", nil, token)
	s.Equal(http.StatusBadGateway, rr.Code)
	s.Equal(apierr.CodeUpstreamFailure, s.errorCode(rr))

	// Nothing was started
	rr = s.request(http.MethodGet, "/api/v1/games/current", nil, token)
	s.Equal(http.StatusNotFound, rr.Code)
}

func (s *APISuite) TestLeaderboardDifficultyParam() {
	token := s.register("alice")

	rr := s.request(http.MethodGet, "/api/v1/leaderboard?difficulty=6", nil, token)
	s.Require().Equal(http.StatusOK, rr.Code)
	var totals response.LeaderboardTotals
	s.decode(rr, &totals)
	s.Equal(6, totals.Difficulty)
	s.Nil(totals.FastestTimeMS)

	rr = s.request(http.MethodGet, "/api/v1/leaderboard?difficulty=abc", nil, token)
	s.Equal(http.StatusBadRequest, rr.Code)

	rr = s.request(http.MethodGet, "/api/v1/leaderboard?difficulty=3", nil, token)
	s.Equal(http.StatusBadRequest, rr.Code)
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
