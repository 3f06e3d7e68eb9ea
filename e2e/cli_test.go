package e2e_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"

	"github.com/mmind/mastermind-go/internal/api"
	"github.com/mmind/mastermind-go/internal/cli"
	"github.com/mmind/mastermind-go/internal/factory"
)

// CLISuite drives the cobra commands against a real HTTP server backed by
// the in-memory store and mocked clock / secret generator
type CLISuite struct {
	suite.Suite
	app       *factory.TestApp
	server    *httptest.Server
	tokenFile string
}

func TestCLISuite(t *testing.T) {
	suite.Run(t, new(CLISuite))
}

func (s *CLISuite) SetupTest() {
	s.app = factory.NewTestApp()
	s.server = httptest.NewServer(api.NewRouter(api.RouterConfig{
		Logger:             zerolog.Nop(),
		AuthService:        s.app.AuthService,
		PlayerService:      s.app.PlayerService,
		GameController:     s.app.GameController,
		LeaderboardService: s.app.LeaderboardService,
	}))
	s.T().Cleanup(s.server.Close)
	s.tokenFile = filepath.Join(s.T().TempDir(), "token")
}

// run executes the CLI with JSON output and the suite's token file
func (s *CLISuite) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", s.server.URL,
		"--token-file", s.tokenFile,
		"--output", "json",
	}, args...)

	var out bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetArgs(fullArgs)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func (s *CLISuite) mustRun(v any, args ...string) {
	output, err := s.run(args...)
	s.Require().NoError(err, output)
	if v != nil {
		s.Require().NoError(json.Unmarshal([]byte(output), v), output)
	}
}

func (s *CLISuite) TestHealth() {
	var health cli.HealthResult
	s.mustRun(&health, "health")
	s.Equal("ok", health.Status)
}

func (s *CLISuite) TestRegisterSavesToken() {
	var auth cli.AuthResult
	s.mustRun(&auth, "account", "register", "--user", "alice", "--pass", "password123")
	s.Equal("alice", auth.Username)
	s.NotEmpty(auth.AccessToken)

	// The token file is picked up by the next command
	var profile cli.Profile
	s.mustRun(&profile, "account", "me")
	s.Equal(auth.PlayerID, profile.PlayerID)
	s.Equal(4, profile.Difficulty)
}

func (s *CLISuite) TestUnauthenticated() {
	_, err := s.run("game", "show")
	s.Require().Error(err)
	s.Contains(err.Error(), "UNAUTHORIZED")
}

func (s *CLISuite) TestFullGame() {
	s.mustRun(nil, "account", "register", "--user", "bob", "--pass", "password123")

	var difficulty cli.DifficultyResult
	s.mustRun(&difficulty, "difficulty", "set", "5")
	s.Equal(5, difficulty.Difficulty)

	s.app.MockRandom.QueueString("GAME0000CLI1")
	s.app.MockGenerator.QueueSecret("01234")

	var game cli.Game
	s.mustRun(&game, "game", "new")
	s.Equal("GAME0000CLI1", game.ID)
	s.Equal(5, game.Difficulty)

	s.app.MockClock.Advance(2 * time.Second)
	var guess cli.GuessResult
	s.mustRun(&guess, "game", "guess", "43210")
	s.Equal(5, guess.Round.CorrectNumbers)
	s.Equal(1, guess.Round.CorrectPositions)
	s.Nil(guess.Result)

	_, err := s.run("game", "guess", "43210")
	s.Require().Error(err)
	s.Contains(err.Error(), "DUPLICATE_GUESS")

	pausedAt := s.app.MockClock.Now()
	s.app.MockClock.Advance(time.Hour)
	s.mustRun(nil, "game", "resume", "--paused-at", strconv.FormatInt(pausedAt.UnixMilli(), 10))

	s.app.MockClock.Advance(time.Second)
	s.mustRun(&guess, "game", "guess", "01234")
	s.Require().NotNil(guess.Result)
	s.Equal("W", *guess.Result)
	s.Equal(int64(3000), guess.Game.TotalTimeMS)

	var rounds []cli.Round
	s.mustRun(&rounds, "game", "rounds")
	s.Len(rounds, 2)

	var totals cli.LeaderboardTotals
	s.mustRun(&totals, "leaderboard")
	s.Equal(5, totals.Difficulty)
	s.Equal(1, totals.Wins)

	s.mustRun(&totals, "leaderboard", "--difficulty", "4")
	s.Equal(4, totals.Difficulty)
	s.Equal(0, totals.Wins)

	var history []cli.LeaderboardEntry
	s.mustRun(&history, "leaderboard", "history")
	s.Require().Len(history, 1)
	s.Equal("GAME0000CLI1", history[0].GameID)
}

func (s *CLISuite) TestInvalidDifficulty() {
	s.mustRun(nil, "account", "register", "--user", "carol", "--pass", "password123")

	_, err := s.run("difficulty", "set", "7")
	s.Require().Error(err)
	s.Contains(err.Error(), "INVALID_DIFFICULTY")
}
