package factory

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/mmind/mastermind-go/internal/config"
	"github.com/mmind/mastermind-go/internal/dependencies/clock"
	"github.com/mmind/mastermind-go/internal/dependencies/random"
	"github.com/mmind/mastermind-go/internal/dependencies/secretgen"
	"github.com/mmind/mastermind-go/internal/services/auth"
	"github.com/mmind/mastermind-go/internal/services/game"
	"github.com/mmind/mastermind-go/internal/services/leaderboard"
	"github.com/mmind/mastermind-go/internal/services/player"
	"github.com/mmind/mastermind-go/internal/services/scoring"
	"github.com/mmind/mastermind-go/internal/storage"
	"github.com/mmind/mastermind-go/internal/storage/memory"
	redisstorage "github.com/mmind/mastermind-go/internal/storage/redis"
	"github.com/mmind/mastermind-go/internal/storage/sqlstore"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock           clock.Clock
	Random          random.Random
	SecretGenerator secretgen.Generator

	// Services
	ScoringService     *scoring.Service
	GameController     *game.Controller
	PlayerService      *player.Service
	LeaderboardService *leaderboard.Service
	AuthService        *auth.Service
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// Zero fields fall back to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *zerolog.Logger
	// StorageType selects the storage backend (config.Storage*)
	// If empty, defaults to memory
	StorageType string
	// RedisConfig holds Redis connection settings (required for redis)
	RedisConfig *redisstorage.Config
	// SQLConfig holds SQL connection settings (required for postgres and sqlite)
	SQLConfig *sqlstore.Config
	// SecretSource selects the secret generator (config.SecretSource*)
	// If empty, defaults to local
	SecretSource string
	// RandomOrgConfig is used when SecretSource is randomorg
	RandomOrgConfig secretgen.RandomOrgConfig
	// HTTPClient is used for outbound calls (optional)
	HTTPClient *http.Client
}

// FromSettings translates loaded server settings into a factory config
func FromSettings(settings config.Config, logger zerolog.Logger) Config {
	cfg := Config{
		AuthConfig: auth.Config{
			Secret:        []byte(settings.JWTSecret),
			TokenDuration: settings.TokenTTL,
		},
		Logger:       &logger,
		StorageType:  settings.StorageType,
		SecretSource: settings.SecretSource,
		RandomOrgConfig: secretgen.RandomOrgConfig{
			BaseURL: settings.RandomOrgURL,
			Timeout: settings.SecretTimeout,
			Retries: settings.SecretRetries,
		},
	}

	switch settings.StorageType {
	case config.StorageRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = settings.RedisURL
		cfg.RedisConfig = &redisCfg
	case config.StoragePostgres, config.StorageSQLite:
		sqlCfg := sqlstore.DefaultConfig()
		sqlCfg.Driver = settings.StorageType
		sqlCfg.DSN = settings.DatabaseURL
		cfg.SQLConfig = &sqlCfg
	}

	return cfg
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	store, err := newStorage(cfg)
	if err != nil {
		return nil, err
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	var generator secretgen.Generator
	switch cfg.SecretSource {
	case "", config.SecretSourceLocal:
		generator = secretgen.NewLocal(rnd)
	case config.SecretSourceRandomOrg:
		generator = secretgen.NewRandomOrg(cfg.HTTPClient, cfg.RandomOrgConfig, logger.With().Str("component", "randomorg").Logger())
	default:
		_ = store.Close()
		return nil, fmt.Errorf("invalid SecretSource %q: must be 'local' or 'randomorg'", cfg.SecretSource)
	}

	return newWithDependencies(store, clk, rnd, generator, cfg.AuthConfig, logger), nil
}

func newStorage(cfg Config) (storage.Storage, error) {
	switch cfg.StorageType {
	case "", config.StorageMemory:
		return memory.New(), nil
	case config.StorageRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	case config.StoragePostgres, config.StorageSQLite:
		if cfg.SQLConfig == nil {
			return nil, fmt.Errorf("SQLConfig required when StorageType is %s", cfg.StorageType)
		}
		return sqlstore.New(*cfg.SQLConfig)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be memory, redis, postgres or sqlite", cfg.StorageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	generator secretgen.Generator,
	authCfg auth.Config,
	logger zerolog.Logger,
) *App {
	// Create services
	scoringService := scoring.New()
	gameController := game.NewController(store, scoringService, generator, clk, rnd, logger.With().Str("component", "game").Logger())
	playerService := player.New(store, clk, logger.With().Str("component", "player").Logger())
	leaderboardService := leaderboard.New(store)
	authService := auth.New(store, clk, rnd, authCfg, logger.With().Str("component", "auth").Logger())

	return &App{
		Storage:            store,
		Clock:              clk,
		Random:             rnd,
		SecretGenerator:    generator,
		ScoringService:     scoringService,
		GameController:     gameController,
		PlayerService:      playerService,
		LeaderboardService: leaderboardService,
		AuthService:        authService,
	}
}

// Close releases the storage backend
func (a *App) Close() error {
	return a.Storage.Close()
}
