package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmind/mastermind-go/internal/dependencies/clock"
	"github.com/mmind/mastermind-go/internal/dependencies/random"
	"github.com/mmind/mastermind-go/internal/model"
	"github.com/mmind/mastermind-go/internal/storage"
)

// Session is the result of a successful register or login
type Session struct {
	Token     string
	PlayerID  model.PlayerID
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Config holds configuration for the auth service
type Config struct {
	// Secret signs tokens (HS256)
	Secret []byte

	TokenDuration time.Duration

	// BcryptCost defaults to bcrypt.DefaultCost
	BcryptCost int
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		Secret:        []byte("dev-secret-change-me"),
		TokenDuration: 24 * time.Hour,
		BcryptCost:    bcrypt.DefaultCost,
	}
}

// Service registers accounts, issues tokens and resolves them back to players
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  zerolog.Logger
	cfg     Config
}

// New creates a new auth Service
func New(storage storage.Storage, clock clock.Clock, random random.Random, cfg Config, logger zerolog.Logger) *Service {
	defaults := DefaultConfig()
	if len(cfg.Secret) == 0 {
		cfg.Secret = defaults.Secret
	}
	if cfg.TokenDuration == 0 {
		cfg.TokenDuration = defaults.TokenDuration
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = defaults.BcryptCost
	}
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
		cfg:     cfg,
	}
}

// Register creates an account with a default player profile and returns a session
func (s *Service) Register(ctx context.Context, username, password string) (*Session, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if len(password) < model.MinPasswordLength {
		return nil, model.ErrWeakPassword
	}
	if len(password) > model.MaxPasswordBytes {
		return nil, model.ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %w", model.ErrInternal, err)
	}

	playerID := model.PlayerID(s.random.NewID())
	now := s.clock.Now()

	account := &model.Account{
		PlayerID:     playerID,
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}

	if err := s.storage.CreateAccount(ctx, account, model.NewPlayerProfile(playerID, now)); err != nil {
		return nil, model.Upstream("create account", err)
	}

	s.logger.Info().
		Str("player_id", string(playerID)).
		Str("username", username).
		Msg("account registered")

	return s.issue(account)
}

// Login checks credentials and returns a session
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	if username == "" || password == "" {
		return nil, model.ErrMissingCredentials
	}

	account, err := s.storage.GetAccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, model.Upstream("get account", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return s.issue(account)
}

// Resolve turns a token into the caller's identity
func (s *Service) Resolve(ctx context.Context, token string) (*model.Identity, error) {
	if token == "" {
		return nil, model.ErrMissingCredentials
	}

	playerID, err := s.parse(token)
	if err != nil {
		return nil, err
	}

	account, err := s.storage.GetAccount(ctx, playerID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrInvalidToken
		}
		return nil, model.Upstream("get account", err)
	}

	profile, err := s.storage.GetProfile(ctx, playerID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrInvalidToken
		}
		return nil, model.Upstream("get profile", err)
	}

	return &model.Identity{
		PlayerID:    playerID,
		Username:    account.Username,
		Difficulty:  profile.Difficulty,
		CurrentGame: profile.CurrentGame,
	}, nil
}

// issue signs a token for the account
func (s *Service) issue(account *model.Account) (*Session, error) {
	now := s.clock.Now()
	expires := now.Add(s.cfg.TokenDuration)

	claims := jwt.RegisteredClaims{
		Subject:   string(account.PlayerID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.Secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &Session{
		Token:     token,
		PlayerID:  account.PlayerID,
		Username:  account.Username,
		IssuedAt:  now,
		ExpiresAt: expires,
	}, nil
}

// parse validates signature and expiry against the service clock
func (s *Service) parse(token string) (model.PlayerID, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", model.ErrInvalidToken
	}
	return model.PlayerID(claims.Subject), nil
}

// ValidateUsername accepts 3-150 characters of letters, digits and @.+-_
func ValidateUsername(username string) error {
	if len(username) < 3 || len(username) > 150 {
		return model.ErrInvalidUsername
	}
	for _, r := range username {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '@' || r == '.' || r == '+' || r == '-' || r == '_':
		default:
			return model.ErrInvalidUsername
		}
	}
	return nil
}
