package secretgen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mmind/mastermind-go/internal/model"
)

// DefaultRandomOrgURL is the random.org plain-text integer endpoint
const DefaultRandomOrgURL = "https://www.random.org/integers/"

// RandomOrgConfig holds the random.org client settings
type RandomOrgConfig struct {
	BaseURL string
	// Timeout bounds each attempt
	Timeout time.Duration
	// Retries is the number of extra attempts after a retryable failure
	Retries int
}

// DefaultRandomOrgConfig returns a config with one retry and a 5 second timeout
func DefaultRandomOrgConfig() RandomOrgConfig {
	return RandomOrgConfig{
		BaseURL: DefaultRandomOrgURL,
		Timeout: 5 * time.Second,
		Retries: 1,
	}
}

// RandomOrg fetches secrets from the random.org integer generator
type RandomOrg struct {
	client *http.Client
	config RandomOrgConfig
	logger zerolog.Logger
}

// NewRandomOrg creates a RandomOrg generator. A nil client uses http.DefaultClient.
func NewRandomOrg(client *http.Client, config RandomOrgConfig, logger zerolog.Logger) *RandomOrg {
	if client == nil {
		client = http.DefaultClient
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultRandomOrgURL
	}
	if config.Retries < 0 {
		config.Retries = 0
	}
	return &RandomOrg{client: client, config: config, logger: logger}
}

// retryableError marks failures worth a second attempt
type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// Generate requests length integers in [0,7], one per line
func (g *RandomOrg) Generate(ctx context.Context, length int) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= g.config.Retries; attempt++ {
		secret, err := g.fetch(ctx, length)
		if err == nil {
			return secret, nil
		}
		lastErr = err

		var retryable *retryableError
		if !errors.As(err, &retryable) || ctx.Err() != nil {
			break
		}
		g.logger.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Msg("random.org request failed")
	}
	return "", model.Upstream("random.org", lastErr)
}

func (g *RandomOrg) fetch(ctx context.Context, length int) (string, error) {
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.requestURL(length), nil)
	if err != nil {
		return "", err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", &retryableError{err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", &retryableError{err: err}
	}

	if resp.StatusCode >= 500 {
		return "", &retryableError{err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return parsePlain(string(body), length)
}

func (g *RandomOrg) requestURL(length int) string {
	q := url.Values{}
	q.Set("num", strconv.Itoa(length))
	q.Set("min", "0")
	q.Set("max", "7")
	q.Set("col", "1")
	q.Set("base", "10")
	q.Set("format", "plain")
	q.Set("rnd", "new")
	return g.config.BaseURL + "?" + q.Encode()
}

// parsePlain joins the newline separated integers of a plain response
func parsePlain(body string, length int) (string, error) {
	var b strings.Builder
	for _, field := range strings.Fields(body) {
		b.WriteString(field)
	}
	secret := b.String()
	if err := Validate(secret, length); err != nil {
		return "", err
	}
	return secret, nil
}

var _ Generator = (*RandomOrg)(nil)
