package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mmind/mastermind-go/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest        = "INVALID_REQUEST"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeInvalidCredentials    = "INVALID_CREDENTIALS"
	CodeNotFound              = "NOT_FOUND"
	CodePlayerNotFound        = "PLAYER_NOT_FOUND"
	CodeGameNotFound          = "GAME_NOT_FOUND"
	CodeNoCurrentGame         = "NO_CURRENT_GAME"
	CodeGameOver              = "GAME_OVER"
	CodeGuessTooLong          = "GUESS_TOO_LONG"
	CodeGuessNotDigits        = "GUESS_NOT_DIGITS"
	CodeGuessLengthMismatch   = "GUESS_LENGTH_MISMATCH"
	CodeDuplicateGuess        = "DUPLICATE_GUESS"
	CodeInvalidPauseTimestamp = "INVALID_PAUSE_TIMESTAMP"
	CodeInvalidDifficulty     = "INVALID_DIFFICULTY"
	CodeUsernameTaken         = "USERNAME_TAKEN"
	CodeInvalidUsername       = "INVALID_USERNAME"
	CodeWeakPassword          = "WEAK_PASSWORD"
	CodePasswordTooLong       = "PASSWORD_TOO_LONG"
	CodeConflict              = "CONFLICT"
	CodeUpstreamFailure       = "UPSTREAM_FAILURE"
	CodeInternalError         = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// specific errors get their own code; checked in order before falling back
// to the error kind
var specific = []struct {
	err  error
	code string
}{
	{model.ErrPlayerNotFound, CodePlayerNotFound},
	{model.ErrGameNotFound, CodeGameNotFound},
	{model.ErrNoCurrentGame, CodeNoCurrentGame},
	{model.ErrGameOver, CodeGameOver},
	{model.ErrGuessTooLong, CodeGuessTooLong},
	{model.ErrGuessNotDigits, CodeGuessNotDigits},
	{model.ErrGuessLengthMismatch, CodeGuessLengthMismatch},
	{model.ErrDuplicateGuess, CodeDuplicateGuess},
	{model.ErrInvalidPauseTimestamp, CodeInvalidPauseTimestamp},
	{model.ErrInvalidDifficulty, CodeInvalidDifficulty},
	{model.ErrUsernameTaken, CodeUsernameTaken},
	{model.ErrInvalidUsername, CodeInvalidUsername},
	{model.ErrWeakPassword, CodeWeakPassword},
	{model.ErrPasswordTooLong, CodePasswordTooLong},
	{model.ErrInvalidCredentials, CodeInvalidCredentials},
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	status, code, message := kindOf(err)
	for _, s := range specific {
		if errors.Is(err, s.err) {
			code = s.code
			break
		}
	}
	return &httpError{status, APIError{code, message}}
}

// kindOf maps the error kind to a status and default code. Client errors
// carry their own message; server errors are not echoed back.
func kindOf(err error) (int, string, string) {
	switch {
	case errors.Is(err, model.ErrUpstream):
		return http.StatusBadGateway, CodeUpstreamFailure, "Upstream service failed"
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, CodeNotFound, err.Error()
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest, CodeInvalidRequest, err.Error()
	case errors.Is(err, model.ErrUnauthenticated):
		return http.StatusUnauthorized, CodeUnauthorized, err.Error()
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict, CodeConflict, err.Error()
	default:
		return http.StatusInternalServerError, CodeInternalError, "Internal server error"
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
