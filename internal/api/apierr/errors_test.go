package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmind/mastermind-go/internal/model"
)

func TestKindsMapToStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{model.ErrGameNotFound, http.StatusNotFound, CodeGameNotFound},
		{model.ErrNoCurrentGame, http.StatusNotFound, CodeNoCurrentGame},
		{model.ErrAccountNotFound, http.StatusNotFound, CodeNotFound},
		{model.ErrDuplicateGuess, http.StatusBadRequest, CodeDuplicateGuess},
		{model.ErrGuessTooLong, http.StatusBadRequest, CodeGuessTooLong},
		{model.ErrInvalidPauseTimestamp, http.StatusBadRequest, CodeInvalidPauseTimestamp},
		{model.ErrInvalidToken, http.StatusUnauthorized, CodeUnauthorized},
		{model.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
		{model.ErrPasswordTooLong, http.StatusBadRequest, CodePasswordTooLong},
		{model.ErrConcurrentUpdate, http.StatusConflict, CodeConflict},
		{model.Upstream("random.org", errors.New("timeout")), http.StatusBadGateway, CodeUpstreamFailure},
		{model.ErrInvalidSecret, http.StatusBadGateway, CodeUpstreamFailure},
		{errors.New("boom"), http.StatusInternalServerError, CodeInternalError},
		{fmt.Errorf("%w: hash password: %w", model.ErrInternal, errors.New("bad cost")), http.StatusInternalServerError, CodeInternalError},
		{NewInvalidRequestError("bad body"), http.StatusBadRequest, CodeInvalidRequest},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, fmt.Errorf("handler: %w", tc.err))

			assert.Equal(t, tc.status, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body.Error.Code)
			assert.NotEmpty(t, body.Error.Message)
		})
	}
}

func TestServerErrorsDoNotLeakCause(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, model.Upstream("store", errors.New("dial tcp 10.0.0.5:6379: refused")))

	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}
