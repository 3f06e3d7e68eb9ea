package secretgen_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"

	"github.com/mmind/mastermind-go/internal/dependencies/mocks"
	"github.com/mmind/mastermind-go/internal/dependencies/random"
	"github.com/mmind/mastermind-go/internal/dependencies/secretgen"
	"github.com/mmind/mastermind-go/internal/model"
)

type LocalSuite struct {
	suite.Suite
}

func TestLocalSuite(t *testing.T) {
	suite.Run(t, new(LocalSuite))
}

func (s *LocalSuite) TestGenerateWithCryptoRandom() {
	gen := secretgen.NewLocal(random.New())
	for length := model.MinDifficulty; length <= model.MaxDifficulty; length++ {
		secret, err := gen.Generate(context.Background(), length)
		s.Require().NoError(err)
		s.NoError(secretgen.Validate(secret, length))
	}
}

func (s *LocalSuite) TestGenerateRejectsBadRandomOutput() {
	rnd := mocks.NewMockRandom()
	rnd.QueueString("1289")
	gen := secretgen.NewLocal(rnd)

	_, err := gen.Generate(context.Background(), 4)
	s.ErrorIs(err, model.ErrInvalidSecret)
	s.ErrorIs(err, model.ErrUpstream)
}

func (s *LocalSuite) TestValidate() {
	s.NoError(secretgen.Validate("0707", 4))
	s.ErrorIs(secretgen.Validate("070", 4), model.ErrInvalidSecret)
	s.ErrorIs(secretgen.Validate("0708", 4), model.ErrInvalidSecret)
	s.ErrorIs(secretgen.Validate("07a7", 4), model.ErrInvalidSecret)
}

type RandomOrgSuite struct {
	suite.Suite
	calls   atomic.Int32
	handler http.HandlerFunc
	server  *httptest.Server
}

func TestRandomOrgSuite(t *testing.T) {
	suite.Run(t, new(RandomOrgSuite))
}

func (s *RandomOrgSuite) SetupTest() {
	s.calls.Store(0)
	s.handler = nil
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		s.handler(w, r)
	}))
}

func (s *RandomOrgSuite) TearDownTest() {
	s.server.Close()
}

func (s *RandomOrgSuite) generator(timeout time.Duration) *secretgen.RandomOrg {
	return secretgen.NewRandomOrg(s.server.Client(), secretgen.RandomOrgConfig{
		BaseURL: s.server.URL,
		Timeout: timeout,
		Retries: 1,
	}, zerolog.Nop())
}

func (s *RandomOrgSuite) TestGenerateParsesPlainResponse() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		s.Equal("5", q.Get("num"))
		s.Equal("0", q.Get("min"))
		s.Equal("7", q.Get("max"))
		s.Equal("plain", q.Get("format"))
		_, _ = w.Write([]byte("3\n0\n7\n1\n6\n"))
	}

	secret, err := s.generator(time.Second).Generate(context.Background(), 5)
	s.Require().NoError(err)
	s.Equal("30716", secret)
	s.Equal(int32(1), s.calls.Load())
}

func (s *RandomOrgSuite) TestRetriesOnceOnServerError() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		if s.calls.Load() == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("1\n2\n3\n4\n"))
	}

	secret, err := s.generator(time.Second).Generate(context.Background(), 4)
	s.Require().NoError(err)
	s.Equal("1234", secret)
	s.Equal(int32(2), s.calls.Load())
}

func (s *RandomOrgSuite) TestGivesUpAfterRetry() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}

	_, err := s.generator(time.Second).Generate(context.Background(), 4)
	s.ErrorIs(err, model.ErrUpstream)
	s.Equal(int32(2), s.calls.Load())
}

func (s *RandomOrgSuite) TestClientErrorIsNotRetried() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Error: quota exceeded", http.StatusForbidden)
	}

	_, err := s.generator(time.Second).Generate(context.Background(), 4)
	s.ErrorIs(err, model.ErrUpstream)
	s.Equal(int32(1), s.calls.Load())
}

func (s *RandomOrgSuite) TestMalformedBodyIsUpstreamFailure() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("1\n9\n3\n4\n"))
	}

	_, err := s.generator(time.Second).Generate(context.Background(), 4)
	s.ErrorIs(err, model.ErrInvalidSecret)
	s.ErrorIs(err, model.ErrUpstream)
	s.Equal(int32(1), s.calls.Load())
}

func (s *RandomOrgSuite) TestTimeoutIsRetriedThenFails() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}

	_, err := s.generator(20*time.Millisecond).Generate(context.Background(), 4)
	s.ErrorIs(err, model.ErrUpstream)
	s.Equal(int32(2), s.calls.Load())
}
