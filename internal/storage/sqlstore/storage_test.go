package sqlstore

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mmind/mastermind-go/internal/storage"
	"github.com/mmind/mastermind-go/internal/storage/storagetest"
)

func TestSQLiteStorageSuite(t *testing.T) {
	s := new(storagetest.Suite)
	s.NewStorage = func() storage.Storage {
		store, err := New(Config{Driver: DriverSQLite, DSN: ":memory:"})
		require.NoError(s.T(), err)
		return store
	}
	suite.Run(t, s)
}

// Runs against a real database when TEST_DATABASE_URL is set
func TestPostgresStorageSuite(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	s := new(storagetest.Suite)
	s.NewStorage = func() storage.Storage {
		store, err := New(Config{Driver: DriverPostgres, DSN: dsn})
		require.NoError(s.T(), err)
		require.NoError(s.T(), store.db.Exec("TRUNCATE accounts, player_profiles, games, rounds, leaderboard").Error)
		return store
	}
	suite.Run(t, s)
}

func TestConfigValidation(t *testing.T) {
	_, err := New(Config{Driver: "mysql", DSN: "x"})
	assert.Error(t, err)

	_, err = New(Config{Driver: DriverPostgres})
	assert.Error(t, err)

	assert.NoError(t, DefaultConfig().validate())
}
