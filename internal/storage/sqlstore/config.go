package sqlstore

import "fmt"

// Supported SQL dialects
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds SQL connection settings
type Config struct {
	// Driver is DriverPostgres or DriverSQLite
	Driver string

	// DSN is a postgres connection string or a sqlite file path (":memory:" for tests)
	DSN string

	// Pool settings (postgres only; sqlite always uses a single connection)
	MaxOpenConns int
	MaxIdleConns int
}

// DefaultConfig returns a local sqlite configuration
func DefaultConfig() Config {
	return Config{
		Driver:       DriverSQLite,
		DSN:          "mastermind.db",
		MaxOpenConns: 10,
		MaxIdleConns: 2,
	}
}

func (c Config) validate() error {
	switch c.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unknown sql driver %q", c.Driver)
	}
	if c.DSN == "" {
		return fmt.Errorf("sql driver %s requires a DSN", c.Driver)
	}
	return nil
}
